package embedding

import (
	"context"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"voicefaq/pkg/vector"
)

// HashEmbedder is a local feature-hashing embedder. Lower-cased word tokens
// and their character trigrams are hashed into signed buckets and the result
// is L2-normalised. It needs no model files or network access.
type HashEmbedder struct {
	model      string
	dimensions int
}

func NewHashEmbedder(model string, dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{model: model, dimensions: dimensions}
}

func (h *HashEmbedder) Model() string { return h.model }

func (h *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = h.embed(text)
	}
	return out, nil
}

func (h *HashEmbedder) embed(text string) []float32 {
	v := make([]float32, h.dimensions)
	for _, token := range tokenize(text) {
		h.add(v, "w:"+token, 1)
		padded := "#" + token + "#"
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			h.add(v, "g:"+string(runes[i:i+3]), 0.5)
		}
	}
	return vector.Normalize(v)
}

func (h *HashEmbedder) add(v []float32, feature string, weight float32) {
	sum := xxhash.Sum64String(feature)
	bucket := sum % uint64(h.dimensions)
	if sum>>63 == 1 {
		weight = -weight
	}
	v[bucket] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
