// Package embedding turns text into fixed-dimension vectors.
package embedding

import (
	"context"
	"errors"
)

// Embedder maps each input string to one vector. For a fixed model the
// output is deterministic and every vector has the same dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// Factory creates an embedder for a model id.
type Factory func(modelID string) (Embedder, error)

// EmbedOne is a convenience wrapper for a single text.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	out, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, errors.New("embedder returned wrong number of vectors")
	}
	return out[0], nil
}
