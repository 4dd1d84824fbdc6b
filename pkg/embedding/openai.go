package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"golang.org/x/time/rate"
)

// maxBatch is the API limit on inputs per embeddings request.
const maxBatch = 2048

type OpenAIEmbedder struct {
	client  openai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAIEmbedder wraps an OpenAI client. A nil limiter disables rate limiting.
func NewOpenAIEmbedder(client openai.Client, model string, limiter *rate.Limiter) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, model: model, limiter: limiter}
}

// NewLimiter returns a limiter allowing perSecond requests, or nil when perSecond <= 0.
func NewLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}

func (e *OpenAIEmbedder) Model() string { return e.model }

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))
		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	input := make([]string, len(texts))
	for i, t := range texts {
		// the API rejects empty strings
		if strings.TrimSpace(t) == "" {
			t = " "
		}
		input[i] = t
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: input},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.New("embeddings response size does not match input")
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		v := make([]float32, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float32(x)
		}
		out[d.Index] = v
	}
	return out, nil
}
