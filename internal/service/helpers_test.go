package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voicefaq/pkg/embedding"
	"voicefaq/pkg/stt"
)

const testEmbeddingModel = "hash-test"

const sampleFAQ = `question,answer,category
What time do you open?,We open at 8 AM.,hours
Do you deliver?,Yes we deliver within 5 miles.,delivery
Is there parking?,,location
Can I book a table?,Call us to make a reservation.,booking
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type fakeTranscriber struct {
	text   string
	err    error
	closed bool
}

func (f *fakeTranscriber) Transcribe(context.Context, string) (stt.Result, error) {
	if f.err != nil {
		return stt.Result{}, f.err
	}
	return stt.Result{Text: f.text}, nil
}

func (f *fakeTranscriber) Close() error {
	f.closed = true
	return nil
}

type countingEmbedder struct {
	embedding.Embedder
	mu    sync.Mutex
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.Embedder.Embed(ctx, texts)
}

func (c *countingEmbedder) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type failingEmbedder struct{}

func (failingEmbedder) Model() string { return "broken" }

func (failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("model weights not found")
}

func hashEmbedderFactory(modelID string) (embedding.Embedder, error) {
	return embedding.NewHashEmbedder(modelID, 256), nil
}

func newTestRegistry(transcriber stt.Transcriber) *ModelRegistry {
	return NewModelRegistry(
		func(string) (stt.Transcriber, error) { return transcriber, nil },
		hashEmbedderFactory,
		zap.NewNop(),
	)
}
