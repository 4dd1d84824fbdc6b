package service

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"voicefaq/pkg/embedding"
	"voicefaq/pkg/stt"
)

// ModelRegistry loads transcription and embedding backends on first use and
// hands out the same instance for every later request with the same model id.
// It is created once per process and closed on shutdown.
type ModelRegistry struct {
	newTranscriber stt.Factory
	newEmbedder    embedding.Factory
	resolve        stt.Resolver
	logger         *zap.Logger

	mu           sync.Mutex
	transcribers map[string]stt.Transcriber
	embedders    map[string]embedding.Embedder
}

func NewModelRegistry(newTranscriber stt.Factory, newEmbedder embedding.Factory, logger *zap.Logger) *ModelRegistry {
	return &ModelRegistry{
		newTranscriber: newTranscriber,
		newEmbedder:    newEmbedder,
		logger:         logger,
		transcribers:   make(map[string]stt.Transcriber),
		embedders:      make(map[string]embedding.Embedder),
	}
}

// SetTranscriberResolver makes the registry key transcribers by canonical id
// and refuse ids the resolver rejects. Without one, ids are used as given.
func (r *ModelRegistry) SetTranscriberResolver(resolve stt.Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolve = resolve
}

func (r *ModelRegistry) Transcriber(modelID string) (stt.Transcriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolve != nil {
		resolved, err := r.resolve(modelID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		}
		modelID = resolved
	}

	if t, ok := r.transcribers[modelID]; ok {
		return t, nil
	}
	if r.newTranscriber == nil {
		return nil, fmt.Errorf("%w: no transcription backend configured", ErrModelUnavailable)
	}

	t, err := r.newTranscriber(modelID)
	if err != nil {
		return nil, fmt.Errorf("%w: transcription model %q: %v", ErrModelUnavailable, modelID, err)
	}
	r.transcribers[modelID] = t
	r.logger.Info("Transcription model loaded", zap.String("model", modelID))
	return t, nil
}

func (r *ModelRegistry) Embedder(modelID string) (embedding.Embedder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.embedders[modelID]; ok {
		return e, nil
	}
	if r.newEmbedder == nil {
		return nil, fmt.Errorf("%w: no embedding backend configured", ErrModelUnavailable)
	}

	e, err := r.newEmbedder(modelID)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding model %q: %v", ErrModelUnavailable, modelID, err)
	}
	r.embedders[modelID] = e
	r.logger.Info("Embedding model loaded", zap.String("model", modelID))
	return e, nil
}

// Close releases every loaded transcriber. The registry is empty afterwards.
func (r *ModelRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, t := range r.transcribers {
		if err := t.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close transcriber %q: %w", id, err))
		}
	}
	r.transcribers = make(map[string]stt.Transcriber)
	r.embedders = make(map[string]embedding.Embedder)
	return errors.Join(errs...)
}
