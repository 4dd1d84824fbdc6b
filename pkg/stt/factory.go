package stt

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

const (
	ProviderOpenAI  = "openai"
	ProviderWhisper = "whisper"
)

type FactoryConfig struct {
	Provider     string
	Client       openai.Client
	DefaultModel string // hosted model used for local size ids
	Language     string
	ModelDir     string // directory holding ggml-<id>.bin files
}

// NewFactory returns a Factory for the configured provider.
func NewFactory(cfg FactoryConfig) (Factory, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		return func(modelID string) (Transcriber, error) {
			return NewOpenAITranscriber(cfg.Client, ResolveOpenAIModel(modelID, cfg.DefaultModel), cfg.Language), nil
		}, nil
	case ProviderWhisper:
		return func(modelID string) (Transcriber, error) {
			t, err := NewWhisperTranscriber(WhisperModelPath(cfg.ModelDir, modelID), cfg.Language)
			if err != nil {
				return nil, err
			}
			return t, nil
		}, nil
	}
	return nil, fmt.Errorf("unknown STT provider %q", cfg.Provider)
}

// ErrUnknownModel is returned for model ids the configured provider does not serve.
var ErrUnknownModel = errors.New("unknown transcription model")

// hostedModels are the transcription models the OpenAI backend accepts by name.
var hostedModels = map[string]bool{
	"whisper-1":              true,
	"gpt-4o-transcribe":      true,
	"gpt-4o-mini-transcribe": true,
}

// Resolver maps a requested model id to the id the backend actually loads.
// Ids that resolve to the same model share one canonical id.
type Resolver func(modelID string) (string, error)

// NewResolver accepts whisper size ids for both providers, plus hosted model
// names for openai. Everything else fails with ErrUnknownModel.
func NewResolver(cfg FactoryConfig) Resolver {
	return func(modelID string) (string, error) {
		id := strings.ToLower(strings.TrimSpace(modelID))
		switch cfg.Provider {
		case ProviderWhisper:
			if localSizes[id] {
				return id, nil
			}
		default:
			if id == "" || localSizes[id] {
				return cfg.DefaultModel, nil
			}
			if hostedModels[id] || id == strings.ToLower(cfg.DefaultModel) {
				return id, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, modelID)
	}
}

// WhisperModelPath returns the ggml model file for a size id like "base".
func WhisperModelPath(dir, modelID string) string {
	return filepath.Join(dir, "ggml-"+filepath.Base(modelID)+".bin")
}
