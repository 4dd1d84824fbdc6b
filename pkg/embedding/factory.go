package embedding

import (
	"fmt"

	openai "github.com/openai/openai-go/v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderHash   = "hash"
)

type FactoryConfig struct {
	Provider   string
	Client     openai.Client
	Dimensions int
	RateLimit  int // requests per second, 0 = unlimited
	CacheMB    int // 0 disables the vector cache
}

// NewFactory returns a Factory for the configured provider. Every embedder
// it creates is wrapped in a CachedEmbedder when CacheMB > 0.
func NewFactory(cfg FactoryConfig) (Factory, error) {
	var build Factory
	switch cfg.Provider {
	case ProviderOpenAI, "":
		limiter := NewLimiter(cfg.RateLimit)
		build = func(modelID string) (Embedder, error) {
			return NewOpenAIEmbedder(cfg.Client, modelID, limiter), nil
		}
	case ProviderHash:
		build = func(modelID string) (Embedder, error) {
			return NewHashEmbedder(modelID, cfg.Dimensions), nil
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	if cfg.CacheMB <= 0 {
		return build, nil
	}
	return func(modelID string) (Embedder, error) {
		e, err := build(modelID)
		if err != nil {
			return nil, err
		}
		return NewCachedEmbedder(e, cfg.CacheMB, 0), nil
	}, nil
}
