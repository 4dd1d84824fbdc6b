// Package bootstrap assembles the query pipeline from configuration. Both the
// HTTP server and the batch CLI use it.
package bootstrap

import (
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"voicefaq/internal/models"
	"voicefaq/internal/service"
	"voicefaq/pkg/config"
	"voicefaq/pkg/embedding"
	"voicefaq/pkg/proxy"
	"voicefaq/pkg/stt"
	"voicefaq/pkg/tts"
)

type Components struct {
	// ResolveSTTModel validates request-supplied transcription model ids.
	ResolveSTTModel stt.Resolver

	Registry  *service.ModelRegistry
	Indexes   *service.IndexCache
	Knowledge *models.KnowledgeBase
	Pipeline  *service.PipelineService
}

// NewOpenAIClient builds the API client shared by transcription, embeddings
// and speech. SDK retries are off: each call is attempted once.
func NewOpenAIClient(cfg *config.OpenAIConfig) (openai.Client, error) {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Proxy != "" {
		httpClient, err := proxy.NewSocksClient(cfg.Proxy)
		if err != nil {
			return openai.Client{}, fmt.Errorf("failed to create proxy client: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return openai.NewClient(opts...), nil
}

// Build loads the knowledge base and wires the model registry, index cache,
// speaker and pipeline. It fails when the knowledge base is unusable.
func Build(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	kb, err := service.LoadKnowledgeBase(cfg.Data.KnowledgeBasePath)
	if err != nil {
		return nil, err
	}
	logger.Info("Knowledge base loaded",
		zap.String("path", cfg.Data.KnowledgeBasePath),
		zap.Int("menu_categories", len(kb.Menu)),
		zap.Int("faq_topics", len(kb.FAQ)),
	)

	client, err := NewOpenAIClient(&cfg.OpenAI)
	if err != nil {
		return nil, err
	}
	if cfg.OpenAI.APIKey == "" && usesOpenAI(cfg) {
		logger.Warn("OPENAI_API_KEY is not set, hosted model calls will fail")
	}

	sttConfig := stt.FactoryConfig{
		Provider:     cfg.STT.Provider,
		Client:       client,
		DefaultModel: cfg.OpenAI.TranscriptionModel,
		Language:     cfg.STT.Language,
		ModelDir:     cfg.STT.WhisperModelDir,
	}
	newTranscriber, err := stt.NewFactory(sttConfig)
	if err != nil {
		return nil, err
	}
	if cfg.STT.Provider == stt.ProviderWhisper && !stt.LocalAvailable {
		logger.Warn("STT_PROVIDER=whisper but this binary was built without the whisper tag")
	}

	newEmbedder, err := embedding.NewFactory(embedding.FactoryConfig{
		Provider:   cfg.Embedding.Provider,
		Client:     client,
		Dimensions: cfg.Embedding.Dimensions,
		RateLimit:  cfg.OpenAI.RateLimit,
		CacheMB:    cfg.Embedding.CacheMB,
	})
	if err != nil {
		return nil, err
	}

	speaker, err := tts.New(tts.Config{
		Provider:  cfg.Speech.Provider,
		Client:    client,
		Model:     cfg.OpenAI.SpeechModel,
		Voice:     cfg.OpenAI.SpeechVoice,
		Player:    cfg.Speech.Player,
		OutputDir: cfg.Speech.OutputDir,
		Command:   cfg.Speech.PlayerCmd,
	})
	if err != nil {
		return nil, err
	}

	resolveSTTModel := stt.NewResolver(sttConfig)
	registry := service.NewModelRegistry(newTranscriber, newEmbedder, logger.Named("models"))
	registry.SetTranscriberResolver(resolveSTTModel)
	indexes := service.NewIndexCache(registry, cfg.Data.IndexCacheSize, logger.Named("index"))
	pipeline := service.NewPipelineService(
		registry,
		indexes,
		kb,
		speaker,
		service.PipelineOptions{
			EmbeddingModel: cfg.Embedding.Model,
			SpeechLanguage: cfg.Speech.Language,
		},
		logger.Named("pipeline"),
	)

	return &Components{
		ResolveSTTModel: resolveSTTModel,
		Registry:        registry,
		Indexes:         indexes,
		Knowledge:       kb,
		Pipeline:        pipeline,
	}, nil
}

func (c *Components) Close() error {
	return c.Registry.Close()
}

func usesOpenAI(cfg *config.Config) bool {
	return cfg.STT.Provider == stt.ProviderOpenAI ||
		cfg.Embedding.Provider == embedding.ProviderOpenAI ||
		cfg.Speech.Provider == tts.ProviderOpenAI
}
