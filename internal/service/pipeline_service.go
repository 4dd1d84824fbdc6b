package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voicefaq/internal/models"
	"voicefaq/pkg/tts"
)

// QueryRecorder persists a served query. Failures are logged, never returned to the caller.
type QueryRecorder interface {
	Record(ctx context.Context, entry *models.QueryLog) error
}

type PipelineOptions struct {
	EmbeddingModel string
	SpeechLanguage string
}

type RunInput struct {
	AudioPath    string
	FAQTablePath string
	STTModel     string
	K            int
	FAQSource    models.FAQSource
}

type PipelineService struct {
	registry  *ModelRegistry
	indexes   *IndexCache
	knowledge *models.KnowledgeBase
	speaker   tts.Speaker
	recorder  QueryRecorder
	opts      PipelineOptions
	logger    *zap.Logger
}

func NewPipelineService(
	registry *ModelRegistry,
	indexes *IndexCache,
	knowledge *models.KnowledgeBase,
	speaker tts.Speaker,
	opts PipelineOptions,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		registry:  registry,
		indexes:   indexes,
		knowledge: knowledge,
		speaker:   speaker,
		opts:      opts,
		logger:    logger,
	}
}

// SetRecorder enables query logging.
func (s *PipelineService) SetRecorder(recorder QueryRecorder) {
	s.recorder = recorder
}

// Run transcribes the audio, classifies it, looks up the nearest FAQ rows,
// composes a reply and speaks it. Only the speech step may fail silently.
func (s *PipelineService) Run(ctx context.Context, in RunInput) (*models.PipelineResult, error) {
	if in.K < 1 {
		return nil, ErrInvalidK
	}
	started := time.Now()

	transcriber, err := s.registry.Transcriber(in.STTModel)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Transcribing audio", zap.String("audio", in.AudioPath), zap.String("model", in.STTModel))
	transcript, err := transcriber.Transcribe(ctx, in.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe audio: %w", err)
	}
	text := strings.TrimSpace(sanitizeUTF8(transcript.Text))
	s.logger.Debug("Transcription completed", zap.String("text", text))

	nlp := Extract(text)
	s.logger.Debug("Intent extracted",
		zap.String("intent", string(nlp.Intent)),
		zap.String("entities", nlp.Entities.JSON()),
	)

	index, err := s.index(ctx, in)
	if err != nil {
		return nil, err
	}
	matches, err := index.Matches(ctx, text, in.K)
	if err != nil {
		return nil, fmt.Errorf("failed to search FAQ: %w", err)
	}
	s.logger.Debug("FAQ search completed", zap.Int("k", in.K), zap.Strings("matches", matches))

	response, err := Compose(nlp, matches, s.knowledge)
	if err != nil {
		return nil, err
	}

	s.speak(ctx, response)

	result := &models.PipelineResult{
		Transcription: text,
		Intent:        nlp.Intent,
		Entities:      nlp.Entities,
		FAQMatches:    matches,
		Response:      response,
	}

	s.record(ctx, in, result, time.Since(started))

	s.logger.Info("Query answered",
		zap.String("intent", string(nlp.Intent)),
		zap.Int("faq_matches", len(matches)),
		zap.Duration("latency", time.Since(started)),
	)
	return result, nil
}

// index returns the FAQ index for the request. Uploaded tables are built
// fresh; the configured table is served from the cache.
func (s *PipelineService) index(ctx context.Context, in RunInput) (*FAQSearch, error) {
	if in.FAQSource == models.FAQSourceUpload {
		return s.indexes.Build(ctx, in.FAQTablePath, s.opts.EmbeddingModel)
	}
	return s.indexes.Get(ctx, in.FAQTablePath, s.opts.EmbeddingModel)
}

func (s *PipelineService) speak(ctx context.Context, text string) {
	if s.speaker == nil {
		return
	}
	if err := s.speaker.Speak(ctx, text, s.opts.SpeechLanguage); err != nil {
		err = fmt.Errorf("%w: %v", ErrSynthesis, err)
		s.logger.Warn("Speech output skipped", zap.Error(err))
	}
}

func (s *PipelineService) record(ctx context.Context, in RunInput, result *models.PipelineResult, latency time.Duration) {
	if s.recorder == nil {
		return
	}

	source := in.FAQSource
	if source == "" {
		source = models.FAQSourceDefault
	}
	entry := &models.QueryLog{
		ID:            uuid.New(),
		Transcription: result.Transcription,
		Intent:        result.Intent,
		Entities:      result.Entities,
		FAQMatches:    result.FAQMatches,
		Response:      result.Response,
		STTModel:      in.STTModel,
		K:             in.K,
		FAQSource:     source,
		LatencyMs:     latency.Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("Failed to record query", zap.Error(err))
	}
}
