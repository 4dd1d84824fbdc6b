package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"voicefaq/internal/dto"
	"voicefaq/internal/models"
	"voicefaq/internal/service"
	"voicefaq/pkg/audio"
	"voicefaq/pkg/stt"
)

const defaultWhisperModel = "base"

// Pipeline answers one spoken query.
type Pipeline interface {
	Run(ctx context.Context, in service.RunInput) (*models.PipelineResult, error)
}

type QueryHandler struct {
	pipeline        Pipeline
	resolveModel    stt.Resolver
	defaultFAQTable string
	defaultK        int
	probe           func(path string) (audio.Info, error)
	logger          *zap.Logger
}

// NewQueryHandler serves queries through pipeline. whisper_model values that
// resolveModel rejects are answered with 400; a nil resolver accepts any id.
func NewQueryHandler(pipeline Pipeline, resolveModel stt.Resolver, defaultFAQTable string, defaultK int, logger *zap.Logger) *QueryHandler {
	if defaultK < 1 {
		defaultK = 3
	}
	return &QueryHandler{
		pipeline:        pipeline,
		resolveModel:    resolveModel,
		defaultFAQTable: defaultFAQTable,
		defaultK:        defaultK,
		probe:           audio.Probe,
		logger:          logger,
	}
}

// Health godoc
// @Summary Health check
// @Description Returns 200 while the service is alive
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *QueryHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok"})
}

// Query godoc
// @Summary Answer a spoken question
// @Description Transcribes the audio, detects intent, searches the FAQ table and composes a reply.
// @Description Without a faq upload the server's default table is used.
// @Tags query
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file (wav, mp3, ...)"
// @Param faq formData file false "FAQ CSV with question and answer columns"
// @Param whisper_model formData string false "Whisper model size (tiny, base, small...)" default(base)
// @Param k formData int false "Number of top FAQ matches" default(3)
// @Success 200 {object} dto.QueryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /query [post]
func (h *QueryHandler) Query(c *fiber.Ctx) error {
	audioFile, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "audio file is required",
		})
	}

	k := h.defaultK
	if raw := strings.TrimSpace(c.FormValue("k")); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil || k < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "k must be a positive integer",
			})
		}
	}

	sttModel := strings.TrimSpace(c.FormValue("whisper_model"))
	if sttModel == "" {
		sttModel = defaultWhisperModel
	}
	if h.resolveModel != nil {
		if _, err := h.resolveModel(sttModel); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
	}

	audioPath, err := saveUpload(audioFile, "voicefaq-audio-*"+filepath.Ext(audioFile.Filename))
	if err != nil {
		h.logger.Error("Failed to store uploaded audio", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	defer h.remove(audioPath)

	faqPath := h.defaultFAQTable
	source := models.FAQSourceDefault
	if faqFile, err := c.FormFile("faq"); err == nil {
		faqPath, err = saveUpload(faqFile, "voicefaq-faq-*.csv")
		if err != nil {
			h.logger.Error("Failed to store uploaded FAQ table", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		defer h.remove(faqPath)
		source = models.FAQSourceUpload
	}

	h.logAudio(audioPath, audioFile.Filename)

	result, err := h.pipeline.Run(c.Context(), service.RunInput{
		AudioPath:    audioPath,
		FAQTablePath: faqPath,
		STTModel:     sttModel,
		K:            k,
		FAQSource:    source,
	})
	if err != nil {
		h.logger.Error("Pipeline failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.NewQueryResponse(result))
}

// logAudio describes the upload at debug level. Probing can decode the
// whole stream, so it is skipped unless debug logging is on.
func (h *QueryHandler) logAudio(path, filename string) {
	if !h.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	info, err := h.probe(path)
	if err != nil {
		h.logger.Debug("Audio probe failed", zap.String("file", filename), zap.Error(err))
		return
	}
	h.logger.Debug("Audio received",
		zap.String("file", filename),
		zap.String("format", string(info.Format)),
		zap.Int64("size", info.Size),
		zap.Duration("duration", info.Duration),
	)
}

func (h *QueryHandler) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		h.logger.Warn("Failed to remove temp file", zap.String("path", path), zap.Error(err))
	}
}

// saveUpload copies a multipart file into a new temp file and returns its path.
func saveUpload(fh *multipart.FileHeader, pattern string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return dst.Name(), nil
}
