package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"voicefaq/internal/dto"
	"voicefaq/internal/models"
)

type QueryLogStore interface {
	ListRecent(ctx context.Context, limit, offset int) ([]*models.QueryLog, error)
	Count(ctx context.Context) (int64, error)
}

type IndexPurger interface {
	Purge() int
}

type AdminHandler struct {
	logs    QueryLogStore
	indexes IndexPurger
	logger  *zap.Logger
}

func NewAdminHandler(logs QueryLogStore, indexes IndexPurger, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		logs:    logs,
		indexes: indexes,
		logger:  logger,
	}
}

// ListQueries godoc
// @Summary List served queries
// @Description Recent query logs, newest first
// @Tags admin
// @Produce json
// @Param limit query int false "Limit" default(50)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {object} dto.QueryLogListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/queries [get]
func (h *AdminHandler) ListQueries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := h.logs.ListRecent(c.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list query logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to list query logs",
		})
	}

	total, err := h.logs.Count(c.Context())
	if err != nil {
		h.logger.Error("Failed to count query logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to count query logs",
		})
	}

	items := make([]dto.QueryLogResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.NewQueryLogResponse(e))
	}

	return c.JSON(dto.QueryLogListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// PurgeIndexCache godoc
// @Summary Drop cached FAQ indexes
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.PurgeResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/index-cache/purge [post]
func (h *AdminHandler) PurgeIndexCache(c *fiber.Ctx) error {
	n := h.indexes.Purge()
	h.logger.Info("FAQ index cache purged", zap.Int("entries", n))
	return c.JSON(dto.PurgeResponse{Purged: n})
}
