package dto

import (
	"time"

	"voicefaq/internal/models"
)

type QueryLogResponse struct {
	ID            string          `json:"id"`
	Transcription string          `json:"transcription"`
	Intent        string          `json:"intent"`
	Entities      models.Entities `json:"entities" swaggertype:"object,string"`
	FAQMatches    []string        `json:"faq_matches"`
	Response      string          `json:"response"`
	STTModel      string          `json:"stt_model"`
	K             int             `json:"k"`
	FAQSource     string          `json:"faq_source"`
	LatencyMs     int64           `json:"latency_ms"`
	CreatedAt     string          `json:"created_at"`
}

type QueryLogListResponse struct {
	Items  []QueryLogResponse `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type PurgeResponse struct {
	Purged int `json:"purged"`
}

func NewQueryLogResponse(entry *models.QueryLog) QueryLogResponse {
	matches := entry.FAQMatches
	if matches == nil {
		matches = []string{}
	}
	return QueryLogResponse{
		ID:            entry.ID.String(),
		Transcription: entry.Transcription,
		Intent:        string(entry.Intent),
		Entities:      entry.Entities,
		FAQMatches:    matches,
		Response:      entry.Response,
		STTModel:      entry.STTModel,
		K:             entry.K,
		FAQSource:     string(entry.FAQSource),
		LatencyMs:     entry.LatencyMs,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
}
