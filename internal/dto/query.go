package dto

import "voicefaq/internal/models"

type QueryResponse struct {
	Transcription string          `json:"transcription"`
	Intent        string          `json:"intent"`
	Entities      models.Entities `json:"entities" swaggertype:"object,string"`
	FAQMatches    []string        `json:"faq_matches"`
	Response      string          `json:"response"`
}

func NewQueryResponse(result *models.PipelineResult) QueryResponse {
	matches := result.FAQMatches
	if matches == nil {
		matches = []string{}
	}
	return QueryResponse{
		Transcription: result.Transcription,
		Intent:        string(result.Intent),
		Entities:      result.Entities,
		FAQMatches:    matches,
		Response:      result.Response,
	}
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
