package models

import (
	"time"

	"github.com/google/uuid"
)

type FAQSource string

const (
	FAQSourceDefault FAQSource = "default"
	FAQSourceUpload  FAQSource = "upload"
)

type QueryLog struct {
	ID            uuid.UUID `db:"id"`
	Transcription string    `db:"transcription"`
	Intent        Intent    `db:"intent"`
	Entities      Entities  `db:"entities"`    // stored as JSONB
	FAQMatches    []string  `db:"faq_matches"` // stored as JSONB
	Response      string    `db:"response"`
	STTModel      string    `db:"stt_model"`
	K             int       `db:"k"`
	FAQSource     FAQSource `db:"faq_source"`
	LatencyMs     int64     `db:"latency_ms"`
	CreatedAt     time.Time `db:"created_at"`
}
