package models

import "encoding/json"

type Intent string

const (
	IntentMenuQuery Intent = "menu_query"
	IntentFAQQuery  Intent = "faq_query"
	IntentOther     Intent = "other"
)

// Valid reports whether the intent is one of the known variants.
func (i Intent) Valid() bool {
	switch i {
	case IntentMenuQuery, IntentFAQQuery, IntentOther:
		return true
	}
	return false
}

const (
	InfoPrice       = "price"
	ServiceDelivery = "delivery"
)

// Entities holds at most one value per slot. Empty slots are omitted on the wire.
type Entities struct {
	Diet    string `json:"diet,omitempty"`
	Info    string `json:"info,omitempty"`
	Service string `json:"service,omitempty"`
}

func (e Entities) IsEmpty() bool {
	return e.Diet == "" && e.Info == "" && e.Service == ""
}

// JSON renders the entities as a JSON object, "{}" when empty.
func (e Entities) JSON() string {
	data, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(data)
}

type NLPResult struct {
	Intent   Intent   `json:"intent"`
	Entities Entities `json:"entities"`
}

type PipelineResult struct {
	Transcription string   `json:"transcription"`
	Intent        Intent   `json:"intent"`
	Entities      Entities `json:"entities"`
	FAQMatches    []string `json:"faq_matches"`
	Response      string   `json:"response"`
}
