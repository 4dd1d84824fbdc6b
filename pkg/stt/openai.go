package stt

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

// localSizes are whisper model sizes accepted as model ids. The hosted API
// has a single whisper model, so these all resolve to the configured default.
var localSizes = map[string]bool{
	"tiny": true, "tiny.en": true,
	"base": true, "base.en": true,
	"small": true, "small.en": true,
	"medium": true, "medium.en": true,
	"large": true, "large-v1": true, "large-v2": true, "large-v3": true,
	"turbo": true,
}

// ResolveOpenAIModel maps a requested model id to a hosted transcription model.
func ResolveOpenAIModel(modelID, fallback string) string {
	id := strings.TrimSpace(modelID)
	if id == "" || localSizes[strings.ToLower(id)] {
		return fallback
	}
	return id
}

type OpenAITranscriber struct {
	client   openai.Client
	model    string
	language string
}

func NewOpenAITranscriber(client openai.Client, model, language string) *OpenAITranscriber {
	return &OpenAITranscriber{client: client, model: model, language: language}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Result{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(t.model),
	}
	if t.language != "" && t.language != "auto" {
		params.Language = openai.String(t.language)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("transcription request: %w", err)
	}

	lang := resp.Language
	if lang == "" {
		lang = t.language
	}
	return Result{Text: resp.Text, Language: lang}, nil
}

func (t *OpenAITranscriber) Close() error { return nil }
