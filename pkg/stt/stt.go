// Package stt converts recorded speech into text.
package stt

import "context"

type Segment struct {
	Text     string
	StartSec float64
	EndSec   float64
}

type Result struct {
	Text     string
	Segments []Segment
	Language string // detected or forced
}

// Transcriber turns an audio file into text. Implementations must accept
// the common containers (wav, mp3, ogg, m4a, webm).
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Result, error)
	Close() error
}

// Factory loads a transcriber for a model id such as "base" or "whisper-1".
type Factory func(modelID string) (Transcriber, error)
