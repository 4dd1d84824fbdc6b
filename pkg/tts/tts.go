// Package tts speaks composed replies.
package tts

import (
	"context"
	"errors"
)

var ErrEmptyAudio = errors.New("speech backend returned no audio")

// Speaker renders text as audible speech. Playback is a side effect; callers
// treat failures as non-fatal.
type Speaker interface {
	Speak(ctx context.Context, text, lang string) error
}

// Player consumes synthesized audio.
type Player interface {
	Play(ctx context.Context, audio []byte, format string) error
}

// Nop discards every request.
type Nop struct{}

func (Nop) Speak(context.Context, string, string) error { return nil }
