//go:build !whisper

package stt

import (
	"context"
	"errors"
)

const LocalAvailable = false

var errNoWhisper = errors.New("local whisper support not compiled in, rebuild with -tags whisper")

type WhisperTranscriber struct{}

func NewWhisperTranscriber(string, string) (*WhisperTranscriber, error) {
	return nil, errNoWhisper
}

func (t *WhisperTranscriber) Transcribe(context.Context, string) (Result, error) {
	return Result{}, errNoWhisper
}

func (t *WhisperTranscriber) Close() error { return nil }
