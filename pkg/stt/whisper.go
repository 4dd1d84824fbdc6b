//go:build whisper

package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"voicefaq/pkg/audio"
)

// LocalAvailable reports whether this binary was built with whisper.cpp support.
const LocalAvailable = true

// WhisperTranscriber runs a local whisper.cpp model. One model may serve
// many requests but whisper contexts are not shared, so calls are serialised.
type WhisperTranscriber struct {
	model    whisper.Model
	language string
	threads  int

	mu sync.Mutex
}

func NewWhisperTranscriber(modelPath, language string) (*WhisperTranscriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if language == "" {
		language = "auto"
	}
	return &WhisperTranscriber{model: m, language: language, threads: runtime.NumCPU()}, nil
}

func (t *WhisperTranscriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	pcm, err := audio.Decode16k(ctx, audioPath)
	if err != nil {
		return Result{}, fmt.Errorf("decode audio: %w", err)
	}
	if len(pcm) == 0 {
		return Result{}, errors.New("no audio samples provided")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	wctx, err := t.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("new context: %w", err)
	}
	if err := wctx.SetLanguage(t.language); err != nil {
		return Result{}, fmt.Errorf("set language: %w", err)
	}
	wctx.SetThreads(uint(t.threads))

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("process: %w", err)
	}

	var (
		segs  []Segment
		texts []string
	)
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("next segment: %w", err)
		}
		segs = append(segs, Segment{
			Text:     s.Text,
			StartSec: s.Start.Seconds(),
			EndSec:   s.End.Seconds(),
		})
		texts = append(texts, strings.TrimSpace(s.Text))
	}

	lang := wctx.DetectedLanguage()
	if lang == "" {
		lang = wctx.Language()
	}
	return Result{Text: strings.Join(texts, " "), Segments: segs, Language: lang}, nil
}
