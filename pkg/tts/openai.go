package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"

	openai "github.com/openai/openai-go/v3"
)

// maxInputChars is the speech API's input limit.
const maxInputChars = 4096

type OpenAISpeaker struct {
	client openai.Client
	model  string
	voice  string
	player Player
}

func NewOpenAISpeaker(client openai.Client, model, voice string, player Player) *OpenAISpeaker {
	return &OpenAISpeaker{client: client, model: model, voice: voice, player: player}
}

// Speak synthesizes mp3 audio and hands it to the player. The API infers
// the spoken language from the text, so lang is not sent.
func (s *OpenAISpeaker) Speak(ctx context.Context, text, _ string) error {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) > maxInputChars {
		text = string(runes[:maxInputChars])
	}

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(s.model),
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speech request: unexpected status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read speech audio: %w", err)
	}
	if len(audio) == 0 {
		return ErrEmptyAudio
	}

	return s.player.Play(ctx, audio, "mp3")
}
