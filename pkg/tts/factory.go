package tts

import (
	"fmt"

	openai "github.com/openai/openai-go/v3"
)

const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"

	PlayerFile    = "file"
	PlayerCommand = "command"
)

type Config struct {
	Provider  string
	Client    openai.Client
	Model     string
	Voice     string
	Player    string
	OutputDir string
	Command   string
}

// New builds the configured speaker. Provider "none" yields a Nop speaker.
func New(cfg Config) (Speaker, error) {
	switch cfg.Provider {
	case ProviderNone, "":
		return Nop{}, nil
	case ProviderOpenAI:
		player, err := NewPlayer(cfg.Player, cfg.OutputDir, cfg.Command)
		if err != nil {
			return nil, err
		}
		return NewOpenAISpeaker(cfg.Client, cfg.Model, cfg.Voice, player), nil
	}
	return nil, fmt.Errorf("unknown TTS provider %q", cfg.Provider)
}

func NewPlayer(kind, outputDir, command string) (Player, error) {
	switch kind {
	case PlayerFile, "":
		return NewFilePlayer(outputDir)
	case PlayerCommand:
		return NewCommandPlayer(command)
	}
	return nil, fmt.Errorf("unknown speech player %q", kind)
}
