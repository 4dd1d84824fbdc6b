package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FilePlayer stores each clip as <uuid>.<format> in a directory.
type FilePlayer struct {
	dir string
}

func NewFilePlayer(dir string) (*FilePlayer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create speech dir: %w", err)
	}
	return &FilePlayer{dir: dir}, nil
}

func (p *FilePlayer) Play(_ context.Context, audio []byte, format string) error {
	if len(audio) == 0 {
		return ErrEmptyAudio
	}
	path := filepath.Join(p.dir, uuid.NewString()+"."+format)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("write speech file: %w", err)
	}
	return nil
}

// CommandPlayer writes the clip to a temp file and runs an external player
// with the file path as its last argument.
type CommandPlayer struct {
	name string
	args []string
}

func NewCommandPlayer(command string) (*CommandPlayer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("empty player command")
	}
	return &CommandPlayer{name: fields[0], args: fields[1:]}, nil
}

func (p *CommandPlayer) Play(ctx context.Context, audio []byte, format string) error {
	if len(audio) == 0 {
		return ErrEmptyAudio
	}

	tmp, err := os.CreateTemp("", "speech-*."+format)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	args := append(append([]string{}, p.args...), path)
	cmd := exec.CommandContext(ctx, p.name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", p.name, err, msg)
		}
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return nil
}
