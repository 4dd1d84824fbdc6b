// Package audio inspects and decodes uploaded recordings.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

type Format string

const (
	FormatUnknown Format = "unknown"
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatOgg     Format = "ogg"
	FormatFLAC    Format = "flac"
	FormatMP4     Format = "mp4"
	FormatWebM    Format = "webm"
)

// Info describes an audio file. Duration is zero when unknown; for mp3 it
// is found by decoding the whole stream.
type Info struct {
	Format     Format
	Size       int64
	SampleRate int
	Channels   int
	Duration   time.Duration
}

var ErrEmptyFile = errors.New("audio file is empty")

// Probe sniffs the container from the file header and reads the duration of wav and mp3 files.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, err
	}
	info := Info{Format: FormatUnknown, Size: st.Size()}
	if st.Size() == 0 {
		return info, ErrEmptyFile
	}

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return info, err
	}
	info.Format = Sniff(header[:n])

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return info, err
	}

	switch info.Format {
	case FormatWAV:
		dec := wav.NewDecoder(f)
		if !dec.IsValidFile() {
			return info, errors.New("invalid wav")
		}
		info.SampleRate = int(dec.SampleRate)
		info.Channels = int(dec.NumChans)
		if d, err := dec.Duration(); err == nil {
			info.Duration = d
		}
	case FormatMP3:
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return info, fmt.Errorf("invalid mp3: %w", err)
		}
		info.SampleRate = dec.SampleRate()
		info.Channels = 2
		if dec.SampleRate() > 0 && dec.Length() > 0 {
			// decoded stream is 16-bit stereo, 4 bytes per frame
			frames := dec.Length() / 4
			info.Duration = time.Duration(frames) * time.Second / time.Duration(dec.SampleRate())
		}
	}
	return info, nil
}

// Sniff identifies a container from its first bytes.
func Sniff(header []byte) Format {
	switch {
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(header, []byte("ID3")):
		return FormatMP3
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return FormatMP3
	case bytes.HasPrefix(header, []byte("OggS")):
		return FormatOgg
	case bytes.HasPrefix(header, []byte("fLaC")):
		return FormatFLAC
	case len(header) >= 8 && bytes.Equal(header[4:8], []byte("ftyp")):
		return FormatMP4
	case bytes.HasPrefix(header, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return FormatWebM
	}
	return FormatUnknown
}
