package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// SampleRate16k is the rate whisper models expect.
const SampleRate16k = 16000

// Decode16k decodes a wav or mp3 file to mono float32 PCM at 16 kHz in [-1, 1].
func Decode16k(_ context.Context, path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, 12)
	n, _ := io.ReadFull(f, header)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch format := Sniff(header[:n]); format {
	case FormatWAV:
		return decodeWAV(f)
	case FormatMP3:
		return decodeMP3(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: wav, mp3)", format)
	}
}

func decodeWAV(r io.ReadSeeker) ([]float32, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if pb == nil || pb.Data == nil {
		return nil, errors.New("empty wav")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	x := intBufferToFloat32(pb, bitDepth)

	channels, rate := 1, 44100
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			channels = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			rate = pb.Format.SampleRate
		}
	}
	return resampleLinear(downmix(x, channels), rate, SampleRate16k), nil
}

func decodeMP3(r io.Reader) ([]float32, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return nil, err
	}

	samples := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()[:len(samples)*2]), binary.LittleEndian, samples); err != nil {
		return nil, err
	}
	x := make([]float32, len(samples))
	for i, s := range samples {
		x[i] = float32(s) / 32768
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	// go-mp3 always yields stereo
	return resampleLinear(downmix(x, 2), rate, SampleRate16k), nil
}

func intBufferToFloat32(buf *goaudio.IntBuffer, bitDepth int) []float32 {
	out := make([]float32, len(buf.Data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range buf.Data {
		out[i] = float32(math.Max(-1, math.Min(1, float64(v)*scale)))
	}
	return out
}

func downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	frames := len(in) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(in[i*channels+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

func resampleLinear(in []float32, inRate, outRate int) []float32 {
	if inRate == outRate || len(in) == 0 {
		return in
	}
	ratio := float64(outRate) / float64(inRate)
	n := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float32, n)
	for i := range out {
		src := float64(i) / ratio
		i0 := int(src)
		if i0 >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i0+1]*a
	}
	return out
}
