package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/justyntemme/lfogo/pkg/dsp"
)

// BitDepth is the PCM depth WriteWAV encodes.
const BitDepth = 24

// ErrInvalidWAV is returned by ReadWAV for unreadable files.
var ErrInvalidWAV = errors.New("render: invalid wav file")

// WriteWAV encodes res as 24-bit PCM with ±10 V at full scale. Samples
// beyond the range are clipped.
func WriteWAV(w io.WriteSeeker, res *Result) error {
	channels := len(res.Channels)
	if channels == 0 {
		return fmt.Errorf("render: no channels to write")
	}
	frames := res.Frames()

	const peak = 1<<(BitDepth-1) - 1
	data := make([]int, frames*channels)
	for ch, samples := range res.Channels {
		for i, v := range samples {
			u := max(-1, min(1, float64(v)/dsp.MaxCV))
			data[i*channels+ch] = int(math.Round(u * peak))
		}
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  int(res.SampleRate),
		},
		Data:           data,
		SourceBitDepth: BitDepth,
	}

	const pcm = 1
	e := wav.NewEncoder(w, int(res.SampleRate), BitDepth, channels, pcm)
	if err := e.Write(buf); err != nil {
		return fmt.Errorf("render: encoding wav: %w", err)
	}
	if err := e.Close(); err != nil {
		return fmt.Errorf("render: closing wav encoder: %w", err)
	}
	return nil
}

// ReadWAV decodes a PCM WAV into volts per channel, full scale being ±10 V.
func ReadWAV(r io.ReadSeeker) (channels [][]float32, sampleRate float64, err error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, 0, ErrInvalidWAV
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}

	var peak float64
	switch buf.SourceBitDepth {
	case 8:
		peak = 0x7F
	case 16:
		peak = 0x7FFF
	case 24:
		peak = 0x7FFFFF
	case 32:
		peak = 0x7FFFFFFF
	default:
		return nil, 0, fmt.Errorf("%w: %d-bit samples", ErrInvalidWAV, buf.SourceBitDepth)
	}

	n := buf.Format.NumChannels
	if n < 1 {
		return nil, 0, fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}
	frames := len(buf.Data) / n

	channels = make([][]float32, n)
	for ch := range channels {
		channels[ch] = make([]float32, frames)
		for i := range channels[ch] {
			channels[ch][i] = float32(float64(buf.Data[i*n+ch]) / peak * dsp.MaxCV)
		}
	}
	return channels, float64(buf.Format.SampleRate), nil
}
