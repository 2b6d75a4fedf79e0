package playback

import (
	"encoding/binary"
	"math"

	"github.com/justyntemme/lfogo/pkg/dsp/buffer"
)

// Stream reads a Ring as little-endian float32 PCM, the format the device
// player consumes. Missing samples read as silence, so Read never blocks.
type Stream struct {
	ring    *buffer.Ring
	samples []float32
}

// NewStream creates a reader over ring.
func NewStream(ring *buffer.Ring) *Stream {
	return &Stream{ring: ring, samples: make([]float32, 1024)}
}

// Read fills p with whole samples and returns the number of bytes written.
func (s *Stream) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	if len(s.samples) < n {
		s.samples = make([]float32, n)
	}
	samples := s.samples[:n]
	s.ring.Read(samples)

	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}

// Ring returns the underlying ring.
func (s *Stream) Ring() *buffer.Ring {
	return s.ring
}
