// Package oscillator provides the audio-rate carrier used to audition CV
// streams through a voltage-controlled amplifier.
package oscillator

import (
	"fmt"
	"math"
	"strings"

	"github.com/justyntemme/lfogo/pkg/dsp/phasor"
)

// Waveform selects the carrier shape.
type Waveform int

const (
	// WaveformSine is a pure sine
	WaveformSine Waveform = iota
	// WaveformSaw is a naive rising sawtooth
	WaveformSaw
	// WaveformSquare is a 50% square
	WaveformSquare
	// WaveformTriangle is a symmetric triangle
	WaveformTriangle
)

var waveformNames = map[string]Waveform{
	"sine":     WaveformSine,
	"saw":      WaveformSaw,
	"square":   WaveformSquare,
	"triangle": WaveformTriangle,
}

// String returns the flag name of the waveform.
func (w Waveform) String() string {
	for name, v := range waveformNames {
		if v == w {
			return name
		}
	}
	return "unknown"
}

// ParseWaveform converts a flag value into a Waveform.
func ParseWaveform(s string) (Waveform, error) {
	if w, ok := waveformNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return w, nil
	}
	return 0, fmt.Errorf("oscillator: unknown waveform %q", s)
}

// Oscillator generates a periodic carrier
type Oscillator struct {
	phasor    *phasor.Phasor
	frequency float64
	waveform  Waveform
	level     float32
}

// New creates a 440 Hz sine carrier at full level
func New(sampleRate float64) *Oscillator {
	return &Oscillator{
		phasor:    phasor.New(sampleRate),
		frequency: 440.0,
		waveform:  WaveformSine,
		level:     1.0,
	}
}

// SetFrequency sets the carrier frequency, limited to Nyquist
func (o *Oscillator) SetFrequency(freq float64) {
	o.frequency = math.Max(0, math.Min(freq, o.phasor.SampleRate()/2))
}

// Frequency returns the carrier frequency
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// SetWaveform selects the carrier shape
func (o *Oscillator) SetWaveform(w Waveform) {
	o.waveform = w
}

// SetLevel sets the output amplitude (0-1)
func (o *Oscillator) SetLevel(level float64) {
	o.level = float32(math.Max(0, math.Min(1, level)))
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phasor.Reset()
}

// Next returns the current sample and advances the phase
func (o *Oscillator) Next() float32 {
	p := o.phasor.Phase()

	var sample float64
	switch o.waveform {
	case WaveformSaw:
		sample = 2.0*p - 1.0
	case WaveformSquare:
		if p < 0.5 {
			sample = 1.0
		} else {
			sample = -1.0
		}
	case WaveformTriangle:
		if p < 0.5 {
			sample = 4.0*p - 1.0
		} else {
			sample = 3.0 - 4.0*p
		}
	default:
		sample = math.Sin(2.0 * math.Pi * p)
	}

	o.phasor.Process(o.frequency)
	return float32(sample) * o.level
}

// Process fills buffer with the carrier - no allocations
func (o *Oscillator) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = o.Next()
	}
}
