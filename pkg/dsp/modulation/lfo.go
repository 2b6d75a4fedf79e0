// Package modulation provides the LFO waveform renderer and the helpers that
// combine it with external modulation inputs.
package modulation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/justyntemme/lfogo/pkg/dsp/phasor"
)

// OffsetTable holds the per-shape phase offset, in cycles, applied before a
// periodic shape is evaluated. Offsets are calibration constants chosen so
// that each waveform starts from its rest value at phase 0.
type OffsetTable [numShapes]float64

// DefaultOffsets returns the offset table for a polarity.
//
// Two shapes cannot start at rest with any offset and start at an edge
// instead: Rectangle in bipolar mode starts low (-1), and SawDown in the
// unipolar modes starts at full scale (+1 or -1).
func DefaultOffsets(p Polarity) OffsetTable {
	var t OffsetTable
	switch p {
	case PolarityBipolar:
		t[ShapeTriangle] = 0.25
		t[ShapeSawUp] = 0.5
		t[ShapeSawDown] = 0.5
	case PolarityUnipolarPositive, PolarityUnipolarNegative:
		t[ShapeSine] = 0.75
	default:
		panic(fmt.Sprintf("modulation: invalid polarity %d", int(p)))
	}
	return t
}

var defaultOffsets = [numPolarities]OffsetTable{
	DefaultOffsets(PolarityBipolar),
	DefaultOffsets(PolarityUnipolarPositive),
	DefaultOffsets(PolarityUnipolarNegative),
}

// Input holds the per-sample controls of an Oscillator.
type Input struct {
	Frequency float64  // Hz
	Shape     Shape    // Waveform
	Chance    float64  // Probability [0,1] that a cycle is enabled
	Polarity  Polarity // Output range convention
	PhaseMod  float64  // Phase offset in cycles, added after wrap detection
}

// Oscillator renders one LFO sample per call from a phase accumulator, a
// wrap detector, a shape selector and a chance gate.
type Oscillator struct {
	phasor *phasor.Phasor
	delta  *phasor.Delta
	rand   *rand.Rand

	// Chance gate stage
	gated   bool
	enabled bool

	// Calibration override (nil uses DefaultOffsets)
	offsets *OffsetTable

	// Random shapes glide from origin to target; both live in output range
	origin float64
	target float64
}

// NewOscillator creates an oscillator bound to sampleRate with the chance
// gate active and the default offset tables.
func NewOscillator(sampleRate float64) *Oscillator {
	return &Oscillator{
		phasor:  phasor.New(sampleRate),
		delta:   phasor.NewDelta(),
		rand:    rand.New(rand.NewSource(rand.Int63())),
		gated:   true,
		enabled: true,
	}
}

// SetSeed reseeds the random source for reproducible sequences.
func (o *Oscillator) SetSeed(seed int64) {
	o.rand = rand.New(rand.NewSource(seed))
}

// SetChanceGate enables or disables the chance gate stage. With the gate
// off every cycle is enabled.
func (o *Oscillator) SetChanceGate(enabled bool) {
	o.gated = enabled
	if !enabled {
		o.enabled = true
	}
}

// SetOffsets overrides the phase offset table; nil restores the defaults.
func (o *Oscillator) SetOffsets(table *OffsetTable) {
	o.offsets = table
}

// Initialize draws the enable latch for the first cycle.
func (o *Oscillator) Initialize(chance float64) {
	if o.gated {
		o.enabled = o.roll(chance)
	}
}

// IsEnabled reports the current state of the enable latch.
func (o *Oscillator) IsEnabled() bool {
	return o.enabled
}

// Phase returns the accumulator phase.
func (o *Oscillator) Phase() float64 {
	return o.phasor.Phase()
}

// Reset restarts the cycle and clears the random targets.
func (o *Oscillator) Reset() {
	o.phasor.Reset()
	o.delta.Reset()
	o.origin = 0
	o.target = 0
	o.enabled = true
}

// Process advances one sample and returns the raw amplitude in the
// polarity's native range.
func (o *Oscillator) Process(in Input) float64 {
	phase := o.phasor.Process(in.Frequency)
	trigger := o.delta.Trigger(phase)

	if trigger && o.gated && in.Shape != ShapeNoise {
		o.enabled = o.roll(in.Chance)
	}

	switch in.Shape {
	case ShapeNoise:
		// The trial runs every sample instead of once per cycle
		if o.gated {
			o.enabled = o.roll(in.Chance)
		}
		if !o.enabled {
			return 0
		}
		return in.Polarity.fromWave(o.rand.Float64())

	case ShapeSampleAndHold:
		if trigger {
			o.target = o.draw(in.Polarity)
		}
		if !o.enabled {
			return 0
		}
		return o.target

	case ShapeRandom, ShapeCurvedRandom:
		if trigger {
			o.origin = o.target
			o.target = o.draw(in.Polarity)
		}
		if !o.enabled {
			return 0
		}
		mix := wrap(phase + in.PhaseMod)
		if in.Shape == ShapeCurvedRandom {
			mix = (1.0 - math.Cos(mix*math.Pi)) * 0.5
		}
		return o.origin + (o.target-o.origin)*mix

	case ShapeSine, ShapeTriangle, ShapeSawUp, ShapeSawDown, ShapeRectangle:
		if !o.enabled {
			return 0
		}
		p := wrap(phase + o.offset(in.Shape, in.Polarity) + in.PhaseMod)
		return in.Polarity.fromWave(periodic(in.Shape, p))

	default:
		panic(fmt.Sprintf("modulation: invalid shape %d", int(in.Shape)))
	}
}

// draw returns a fresh random target, or the rest value when disabled.
func (o *Oscillator) draw(p Polarity) float64 {
	if !o.enabled {
		return 0
	}
	return p.fromWave(o.rand.Float64())
}

// roll performs one Bernoulli trial with success probability chance.
func (o *Oscillator) roll(chance float64) bool {
	return o.rand.Float64() < chance
}

func (o *Oscillator) offset(s Shape, p Polarity) float64 {
	if o.offsets != nil {
		return o.offsets[s]
	}
	if !p.Valid() {
		panic(fmt.Sprintf("modulation: invalid polarity %d", int(p)))
	}
	return defaultOffsets[p][s]
}

// periodic evaluates a deterministic shape at phase p, returning [0, 1].
func periodic(s Shape, p float64) float64 {
	switch s {
	case ShapeSine:
		return 0.5 + 0.5*math.Sin(2.0*math.Pi*p)
	case ShapeTriangle:
		if p > 0.5 {
			return 2.0 - 2.0*p
		}
		return 2.0 * p
	case ShapeSawUp:
		return p
	case ShapeSawDown:
		return 1.0 - p
	case ShapeRectangle:
		if p > 0.5 {
			return 1.0
		}
		return 0.0
	default:
		panic(fmt.Sprintf("modulation: invalid shape %d", int(s)))
	}
}

// wrap folds a phase into [0, 1).
func wrap(p float64) float64 {
	return p - math.Floor(p)
}
