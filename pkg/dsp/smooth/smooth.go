// Package smooth provides parameter smoothing to prevent zipper noise when
// stepped control values drive per-sample DSP.
package smooth

import (
	"math"

	"github.com/justyntemme/lfogo/pkg/dsp"
)

// Type selects a smoothing strategy.
type Type int

const (
	// RampSmoothing glides linearly using a persistent per-sample increment
	RampSmoothing Type = iota
	// LinearSmoothing glides linearly by counting the samples left in the glide
	LinearSmoothing
	// ExponentialSmoothing uses a one-pole filter (-60dB over the glide time)
	ExponentialSmoothing
)

// String returns the strategy name.
func (t Type) String() string {
	switch t {
	case RampSmoothing:
		return "ramp"
	case LinearSmoothing:
		return "linear"
	case ExponentialSmoothing:
		return "exponential"
	default:
		return "unknown"
	}
}

// Smoother turns a stepped control value into a per-sample continuous one.
type Smoother interface {
	// SetTarget begins gliding from the current value towards target.
	SetTarget(target float64)
	// Reset jumps current and target to value with no glide.
	Reset(value float64)
	// Next advances one sample and returns the new current value.
	Next() float64
	// Process is SetTarget followed by Next.
	Process(target float64) float64
	// Current returns the current value without advancing.
	Current() float64
	// Target returns the value being glided to.
	Target() float64
	// IsSmoothing reports whether current has not yet reached target.
	IsSmoothing() bool
}

// New creates a smoother of the given type gliding over timeMs at sampleRate.
func New(t Type, sampleRate, timeMs float64) Smoother {
	switch t {
	case RampSmoothing:
		return NewRamp(sampleRate, timeMs)
	case LinearSmoothing:
		return NewLinear(sampleRate, timeMs)
	case ExponentialSmoothing:
		return NewExponential(sampleRate, timeMs)
	default:
		panic("smooth: unknown smoothing type")
	}
}

// glideSamples converts a glide time to a sample count of at least one.
func glideSamples(sampleRate, timeMs float64) float64 {
	n := dsp.MsToSamples(timeMs, sampleRate)
	if n < 1 {
		return 1
	}
	return n
}

// Ramp glides linearly to a new target over a fixed duration. The per-sample
// increment is recomputed whenever the target changes.
type Ramp struct {
	current float64
	target  float64
	step    float64
	samples float64
}

// NewRamp creates a ramp smoother.
func NewRamp(sampleRate, timeMs float64) *Ramp {
	return &Ramp{samples: glideSamples(sampleRate, timeMs)}
}

// SetTarget implements Smoother.
func (r *Ramp) SetTarget(target float64) {
	if target == r.target {
		return
	}
	r.target = target
	r.step = (target - r.current) / r.samples
}

// Reset implements Smoother.
func (r *Ramp) Reset(value float64) {
	r.current = value
	r.target = value
	r.step = 0
}

// Next implements Smoother.
func (r *Ramp) Next() float64 {
	if r.current == r.target {
		return r.current
	}

	r.current += r.step

	// Snap once the target is reached or passed
	if r.step == 0 || (r.step > 0 && r.current >= r.target) || (r.step < 0 && r.current <= r.target) {
		r.current = r.target
	}
	return r.current
}

// Process implements Smoother.
func (r *Ramp) Process(target float64) float64 {
	r.SetTarget(target)
	return r.Next()
}

// Current implements Smoother.
func (r *Ramp) Current() float64 { return r.current }

// Target implements Smoother.
func (r *Ramp) Target() float64 { return r.target }

// IsSmoothing implements Smoother.
func (r *Ramp) IsSmoothing() bool { return r.current != r.target }

// Linear glides linearly to a new target, dividing the remaining distance by
// the number of samples left in the glide.
type Linear struct {
	current   float64
	target    float64
	samples   int
	remaining int
}

// NewLinear creates a linear smoother.
func NewLinear(sampleRate, timeMs float64) *Linear {
	return &Linear{samples: int(math.Round(glideSamples(sampleRate, timeMs)))}
}

// SetTarget implements Smoother.
func (l *Linear) SetTarget(target float64) {
	if target == l.target {
		return
	}
	l.target = target
	l.remaining = l.samples
}

// Reset implements Smoother.
func (l *Linear) Reset(value float64) {
	l.current = value
	l.target = value
	l.remaining = 0
}

// Next implements Smoother.
func (l *Linear) Next() float64 {
	if l.remaining <= 0 {
		return l.current
	}

	l.current += (l.target - l.current) / float64(l.remaining)
	l.remaining--
	if l.remaining == 0 {
		l.current = l.target
	}
	return l.current
}

// Process implements Smoother.
func (l *Linear) Process(target float64) float64 {
	l.SetTarget(target)
	return l.Next()
}

// Current implements Smoother.
func (l *Linear) Current() float64 { return l.current }

// Target implements Smoother.
func (l *Linear) Target() float64 { return l.target }

// IsSmoothing implements Smoother.
func (l *Linear) IsSmoothing() bool { return l.remaining > 0 }

// Exponential is a one-pole smoother: y += (x - y) * (1 - coefficient).
type Exponential struct {
	current     float64
	target      float64
	coefficient float64
	threshold   float64
}

// NewExponential creates a one-pole smoother reaching -60dB of the step after timeMs.
func NewExponential(sampleRate, timeMs float64) *Exponential {
	return &Exponential{
		coefficient: math.Exp(-6.908 / glideSamples(sampleRate, timeMs)),
		threshold:   dsp.Epsilon,
	}
}

// SetTarget implements Smoother.
func (e *Exponential) SetTarget(target float64) {
	e.target = target
}

// Reset implements Smoother.
func (e *Exponential) Reset(value float64) {
	e.current = value
	e.target = value
}

// Next implements Smoother.
func (e *Exponential) Next() float64 {
	if e.current == e.target {
		return e.current
	}

	e.current += (e.target - e.current) * (1.0 - e.coefficient)
	if math.Abs(e.current-e.target) < e.threshold {
		e.current = e.target
	}
	return e.current
}

// Process implements Smoother.
func (e *Exponential) Process(target float64) float64 {
	e.SetTarget(target)
	return e.Next()
}

// Current implements Smoother.
func (e *Exponential) Current() float64 { return e.current }

// Target implements Smoother.
func (e *Exponential) Target() float64 { return e.target }

// IsSmoothing implements Smoother.
func (e *Exponential) IsSmoothing() bool { return e.current != e.target }

// SetThreshold sets the distance at which the smoother snaps to its target.
func (e *Exponential) SetThreshold(threshold float64) {
	e.threshold = threshold
}
