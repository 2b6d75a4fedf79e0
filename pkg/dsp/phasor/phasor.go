// Package phasor provides the normalized phase accumulator and wrap detector
// that drive every LFO shape.
package phasor

// Phasor advances a normalized phase in [0, 1) at a rate derived from
// frequency and sample rate.
type Phasor struct {
	sampleRate float64
	phase      float64
}

// New creates a phasor bound to a fixed sample rate.
func New(sampleRate float64) *Phasor {
	return &Phasor{sampleRate: sampleRate}
}

// Process advances the phase by frequency/sampleRate and returns the new phase.
// Frequency is clamped to [0, sampleRate] so a single subtraction always wraps.
func (p *Phasor) Process(frequency float64) float64 {
	if frequency < 0 {
		frequency = 0
	} else if frequency > p.sampleRate {
		frequency = p.sampleRate
	}

	p.phase += frequency / p.sampleRate
	if p.phase >= 1.0 {
		p.phase -= 1.0
	}
	return p.phase
}

// Phase returns the current phase without advancing.
func (p *Phasor) Phase() float64 {
	return p.phase
}

// SampleRate returns the rate the phasor was created with.
func (p *Phasor) SampleRate() float64 {
	return p.sampleRate
}

// Reset sets the phase back to 0.
func (p *Phasor) Reset() {
	p.phase = 0
}

// Delta reports the frame-to-frame change of a phase signal. A negative
// delta marks the sample on which the phase wrapped.
type Delta struct {
	previous float64
}

// NewDelta creates a wrap detector whose previous value starts at 0.
func NewDelta() *Delta {
	return &Delta{}
}

// Process returns phase - previous and stores phase for the next call.
func (d *Delta) Process(phase float64) float64 {
	delta := phase - d.previous
	d.previous = phase
	return delta
}

// Trigger processes phase and reports whether it wrapped.
func (d *Delta) Trigger(phase float64) bool {
	return d.Process(phase) < 0
}

// Reset clears the stored phase.
func (d *Delta) Reset() {
	d.previous = 0
}
