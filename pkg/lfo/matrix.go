package lfo

import (
	"github.com/justyntemme/lfogo/pkg/dsp"
	"github.com/justyntemme/lfogo/pkg/dsp/cv"
	"github.com/justyntemme/lfogo/pkg/dsp/matrix"
	"github.com/justyntemme/lfogo/pkg/dsp/modulation"
	"github.com/justyntemme/lfogo/pkg/dsp/smooth"
)

// Voice holds the controls of one oscillator in a MatrixEngine.
type Voice struct {
	On        bool
	Frequency float64
	Shape     modulation.Shape
	Chance    float64
	Polarity  modulation.Polarity
}

// DefaultVoice returns an enabled 1 Hz bipolar sine.
func DefaultVoice() Voice {
	return Voice{
		On:        true,
		Frequency: 1.0,
		Shape:     modulation.ShapeSine,
		Chance:    1.0,
		Polarity:  modulation.PolarityBipolar,
	}
}

// MatrixControls are the per-block controls of a MatrixEngine.
type MatrixControls struct {
	Osc1    Voice
	Osc2    Voice
	Routing matrix.Coefficients
}

// DefaultMatrixControls routes each oscillator to its own output.
func DefaultMatrixControls() MatrixControls {
	return MatrixControls{
		Osc1:    DefaultVoice(),
		Osc2:    DefaultVoice(),
		Routing: matrix.Identity(),
	}
}

// MatrixEngine couples two oscillators through a feedback matrix. Each
// oscillator receives its feedback value as phase modulation, one sample
// after it was computed.
type MatrixEngine struct {
	osc1 *modulation.Oscillator
	osc2 *modulation.Oscillator

	freq1 smooth.Smoother
	freq2 smooth.Smoother

	router *matrix.Router

	initialized bool
}

// NewMatrix creates a two-oscillator engine.
func NewMatrix(sampleRate float64) *MatrixEngine {
	return &MatrixEngine{
		osc1:   modulation.NewOscillator(sampleRate),
		osc2:   modulation.NewOscillator(sampleRate),
		freq1:  smooth.NewRamp(sampleRate, dsp.SmoothingTimeMs),
		freq2:  smooth.NewRamp(sampleRate, dsp.SmoothingTimeMs),
		router: matrix.NewRouter(sampleRate),
	}
}

// SetSeed seeds both oscillators; the second uses seed+1 so they do not
// draw the same sequence.
func (m *MatrixEngine) SetSeed(seed int64) {
	m.osc1.SetSeed(seed)
	m.osc2.SetSeed(seed + 1)
}

// Activate jumps the routing weights and frequencies to c.
func (m *MatrixEngine) Activate(c MatrixControls) {
	m.router.Initialize(c.Routing)
	m.freq1.Reset(c.Osc1.Frequency)
	m.freq2.Reset(c.Osc2.Frequency)
	m.osc1.Initialize(c.Osc1.Chance)
	m.osc2.Initialize(c.Osc2.Chance)
	m.initialized = true
}

// Deactivate makes the next Process jump to its controls again.
func (m *MatrixEngine) Deactivate() {
	m.initialized = false
}

// IsActive reports whether the smoothers have been initialized.
func (m *MatrixEngine) IsActive() bool {
	return m.initialized
}

// Reset restarts both oscillators and clears the feedback.
func (m *MatrixEngine) Reset() {
	m.osc1.Reset()
	m.osc2.Reset()
	m.router.Reset()
}

// Routing returns the current smoothed routing weights.
func (m *MatrixEngine) Routing() matrix.Coefficients {
	return m.router.Coefficients()
}

// Process renders one sample of both outputs in volts.
func (m *MatrixEngine) Process(c MatrixControls) (out1, out2 float64) {
	if !m.initialized {
		m.Activate(c)
	}

	fb1, fb2 := m.router.Feedback()
	f1 := m.freq1.Process(c.Osc1.Frequency)
	f2 := m.freq2.Process(c.Osc2.Frequency)

	var a1, a2 float64
	if c.Osc1.On {
		a1 = m.osc1.Process(voiceInput(c.Osc1, f1, fb1))
	}
	if c.Osc2.On {
		a2 = m.osc2.Process(voiceInput(c.Osc2, f2, fb2))
	}

	out1, out2 = m.router.Process(a1, a2, c.Routing)
	return cv.ToVolts(out1), cv.ToVolts(out2)
}

// ProcessBlock renders min(len(out1), len(out2)) samples with constant controls.
func (m *MatrixEngine) ProcessBlock(c MatrixControls, out1, out2 []float64) {
	n := len(out1)
	if len(out2) < n {
		n = len(out2)
	}
	for i := 0; i < n; i++ {
		out1[i], out2[i] = m.Process(c)
	}
}

func voiceInput(v Voice, frequency, feedback float64) modulation.Input {
	return modulation.Input{
		Frequency: frequency,
		Shape:     v.Shape,
		Chance:    v.Chance,
		Polarity:  v.Polarity,
		PhaseMod:  feedback,
	}
}
