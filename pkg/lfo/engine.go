// Package lfo assembles the phasor, oscillator, smoothers and output mapper
// into the single and two-oscillator LFO engines.
//
// Engines are not safe for concurrent use. Each host instance owns its own
// engine and drives it from the audio thread only.
package lfo

import (
	"github.com/justyntemme/lfogo/pkg/dsp"
	"github.com/justyntemme/lfogo/pkg/dsp/cv"
	"github.com/justyntemme/lfogo/pkg/dsp/modulation"
	"github.com/justyntemme/lfogo/pkg/dsp/smooth"
)

// Engine renders one CV output per sample.
type Engine struct {
	config RenderConfig

	osc    *modulation.Oscillator
	mapper *cv.Mapper

	frequency smooth.Smoother
	depth     smooth.Smoother
	offset    smooth.Smoother

	initialized bool
}

// New creates an engine. The config must pass Validate.
func New(sampleRate float64, config RenderConfig) *Engine {
	if err := config.Validate(); err != nil {
		panic(err)
	}

	e := &Engine{
		config:    config,
		osc:       modulation.NewOscillator(sampleRate),
		mapper:    cv.NewMapper(config.Range),
		frequency: smooth.New(config.Smoothing, sampleRate, dsp.SmoothingTimeMs),
		depth:     smooth.New(config.Smoothing, sampleRate, dsp.SmoothingTimeMs),
		offset:    smooth.New(config.Smoothing, sampleRate, dsp.SmoothingTimeMs),
	}
	e.osc.SetChanceGate(config.ChanceGate)
	e.osc.SetOffsets(config.Offsets)
	return e
}

// Config returns the render configuration.
func (e *Engine) Config() RenderConfig {
	return e.config
}

// SetSeed makes the stochastic shapes reproducible.
func (e *Engine) SetSeed(seed int64) {
	e.osc.SetSeed(seed)
}

// Activate jumps every smoother to c and draws the first enable latch.
// Process calls it automatically on first use.
func (e *Engine) Activate(c Controls) {
	e.frequency.Reset(c.Frequency)
	e.depth.Reset(c.Depth)
	e.offset.Reset(c.Offset)
	e.osc.Initialize(c.Chance)
	e.initialized = true
}

// Deactivate makes the next Process jump to its controls again.
func (e *Engine) Deactivate() {
	e.initialized = false
}

// IsActive reports whether the smoothers have been initialized.
func (e *Engine) IsActive() bool {
	return e.initialized
}

// Reset restarts the oscillator cycle.
func (e *Engine) Reset() {
	e.osc.Reset()
}

// Process renders one sample. input is the external CV as a ±1 amplitude
// and is ignored unless the input stage is enabled.
func (e *Engine) Process(c Controls, input float64) float64 {
	if !e.initialized {
		e.Activate(c)
	}

	frequency := e.frequency.Process(c.Frequency)
	depth := e.depth.Process(c.Depth)
	offset := 0.0
	if e.config.Offset {
		offset = e.offset.Process(c.Offset)
	}

	e.mapper.Curve = 1.0
	if e.config.Curve {
		e.mapper.Curve = c.Curve
	}

	in := modulation.Input{
		Frequency: frequency,
		Shape:     c.Shape,
		Chance:    c.Chance,
		Polarity:  e.config.DefaultPolarity,
	}
	if e.config.Polarity {
		in.Polarity = c.Polarity
	}

	if !e.config.InputStage {
		return e.mapper.Map(e.osc.Process(in), depth, offset)
	}

	in.Frequency = c.InputMode.Frequency(frequency, input)
	in.PhaseMod = c.InputMode.PhaseMod(input)
	return e.mapper.Map(c.InputMode.Combine(e.osc.Process(in), depth, input), 1.0, offset)
}

// ProcessBlock renders len(output) samples with constant controls. input
// may be nil or shorter than output; missing samples read as 0.
func (e *Engine) ProcessBlock(c Controls, input, output []float64) {
	for i := range output {
		var x float64
		if i < len(input) {
			x = input[i]
		}
		output[i] = e.Process(c, x)
	}
}
