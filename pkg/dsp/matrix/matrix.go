// Package matrix implements the feedback routing between two coupled
// oscillators and their two outputs.
package matrix

import (
	"gonum.org/v1/gonum/floats"

	"github.com/justyntemme/lfogo/pkg/dsp"
	"github.com/justyntemme/lfogo/pkg/dsp/smooth"
)

// Coefficients are the eight routing weights. Each names a source
// oscillator and its destination: an oscillator's feedback input or an
// output.
type Coefficients struct {
	Osc1ToOsc1 float64
	Osc1ToOsc2 float64
	Osc1ToOut1 float64
	Osc1ToOut2 float64
	Osc2ToOsc1 float64
	Osc2ToOsc2 float64
	Osc2ToOut1 float64
	Osc2ToOut2 float64
}

// Identity routes each oscillator to its own output with no feedback.
func Identity() Coefficients {
	return Coefficients{Osc1ToOut1: 1, Osc2ToOut2: 1}
}

// Coefficient slots in smoother order
const (
	osc1ToOsc1 = iota
	osc1ToOsc2
	osc1ToOut1
	osc1ToOut2
	osc2ToOsc1
	osc2ToOsc2
	osc2ToOut1
	osc2ToOut2
	numCoefficients
)

func (c Coefficients) array() [numCoefficients]float64 {
	return [numCoefficients]float64{
		c.Osc1ToOsc1, c.Osc1ToOsc2, c.Osc1ToOut1, c.Osc1ToOut2,
		c.Osc2ToOsc1, c.Osc2ToOsc2, c.Osc2ToOut1, c.Osc2ToOut2,
	}
}

func fromArray(a [numCoefficients]float64) Coefficients {
	return Coefficients{
		Osc1ToOsc1: a[osc1ToOsc1], Osc1ToOsc2: a[osc1ToOsc2],
		Osc1ToOut1: a[osc1ToOut1], Osc1ToOut2: a[osc1ToOut2],
		Osc2ToOsc1: a[osc2ToOsc1], Osc2ToOsc2: a[osc2ToOsc2],
		Osc2ToOut1: a[osc2ToOut1], Osc2ToOut2: a[osc2ToOut2],
	}
}

// Router smooths the routing weights and mixes the oscillator vector into
// a feedback vector, held for one sample, and an output vector.
type Router struct {
	smoothers [numCoefficients]smooth.Smoother

	// Rows of the feedback and output matrices, refreshed every sample
	toOsc1 []float64
	toOsc2 []float64
	toOut1 []float64
	toOut2 []float64

	osc      []float64
	feedback [2]float64
}

// NewRouter creates a router gliding weights over the standard smoothing time.
func NewRouter(sampleRate float64) *Router {
	return NewRouterWithSmoothing(smooth.RampSmoothing, sampleRate, dsp.SmoothingTimeMs)
}

// NewRouterWithSmoothing creates a router with an explicit smoothing strategy.
func NewRouterWithSmoothing(kind smooth.Type, sampleRate, timeMs float64) *Router {
	r := &Router{
		toOsc1: make([]float64, 2),
		toOsc2: make([]float64, 2),
		toOut1: make([]float64, 2),
		toOut2: make([]float64, 2),
		osc:    make([]float64, 2),
	}
	for i := range r.smoothers {
		r.smoothers[i] = smooth.New(kind, sampleRate, timeMs)
	}
	return r
}

// Initialize jumps every weight to c and clears the feedback vector.
func (r *Router) Initialize(c Coefficients) {
	for i, v := range c.array() {
		r.smoothers[i].Reset(v)
	}
	r.feedback = [2]float64{}
}

// Feedback returns the feedback vector computed on the previous sample.
func (r *Router) Feedback() (osc1, osc2 float64) {
	return r.feedback[0], r.feedback[1]
}

// Coefficients returns the current smoothed weights.
func (r *Router) Coefficients() Coefficients {
	var a [numCoefficients]float64
	for i, s := range r.smoothers {
		a[i] = s.Current()
	}
	return fromArray(a)
}

// Process advances the weight smoothers towards c, stores the feedback
// vector for the next sample and returns the output vector.
func (r *Router) Process(osc1, osc2 float64, c Coefficients) (out1, out2 float64) {
	var w [numCoefficients]float64
	for i, target := range c.array() {
		w[i] = r.smoothers[i].Process(target)
	}

	r.toOsc1[0], r.toOsc1[1] = w[osc1ToOsc1], w[osc2ToOsc1]
	r.toOsc2[0], r.toOsc2[1] = w[osc1ToOsc2], w[osc2ToOsc2]
	r.toOut1[0], r.toOut1[1] = w[osc1ToOut1], w[osc2ToOut1]
	r.toOut2[0], r.toOut2[1] = w[osc1ToOut2], w[osc2ToOut2]
	r.osc[0], r.osc[1] = osc1, osc2

	r.feedback[0] = floats.Dot(r.toOsc1, r.osc)
	r.feedback[1] = floats.Dot(r.toOsc2, r.osc)
	return floats.Dot(r.toOut1, r.osc), floats.Dot(r.toOut2, r.osc)
}

// Reset clears the feedback vector, keeping the current weights.
func (r *Router) Reset() {
	r.feedback = [2]float64{}
}
