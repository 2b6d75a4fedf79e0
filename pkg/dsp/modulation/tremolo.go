package modulation

import (
	"math"

	"github.com/justyntemme/lfogo/pkg/dsp"
)

// TremoloMode defines how the control voltage maps to gain
type TremoloMode int

const (
	// TremoloModeNormal maps -10 V..+10 V onto (1-depth)..1
	TremoloModeNormal TremoloMode = iota
	// TremoloModeHarmonic uses the magnitude of the CV, doubling the perceived rate
	TremoloModeHarmonic
)

// Tremolo is a voltage-controlled amplifier used to audition a CV stream
// against an audio carrier.
type Tremolo struct {
	sampleRate float64

	depth float64     // Modulation depth (0-1)
	mode  TremoloMode // Gain law

	// One-pole gain smoothing removes clicks on stepped CV such as S&H
	smoothing     bool
	smoothCoeff   float64
	smoothedGainL float64
	smoothedGainR float64
}

// NewTremolo creates a VCA with full depth and gain smoothing enabled.
func NewTremolo(sampleRate float64) *Tremolo {
	t := &Tremolo{
		sampleRate:    sampleRate,
		depth:         1.0,
		mode:          TremoloModeNormal,
		smoothing:     true,
		smoothedGainL: 1.0,
		smoothedGainR: 1.0,
	}
	t.updateSmoothing()
	return t
}

// SetDepth sets the modulation depth (0-1)
func (t *Tremolo) SetDepth(depth float64) {
	t.depth = math.Max(0.0, math.Min(1.0, depth))
}

// Depth returns the modulation depth.
func (t *Tremolo) Depth() float64 {
	return t.depth
}

// SetMode sets the gain law
func (t *Tremolo) SetMode(mode TremoloMode) {
	t.mode = mode
}

// EnableSmoothing enables/disables gain smoothing
func (t *Tremolo) EnableSmoothing(enabled bool) {
	t.smoothing = enabled
}

// updateSmoothing updates the smoothing coefficient
func (t *Tremolo) updateSmoothing() {
	// 5ms time constant
	smoothingTime := 0.005
	t.smoothCoeff = math.Exp(-1.0 / (smoothingTime * t.sampleRate))
}

// Gain returns the unsmoothed gain for a control voltage.
func (t *Tremolo) Gain(volts float64) float64 {
	m := math.Max(-1.0, math.Min(1.0, volts/dsp.CVScale))

	switch t.mode {
	case TremoloModeHarmonic:
		return 1.0 - t.depth*math.Abs(m)
	default:
		return 1.0 - t.depth*(1.0-m)/2.0
	}
}

// Process applies the gain for volts to one sample.
func (t *Tremolo) Process(input float32, volts float64) float32 {
	gain := t.Gain(volts)
	if t.smoothing {
		t.smoothedGainL = gain + (t.smoothedGainL-gain)*t.smoothCoeff
		gain = t.smoothedGainL
	}
	return input * float32(gain)
}

// ProcessStereo applies independent control voltages to a stereo pair.
func (t *Tremolo) ProcessStereo(inputL, inputR float32, voltsL, voltsR float64) (outputL, outputR float32) {
	gainL := t.Gain(voltsL)
	gainR := t.Gain(voltsR)

	if t.smoothing {
		t.smoothedGainL = gainL + (t.smoothedGainL-gainL)*t.smoothCoeff
		t.smoothedGainR = gainR + (t.smoothedGainR-gainR)*t.smoothCoeff
		gainL = t.smoothedGainL
		gainR = t.smoothedGainR
	}

	return inputL * float32(gainL), inputR * float32(gainR)
}

// ProcessBuffer modulates input by the CV buffer into output.
func (t *Tremolo) ProcessBuffer(input []float32, cv []float64, output []float32) {
	n := min(len(input), len(cv), len(output))
	for i := 0; i < n; i++ {
		output[i] = t.Process(input[i], cv[i])
	}
}

// ProcessStereoBuffer modulates a stereo pair by two CV buffers.
func (t *Tremolo) ProcessStereoBuffer(inputL, inputR []float32, cvL, cvR []float64, outputL, outputR []float32) {
	n := min(len(inputL), len(inputR), len(cvL), len(cvR), len(outputL), len(outputR))
	for i := 0; i < n; i++ {
		outputL[i], outputR[i] = t.ProcessStereo(inputL[i], inputR[i], cvL[i], cvR[i])
	}
}

// CurrentGain returns the smoothed left gain
func (t *Tremolo) CurrentGain() float64 {
	return t.smoothedGainL
}

// Reset restores unity gain
func (t *Tremolo) Reset() {
	t.smoothedGainL = 1.0
	t.smoothedGainR = 1.0
}
