package utility

import "math"

// DCBlocker removes the DC component of a CV stream so it can be monitored
// on an AC-coupled audio output. One first-order high-pass per channel:
// y[n] = x[n] - x[n-1] + R*y[n-1].
type DCBlocker struct {
	x1 []float64
	y1 []float64

	coefficient float64
}

// NewDCBlocker creates a DC blocker for the given number of channels.
// The cutoff is typically 5-20 Hz.
func NewDCBlocker(channels int, cutoffHz, sampleRate float64) *DCBlocker {
	dc := &DCBlocker{
		x1: make([]float64, channels),
		y1: make([]float64, channels),
	}
	dc.SetCutoff(cutoffHz, sampleRate)
	return dc
}

// SetCutoff updates the cutoff frequency.
func (dc *DCBlocker) SetCutoff(cutoffHz, sampleRate float64) {
	// Clamp R to keep the pole inside the unit circle
	dc.coefficient = ClampParameter(1.0-(2.0*math.Pi*cutoffHz/sampleRate), 0.9, 0.999)
}

// Process filters one sample on one channel.
func (dc *DCBlocker) Process(input float64, channel int) float64 {
	if channel >= len(dc.x1) {
		return input
	}

	output := input - dc.x1[channel] + dc.coefficient*dc.y1[channel]
	dc.x1[channel] = input
	dc.y1[channel] = output
	return output
}

// ProcessBuffer filters a channel buffer in place.
func (dc *DCBlocker) ProcessBuffer(buffer []float64, channel int) {
	for i := range buffer {
		buffer[i] = dc.Process(buffer[i], channel)
	}
}

// Reset clears the filter state.
func (dc *DCBlocker) Reset() {
	for i := range dc.x1 {
		dc.x1[i] = 0
		dc.y1[i] = 0
	}
}
