// Package dsp provides digital signal processing utilities and algorithms.
package dsp

// Common constants shared by the LFO engines and their host adapters.
const (
	// Glide time applied to every smoothed control (milliseconds)
	SmoothingTimeMs = 12.0

	// Control-voltage calibration: a full-scale amplitude of 1.0 maps to 10 V
	CVScale = 10.0
	MaxCV   = CVScale
	MinCV   = -CVScale

	// Host CV inputs arrive in volts; the engines work on ±1
	CVInputScale = 1.0 / CVScale

	// Rate ranges (Hz)
	DefaultMinRate = 0.01
	DefaultMaxRate = 50.0
	DefaultRate    = 1.0

	// Chance gate
	AlwaysEnabled = 1.0
	NeverEnabled  = 0.0

	// Common sample rates
	SampleRate44k1 = 44100.0
	SampleRate48k  = 48000.0
	SampleRate96k  = 96000.0

	// Buffer sizes
	MinBufferSize     = 32
	DefaultBufferSize = 512
	MaxBufferSize     = 8192

	// Phase constants
	TwoPi  = 6.283185307179586
	Pi     = 3.141592653589793
	HalfPi = 1.5707963267948966

	// Small values for comparisons
	Epsilon = 1e-6
)

// MsToSamples converts a duration in milliseconds to a sample count at the given rate.
func MsToSamples(ms, sampleRate float64) float64 {
	return sampleRate * ms / 1000.0
}
