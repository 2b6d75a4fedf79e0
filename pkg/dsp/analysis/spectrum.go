// Package analysis measures the spectral content of rendered CV, used to
// confirm that an LFO runs at the rate it was asked for.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// Spectrum is the one-sided magnitude spectrum of a real signal.
type Spectrum struct {
	Magnitude  []float64
	SampleRate float64

	size int
}

// Analyze removes the mean of samples, applies a Hann window and returns
// the magnitude of every FFT bin from DC to Nyquist.
func Analyze(samples []float64, sampleRate float64) Spectrum {
	n := len(samples)
	if n < 2 {
		return Spectrum{SampleRate: sampleRate, size: n}
	}

	seq := make([]float64, n)
	copy(seq, samples)
	floats.AddConst(-floats.Sum(seq)/float64(n), seq)
	window.Hann(seq)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	mag := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mag[i] = math.Hypot(real(c), imag(c))
	}
	return Spectrum{Magnitude: mag, SampleRate: sampleRate, size: n}
}

// FrequencyForBin returns the center frequency of bin in Hz.
func (s Spectrum) FrequencyForBin(bin int) float64 {
	if s.size == 0 {
		return 0
	}
	return float64(bin) * s.SampleRate / float64(s.size)
}

// BinForFrequency returns the bin nearest to freq.
func (s Spectrum) BinForFrequency(freq float64) int {
	if s.SampleRate == 0 {
		return 0
	}
	bin := int(math.Round(freq * float64(s.size) / s.SampleRate))
	return max(0, min(bin, len(s.Magnitude)-1))
}

// Peak returns the strongest non-DC component. The frequency is refined by
// parabolic interpolation between neighbouring bins.
func (s Spectrum) Peak() (freq, magnitude float64) {
	if len(s.Magnitude) < 2 {
		return 0, 0
	}

	bin := 1 + floats.MaxIdx(s.Magnitude[1:])
	magnitude = s.Magnitude[bin]

	offset := 0.0
	if bin+1 < len(s.Magnitude) {
		a, b, c := s.Magnitude[bin-1], magnitude, s.Magnitude[bin+1]
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}
	return (float64(bin) + offset) * s.SampleRate / float64(s.size), magnitude
}

// BandEnergy sums the squared magnitudes between minFreq and maxFreq.
func (s Spectrum) BandEnergy(minFreq, maxFreq float64) float64 {
	if len(s.Magnitude) == 0 {
		return 0
	}
	lo, hi := s.BinForFrequency(minFreq), s.BinForFrequency(maxFreq)
	energy := 0.0
	for _, m := range s.Magnitude[lo : hi+1] {
		energy += m * m
	}
	return energy
}

// DominantFrequency estimates the fundamental rate of a CV buffer in Hz.
// Silent or constant buffers return 0.
func DominantFrequency(samples []float32, sampleRate float64) float64 {
	x := make([]float64, len(samples))
	for i, v := range samples {
		x[i] = float64(v)
	}
	spectrum := Analyze(x, sampleRate)
	freq, mag := spectrum.Peak()
	if mag < 1e-9 {
		return 0
	}
	return freq
}
