package debug

import (
	"fmt"
	"math"
)

// CVAnalyzer inspects rendered control-voltage buffers.
type CVAnalyzer struct {
	// Min and Max are the calibrated bounds in volts
	Min float64
	Max float64
	// DCThreshold flags a mean above this many volts
	DCThreshold float64
}

// NewCVAnalyzer creates an analyzer for the ±10 V range.
func NewCVAnalyzer() *CVAnalyzer {
	return &CVAnalyzer{Min: -10, Max: 10, DCThreshold: 0.05}
}

// CVAnalysis contains the results of a buffer analysis.
type CVAnalysis struct {
	Samples       int
	Peak          float64
	Min           float64
	Max           float64
	RMS           float64
	DC            float64
	OutOfRange    int
	NaNCount      int
	InfCount      int
	ZeroCrossings int
}

// Analyze computes level statistics for buffer. Non-finite samples are
// counted and excluded.
func (a *CVAnalyzer) Analyze(buffer []float32) CVAnalysis {
	r := CVAnalysis{Min: math.Inf(1), Max: math.Inf(-1)}

	var sum, sumSquares float64
	var last float64
	first := true

	for _, s := range buffer {
		v := float64(s)
		switch {
		case math.IsNaN(v):
			r.NaNCount++
			continue
		case math.IsInf(v, 0):
			r.InfCount++
			continue
		}

		r.Samples++
		sum += v
		sumSquares += v * v
		r.Peak = math.Max(r.Peak, math.Abs(v))
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)

		if v < a.Min || v > a.Max {
			r.OutOfRange++
		}
		if !first && ((last < 0 && v >= 0) || (last >= 0 && v < 0)) {
			r.ZeroCrossings++
		}
		last = v
		first = false
	}

	if r.Samples == 0 {
		r.Min, r.Max = 0, 0
		return r
	}
	r.RMS = math.Sqrt(sumSquares / float64(r.Samples))
	r.DC = sum / float64(r.Samples)
	return r
}

// Check returns a description of every problem found in buffer.
func (a *CVAnalyzer) Check(buffer []float32, name string) []string {
	r := a.Analyze(buffer)

	var issues []string
	if r.NaNCount > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d NaN values", name, r.NaNCount))
	}
	if r.InfCount > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d infinite values", name, r.InfCount))
	}
	if r.OutOfRange > 0 {
		issues = append(issues, fmt.Sprintf("%s: %d samples outside [%.1f V, %.1f V]", name, r.OutOfRange, a.Min, a.Max))
	}
	return issues
}

// LogStats logs the analysis of buffer through logger.
func (a *CVAnalyzer) LogStats(logger *Logger, buffer []float32, name string) {
	r := a.Analyze(buffer)

	logger.Info("%s: %d samples, peak %.3f V, range [%.3f V, %.3f V], rms %.3f V, dc %.3f V",
		name, r.Samples, r.Peak, r.Min, r.Max, r.RMS, r.DC)
	if math.Abs(r.DC) > a.DCThreshold {
		logger.Debug("%s: DC offset %.3f V", name, r.DC)
	}
	for _, issue := range a.Check(buffer, name) {
		logger.Warn("%s", issue)
	}
}
