package render

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/justyntemme/lfogo/pkg/dsp/analysis"
)

// ChannelStats summarizes one rendered channel in volts.
type ChannelStats struct {
	Name   string
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64

	// Frequency is the dominant rate in Hz
	Frequency float64
}

func (s ChannelStats) String() string {
	return fmt.Sprintf("%s: min %.3f V, max %.3f V, mean %.3f V, std-dev %.3f V, rate %.3f Hz",
		s.Name, s.Min, s.Max, s.Mean, s.StdDev, s.Frequency)
}

// Stats computes a summary of every channel of res.
func Stats(res *Result) []ChannelStats {
	stats := make([]ChannelStats, len(res.Channels))
	for ch, samples := range res.Channels {
		s := &stats[ch]
		if ch < len(res.Names) {
			s.Name = res.Names[ch]
		} else {
			s.Name = fmt.Sprintf("Channel %d", ch+1)
		}
		if len(samples) == 0 {
			continue
		}

		x := make([]float64, len(samples))
		for i, v := range samples {
			x[i] = float64(v)
		}
		s.Min = floats.Min(x)
		s.Max = floats.Max(x)
		s.Mean, s.StdDev = stat.MeanStdDev(x, nil)
		s.Frequency = analysis.DominantFrequency(samples, res.SampleRate)
	}
	return stats
}
