package analysis

import (
	"math"
	"testing"
)

func sine(freq, sampleRate float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return x
}

func TestPeakFrequency(t *testing.T) {
	tests := []struct {
		name       string
		freq       float64
		sampleRate float64
		n          int
	}{
		{"audio", 440, 44100, 4096},
		{"lfo", 2, 1000, 4000},
		{"between bins", 3.3, 1000, 4000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Analyze(sine(tt.freq, tt.sampleRate, tt.n), tt.sampleRate)
			got, mag := s.Peak()

			binWidth := tt.sampleRate / float64(tt.n)
			if math.Abs(got-tt.freq) > binWidth/2 {
				t.Errorf("peak = %f Hz, want %f Hz (bin width %f)", got, tt.freq, binWidth)
			}
			if mag <= 0 {
				t.Error("peak magnitude should be positive")
			}
		})
	}
}

func TestMeanIsRemoved(t *testing.T) {
	x := sine(5, 1000, 2000)
	for i := range x {
		x[i] += 3
	}
	s := Analyze(x, 1000)

	// An offset left in would leak into bin 1 above the sine
	if got, _ := s.Peak(); math.Abs(got-5) > 0.25 {
		t.Errorf("peak = %f Hz, want 5", got)
	}
}

func TestBins(t *testing.T) {
	s := Analyze(make([]float64, 1000), 1000)

	if len(s.Magnitude) != 501 {
		t.Fatalf("bins = %d, want 501", len(s.Magnitude))
	}
	if f := s.FrequencyForBin(10); f != 10 {
		t.Errorf("FrequencyForBin(10) = %f, want 10", f)
	}
	if b := s.BinForFrequency(10.4); b != 10 {
		t.Errorf("BinForFrequency(10.4) = %d, want 10", b)
	}
	if b := s.BinForFrequency(5000); b != 500 {
		t.Errorf("BinForFrequency above Nyquist = %d, want 500", b)
	}
}

func TestBandEnergy(t *testing.T) {
	x := sine(50, 1000, 2000)
	s := Analyze(x, 1000)

	in := s.BandEnergy(45, 55)
	out := s.BandEnergy(100, 400)
	if in <= 100*out {
		t.Errorf("energy near 50 Hz = %g, elsewhere = %g", in, out)
	}
}

func TestDominantFrequency(t *testing.T) {
	x := sine(1, 1000, 4000)
	buf := make([]float32, len(x))
	for i, v := range x {
		buf[i] = float32(10 * v)
	}

	if got := DominantFrequency(buf, 1000); math.Abs(got-1) > 0.125 {
		t.Errorf("DominantFrequency = %f, want 1", got)
	}
	if got := DominantFrequency(make([]float32, 1000), 1000); got != 0 {
		t.Errorf("silence = %f, want 0", got)
	}
	if got := DominantFrequency(nil, 1000); got != 0 {
		t.Errorf("empty = %f, want 0", got)
	}
}
