package lfo

import (
	"math"
	"testing"

	"github.com/justyntemme/lfogo/pkg/dsp/matrix"
	"github.com/justyntemme/lfogo/pkg/dsp/modulation"
)

func TestMatrixIdentityRouting(t *testing.T) {
	m := NewMatrix(48000)
	c := DefaultMatrixControls()
	c.Osc2.Frequency = 2

	ref1 := modulation.NewOscillator(48000)
	ref2 := modulation.NewOscillator(48000)

	for i := 0; i < 48000; i++ {
		out1, out2 := m.Process(c)
		want1 := 10 * ref1.Process(modulation.Input{Frequency: 1, Shape: modulation.ShapeSine, Chance: 1, Polarity: modulation.PolarityBipolar})
		want2 := 10 * ref2.Process(modulation.Input{Frequency: 2, Shape: modulation.ShapeSine, Chance: 1, Polarity: modulation.PolarityBipolar})
		if math.Abs(out1-want1) > 1e-9 || math.Abs(out2-want2) > 1e-9 {
			t.Fatalf("Sample %d: got (%f, %f), want (%f, %f)", i, out1, out2, want1, want2)
		}
	}
}

func TestMatrixDisabledOscillator(t *testing.T) {
	m := NewMatrix(48000)
	c := DefaultMatrixControls()
	c.Osc2.On = false
	c.Routing = matrix.Coefficients{
		Osc1ToOut1: 1, Osc2ToOut1: 1,
		Osc1ToOut2: 0, Osc2ToOut2: 1,
		Osc2ToOsc1: 1,
	}

	ref := modulation.NewOscillator(48000)
	for i := 0; i < 10000; i++ {
		out1, out2 := m.Process(c)
		want := 10 * ref.Process(modulation.Input{Frequency: 1, Shape: modulation.ShapeSine, Chance: 1, Polarity: modulation.PolarityBipolar})
		if math.Abs(out1-want) > 1e-9 {
			t.Fatalf("Sample %d: disabled oscillator leaked into output 1 (%f vs %f)", i, out1, want)
		}
		if out2 != 0 {
			t.Fatalf("Sample %d: output 2 only hears the disabled oscillator, got %f", i, out2)
		}
	}
}

func TestMatrixFeedbackCausality(t *testing.T) {
	m := NewMatrix(48000)
	c := DefaultMatrixControls()
	c.Osc2.On = false
	c.Routing = matrix.Coefficients{Osc1ToOsc1: 0.5, Osc1ToOut1: 1}

	// Replay the loop by hand: sample n is modulated by sample n-1
	ref := modulation.NewOscillator(48000)
	prev := 0.0
	for i := 0; i < 48000; i++ {
		out1, _ := m.Process(c)
		a := ref.Process(modulation.Input{
			Frequency: 1,
			Shape:     modulation.ShapeSine,
			Chance:    1,
			Polarity:  modulation.PolarityBipolar,
			PhaseMod:  0.5 * prev,
		})
		prev = a
		if math.Abs(out1-10*a) > 1e-9 {
			t.Fatalf("Sample %d: got %f, want %f", i, out1, 10*a)
		}
	}
}

func TestMatrixRoutingGlides(t *testing.T) {
	m := NewMatrix(48000)
	c := DefaultMatrixControls()
	m.Process(c)

	c.Routing.Osc1ToOut1 = 0
	c.Routing.Osc2ToOut1 = 1

	prev := m.Routing()
	for i := 0; i < 600; i++ {
		m.Process(c)
		cur := m.Routing()
		if d := math.Abs(cur.Osc1ToOut1 - prev.Osc1ToOut1); d > 1.0/576+1e-9 {
			t.Fatalf("Sample %d: weight jumped by %f", i, d)
		}
		prev = cur
	}
	if got := m.Routing(); got != c.Routing {
		t.Errorf("routing should settle on the new weights, got %+v", got)
	}
}

func TestMatrixActivation(t *testing.T) {
	m := NewMatrix(48000)
	c := DefaultMatrixControls()
	c.Routing = matrix.Coefficients{Osc1ToOut2: 0.7}

	m.Process(c)
	if got := m.Routing(); got != c.Routing {
		t.Errorf("first Process should jump the weights, got %+v", got)
	}

	m.Deactivate()
	if m.IsActive() {
		t.Error("engine should be inactive after Deactivate")
	}
	c.Routing = matrix.Coefficients{Osc2ToOut1: -0.3}
	m.Process(c)
	if got := m.Routing(); got != c.Routing {
		t.Errorf("reactivation should jump the weights, got %+v", got)
	}
}

func TestMatrixSeedsDiffer(t *testing.T) {
	m := NewMatrix(48000)
	m.SetSeed(10)
	c := DefaultMatrixControls()
	c.Osc1.Shape = modulation.ShapeNoise
	c.Osc2.Shape = modulation.ShapeNoise

	same := 0
	for i := 0; i < 1000; i++ {
		out1, out2 := m.Process(c)
		if out1 == out2 {
			same++
		}
	}
	if same > 10 {
		t.Errorf("oscillators should draw independent sequences, %d identical samples", same)
	}
}

func TestMatrixProcessBlock(t *testing.T) {
	a := NewMatrix(48000)
	b := NewMatrix(48000)
	c := DefaultMatrixControls()

	out1 := make([]float64, 256)
	out2 := make([]float64, 128)
	a.ProcessBlock(c, out1, out2)

	for i := 0; i < 128; i++ {
		w1, w2 := b.Process(c)
		if out1[i] != w1 || out2[i] != w2 {
			t.Fatalf("Sample %d: block and per-sample rendering differ", i)
		}
	}
	if out1[200] != 0 {
		t.Error("block should stop at the shorter buffer")
	}
}
