package param

import (
	"math"
	"testing"
)

func TestParameterValues(t *testing.T) {
	p := New(1, "Offset").Range(-100, 100).Default(0).Build()

	if p.GetValue() != 0.5 {
		t.Errorf("default normalized = %v, want 0.5", p.GetValue())
	}

	p.SetPlainValue(50)
	if math.Abs(p.GetPlainValue()-50) > 1e-9 {
		t.Errorf("plain = %v, want 50", p.GetPlainValue())
	}

	p.SetValue(2)
	if p.GetValue() != 1 {
		t.Errorf("SetValue should clamp to 1, got %v", p.GetValue())
	}
	p.SetValue(math.NaN())
	if p.GetValue() != 0 {
		t.Errorf("NaN should store 0, got %v", p.GetValue())
	}

	p.Reset()
	if p.GetValue() != 0.5 {
		t.Errorf("Reset should restore default, got %v", p.GetValue())
	}
}

func TestParameterSet(t *testing.T) {
	p := DepthParameter(2, "Depth").Build()

	if err := p.Set("25%"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if math.Abs(p.GetPlainValue()-25) > 1e-9 {
		t.Errorf("plain = %v, want 25", p.GetPlainValue())
	}

	if err := p.Set("150"); err == nil {
		t.Error("out of range value should be rejected")
	}
	if err := p.Set("lots"); err == nil {
		t.Error("unparseable value should be rejected")
	}
	if math.Abs(p.GetPlainValue()-25) > 1e-9 {
		t.Error("rejected values must not change the parameter")
	}
}

func TestParameterDefaultFormatting(t *testing.T) {
	p := New(3, "Plain").Range(0, 10).Build()
	if got := p.FormatValue(0.25); got != "2.50" {
		t.Errorf("FormatValue = %q, want 2.50", got)
	}

	p = New(4, "Stepped").Range(0, 10).Steps(10).Build()
	if got := p.FormatValue(0.3); got != "3" {
		t.Errorf("FormatValue = %q, want 3", got)
	}

	if n, err := p.ParseValue("5"); err != nil || n != 0.5 {
		t.Errorf("ParseValue = %v, %v", n, err)
	}
}

func TestParameterDegenerateRange(t *testing.T) {
	p := New(5, "Fixed").Range(1, 1).Build()
	if p.Normalize(3) != 0 {
		t.Error("degenerate range should normalize to 0")
	}
}

func TestExponentialTaper(t *testing.T) {
	p := New(6, "Rate").Range(0.1, 10).Exponential().Default(1).Build()

	if !p.Exponential {
		t.Fatal("positive range should accept the exponential taper")
	}
	// 1 Hz is the geometric midpoint of 0.1-10 Hz
	if math.Abs(p.GetValue()-0.5) > 1e-12 {
		t.Errorf("normalized default = %v, want 0.5", p.GetValue())
	}
	if math.Abs(p.Denormalize(0.75)-math.Sqrt(10)) > 1e-9 {
		t.Errorf("Denormalize(0.75) = %v, want %v", p.Denormalize(0.75), math.Sqrt(10))
	}
	if p.Normalize(0.01) != 0 || p.Normalize(100) != 1 {
		t.Error("out of range values should clamp")
	}

	linear := New(7, "Offset").Range(-1, 1).Exponential().Build()
	if linear.Exponential {
		t.Error("ranges touching zero must stay linear")
	}
}
