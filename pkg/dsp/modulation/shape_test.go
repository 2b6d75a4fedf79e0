package modulation

import (
	"errors"
	"math"
	"testing"
)

func TestShapeFromCode(t *testing.T) {
	tests := []struct {
		code    float64
		want    Shape
		wantErr bool
	}{
		{1, ShapeSine, false},
		{2, ShapeTriangle, false},
		{3, ShapeSawUp, false},
		{4, ShapeSawDown, false},
		{5, ShapeRectangle, false},
		{6, ShapeSampleAndHold, false},
		{7, ShapeRandom, false},
		{8, ShapeCurvedRandom, false},
		{9, ShapeNoise, false},
		{0, 0, true},
		{10, 0, true},
		{2.5, 0, true},
		{-1, 0, true},
		{math.NaN(), 0, true},
	}

	for _, tt := range tests {
		got, err := ShapeFromCode(tt.code)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidShape) {
				t.Errorf("ShapeFromCode(%v) error = %v, want ErrInvalidShape", tt.code, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ShapeFromCode(%v) unexpected error: %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ShapeFromCode(%v) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestPolarityFromCode(t *testing.T) {
	for code, want := range map[float64]Polarity{
		1: PolarityBipolar,
		2: PolarityUnipolarPositive,
		3: PolarityUnipolarNegative,
	} {
		got, err := PolarityFromCode(code)
		if err != nil || got != want {
			t.Errorf("PolarityFromCode(%v) = %v, %v; want %v", code, got, err, want)
		}
	}

	for _, code := range []float64{0, 4, 1.5} {
		if _, err := PolarityFromCode(code); !errors.Is(err, ErrInvalidPolarity) {
			t.Errorf("PolarityFromCode(%v) error = %v, want ErrInvalidPolarity", code, err)
		}
	}
}

func TestInputModeFromCode(t *testing.T) {
	for code := 1; code <= 6; code++ {
		m, err := InputModeFromCode(float64(code))
		if err != nil {
			t.Fatalf("InputModeFromCode(%d) unexpected error: %v", code, err)
		}
		if int(m) != code-1 {
			t.Errorf("InputModeFromCode(%d) = %d, want %d", code, m, code-1)
		}
	}

	if _, err := InputModeFromCode(7); !errors.Is(err, ErrInvalidInputMode) {
		t.Errorf("expected ErrInvalidInputMode, got %v", err)
	}
}

func TestShapeProperties(t *testing.T) {
	shapes := Shapes()
	if len(shapes) != 9 {
		t.Fatalf("expected 9 shapes, got %d", len(shapes))
	}

	stochastic := 0
	for _, s := range shapes {
		if !s.Valid() {
			t.Errorf("%v should be valid", s)
		}
		if s.String() == "Unknown" {
			t.Errorf("shape %d has no name", int(s))
		}
		if s.Stochastic() {
			stochastic++
		}
	}
	if stochastic != 4 {
		t.Errorf("expected 4 stochastic shapes, got %d", stochastic)
	}

	if Shape(9).Valid() || Shape(-1).Valid() {
		t.Error("out of range shapes should be invalid")
	}
	if Shape(42).String() != "Unknown" {
		t.Error("invalid shape should be named Unknown")
	}
}

func TestPolarityRange(t *testing.T) {
	for _, p := range []Polarity{PolarityBipolar, PolarityUnipolarPositive, PolarityUnipolarNegative} {
		lo, hi := p.Range()
		for _, u := range []float64{0, 0.25, 0.5, 1} {
			v := p.fromWave(u)
			if v < lo || v > hi {
				t.Errorf("%v: fromWave(%v) = %v outside [%v, %v]", p, u, v, lo, hi)
			}
		}
	}

	if got := PolarityBipolar.fromWave(0.5); got != 0 {
		t.Errorf("bipolar midpoint should be 0, got %v", got)
	}
	if got := PolarityUnipolarNegative.fromWave(1); got != -1 {
		t.Errorf("unipolar negative peak should be -1, got %v", got)
	}
	if Polarity(3).Valid() {
		t.Error("Polarity(3) should be invalid")
	}
}

func TestPolarityRangePanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid polarity")
		}
	}()
	Polarity(7).Range()
}
