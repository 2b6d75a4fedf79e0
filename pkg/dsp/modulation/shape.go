package modulation

import (
	"errors"
	"fmt"
	"math"
)

// Shape selects the LFO waveform.
type Shape int

const (
	// ShapeSine produces a sine wave
	ShapeSine Shape = iota
	// ShapeTriangle produces a triangle wave
	ShapeTriangle
	// ShapeSawUp produces a rising ramp
	ShapeSawUp
	// ShapeSawDown produces a falling ramp
	ShapeSawDown
	// ShapeRectangle produces a square wave switching at half cycle
	ShapeRectangle
	// ShapeSampleAndHold holds a random value for a whole cycle
	ShapeSampleAndHold
	// ShapeRandom glides linearly between random values once per cycle
	ShapeRandom
	// ShapeCurvedRandom glides between random values along a cosine curve
	ShapeCurvedRandom
	// ShapeNoise draws a fresh random value every sample
	ShapeNoise

	numShapes
)

var shapeNames = [numShapes]string{
	"Sine", "Triangle", "Saw Up", "Saw Down", "Rectangle",
	"Sample & Hold", "Random", "Curved Random", "Noise",
}

// String returns the display name of the shape.
func (s Shape) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return shapeNames[s]
}

// Valid reports whether s is one of the defined shapes.
func (s Shape) Valid() bool {
	return s >= ShapeSine && s < numShapes
}

// Stochastic reports whether the shape draws from the random source.
func (s Shape) Stochastic() bool {
	switch s {
	case ShapeSampleAndHold, ShapeRandom, ShapeCurvedRandom, ShapeNoise:
		return true
	default:
		return false
	}
}

// Shapes returns all shapes in code order.
func Shapes() []Shape {
	shapes := make([]Shape, numShapes)
	for i := range shapes {
		shapes[i] = Shape(i)
	}
	return shapes
}

// Polarity selects the output range convention of the renderer.
type Polarity int

const (
	// PolarityBipolar outputs [-1, 1] resting at 0
	PolarityBipolar Polarity = iota
	// PolarityUnipolarPositive outputs [0, 1] resting at 0
	PolarityUnipolarPositive
	// PolarityUnipolarNegative outputs [-1, 0] resting at 0
	PolarityUnipolarNegative

	numPolarities
)

// String returns the display name of the polarity.
func (p Polarity) String() string {
	switch p {
	case PolarityBipolar:
		return "Bipolar"
	case PolarityUnipolarPositive:
		return "Unipolar +"
	case PolarityUnipolarNegative:
		return "Unipolar -"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is one of the defined polarities.
func (p Polarity) Valid() bool {
	return p >= PolarityBipolar && p < numPolarities
}

// fromWave maps a unipolar wave value in [0, 1] to the polarity's range.
func (p Polarity) fromWave(u float64) float64 {
	switch p {
	case PolarityBipolar:
		return u*2.0 - 1.0
	case PolarityUnipolarPositive:
		return u
	case PolarityUnipolarNegative:
		return -u
	default:
		panic(fmt.Sprintf("modulation: invalid polarity %d", int(p)))
	}
}

// Range returns the native output bounds of the polarity.
func (p Polarity) Range() (min, max float64) {
	switch p {
	case PolarityBipolar:
		return -1, 1
	case PolarityUnipolarPositive:
		return 0, 1
	case PolarityUnipolarNegative:
		return -1, 0
	default:
		panic(fmt.Sprintf("modulation: invalid polarity %d", int(p)))
	}
}

// Selector conversion errors returned at the host boundary.
var (
	ErrInvalidShape     = errors.New("modulation: invalid shape")
	ErrInvalidPolarity  = errors.New("modulation: invalid polarity mode")
	ErrInvalidInputMode = errors.New("modulation: invalid input mode")
)

// selectorIndex converts a 1-based integral host code into a 0-based index.
func selectorIndex(code float64, count int) (int, bool) {
	if code != math.Trunc(code) || code < 1 || code > float64(count) {
		return 0, false
	}
	return int(code) - 1, true
}

// ShapeFromCode maps host shape codes 1..9 to a Shape.
func ShapeFromCode(code float64) (Shape, error) {
	i, ok := selectorIndex(code, int(numShapes))
	if !ok {
		return 0, fmt.Errorf("%w: code %v", ErrInvalidShape, code)
	}
	return Shape(i), nil
}

// PolarityFromCode maps host polarity codes 1..3 to a Polarity.
func PolarityFromCode(code float64) (Polarity, error) {
	i, ok := selectorIndex(code, int(numPolarities))
	if !ok {
		return 0, fmt.Errorf("%w: code %v", ErrInvalidPolarity, code)
	}
	return Polarity(i), nil
}

// InputModeFromCode maps host input mode codes 1..6 to an InputMode.
func InputModeFromCode(code float64) (InputMode, error) {
	i, ok := selectorIndex(code, int(numInputModes))
	if !ok {
		return 0, fmt.Errorf("%w: code %v", ErrInvalidInputMode, code)
	}
	return InputMode(i), nil
}
