package lfo

import (
	"errors"
	"fmt"

	"github.com/justyntemme/lfogo/pkg/dsp/cv"
	"github.com/justyntemme/lfogo/pkg/dsp/modulation"
	"github.com/justyntemme/lfogo/pkg/dsp/smooth"
)

// RenderConfig selects which optional stages an Engine runs.
type RenderConfig struct {
	// ChanceGate enables the per-cycle Bernoulli gate
	ChanceGate bool
	// Offset enables the smoothed offset control
	Offset bool
	// Polarity honors the polarity control; otherwise DefaultPolarity is used
	Polarity bool
	// InputStage combines an external CV input according to the input mode
	InputStage bool
	// Curve honors the curve exponent of unipolar ranges
	Curve bool

	DefaultPolarity modulation.Polarity
	Range           cv.Range
	Smoothing       smooth.Type

	// Offsets overrides the per-shape phase offsets (nil uses the defaults)
	Offsets *modulation.OffsetTable
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("lfo: invalid render config")

// Validate reports configuration values no engine can run with.
func (c RenderConfig) Validate() error {
	if !c.DefaultPolarity.Valid() {
		return fmt.Errorf("%w: default polarity %d", ErrInvalidConfig, int(c.DefaultPolarity))
	}
	switch c.Range {
	case cv.RangeRaw, cv.RangeBipolar, cv.RangeUnipolar, cv.RangeUnipolarToBipolar:
	default:
		return fmt.Errorf("%w: range %d", ErrInvalidConfig, int(c.Range))
	}
	switch c.Smoothing {
	case smooth.RampSmoothing, smooth.LinearSmoothing, smooth.ExponentialSmoothing:
	default:
		return fmt.Errorf("%w: smoothing %d", ErrInvalidConfig, int(c.Smoothing))
	}
	if c.InputStage && c.Range != cv.RangeRaw {
		return fmt.Errorf("%w: input stage requires the raw range", ErrInvalidConfig)
	}
	return nil
}

// CombinerConfig mixes the oscillator with a CV input and outputs
// unclamped volts.
func CombinerConfig() RenderConfig {
	return RenderConfig{
		InputStage:      true,
		DefaultPolarity: modulation.PolarityBipolar,
		Range:           cv.RangeRaw,
		Smoothing:       smooth.RampSmoothing,
	}
}

// ChanceConfig is a bipolar LFO with chance gate and offset.
func ChanceConfig() RenderConfig {
	return RenderConfig{
		ChanceGate:      true,
		Offset:          true,
		DefaultPolarity: modulation.PolarityBipolar,
		Range:           cv.RangeBipolar,
		Smoothing:       smooth.LinearSmoothing,
	}
}

// PolarityConfig adds the polarity selector to ChanceConfig.
func PolarityConfig() RenderConfig {
	c := ChanceConfig()
	c.Polarity = true
	return c
}

// CurveConfig is a unipolar LFO with a shaping exponent, output 0..10 V.
func CurveConfig() RenderConfig {
	return RenderConfig{
		ChanceGate:      true,
		Offset:          true,
		Curve:           true,
		DefaultPolarity: modulation.PolarityUnipolarPositive,
		Range:           cv.RangeUnipolar,
		Smoothing:       smooth.LinearSmoothing,
	}
}

// SpreadConfig is CurveConfig spread over ±10 V.
func SpreadConfig() RenderConfig {
	c := CurveConfig()
	c.Range = cv.RangeUnipolarToBipolar
	return c
}

// Controls are the per-block control values of an Engine.
type Controls struct {
	Frequency float64 // Hz
	Depth     float64 // Unit gain
	Offset    float64 // Added after depth
	Shape     modulation.Shape
	Chance    float64 // [0, 1]
	Polarity  modulation.Polarity
	InputMode modulation.InputMode
	Curve     float64 // Exponent, 1 = linear
}

// DefaultControls returns a 1 Hz full-depth sine that is always enabled.
func DefaultControls() Controls {
	return Controls{
		Frequency: 1.0,
		Depth:     1.0,
		Shape:     modulation.ShapeSine,
		Chance:    1.0,
		Polarity:  modulation.PolarityBipolar,
		InputMode: modulation.InputAdd,
		Curve:     1.0,
	}
}
