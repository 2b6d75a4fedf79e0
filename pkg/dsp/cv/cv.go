// Package cv maps raw oscillator amplitudes onto the calibrated
// control-voltage range consumed by downstream modules.
package cv

import (
	"fmt"
	"math"

	"github.com/justyntemme/lfogo/pkg/dsp"
	"github.com/justyntemme/lfogo/pkg/dsp/utility"
)

// Range selects the clamp and rescale law applied after depth and offset.
type Range int

const (
	// RangeRaw scales to volts without clamping
	RangeRaw Range = iota
	// RangeBipolar clamps to [-1, 1] and scales to ±10 V
	RangeBipolar
	// RangeUnipolar clamps to [0, 1], applies the curve and scales to 0..10 V
	RangeUnipolar
	// RangeUnipolarToBipolar clamps to [0, 1], applies the curve and spreads to ±10 V
	RangeUnipolarToBipolar
)

// String returns the range name.
func (r Range) String() string {
	switch r {
	case RangeRaw:
		return "raw"
	case RangeBipolar:
		return "bipolar"
	case RangeUnipolar:
		return "unipolar"
	case RangeUnipolarToBipolar:
		return "unipolar-to-bipolar"
	default:
		return "unknown"
	}
}

// Bounds returns the voltage interval the range can produce. RangeRaw is
// unbounded.
func (r Range) Bounds() (min, max float64) {
	switch r {
	case RangeRaw:
		return math.Inf(-1), math.Inf(1)
	case RangeBipolar, RangeUnipolarToBipolar:
		return dsp.MinCV, dsp.MaxCV
	case RangeUnipolar:
		return 0, dsp.MaxCV
	default:
		panic(fmt.Sprintf("cv: invalid range %d", int(r)))
	}
}

// Mapper applies depth, offset, clamp, curve and volt scaling in that order.
type Mapper struct {
	Range Range
	// Curve is the exponent applied to the clamped unipolar value (1 = linear)
	Curve float64
}

// NewMapper creates a mapper with a linear curve.
func NewMapper(r Range) *Mapper {
	return &Mapper{Range: r, Curve: 1.0}
}

// Map converts an amplitude to volts.
func (m *Mapper) Map(amplitude, depth, offset float64) float64 {
	v := amplitude*depth + offset

	switch m.Range {
	case RangeRaw:
		return v * dsp.CVScale
	case RangeBipolar:
		return utility.ClampParameter(v, -1, 1) * dsp.CVScale
	case RangeUnipolar:
		return m.curve(utility.ClampParameter(v, 0, 1)) * dsp.CVScale
	case RangeUnipolarToBipolar:
		return utility.UnipolarToBipolar(m.curve(utility.ClampParameter(v, 0, 1))) * dsp.CVScale
	default:
		panic(fmt.Sprintf("cv: invalid range %d", int(m.Range)))
	}
}

func (m *Mapper) curve(u float64) float64 {
	if m.Curve == 1.0 || m.Curve <= 0 {
		return u
	}
	return math.Pow(u, m.Curve)
}

// ToVolts scales a ±1 amplitude to volts.
func ToVolts(amplitude float64) float64 {
	return amplitude * dsp.CVScale
}

// FromVolts scales an incoming CV sample to a ±1 amplitude.
func FromVolts(volts float64) float64 {
	return volts * dsp.CVInputScale
}
