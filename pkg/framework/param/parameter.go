// Package param describes the host-facing controls of the LFO processors:
// ranges, units, display formatting and lock-free value storage.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"

	"github.com/justyntemme/lfogo/pkg/dsp/utility"
)

// Parameter represents a processor parameter
type Parameter struct {
	ID           uint32
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // Normalized
	StepCount    int32
	Flags        uint32

	// Exponential maps normalized values geometrically between Min and Max
	Exponential bool

	// Normalized value stored as float64 bits for lock-free access
	value atomic.Uint64

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
	IsList      uint32 = 1 << 3
)

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value (0-1)
func (p *Parameter) SetValue(value float64) {
	if value < 0 || math.IsNaN(value) {
		value = 0
	} else if value > 1 {
		value = 1
	}
	p.value.Store(math.Float64bits(value))
}

// GetPlainValue converts normalized to plain value
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue converts plain to normalized value
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// Reset restores the default value
func (p *Parameter) Reset() {
	p.SetValue(p.DefaultValue)
}

// SetFormatter sets custom value formatting
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
}

// FormatValue returns formatted parameter value
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}

	if p.StepCount > 0 {
		return fmt.Sprintf("%.0f", plain)
	}
	return fmt.Sprintf("%.2f", plain)
}

// String formats the current value
func (p *Parameter) String() string {
	return p.FormatValue(p.GetValue())
}

// ParseValue parses string to normalized value
func (p *Parameter) ParseValue(str string) (float64, error) {
	plain, err := p.parsePlain(str)
	if err != nil {
		return 0, err
	}
	return p.Normalize(plain), nil
}

// Set parses a display string and stores the result. Values outside the
// parameter range are rejected rather than clamped.
func (p *Parameter) Set(str string) error {
	plain, err := p.parsePlain(str)
	if err != nil {
		return fmt.Errorf("param %s: %w", p.Name, err)
	}
	if plain < p.Min || plain > p.Max {
		return fmt.Errorf("param %s: %v outside [%v, %v]", p.Name, plain, p.Min, p.Max)
	}
	p.SetPlainValue(plain)
	return nil
}

func (p *Parameter) parsePlain(str string) (float64, error) {
	if p.parseFunc != nil {
		return p.parseFunc(str)
	}
	return strconv.ParseFloat(str, 64)
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	var normalized float64
	if p.Exponential {
		if plain <= p.Min {
			return 0
		}
		normalized = utility.UnscaleParameterExp(plain, p.Min, p.Max)
	} else {
		normalized = utility.UnscaleParameter(plain, p.Min, p.Max)
	}
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	if p.Exponential {
		switch {
		case normalized <= 0:
			return p.Min
		case normalized >= 1:
			return p.Max
		}
		plain := utility.ScaleParameterExp(normalized, p.Min, p.Max)
		// exp(log(x)) drifts by a few ulps; keep values typed as decimals exact
		if r := math.Round(plain*1e9) / 1e9; math.Abs(plain-r) <= 1e-12*math.Abs(r) {
			plain = r
		}
		return plain
	}
	plain := utility.ScaleParameter(normalized, p.Min, p.Max)
	if p.Flags&IsList != 0 {
		// List codes are integral; drop the rounding error of the round trip
		if r := math.Round(plain); math.Abs(plain-r) < 1e-9 {
			plain = r
		}
	}
	return plain
}
