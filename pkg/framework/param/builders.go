package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ChoiceOption represents a single choice in a list parameter
type ChoiceOption struct {
	Value   float64
	Name    string
	Aliases []string
}

// Options numbers names from 1, the convention for host selector codes.
func Options(names ...string) []ChoiceOption {
	options := make([]ChoiceOption, len(names))
	for i, name := range names {
		options[i] = ChoiceOption{Value: float64(i + 1), Name: name}
	}
	return options
}

// Choice creates a parameter builder for a multiple choice parameter
func Choice(id uint32, name string, options []ChoiceOption) *Builder {
	formatter := func(value float64) string {
		// Denormalized values can be off by an ulp
		value = math.Round(value)
		for _, opt := range options {
			if opt.Value == value {
				return opt.Name
			}
		}
		return "Unknown"
	}

	parser := func(str string) (float64, error) {
		str = strings.TrimSpace(str)
		for _, opt := range options {
			if strings.EqualFold(str, opt.Name) {
				return opt.Value, nil
			}
			for _, alias := range opt.Aliases {
				if strings.EqualFold(str, alias) {
					return opt.Value, nil
				}
			}
		}

		// Numeric codes are accepted when they name an option
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			for _, opt := range options {
				if opt.Value == v {
					return v, nil
				}
			}
		}
		return 0, fmt.Errorf("unknown option: %s", str)
	}

	minVal, maxVal := 0.0, 0.0
	if len(options) > 0 {
		minVal = options[0].Value
		maxVal = options[len(options)-1].Value
	}

	b := New(id, name).
		Range(minVal, maxVal).
		Steps(int32(len(options)-1)).
		Formatter(formatter, parser)
	b.param.Flags |= IsList
	if len(options) > 0 {
		b.Default(options[0].Value)
	}
	return b
}

// RateParameter creates an LFO rate parameter (Hz)
func RateParameter(id uint32, name string, minHz, maxHz, defaultHz float64) *Builder {
	return New(id, name).
		Range(minHz, maxHz).
		Exponential().
		Default(defaultHz).
		Unit("Hz").
		Formatter(func(v float64) string {
			if math.Round(v*1000)/1000 < 1 {
				return fmt.Sprintf("%.3f Hz", v)
			}
			return fmt.Sprintf("%.2f Hz", v)
		}, FrequencyParser)
}

// PercentParameter creates a percentage parameter
func PercentParameter(id uint32, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(defaultVal).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// DepthParameter creates a depth/amount parameter (0-100%)
func DepthParameter(id uint32, name string) *Builder {
	return PercentParameter(id, name, 0, 100, 100)
}

// OffsetParameter creates a bipolar offset parameter (-100-100%)
func OffsetParameter(id uint32, name string) *Builder {
	return PercentParameter(id, name, -100, 100, 0)
}

// ChanceParameter creates a per-cycle probability parameter (0-100%)
func ChanceParameter(id uint32, name string) *Builder {
	return PercentParameter(id, name, 0, 100, 100)
}

// CurveParameter creates a response exponent parameter
func CurveParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(0.25, 4).
		Default(1).
		Formatter(func(v float64) string {
			return fmt.Sprintf("x^%.2f", v)
		}, func(s string) (float64, error) {
			s = strings.TrimPrefix(strings.TrimSpace(strings.ToLower(s)), "x^")
			return strconv.ParseFloat(s, 64)
		})
}

// WeightParameter creates a bipolar routing weight (-1 to 1)
func WeightParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(-1, 1).
		Default(0).
		Formatter(func(v float64) string {
			return fmt.Sprintf("%+.3f", v)
		}, nil)
}

// OnOffParameter creates an on/off switch
func OnOffParameter(id uint32, name string, on bool) *Builder {
	b := New(id, name).Toggle()
	if on {
		b.Default(1)
	}
	return b
}
