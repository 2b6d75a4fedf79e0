// Package utility provides the parameter scaling helpers shared by the engines
// and the host adapters.
package utility

import "math"

// ScaleParameter performs linear scaling of a normalized parameter value (0-1) to a target range.
func ScaleParameter(normalized, min, max float64) float64 {
	return min + normalized*(max-min)
}

// ScaleParameterExp performs exponential scaling of a normalized parameter value (0-1) to a target range.
// Rate controls use this so low frequencies get most of the travel.
func ScaleParameterExp(normalized, min, max float64) float64 {
	if min <= 0 || max <= 0 {
		// Fall back to linear scaling if min or max is non-positive
		return ScaleParameter(normalized, min, max)
	}
	return min * math.Pow(max/min, normalized)
}

// UnscaleParameter performs inverse linear scaling from a target range back to normalized (0-1).
func UnscaleParameter(value, min, max float64) float64 {
	if max == min {
		return 0.0
	}
	return (value - min) / (max - min)
}

// UnscaleParameterExp performs inverse exponential scaling from a target range back to normalized (0-1).
func UnscaleParameterExp(value, min, max float64) float64 {
	if min <= 0 || max <= 0 || max == min {
		return UnscaleParameter(value, min, max)
	}
	return math.Log(value/min) / math.Log(max/min)
}

// ClampParameter ensures a parameter value stays within the specified range.
func ClampParameter(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Cube shapes a bipolar weight as x³, keeping sign and giving fine control near zero.
func Cube(value float64) float64 {
	return value * value * value
}

// UnipolarToBipolar converts a unipolar value (0 to 1) to bipolar (-1 to 1).
func UnipolarToBipolar(value float64) float64 {
	return value*2.0 - 1.0
}

// PercentToUnit converts a percentage to a unit gain.
func PercentToUnit(percent float64) float64 {
	return percent * 0.01
}
