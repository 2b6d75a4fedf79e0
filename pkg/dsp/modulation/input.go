package modulation

import "fmt"

// InputMode determines how an external CV input combines with the oscillator.
type InputMode int

const (
	// InputAdd outputs osc*depth + input
	InputAdd InputMode = iota
	// InputSubtractA outputs osc*depth - input
	InputSubtractA
	// InputSubtractB outputs input - osc*depth
	InputSubtractB
	// InputMultiply outputs osc*depth * input
	InputMultiply
	// InputFM scales the oscillator frequency by the input
	InputFM
	// InputPM adds the input to the oscillator phase
	InputPM

	numInputModes
)

// String returns the display name of the mode.
func (m InputMode) String() string {
	switch m {
	case InputAdd:
		return "Add"
	case InputSubtractA:
		return "Subtract A"
	case InputSubtractB:
		return "Subtract B"
	case InputMultiply:
		return "Multiply"
	case InputFM:
		return "FM"
	case InputPM:
		return "PM"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the defined modes.
func (m InputMode) Valid() bool {
	return m >= InputAdd && m < numInputModes
}

// Frequency returns the oscillator frequency to use for this mode.
func (m InputMode) Frequency(frequency, input float64) float64 {
	if m == InputFM {
		return frequency * input
	}
	return frequency
}

// PhaseMod returns the phase offset (in cycles) the mode feeds the oscillator.
func (m InputMode) PhaseMod(input float64) float64 {
	if m == InputPM {
		return input
	}
	return 0
}

// Combine mixes the depth-scaled oscillator value with the input.
func (m InputMode) Combine(osc, depth, input float64) float64 {
	switch m {
	case InputAdd:
		return osc*depth + input
	case InputSubtractA:
		return osc*depth - input
	case InputSubtractB:
		return input - osc*depth
	case InputMultiply:
		return osc * depth * input
	case InputFM, InputPM:
		// Input already applied to the oscillator itself
		return osc * depth
	default:
		panic(fmt.Sprintf("modulation: invalid input mode %d", int(m)))
	}
}
