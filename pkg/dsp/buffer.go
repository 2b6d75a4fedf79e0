package dsp

import "math"

// Buffer utilities shared by the renderers and the monitor output

// Clear zeroes a buffer - no allocations
func Clear(buffer []float32) {
	for i := range buffer {
		buffer[i] = 0
	}
}

// Scale multiplies buffer by a constant - no allocations
func Scale(buffer []float32, scale float32) {
	for i := range buffer {
		buffer[i] *= scale
	}
}

// Clip limits samples to [-limit, limit]
func Clip(buffer []float32, limit float32) {
	for i := range buffer {
		if buffer[i] > limit {
			buffer[i] = limit
		} else if buffer[i] < -limit {
			buffer[i] = -limit
		}
	}
}

// Peak finds the maximum absolute value in a buffer
func Peak(buffer []float32) float32 {
	peak := float32(0)
	for _, sample := range buffer {
		abs := float32(math.Abs(float64(sample)))
		if abs > peak {
			peak = abs
		}
	}
	return peak
}

// ToFloat32 narrows src into dst, up to the shorter length
func ToFloat32(dst []float32, src []float64) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = float32(src[i])
	}
}

// Interleave writes channels frame by frame into dst and returns the number
// of frames written. Every channel must be at least as long as the shortest.
func Interleave(dst []float32, channels ...[]float32) int {
	if len(channels) == 0 {
		return 0
	}
	frames := len(dst) / len(channels)
	for _, ch := range channels {
		frames = min(frames, len(ch))
	}
	for i := 0; i < frames; i++ {
		for c, ch := range channels {
			dst[i*len(channels)+c] = ch[i]
		}
	}
	return frames
}
