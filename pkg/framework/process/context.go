// Package process provides the per-block processing context handed to a
// processor: CV buffers, scratch space and parameter access.
package process

import (
	"github.com/justyntemme/lfogo/pkg/framework/bus"
	"github.com/justyntemme/lfogo/pkg/framework/param"
)

// Context provides a clean API for block processing with zero allocations
type Context struct {
	Input      [][]float32
	Output     [][]float32
	SampleRate float64

	// Full-size backing storage for Input/Output
	inputStore  [][]float32
	outputStore [][]float32

	// Pre-allocated work buffers for the float64 engines
	workBuffer []float64
	tempBuffer []float64

	maxBlockSize int
	params       *param.Registry
}

// NewContext creates a new process context with pre-allocated buffers
func NewContext(maxBlockSize int, sampleRate float64, params *param.Registry) *Context {
	return &Context{
		SampleRate:   sampleRate,
		workBuffer:   make([]float64, maxBlockSize),
		tempBuffer:   make([]float64, maxBlockSize),
		maxBlockSize: maxBlockSize,
		params:       params,
	}
}

// AllocateBuffers creates one Input/Output channel per bus channel
func (c *Context) AllocateBuffers(config *bus.Configuration) {
	c.inputStore = makeChannels(config.ChannelCount(bus.DirectionInput), c.maxBlockSize)
	c.outputStore = makeChannels(config.ChannelCount(bus.DirectionOutput), c.maxBlockSize)
	c.SetBlockSize(c.maxBlockSize)
}

func makeChannels(channels, size int) [][]float32 {
	buffers := make([][]float32, channels)
	for ch := range buffers {
		buffers[ch] = make([]float32, size)
	}
	return buffers
}

// SetBlockSize reslices the allocated buffers to n samples
func (c *Context) SetBlockSize(n int) {
	n = max(0, min(n, c.maxBlockSize))

	c.Input = c.Input[:0]
	for _, ch := range c.inputStore {
		c.Input = append(c.Input, ch[:n])
	}
	c.Output = c.Output[:0]
	for _, ch := range c.outputStore {
		c.Output = append(c.Output, ch[:n])
	}
}

// MaxBlockSize returns the largest block the context can hold
func (c *Context) MaxBlockSize() int {
	return c.maxBlockSize
}

// Params returns the registry the context reads from
func (c *Context) Params() *param.Registry {
	return c.params
}

// Param returns the current value of a parameter (0-1 normalized)
func (c *Context) Param(id uint32) float64 {
	if p := c.params.Get(id); p != nil {
		return p.GetValue()
	}
	return 0
}

// ParamPlain returns the current plain value of a parameter
func (c *Context) ParamPlain(id uint32) float64 {
	if p := c.params.Get(id); p != nil {
		return p.GetPlainValue()
	}
	return 0
}

// NumSamples returns the number of samples to process
func (c *Context) NumSamples() int {
	if len(c.Input) > 0 {
		return len(c.Input[0])
	}
	if len(c.Output) > 0 {
		return len(c.Output[0])
	}
	return 0
}

// NumInputChannels returns the number of input channels
func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

// NumOutputChannels returns the number of output channels
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// WorkBuffer returns a slice of the pre-allocated work buffer
// sized to the current block size - no allocation!
func (c *Context) WorkBuffer() []float64 {
	return c.workBuffer[:c.NumSamples()]
}

// TempBuffer returns a slice of the pre-allocated temp buffer
// sized to the current block size - no allocation!
func (c *Context) TempBuffer() []float64 {
	return c.tempBuffer[:c.NumSamples()]
}

// Clear zeros the output buffers
func (c *Context) Clear() {
	for ch := range c.Output {
		clear(c.Output[ch])
	}
}
