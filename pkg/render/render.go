// Package render drives a processor offline, block by block, and exports
// the resulting CV as WAV.
package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/justyntemme/lfogo/pkg/automation"
	"github.com/justyntemme/lfogo/pkg/dsp"
	"github.com/justyntemme/lfogo/pkg/framework/bus"
	"github.com/justyntemme/lfogo/pkg/framework/debug"
	"github.com/justyntemme/lfogo/pkg/framework/plugin"
	"github.com/justyntemme/lfogo/pkg/framework/process"
)

// ErrInvalidOptions is returned for unusable render settings.
var ErrInvalidOptions = errors.New("render: invalid options")

// Options configure a Renderer.
type Options struct {
	SampleRate float64
	BlockSize  int

	// Seconds is the length rendered by Render
	Seconds float64

	// Input holds one buffer of volts per processor input channel.
	// Samples past the end read as 0 V.
	Input [][]float32

	// Script, when set, updates parameters before every block
	Script *automation.Script

	// Profiler, when set, times every ProcessAudio call
	Profiler *debug.BlockProfiler
}

// DefaultOptions renders one second at 48 kHz in 512-sample blocks.
func DefaultOptions() Options {
	return Options{
		SampleRate: dsp.SampleRate48k,
		BlockSize:  dsp.DefaultBufferSize,
		Seconds:    1,
	}
}

func (o Options) validate() error {
	if o.SampleRate <= 0 || math.IsNaN(o.SampleRate) || math.IsInf(o.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidOptions, o.SampleRate)
	}
	if o.BlockSize < 1 || o.BlockSize > dsp.MaxBufferSize {
		return fmt.Errorf("%w: block size %d outside [1, %d]", ErrInvalidOptions, o.BlockSize, dsp.MaxBufferSize)
	}
	return nil
}

// Renderer owns an active processor and its processing context.
type Renderer struct {
	proc plugin.Processor
	ctx  *process.Context
	opts Options

	block    int
	position int
}

// NewRenderer initializes and activates proc.
func NewRenderer(proc plugin.Processor, opts Options) (*Renderer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := proc.Initialize(opts.SampleRate, int32(opts.BlockSize)); err != nil {
		return nil, fmt.Errorf("render: initialize: %w", err)
	}
	if err := proc.SetActive(true); err != nil {
		return nil, fmt.Errorf("render: activate: %w", err)
	}

	ctx := process.NewContext(opts.BlockSize, opts.SampleRate, proc.GetParameters())
	ctx.AllocateBuffers(proc.GetBuses())

	if opts.Script != nil {
		opts.Script.SetGlobals(opts.SampleRate, opts.BlockSize)
	}

	return &Renderer{proc: proc, ctx: ctx, opts: opts}, nil
}

// OutputNames returns the processor's output channel names.
func (r *Renderer) OutputNames() []string {
	return r.proc.GetBuses().ChannelNames(bus.DirectionOutput)
}

// NumOutputs returns the processor's output channel count.
func (r *Renderer) NumOutputs() int {
	return r.ctx.NumOutputChannels()
}

// Position returns the number of frames rendered so far.
func (r *Renderer) Position() int {
	return r.position
}

// Next renders the next n frames (at most one block) and returns the output
// channels. The buffers are reused by the following call.
func (r *Renderer) Next(n int) ([][]float32, error) {
	n = min(n, r.opts.BlockSize)
	r.ctx.SetBlockSize(n)

	if s := r.opts.Script; s != nil {
		t := float64(r.position) / r.opts.SampleRate
		if err := s.Apply(r.proc.GetParameters(), t, r.block); err != nil {
			return nil, fmt.Errorf("render: block %d: %w", r.block, err)
		}
	}

	r.fillInput()

	if p := r.opts.Profiler; p != nil {
		stop := p.StartBlock()
		r.proc.ProcessAudio(r.ctx)
		stop()
	} else {
		r.proc.ProcessAudio(r.ctx)
	}

	r.position += n
	r.block++
	return r.ctx.Output, nil
}

func (r *Renderer) fillInput() {
	for ch, dst := range r.ctx.Input {
		var src []float32
		if ch < len(r.opts.Input) && r.position < len(r.opts.Input[ch]) {
			src = r.opts.Input[ch][r.position:]
		}
		n := copy(dst, src)
		clear(dst[n:])
	}
}

// Close deactivates the processor.
func (r *Renderer) Close() error {
	return r.proc.SetActive(false)
}

// Result is a rendered multi-channel CV signal in volts.
type Result struct {
	SampleRate float64
	Names      []string
	Channels   [][]float32
}

// Frames returns the number of samples per channel.
func (r *Result) Frames() int {
	if len(r.Channels) == 0 {
		return 0
	}
	return len(r.Channels[0])
}

// Duration returns the length of the signal.
func (r *Result) Duration() time.Duration {
	return time.Duration(float64(r.Frames()) / r.SampleRate * float64(time.Second))
}

// Render runs proc for opts.Seconds and collects every output channel.
func Render(ctx context.Context, proc plugin.Processor, opts Options) (*Result, error) {
	if opts.Seconds <= 0 || math.IsNaN(opts.Seconds) || math.IsInf(opts.Seconds, 0) {
		return nil, fmt.Errorf("%w: duration %v s", ErrInvalidOptions, opts.Seconds)
	}

	r, err := NewRenderer(proc, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	frames := int(math.Round(opts.Seconds * opts.SampleRate))
	res := &Result{
		SampleRate: opts.SampleRate,
		Names:      r.OutputNames(),
		Channels:   make([][]float32, r.NumOutputs()),
	}
	for ch := range res.Channels {
		res.Channels[ch] = make([]float32, frames)
	}

	for r.Position() < frames {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}

		start := r.Position()
		out, err := r.Next(frames - start)
		if err != nil {
			return nil, err
		}
		for ch := range res.Channels {
			copy(res.Channels[ch][start:], out[ch])
		}
	}

	return res, nil
}
