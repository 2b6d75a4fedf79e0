package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/justyntemme/lfogo/pkg/dsp/buffer"
	"github.com/justyntemme/lfogo/pkg/dsp/oscillator"
	"github.com/justyntemme/lfogo/pkg/framework/debug"
	"github.com/justyntemme/lfogo/pkg/framework/plugin"
	"github.com/justyntemme/lfogo/pkg/render"
)

// DefaultLatencyMs is the ring lead used when Options.LatencyMs is zero.
const DefaultLatencyMs = 100.0

// Options configure a Session.
type Options struct {
	// Render sets the rate and block size; Seconds of 0 plays until the
	// context passed to Run is done
	Render render.Options

	Mode    Mode
	Carrier *oscillator.Oscillator

	LatencyMs float64
	Logger    *debug.Logger
}

// Session renders a processor in real time into a ring read by the device.
type Session struct {
	opts     Options
	renderer *render.Renderer
	monitor  *Monitor
	ring     *buffer.Ring
	stream   *Stream
	frames   []float32
	logger   *debug.Logger
}

// NewSession initializes and activates proc for streaming.
func NewSession(proc plugin.Processor, opts Options) (*Session, error) {
	if opts.Render.Seconds < 0 || math.IsNaN(opts.Render.Seconds) {
		return nil, fmt.Errorf("%w: duration %v s", render.ErrInvalidOptions, opts.Render.Seconds)
	}

	renderer, err := render.NewRenderer(proc, opts.Render)
	if err != nil {
		return nil, err
	}
	if renderer.NumOutputs() == 0 {
		renderer.Close()
		return nil, errors.New("playback: processor has no outputs")
	}

	// The ring must hold several blocks ahead of the reader
	sr := opts.Render.SampleRate
	blockMs := float64(opts.Render.BlockSize) / sr * 1000
	latency := opts.LatencyMs
	if latency <= 0 {
		latency = DefaultLatencyMs
	}
	latency = max(latency, blockMs)

	ring := buffer.NewRing(sr, OutputChannels, latency)

	logger := opts.Logger
	if logger == nil {
		logger = debug.Default().With("playback")
	}

	return &Session{
		opts:     opts,
		renderer: renderer,
		monitor:  NewMonitor(sr, opts.Mode, opts.Carrier),
		ring:     ring,
		stream:   NewStream(ring),
		frames:   make([]float32, opts.Render.BlockSize*OutputChannels),
		logger:   logger,
	}, nil
}

// Reader returns the float32 stream to hand to a Player.
func (s *Session) Reader() io.Reader {
	return s.stream
}

// Position returns the number of frames rendered so far.
func (s *Session) Position() int {
	return s.renderer.Position()
}

// Stats returns the ring health counters.
func (s *Session) Stats() buffer.Stats {
	return s.ring.Stats()
}

// Run renders until Render.Seconds have been queued or ctx is done. A done
// context is a normal stop and returns nil.
func (s *Session) Run(ctx context.Context) error {
	sr := s.opts.Render.SampleRate
	total := int(math.Round(s.opts.Render.Seconds * sr))
	block := s.opts.Render.BlockSize
	poll := time.Duration(float64(block) / sr / 4 * float64(time.Second))

	s.logger.Info("streaming %s monitor at %.0f Hz, latency %v", s.monitor.Mode(), sr, s.ring.Latency())

	for total == 0 || s.renderer.Position() < total {
		if ctx.Err() != nil {
			break
		}

		n := block
		if total > 0 {
			n = min(n, total-s.renderer.Position())
		}

		out, err := s.renderer.Next(n)
		if err != nil {
			return err
		}
		written := s.monitor.Process(out, s.frames)

		if err := s.ring.WriteContext(ctx, s.frames[:written], poll); err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("playback: %w", err)
		}
	}

	st := s.ring.Stats()
	s.logger.Info("stopped after %d frames: %d underruns, %d overruns, %d adjustments",
		s.renderer.Position(), st.Underruns, st.Overruns, st.Adjustments)
	return nil
}

// Drain waits until the queued audio has had time to play.
func (s *Session) Drain(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(s.ring.Latency()):
	}
}

// Close deactivates the processor.
func (s *Session) Close() error {
	return s.renderer.Close()
}
