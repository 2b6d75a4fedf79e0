//go:build headless

package playback

import (
	"context"
	"io"
	"sync"
	"time"
)

// Player drains the stream at the real-time rate without an audio device.
type Player struct {
	src     io.Reader
	chunk   []byte
	period  time.Duration
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	mu      sync.Mutex
}

// NewPlayer creates a device-less player for src.
func NewPlayer(sampleRate, channels int, bufferSize time.Duration, src io.Reader) (*Player, error) {
	const period = 10 * time.Millisecond
	frames := sampleRate * int(period) / int(time.Second)
	return &Player{
		src:    src,
		chunk:  make([]byte, frames*channels*4),
		period: period,
	}, nil
}

// Start begins draining the stream.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.started = true

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := p.src.Read(p.chunk); err != nil {
					return
				}
			}
		}
	}()
}

// IsStarted reports whether Start has been called.
func (p *Player) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Close stops draining.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		p.cancel()
		<-p.done
		p.started = false
	}
	return nil
}
