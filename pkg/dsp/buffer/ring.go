// Package buffer provides the lock-free ring that hands rendered CV frames
// from the engine goroutine to the audio device callback.
package buffer

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"
)

// ErrOverrun is returned by Write when the ring cannot hold the samples.
var ErrOverrun = errors.New("buffer: overrun")

// Ring is a single-producer single-consumer circular buffer of interleaved
// float32 samples. The reader is held a fixed latency behind the writer so
// that scheduling pauses on the producer side do not reach the device.
type Ring struct {
	data           []float32
	readPos        atomic.Uint64
	writePos       atomic.Uint64
	size           uint32
	mask           uint32
	latencySamples uint32
	sampleRate     float64
	channels       int

	underruns   atomic.Uint64
	overruns    atomic.Uint64
	adjustments atomic.Uint64
}

// Stats reports ring health.
type Stats struct {
	Underruns      uint64
	Overruns       uint64
	Adjustments    uint64
	FillPercentage float32
	Latency        time.Duration
}

// NewRing creates a ring holding latencyMs of audio ahead of the reader.
// Capacity is four times the latency, rounded up to a power of two.
func NewRing(sampleRate float64, channels int, latencyMs float64) *Ring {
	if channels < 1 {
		channels = 1
	}
	frames := uint32(math.Round(latencyMs * sampleRate / 1000.0))
	latency := frames * uint32(channels)
	size := nextPowerOf2(latency * 4)

	r := &Ring{
		data:           make([]float32, size),
		size:           size,
		mask:           size - 1,
		latencySamples: latency,
		sampleRate:     sampleRate,
		channels:       channels,
	}
	r.writePos.Store(uint64(latency))
	return r
}

// Channels returns the interleave width.
func (r *Ring) Channels() int {
	return r.channels
}

// Capacity returns the ring size in samples.
func (r *Ring) Capacity() int {
	return int(r.size)
}

// Write appends samples or fails with ErrOverrun without writing anything.
func (r *Ring) Write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}

	writePos := r.writePos.Load()
	readPos := r.readPos.Load()

	if r.availableSpace(readPos, writePos) < uint32(len(samples)) {
		r.overruns.Add(1)
		return ErrOverrun
	}

	remaining := len(samples)
	src := 0
	for remaining > 0 {
		idx := uint32(writePos) & r.mask
		n := remaining
		if idx+uint32(n) > r.size {
			n = int(r.size - idx)
		}
		copy(r.data[idx:idx+uint32(n)], samples[src:src+n])
		src += n
		remaining -= n
		writePos += uint64(n)
	}

	r.writePos.Store(writePos)
	return nil
}

// WriteContext retries Write until it succeeds or ctx is done.
func (r *Ring) WriteContext(ctx context.Context, samples []float32, poll time.Duration) error {
	for {
		err := r.Write(samples)
		if !errors.Is(err, ErrOverrun) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
	}
}

// Read fills output and returns how many samples came from the ring. The
// unfilled tail is zeroed.
func (r *Ring) Read(output []float32) int {
	if len(output) == 0 {
		return 0
	}

	r.maintainDelay()

	readPos := r.readPos.Load()
	writePos := r.writePos.Load()

	toRead := len(output)
	if available := r.availableData(readPos, writePos); available < uint32(toRead) {
		toRead = int(available)
		r.underruns.Add(1)
	}

	remaining := toRead
	dst := 0
	for remaining > 0 {
		idx := uint32(readPos) & r.mask
		n := remaining
		if idx+uint32(n) > r.size {
			n = int(r.size - idx)
		}
		copy(output[dst:dst+n], r.data[idx:idx+uint32(n)])
		dst += n
		remaining -= n
		readPos += uint64(n)
	}
	r.readPos.Store(readPos)

	clear(output[toRead:])
	return toRead
}

// maintainDelay pulls the reader back to at least latencySamples behind the writer.
func (r *Ring) maintainDelay() {
	for {
		readPos := r.readPos.Load()
		writePos := r.writePos.Load()
		if writePos-readPos >= uint64(r.latencySamples) {
			return
		}
		if r.readPos.CompareAndSwap(readPos, writePos-uint64(r.latencySamples)) {
			r.adjustments.Add(1)
			return
		}
	}
}

// Stats returns a snapshot of the ring counters.
func (r *Ring) Stats() Stats {
	readPos := r.readPos.Load()
	writePos := r.writePos.Load()

	return Stats{
		Underruns:      r.underruns.Load(),
		Overruns:       r.overruns.Load(),
		Adjustments:    r.adjustments.Load(),
		FillPercentage: float32(r.availableData(readPos, writePos)) / float32(r.size) * 100.0,
		Latency:        r.samplesToDuration(writePos - readPos),
	}
}

// Latency returns the current writer lead as a duration.
func (r *Ring) Latency() time.Duration {
	return r.samplesToDuration(r.writePos.Load() - r.readPos.Load())
}

// Reset clears the ring and restores the initial writer lead.
func (r *Ring) Reset() {
	clear(r.data)
	r.readPos.Store(0)
	r.writePos.Store(uint64(r.latencySamples))
	r.underruns.Store(0)
	r.overruns.Store(0)
	r.adjustments.Store(0)
}

func (r *Ring) samplesToDuration(samples uint64) time.Duration {
	frames := float64(samples) / float64(r.channels)
	return time.Duration(frames / r.sampleRate * float64(time.Second))
}

func (r *Ring) availableSpace(readPos, writePos uint64) uint32 {
	used := writePos - readPos
	if used >= uint64(r.size) {
		return 0
	}
	return r.size - uint32(used)
}

func (r *Ring) availableData(readPos, writePos uint64) uint32 {
	if writePos < readPos {
		return 0
	}
	available := writePos - readPos
	if available > uint64(r.size) {
		return r.size
	}
	return uint32(available)
}

// nextPowerOf2 rounds up to the next power of 2
func nextPowerOf2(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}
