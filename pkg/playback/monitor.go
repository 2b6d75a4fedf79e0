// Package playback makes CV audible: a Monitor turns rendered volts into
// stereo audio, a Session streams it through a ring buffer, and a Player
// hands the stream to the system audio device.
package playback

import (
	"fmt"
	"strings"

	"github.com/justyntemme/lfogo/pkg/dsp"
	"github.com/justyntemme/lfogo/pkg/dsp/modulation"
	"github.com/justyntemme/lfogo/pkg/dsp/oscillator"
	"github.com/justyntemme/lfogo/pkg/dsp/utility"
)

// OutputChannels is the device channel count; mono CV is sent to both sides.
const OutputChannels = 2

// Mode selects how CV becomes audio.
type Mode int

const (
	// ModeTone amplitude-modulates a carrier tone with the CV
	ModeTone Mode = iota
	// ModeDirect plays the CV itself, DC-blocked and scaled to ±1
	ModeDirect
)

func (m Mode) String() string {
	switch m {
	case ModeTone:
		return "tone"
	case ModeDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// ParseMode parses "tone" or "direct".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tone":
		return ModeTone, nil
	case "direct":
		return ModeDirect, nil
	}
	return 0, fmt.Errorf("playback: unknown mode %q", s)
}

const (
	directCutoffHz = 5.0
	monitorLevel   = 0.5
)

// Monitor converts blocks of CV channels into interleaved stereo frames.
type Monitor struct {
	mode Mode

	carrier *oscillator.Oscillator
	vca     *modulation.Tremolo
	dc      *utility.DCBlocker

	tone  []float32
	left  []float32
	right []float32
	work  []float64
}

// NewMonitor creates a monitor. carrier is the tone used by ModeTone and
// may be nil for ModeDirect.
func NewMonitor(sampleRate float64, mode Mode, carrier *oscillator.Oscillator) *Monitor {
	if carrier == nil {
		carrier = oscillator.New(sampleRate)
	}
	carrier.SetLevel(monitorLevel)

	return &Monitor{
		mode:    mode,
		carrier: carrier,
		vca:     modulation.NewTremolo(sampleRate),
		dc:      utility.NewDCBlocker(OutputChannels, directCutoffHz, sampleRate),
	}
}

// Mode returns the conversion mode.
func (m *Monitor) Mode() Mode {
	return m.mode
}

func (m *Monitor) grow(frames int) {
	if cap(m.left) < frames {
		m.tone = make([]float32, frames)
		m.left = make([]float32, frames)
		m.right = make([]float32, frames)
		m.work = make([]float64, frames)
	}
	m.tone = m.tone[:frames]
	m.left = m.left[:frames]
	m.right = m.right[:frames]
	m.work = m.work[:frames]
}

// Process converts cv (one or two channels of volts) into dst as
// interleaved stereo and returns the number of samples written.
func (m *Monitor) Process(cv [][]float32, dst []float32) int {
	if len(cv) == 0 {
		return 0
	}
	l, r := cv[0], cv[0]
	if len(cv) > 1 {
		r = cv[1]
	}
	frames := min(len(l), len(r), len(dst)/OutputChannels)
	m.grow(frames)

	switch m.mode {
	case ModeTone:
		m.carrier.Process(m.tone)
		for i := 0; i < frames; i++ {
			m.left[i], m.right[i] = m.vca.ProcessStereo(m.tone[i], m.tone[i], float64(l[i]), float64(r[i]))
		}
	case ModeDirect:
		m.direct(l[:frames], m.left, 0)
		m.direct(r[:frames], m.right, 1)
	default:
		panic(fmt.Sprintf("playback: invalid mode %d", int(m.mode)))
	}

	return dsp.Interleave(dst, m.left, m.right) * OutputChannels
}

func (m *Monitor) direct(volts, out []float32, channel int) {
	for i, v := range volts {
		m.work[i] = float64(v) / dsp.CVScale * monitorLevel
	}
	m.dc.ProcessBuffer(m.work, channel)
	dsp.ToFloat32(out, m.work)
	dsp.Clip(out, 1)
}

// Reset clears the filter and VCA state and restarts the carrier.
func (m *Monitor) Reset() {
	m.carrier.Reset()
	m.vca.Reset()
	m.dc.Reset()
}
