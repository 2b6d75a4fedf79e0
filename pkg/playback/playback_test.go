package playback

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math"
	"testing"
	"time"

	"github.com/justyntemme/lfogo/pkg/dsp/buffer"
	"github.com/justyntemme/lfogo/pkg/dsp/oscillator"
	"github.com/justyntemme/lfogo/pkg/framework/debug"
	"github.com/justyntemme/lfogo/pkg/framework/plugin"
	"github.com/justyntemme/lfogo/pkg/render"

	_ "github.com/justyntemme/lfogo/pkg/plugins/lfo"
	_ "github.com/justyntemme/lfogo/pkg/plugins/lfomatrix"
)

func constant(n int, v float32) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"tone", ModeTone, false},
		{" Direct ", ModeDirect, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v", tt.in, err)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToneMonitorFollowsCV(t *testing.T) {
	const sr = 48000
	m := NewMonitor(sr, ModeTone, nil)
	dst := make([]float32, 512*OutputChannels)

	// Full positive CV passes the carrier at monitor level
	var peak float32
	for block := 0; block < 20; block++ {
		m.Process([][]float32{constant(512, 10)}, dst)
	}
	for _, v := range dst {
		peak = max(peak, float32(math.Abs(float64(v))))
	}
	if peak < 0.45 || peak > 0.5001 {
		t.Errorf("peak at +10 V = %f, want ~0.5", peak)
	}

	// Full negative CV closes the VCA
	for block := 0; block < 20; block++ {
		m.Process([][]float32{constant(512, -10)}, dst)
	}
	for i, v := range dst {
		if math.Abs(float64(v)) > 1e-3 {
			t.Fatalf("sample %d = %f at -10 V, want silence", i, v)
		}
	}
}

func TestMonoCVFeedsBothSides(t *testing.T) {
	m := NewMonitor(48000, ModeTone, nil)
	dst := make([]float32, 64*OutputChannels)

	if n := m.Process([][]float32{constant(64, 3)}, dst); n != 128 {
		t.Fatalf("wrote %d samples, want 128", n)
	}
	for i := 0; i < 64; i++ {
		if dst[2*i] != dst[2*i+1] {
			t.Fatalf("frame %d: left %f != right %f", i, dst[2*i], dst[2*i+1])
		}
	}
}

func TestStereoCVIsIndependent(t *testing.T) {
	carrier := oscillator.New(48000)
	carrier.SetWaveform(oscillator.WaveformSquare)
	m := NewMonitor(48000, ModeTone, carrier)
	dst := make([]float32, 256*OutputChannels)

	for block := 0; block < 40; block++ {
		m.Process([][]float32{constant(256, 10), constant(256, -10)}, dst)
	}
	for i := 0; i < 256; i++ {
		if math.Abs(float64(dst[2*i])) < 0.49 {
			t.Fatalf("frame %d left = %f, want full level", i, dst[2*i])
		}
		if math.Abs(float64(dst[2*i+1])) > 1e-3 {
			t.Fatalf("frame %d right = %f, want silence", i, dst[2*i+1])
		}
	}
}

func TestDirectMonitorBlocksDC(t *testing.T) {
	m := NewMonitor(48000, ModeDirect, nil)
	dst := make([]float32, 512*OutputChannels)

	m.Process([][]float32{constant(512, 5)}, dst)
	if math.Abs(float64(dst[0])-0.25) > 1e-6 {
		t.Errorf("step onset = %f, want 0.25", dst[0])
	}

	for block := 0; block < 100; block++ {
		m.Process([][]float32{constant(512, 5)}, dst)
	}
	if v := dst[len(dst)-1]; math.Abs(float64(v)) > 1e-3 {
		t.Errorf("settled output = %f, want ~0", v)
	}
}

func TestMonitorShortDestination(t *testing.T) {
	m := NewMonitor(48000, ModeDirect, nil)
	dst := make([]float32, 10)
	if n := m.Process([][]float32{constant(64, 1)}, dst); n != 10 {
		t.Errorf("wrote %d samples into a 10-sample buffer", n)
	}
	if n := m.Process(nil, dst); n != 0 {
		t.Errorf("no CV wrote %d samples", n)
	}
}

func TestStreamEncodesFloat32LE(t *testing.T) {
	ring := buffer.NewRing(1000, 1, 10)
	if err := ring.Write([]float32{0.5, -1, 0.25, 1, 0, 0, 0, 0, 0, 0.125}); err != nil {
		t.Fatal(err)
	}

	s := NewStream(ring)
	p := make([]byte, 20*4+3)
	n, err := s.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 80 {
		t.Fatalf("Read = %d bytes, want 80", n)
	}

	samples := make([]float32, 20)
	if err := binary.Read(bytes.NewReader(p[:n]), binary.LittleEndian, samples); err != nil {
		t.Fatal(err)
	}
	// The first latency window is silence
	want := []float32{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0.5, -1, 0.25, 1, 0, 0, 0, 0, 0, 0.125}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d = %f, want %f", i, samples[i], want[i])
		}
	}
}

func newSession(t *testing.T, name string, seconds float64) *Session {
	t.Helper()
	plug, err := plugin.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	s, err := NewSession(plug.CreateProcessor(), Options{
		Render:    render.Options{SampleRate: 1000, BlockSize: 50, Seconds: seconds},
		Mode:      ModeTone,
		LatencyMs: 50,
		Logger:    debug.New(&logs, "", debug.FlagLevel),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRendersRequestedLength(t *testing.T) {
	s := newSession(t, "lfo-matrix", 0.5)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Consume the stream until Run finishes
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	p := make([]byte, 100*OutputChannels*4)
	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatal(err)
			}
			if s.Position() != 500 {
				t.Errorf("position = %d, want 500", s.Position())
			}
			return
		default:
			if _, err := io.ReadFull(s.Reader(), p); err != nil {
				t.Fatal(err)
			}
			time.Sleep(time.Millisecond)
		}
	}
}

func TestSessionStopsOnCancel(t *testing.T) {
	s := newSession(t, "lfo", 0)

	// Nothing reads the ring, so Run blocks until the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run = %v, want nil on cancel", err)
	}
	if s.Stats().Overruns == 0 {
		t.Error("a full ring should report overruns")
	}
}

func TestSessionRejectsNegativeDuration(t *testing.T) {
	plug, _ := plugin.Lookup("lfo")
	_, err := NewSession(plug.CreateProcessor(), Options{
		Render: render.Options{SampleRate: 1000, BlockSize: 50, Seconds: -1},
	})
	if err == nil {
		t.Error("negative duration should fail")
	}
}
