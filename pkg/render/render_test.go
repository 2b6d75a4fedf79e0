package render

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/justyntemme/lfogo/pkg/automation"
	"github.com/justyntemme/lfogo/pkg/framework/debug"
	"github.com/justyntemme/lfogo/pkg/framework/plugin"

	_ "github.com/justyntemme/lfogo/pkg/plugins/lfo"
	_ "github.com/justyntemme/lfogo/pkg/plugins/lfomatrix"
)

func newProcessor(t *testing.T, name string) plugin.Processor {
	t.Helper()
	plug, err := plugin.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return plug.CreateProcessor()
}

func testOptions() Options {
	return Options{SampleRate: 1000, BlockSize: 64, Seconds: 1}
}

func TestRenderLength(t *testing.T) {
	tests := []struct {
		name    string
		plugin  string
		seconds float64
		frames  int
		outputs int
	}{
		{"one second", "lfo", 1, 1000, 1},
		{"partial block", "lfo-chance", 0.1, 100, 1},
		{"matrix", "lfo-matrix", 0.5, 500, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.Seconds = tt.seconds

			res, err := Render(context.Background(), newProcessor(t, tt.plugin), opts)
			if err != nil {
				t.Fatal(err)
			}
			if res.Frames() != tt.frames {
				t.Errorf("frames = %d, want %d", res.Frames(), tt.frames)
			}
			if len(res.Channels) != tt.outputs || len(res.Names) != tt.outputs {
				t.Errorf("channels = %d, names = %v, want %d", len(res.Channels), res.Names, tt.outputs)
			}
		})
	}
}

func TestRenderMatchesSine(t *testing.T) {
	res, err := Render(context.Background(), newProcessor(t, "lfo"), testOptions())
	if err != nil {
		t.Fatal(err)
	}

	// 1 Hz sine at 1 kHz; the phase advances before each sample
	for i, v := range res.Channels[0] {
		want := 10 * math.Sin(2*math.Pi*float64(i+1)/1000)
		if math.Abs(float64(v)-want) > 1e-3 {
			t.Fatalf("sample %d = %f, want %f", i, v, want)
		}
	}
}

func TestRenderInput(t *testing.T) {
	proc := newProcessor(t, "lfo")
	proc.GetParameters().GetByName("depth").SetPlainValue(0)

	opts := testOptions()
	opts.Seconds = 0.2
	opts.Input = [][]float32{make([]float32, 100)}
	for i := range opts.Input[0] {
		opts.Input[0][i] = 2.5
	}

	res, err := Render(context.Background(), proc, opts)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range res.Channels[0] {
		want := 2.5
		if i >= 100 {
			want = 0
		}
		if math.Abs(float64(v)-want) > 1e-4 {
			t.Fatalf("sample %d = %f, want %f", i, v, want)
		}
	}
}

func TestRenderScript(t *testing.T) {
	script, err := automation.LoadString("depth.lua", `
function automate(t, block)
  if block == 0 then return { depth = 0, rate = 5 } end
  return nil
end`)
	if err != nil {
		t.Fatal(err)
	}
	defer script.Close()

	opts := testOptions()
	opts.Script = script
	res, err := Render(context.Background(), newProcessor(t, "lfo-chance"), opts)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range res.Channels[0] {
		if v != 0 {
			t.Fatalf("sample %d = %f with zero depth", i, v)
		}
	}
}

func TestRenderScriptError(t *testing.T) {
	script, err := automation.LoadString("bad.lua", `function automate() return { cutoff = 1 } end`)
	if err != nil {
		t.Fatal(err)
	}
	defer script.Close()

	opts := testOptions()
	opts.Script = script
	if _, err := Render(context.Background(), newProcessor(t, "lfo"), opts); !errors.Is(err, automation.ErrUnknownParam) {
		t.Errorf("error = %v, want ErrUnknownParam", err)
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Render(ctx, newProcessor(t, "lfo"), testOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"zero rate", func(o *Options) { o.SampleRate = 0 }},
		{"zero block", func(o *Options) { o.BlockSize = 0 }},
		{"huge block", func(o *Options) { o.BlockSize = 1 << 20 }},
		{"no duration", func(o *Options) { o.Seconds = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.modify(&opts)
			if _, err := Render(context.Background(), newProcessor(t, "lfo"), opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("error = %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestRenderProfiler(t *testing.T) {
	opts := testOptions()
	opts.Profiler = debug.NewBlockProfiler(opts.SampleRate, opts.BlockSize)

	if _, err := Render(context.Background(), newProcessor(t, "lfo"), opts); err != nil {
		t.Fatal(err)
	}

	m, ok := opts.Profiler.Measurement(debug.BlockSection)
	if !ok {
		t.Fatal("no block measurements")
	}
	// 1000 frames in blocks of 64
	if m.Count != 16 {
		t.Errorf("block count = %d, want 16", m.Count)
	}
}

func TestWAVRoundTrip(t *testing.T) {
	res := &Result{
		SampleRate: 1000,
		Names:      []string{"Out 1", "Out 2"},
		Channels: [][]float32{
			{0, 5, -5, 10, -10, 12},
			{1, 2, 3, 4, 5, 6},
		},
	}

	path := filepath.Join(t.TempDir(), "cv.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteWAV(f, res); err != nil {
		t.Fatal(err)
	}
	f.Close()

	f, err = os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	channels, rate, err := ReadWAV(f)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 1000 || len(channels) != 2 {
		t.Fatalf("read %d channels at %v Hz", len(channels), rate)
	}

	const lsb = 10.0 / (1 << 23)
	for ch := range res.Channels {
		for i, v := range res.Channels[ch] {
			want := math.Max(-10, math.Min(10, float64(v)))
			if got := float64(channels[ch][i]); math.Abs(got-want) > 2*lsb {
				t.Errorf("channel %d sample %d = %f, want %f", ch, i, got, want)
			}
		}
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	if _, _, err := ReadWAV(bytes.NewReader([]byte("not a wav file at all"))); err == nil {
		t.Error("garbage input should fail")
	}
}

func TestWriteWAVNoChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := WriteWAV(f, &Result{SampleRate: 1000}); err == nil {
		t.Error("writing no channels should fail")
	}
}

func TestStats(t *testing.T) {
	res, err := Render(context.Background(), newProcessor(t, "lfo"), testOptions())
	if err != nil {
		t.Fatal(err)
	}

	stats := Stats(res)
	if len(stats) != 1 {
		t.Fatalf("got %d stats", len(stats))
	}
	s := stats[0]
	if s.Name != "CV Out" {
		t.Errorf("name = %q, want CV Out", s.Name)
	}
	if math.Abs(s.Mean) > 1e-3 {
		t.Errorf("mean = %f, want 0 over a full cycle", s.Mean)
	}
	// A sine's standard deviation is its amplitude over sqrt 2
	if want := 10 / math.Sqrt2; math.Abs(s.StdDev-want) > 0.01 {
		t.Errorf("std-dev = %f, want %f", s.StdDev, want)
	}
	if s.Max < 9.99 || s.Min > -9.99 {
		t.Errorf("range = [%f, %f], want ±10", s.Min, s.Max)
	}
}

func TestStatsFrequency(t *testing.T) {
	proc := newProcessor(t, "lfo-matrix")
	params := proc.GetParameters()
	params.GetByName("osc1_rate").SetPlainValue(2)
	params.GetByName("osc2_rate").SetPlainValue(5)

	opts := testOptions()
	opts.Seconds = 4
	res, err := Render(context.Background(), proc, opts)
	if err != nil {
		t.Fatal(err)
	}

	stats := Stats(res)
	for i, want := range []float64{2, 5} {
		if got := stats[i].Frequency; math.Abs(got-want) > 0.125 {
			t.Errorf("%s rate = %f Hz, want %f", stats[i].Name, got, want)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	plug, _ := plugin.Lookup("lfo-spread")
	opts := DefaultOptions()
	for i := 0; i < b.N; i++ {
		Render(context.Background(), plug.CreateProcessor(), opts)
	}
}
