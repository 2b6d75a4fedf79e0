package automation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/justyntemme/lfogo/pkg/framework/param"
)

const (
	idRate uint32 = iota
	idShape
	idOn
)

func newRegistry(t *testing.T) *param.Registry {
	t.Helper()
	r := param.NewRegistry()
	err := r.Add(
		param.RateParameter(idRate, "Rate", 0.01, 50, 1).Build(),
		param.Choice(idShape, "Shape", param.Options("Sine", "Triangle", "Square")).Build(),
		param.OnOffParameter(idOn, "Osc On", true).ShortName("osc_on").Build(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func mustLoad(t *testing.T, src string) *Script {
	t.Helper()
	s, err := LoadString("test.lua", src)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestApplySetsParameters(t *testing.T) {
	s := mustLoad(t, `
function automate(t, block)
  return { rate = 2 + block, shape = "triangle", osc_on = block % 2 == 0 }
end`)
	r := newRegistry(t)

	tests := []struct {
		block int
		rate  float64
		on    float64
	}{
		{0, 2, 1},
		{1, 3, 0},
		{2, 4, 1},
	}
	for _, tt := range tests {
		if err := s.Apply(r, float64(tt.block)*0.01, tt.block); err != nil {
			t.Fatal(err)
		}
		if got := r.Get(idRate).GetPlainValue(); math.Abs(got-tt.rate) > 1e-6 {
			t.Errorf("block %d: rate = %f, want %f", tt.block, got, tt.rate)
		}
		if got := r.Get(idOn).GetPlainValue(); got != tt.on {
			t.Errorf("block %d: on = %f, want %f", tt.block, got, tt.on)
		}
	}
	if got := r.Get(idShape).GetPlainValue(); got != 2 {
		t.Errorf("shape = %f, want 2", got)
	}
}

func TestTimeArgument(t *testing.T) {
	s := mustLoad(t, `
function automate(t, block)
  return { rate = 1 + math.floor(t * 10) }
end`)
	r := newRegistry(t)

	if err := s.Apply(r, 0.45, 0); err != nil {
		t.Fatal(err)
	}
	if got := r.Get(idRate).GetPlainValue(); math.Abs(got-5) > 1e-6 {
		t.Errorf("rate = %f, want 5", got)
	}
}

func TestScriptStateAndGlobals(t *testing.T) {
	s := mustLoad(t, `
local calls = 0
function automate(t, block)
  calls = calls + 1
  return { rate = calls + block_size / sample_rate }
end`)
	s.SetGlobals(1000, 500)
	r := newRegistry(t)

	for i := 0; i < 3; i++ {
		if err := s.Apply(r, 0, i); err != nil {
			t.Fatal(err)
		}
	}
	if got := r.Get(idRate).GetPlainValue(); math.Abs(got-3.5) > 1e-6 {
		t.Errorf("rate = %f, want 3.5", got)
	}
}

func TestNilLeavesParameters(t *testing.T) {
	s := mustLoad(t, `function automate(t, block) return nil end`)
	r := newRegistry(t)
	r.Get(idRate).SetPlainValue(7)

	if err := s.Apply(r, 0, 0); err != nil {
		t.Fatal(err)
	}
	if got := r.Get(idRate).GetPlainValue(); math.Abs(got-7) > 1e-6 {
		t.Errorf("rate = %f, want 7", got)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown parameter", `function automate() return { cutoff = 1 } end`, ErrUnknownParam},
		{"outside range", `function automate() return { rate = 500 } end`, ErrOutsideRange},
		{"not a table", `function automate() return 3 end`, ErrBadResult},
		{"table value", `function automate() return { rate = {} } end`, ErrBadValue},
		{"numeric key", `function automate() return { 1 } end`, ErrBadValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustLoad(t, tt.src)
			err := s.Apply(newRegistry(t), 0, 0)
			if !errors.Is(err, tt.want) {
				t.Errorf("Apply error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUnknownChoiceName(t *testing.T) {
	s := mustLoad(t, `function automate() return { shape = "wobble" } end`)
	if err := s.Apply(newRegistry(t), 0, 0); err == nil {
		t.Error("unknown option should fail")
	}
}

func TestRuntimeError(t *testing.T) {
	s := mustLoad(t, `function automate() error("boom") end`)
	if _, err := s.Values(0, 0); err == nil {
		t.Error("script error should be returned")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadString("syntax.lua", "function automate("); err == nil {
		t.Error("syntax error should fail to load")
	}
	if _, err := LoadString("empty.lua", "x = 1"); !errors.Is(err, ErrNoFunction) {
		t.Errorf("missing function error = %v, want ErrNoFunction", err)
	}
}

func TestSandbox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.lua")
	if err := os.WriteFile(path, []byte("return { rate = 10 }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		call string
	}{
		{"os", "os.time()"},
		{"io", `io.open("x")`},
		{"dofile", fmt.Sprintf("dofile(%q)", path)},
		{"loadfile", fmt.Sprintf("loadfile(%q)()", path)},
		{"require", `require("payload")`},
		{"package", "package.loaders"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustLoad(t, "function automate() local v = "+tt.call+" return { rate = 10 } end")
			if _, err := s.Values(0, 0); err == nil {
				t.Errorf("%s should not be available", tt.call)
			}
		})
	}

	s := mustLoad(t, `function automate() return { rate = string.len(table.concat({"a", "b"})) + math.floor(2.5) } end`)
	v, err := s.Values(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v["rate"] != 4.0 {
		t.Errorf("rate = %v, want 4", v["rate"])
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.lua")
	src := "function automate(t, block) return { rate = 10 } end\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Name() != path {
		t.Errorf("Name = %q, want %q", s.Name(), path)
	}
	v, err := s.Values(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v["rate"] != 10.0 {
		t.Errorf("rate = %v, want 10", v["rate"])
	}
}

func TestExampleSweepScript(t *testing.T) {
	s, err := Load(filepath.Join("..", "..", "examples", "scripts", "sweep.lua"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	tests := []struct {
		t     float64
		block int
		rate  float64
		shape any
	}{
		{0, 0, 0.5, "sine"},
		{4, 10, 8, nil},
		{6, 64, 4.25, "random"},
	}
	for _, tt := range tests {
		v, err := s.Values(tt.t, tt.block)
		if err != nil {
			t.Fatal(err)
		}
		if rate, _ := v["rate"].(float64); math.Abs(rate-tt.rate) > 1e-9 {
			t.Errorf("t=%v: rate = %v, want %v", tt.t, v["rate"], tt.rate)
		}
		if v["shape"] != tt.shape {
			t.Errorf("t=%v: shape = %v, want %v", tt.t, v["shape"], tt.shape)
		}
	}
}
