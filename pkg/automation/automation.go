// Package automation drives processor parameters from Lua scripts.
//
// A script defines a global function
//
//	function automate(t, block)
//	  return { rate = 2 + math.sin(t), shape = "triangle" }
//	end
//
// which is called once per block with the block start time in seconds and
// the block index. The returned table maps parameter names (Name or
// ShortName) to plain values. Numbers are set directly, strings go through
// the parameter's parser and booleans select the parameter's maximum or
// minimum. Returning nil leaves every parameter unchanged.
//
// Scripts run with the base, table, string and math libraries only. io and
// os are never opened, and dofile, loadfile, require, module and package are
// removed, so a script cannot read or run files.
package automation

import (
	"errors"
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/justyntemme/lfogo/pkg/framework/param"
)

// FunctionName is the global a script must define.
const FunctionName = "automate"

// Errors returned while loading or running a script.
var (
	ErrNoFunction   = errors.New("automation: script does not define " + FunctionName)
	ErrBadResult    = errors.New("automation: automate must return a table or nil")
	ErrUnknownParam = errors.New("automation: unknown parameter")
	ErrBadValue     = errors.New("automation: unsupported value")
	ErrOutsideRange = errors.New("automation: value outside parameter range")
)

// Script is a loaded automation script. It is not safe for concurrent use.
type Script struct {
	name string
	L    *lua.LState // exposed for registering helper functions
	fn   *lua.LFunction
}

// Load reads and runs the script at path.
func Load(path string) (*Script, error) {
	s, err := newScript(path)
	if err != nil {
		return nil, err
	}
	if err := s.L.DoFile(path); err != nil {
		s.Close()
		return nil, fmt.Errorf("automation: %s: %w", path, err)
	}
	if err := s.bind(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadString runs src as a script called name.
func LoadString(name, src string) (*Script, error) {
	s, err := newScript(name)
	if err != nil {
		return nil, err
	}
	if err := s.L.DoString(src); err != nil {
		s.Close()
		return nil, fmt.Errorf("automation: %s: %w", name, err)
	}
	if err := s.bind(); err != nil {
		return nil, err
	}
	return s, nil
}

// sandboxed lists the globals removed after the libraries are opened.
var sandboxed = []string{"dofile", "loadfile", "require", "module", "package"}

func newScript(name string) (*Script, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// io and os are never opened
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name))
		if err != nil {
			L.Close()
			return nil, fmt.Errorf("automation: %s: open %s: %w", name, lib.name, err)
		}
	}

	// Scripts cannot reach the filesystem
	for _, global := range sandboxed {
		L.SetGlobal(global, lua.LNil)
	}

	return &Script{name: name, L: L}, nil
}

func (s *Script) bind() error {
	fn, ok := s.L.GetGlobal(FunctionName).(*lua.LFunction)
	if !ok {
		s.Close()
		return fmt.Errorf("%w (%s)", ErrNoFunction, s.name)
	}
	s.fn = fn
	return nil
}

// Name returns the script's file name or label.
func (s *Script) Name() string {
	return s.name
}

// SetGlobals exposes the render settings to the script as sample_rate and
// block_size.
func (s *Script) SetGlobals(sampleRate float64, blockSize int) {
	s.L.SetGlobal("sample_rate", lua.LNumber(sampleRate))
	s.L.SetGlobal("block_size", lua.LNumber(blockSize))
}

// Values calls automate and returns its result as name/value pairs.
// Values are float64, string or bool.
func (s *Script) Values(t float64, block int) (map[string]any, error) {
	err := s.L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true}, lua.LNumber(t), lua.LNumber(block))
	if err != nil {
		return nil, fmt.Errorf("automation: %s: %w", s.name, err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)

	if ret == lua.LNil {
		return nil, nil
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrBadResult, ret.Type())
	}

	values := make(map[string]any)
	var convErr error
	tbl.ForEach(func(k, v lua.LValue) {
		if convErr != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			convErr = fmt.Errorf("%w: key %s", ErrBadValue, k.String())
			return
		}
		switch v := v.(type) {
		case lua.LNumber:
			values[string(key)] = float64(v)
		case lua.LString:
			values[string(key)] = string(v)
		case lua.LBool:
			values[string(key)] = bool(v)
		default:
			convErr = fmt.Errorf("%w: %s = %s", ErrBadValue, key, v.Type())
		}
	})
	if convErr != nil {
		return nil, convErr
	}
	return values, nil
}

// Apply calls automate and writes the result into params. Names are
// applied in sorted order and the first failure stops the update.
func (s *Script) Apply(params *param.Registry, t float64, block int) error {
	values, err := s.Values(t, block)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := params.GetByName(name)
		if p == nil {
			return fmt.Errorf("%w %q", ErrUnknownParam, name)
		}
		if err := set(p, values[name]); err != nil {
			return err
		}
	}
	return nil
}

func set(p *param.Parameter, value any) error {
	switch v := value.(type) {
	case float64:
		if v < p.Min || v > p.Max {
			return fmt.Errorf("%w: %s = %v, want [%v, %v]", ErrOutsideRange, p.Name, v, p.Min, p.Max)
		}
		p.SetPlainValue(v)
	case string:
		if err := p.Set(v); err != nil {
			return fmt.Errorf("automation: %w", err)
		}
	case bool:
		if v {
			p.SetPlainValue(p.Max)
		} else {
			p.SetPlainValue(p.Min)
		}
	default:
		return fmt.Errorf("%w: %s = %T", ErrBadValue, p.Name, value)
	}
	return nil
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.L.Close()
}
