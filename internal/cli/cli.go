// Package cli holds the flag handling shared by the lforender and lfoplay
// commands.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/justyntemme/lfogo/pkg/automation"
	"github.com/justyntemme/lfogo/pkg/dsp"
	"github.com/justyntemme/lfogo/pkg/framework/debug"
	"github.com/justyntemme/lfogo/pkg/framework/plugin"
	"github.com/justyntemme/lfogo/pkg/framework/state"

	// Registered processors
	_ "github.com/justyntemme/lfogo/pkg/plugins/lfo"
	_ "github.com/justyntemme/lfogo/pkg/plugins/lfomatrix"
)

// Assignments collects repeated -set name=value flags.
type Assignments []string

func (a *Assignments) String() string {
	return strings.Join(*a, ",")
}

// Set implements flag.Value.
func (a *Assignments) Set(s string) error {
	if !strings.Contains(s, "=") {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	*a = append(*a, s)
	return nil
}

// Common are the flags every command accepts.
type Common struct {
	Plugin     string
	SampleRate float64
	BlockSize  int
	Script     string
	Set        Assignments
	Seed       int64
	LogLevel   string
	List       bool
	Preset     string
	SavePreset string
}

// Register adds the common flags to fs.
func (c *Common) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.Plugin, "plugin", "lfo", "processor to run (see -list)")
	fs.Float64Var(&c.SampleRate, "sample-rate", dsp.SampleRate48k, "sample rate in Hz")
	fs.IntVar(&c.BlockSize, "block", dsp.DefaultBufferSize, "block size in samples")
	fs.StringVar(&c.Script, "script", "", "Lua automation script")
	fs.Var(&c.Set, "set", "parameter assignment name=value (repeatable)")
	fs.Int64Var(&c.Seed, "seed", 0, "seed for the random shapes (0 = nondeterministic)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug|info|warn|error|off")
	fs.BoolVar(&c.List, "list", false, "list processors and their parameters, then exit")
	fs.StringVar(&c.Preset, "preset", "", "load parameter values from a preset file before -set")
	fs.StringVar(&c.SavePreset, "save-preset", "", "write the final parameter values to a preset file")
}

// Setup configures logging and creates the processor with its parameters,
// seed and automation script applied. The script may be nil.
func (c *Common) Setup(name string) (plugin.Processor, *automation.Script, *debug.Logger, error) {
	level, err := debug.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	debug.SetLevel(level)

	logger := debug.New(os.Stderr, name, debug.FlagLevel|debug.FlagPrefix)
	logger.SetLevel(level)

	plug, err := plugin.Lookup(c.Plugin)
	if err != nil {
		return nil, nil, logger, err
	}
	proc := plug.CreateProcessor()
	presets := state.NewManager(plug.GetInfo().ID, proc.GetParameters())

	if c.Preset != "" {
		if err := LoadPreset(presets, c.Preset); err != nil {
			return nil, nil, logger, err
		}
		logger.Info("loaded preset %s", c.Preset)
	}

	if err := Apply(proc, c.Set); err != nil {
		return nil, nil, logger, err
	}

	if c.SavePreset != "" {
		if err := SavePreset(presets, c.SavePreset); err != nil {
			return nil, nil, logger, err
		}
		logger.Info("saved preset %s", c.SavePreset)
	}

	if c.Seed != 0 {
		if s, ok := proc.(plugin.Seeder); ok {
			s.SetSeed(c.Seed)
		}
	}

	var script *automation.Script
	if c.Script != "" {
		if script, err = automation.Load(c.Script); err != nil {
			return nil, nil, logger, err
		}
	}

	logger.Debug("%s: %d parameters", plug.GetInfo(), proc.GetParameters().Count())
	return proc, script, logger, nil
}

// Apply sets name=value assignments on proc's parameters.
func Apply(proc plugin.Processor, assignments []string) error {
	params := proc.GetParameters()
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("expected name=value, got %q", a)
		}
		p := params.GetByName(name)
		if p == nil {
			return fmt.Errorf("unknown parameter %q", name)
		}
		if err := p.Set(value); err != nil {
			return err
		}
	}
	return nil
}

// LoadPreset reads the preset at path into m.
func LoadPreset(m *state.Manager, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := m.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// SavePreset writes the parameters held by m to path.
func SavePreset(m *state.Manager, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List writes every registered processor and its parameters to w.
func List(w io.Writer) error {
	for _, name := range plugin.Names() {
		plug, err := plugin.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", name, plug.GetInfo())

		for _, p := range plug.CreateProcessor().GetParameters().All() {
			fmt.Fprintf(w, "\t%-14s %s [default %s]\n", p.ShortName, p.Name, p.FormatValue(p.DefaultValue))
		}
	}
	return nil
}

// Exit logs err and terminates the process.
func Exit(logger *debug.Logger, err error) {
	if logger == nil {
		logger = debug.Default()
	}
	logger.Error("%v", err)
	os.Exit(1)
}
