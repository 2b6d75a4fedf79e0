// Package lfo exposes the single-oscillator LFO engine as host processors.
// Each variant selects a RenderConfig and declares only the parameters its
// stages use.
package lfo

import (
	"github.com/justyntemme/lfogo/pkg/dsp"
	"github.com/justyntemme/lfogo/pkg/dsp/cv"
	"github.com/justyntemme/lfogo/pkg/dsp/modulation"
	"github.com/justyntemme/lfogo/pkg/dsp/utility"
	"github.com/justyntemme/lfogo/pkg/framework/bus"
	"github.com/justyntemme/lfogo/pkg/framework/debug"
	"github.com/justyntemme/lfogo/pkg/framework/param"
	"github.com/justyntemme/lfogo/pkg/framework/plugin"
	"github.com/justyntemme/lfogo/pkg/framework/process"
	"github.com/justyntemme/lfogo/pkg/lfo"
)

// Parameter IDs
const (
	ParamRate uint32 = iota
	ParamDepth
	ParamOffset
	ParamShape
	ParamChance
	ParamPolarity
	ParamInputMode
	ParamCurve
)

// Variant names one processor flavour and its engine configuration.
type Variant struct {
	Name   string
	Info   plugin.Info
	Config lfo.RenderConfig
}

// Variants lists every registered flavour.
var Variants = []Variant{
	{
		Name:   "lfo",
		Info:   info("com.lfogo.lfo", "LFO"),
		Config: lfo.CombinerConfig(),
	},
	{
		Name:   "lfo-chance",
		Info:   info("com.lfogo.lfo.chance", "Chance LFO"),
		Config: lfo.ChanceConfig(),
	},
	{
		Name:   "lfo-polarity",
		Info:   info("com.lfogo.lfo.polarity", "Polarity LFO"),
		Config: lfo.PolarityConfig(),
	},
	{
		Name:   "lfo-curve",
		Info:   info("com.lfogo.lfo.curve", "Curve LFO"),
		Config: lfo.CurveConfig(),
	},
	{
		Name:   "lfo-spread",
		Info:   info("com.lfogo.lfo.spread", "Spread LFO"),
		Config: lfo.SpreadConfig(),
	},
}

func info(id, name string) plugin.Info {
	return plugin.Info{
		ID:       id,
		Name:     name,
		Version:  "1.0.0",
		Vendor:   "lfogo",
		Category: "Modulator",
	}
}

func init() {
	for _, v := range Variants {
		plugin.Register(v.Name, &Plugin{variant: v})
	}
}

// Plugin implements the Plugin interface for one variant
type Plugin struct {
	variant Variant
}

// GetInfo returns the variant's metadata
func (p *Plugin) GetInfo() plugin.Info {
	return p.variant.Info
}

// CreateProcessor creates a new processor for the variant
func (p *Plugin) CreateProcessor() plugin.Processor {
	return NewProcessor(p.variant)
}

// Processor adapts host parameters and CV buffers to an lfo.Engine
type Processor struct {
	*plugin.BaseProcessor

	variant  Variant
	engine   *lfo.Engine
	controls lfo.Controls
	guard    *plugin.SelectorGuard
	logger   *debug.Logger

	seed   int64
	seeded bool
}

// NewProcessor creates a processor; the engine is built in Initialize.
func NewProcessor(v Variant) *Processor {
	cfg := v.Config

	var inputs []string
	if cfg.InputStage {
		inputs = []string{"CV In"}
	}

	p := &Processor{
		BaseProcessor: plugin.NewBaseProcessor(bus.NewCVConfiguration(inputs, []string{"CV Out"})),
		variant:       v,
		controls:      lfo.DefaultControls(),
		logger:        debug.Default().With(v.Name),
	}
	p.controls.Polarity = cfg.DefaultPolarity
	p.guard = plugin.NewSelectorGuard(p.logger, ParamShape, ParamPolarity, ParamInputMode)

	p.initializeParameters()

	p.OnInitialize(func(sampleRate float64, maxBlockSize int32) error {
		p.engine = lfo.New(sampleRate, cfg)
		if p.seeded {
			p.engine.SetSeed(p.seed)
		}
		return nil
	})
	p.OnSetActive(func(active bool) error {
		p.logger.Debug("active=%v", active)
		return nil
	})
	p.OnReset(func() {
		if p.engine != nil {
			// Next block jumps the smoothers to its controls
			p.engine.Deactivate()
			p.engine.Reset()
		}
	})

	return p
}

func (p *Processor) initializeParameters() {
	cfg := p.variant.Config
	params := p.Parameters()

	params.Add(
		param.RateParameter(ParamRate, "Rate", dsp.DefaultMinRate, dsp.DefaultMaxRate, dsp.DefaultRate).Build(),
		param.DepthParameter(ParamDepth, "Depth").Build(),
		param.Choice(ParamShape, "Shape", ShapeOptions()).Build(),
	)

	if cfg.Offset {
		params.Add(param.OffsetParameter(ParamOffset, "Offset").Build())
	}
	if cfg.ChanceGate {
		params.Add(param.ChanceParameter(ParamChance, "Chance").Build())
	}
	if cfg.Polarity {
		params.Add(param.Choice(ParamPolarity, "Polarity", PolarityOptions()).Build())
	}
	if cfg.InputStage {
		params.Add(param.Choice(ParamInputMode, "Input Mode", InputModeOptions()).ShortName("input_mode").Build())
	}
	if cfg.Curve {
		params.Add(param.CurveParameter(ParamCurve, "Curve").Build())
	}
}

// SetLogger replaces the processor's logger
func (p *Processor) SetLogger(logger *debug.Logger) {
	p.logger = logger
	p.guard.SetLogger(logger)
}

// SetSeed makes the stochastic shapes reproducible
func (p *Processor) SetSeed(seed int64) {
	p.seed, p.seeded = seed, true
	if p.engine != nil {
		p.engine.SetSeed(seed)
	}
}

// Controls returns the controls used for the last block
func (p *Processor) Controls() lfo.Controls {
	return p.controls
}

// ProcessAudio renders one block of CV
func (p *Processor) ProcessAudio(ctx *process.Context) {
	if p.engine == nil || !p.IsActive() {
		ctx.Clear()
		return
	}

	p.updateControls(ctx)

	if ctx.NumSamples() == 0 || len(ctx.Output) < 1 {
		return
	}

	out := ctx.WorkBuffer()

	var in []float64
	if p.variant.Config.InputStage && len(ctx.Input) > 0 {
		in = ctx.TempBuffer()
		for i := range in {
			in[i] = cv.FromVolts(float64(ctx.Input[0][i]))
		}
	}

	p.engine.ProcessBlock(p.controls, in, out)
	dsp.ToFloat32(ctx.Output[0], out)
}

// updateControls reads the block's parameter values
func (p *Processor) updateControls(ctx *process.Context) {
	cfg := p.variant.Config
	c := &p.controls

	c.Frequency = ctx.ParamPlain(ParamRate)
	c.Depth = utility.PercentToUnit(ctx.ParamPlain(ParamDepth))
	c.Shape = plugin.Select(p.guard, ParamShape, ctx.ParamPlain(ParamShape), modulation.ShapeFromCode, c.Shape)

	if cfg.Offset {
		c.Offset = utility.PercentToUnit(ctx.ParamPlain(ParamOffset))
	}
	if cfg.ChanceGate {
		c.Chance = utility.PercentToUnit(ctx.ParamPlain(ParamChance))
	}
	if cfg.Polarity {
		c.Polarity = plugin.Select(p.guard, ParamPolarity, ctx.ParamPlain(ParamPolarity), modulation.PolarityFromCode, c.Polarity)
	}
	if cfg.InputStage {
		c.InputMode = plugin.Select(p.guard, ParamInputMode, ctx.ParamPlain(ParamInputMode), modulation.InputModeFromCode, c.InputMode)
	}
	if cfg.Curve {
		c.Curve = ctx.ParamPlain(ParamCurve)
	}
}

// ShapeOptions lists the shape selector in host code order
func ShapeOptions() []param.ChoiceOption {
	shapes := modulation.Shapes()
	names := make([]string, len(shapes))
	for i, s := range shapes {
		names[i] = s.String()
	}

	options := param.Options(names...)
	options[modulation.ShapeRectangle].Aliases = []string{"square"}
	options[modulation.ShapeSampleAndHold].Aliases = []string{"sh", "s&h"}
	options[modulation.ShapeCurvedRandom].Aliases = []string{"curved"}
	return options
}

// PolarityOptions lists the polarity selector in host code order
func PolarityOptions() []param.ChoiceOption {
	options := param.Options(
		modulation.PolarityBipolar.String(),
		modulation.PolarityUnipolarPositive.String(),
		modulation.PolarityUnipolarNegative.String(),
	)
	options[0].Aliases = []string{"bi"}
	options[1].Aliases = []string{"uni+", "positive"}
	options[2].Aliases = []string{"uni-", "negative"}
	return options
}

// InputModeOptions lists the input mode selector in host code order
func InputModeOptions() []param.ChoiceOption {
	modes := []modulation.InputMode{
		modulation.InputAdd,
		modulation.InputSubtractA,
		modulation.InputSubtractB,
		modulation.InputMultiply,
		modulation.InputFM,
		modulation.InputPM,
	}
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}

	options := param.Options(names...)
	options[1].Aliases = []string{"suba", "sub-a"}
	options[2].Aliases = []string{"subb", "sub-b"}
	options[3].Aliases = []string{"mul"}
	return options
}
