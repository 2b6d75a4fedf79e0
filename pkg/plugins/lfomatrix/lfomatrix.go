// Package lfomatrix exposes the two-oscillator feedback matrix engine as a
// host processor with two CV outputs.
package lfomatrix

import (
	"fmt"

	"github.com/justyntemme/lfogo/pkg/dsp"
	"github.com/justyntemme/lfogo/pkg/dsp/matrix"
	"github.com/justyntemme/lfogo/pkg/dsp/modulation"
	"github.com/justyntemme/lfogo/pkg/dsp/utility"
	"github.com/justyntemme/lfogo/pkg/framework/bus"
	"github.com/justyntemme/lfogo/pkg/framework/debug"
	"github.com/justyntemme/lfogo/pkg/framework/param"
	"github.com/justyntemme/lfogo/pkg/framework/plugin"
	"github.com/justyntemme/lfogo/pkg/framework/process"
	"github.com/justyntemme/lfogo/pkg/lfo"
	lfoplugin "github.com/justyntemme/lfogo/pkg/plugins/lfo"
)

// Per-oscillator parameter offsets
const (
	voiceOn uint32 = iota
	voiceRate
	voiceShape
	voiceChance
	voicePolarity
	voiceParams
)

// Parameter IDs
const (
	ParamOsc1 uint32 = 0
	ParamOsc2 uint32 = ParamOsc1 + voiceParams
)

// Routing weight parameter IDs
const (
	ParamOsc1ToOsc1 uint32 = 2*voiceParams + iota
	ParamOsc1ToOsc2
	ParamOsc1ToOut1
	ParamOsc1ToOut2
	ParamOsc2ToOsc1
	ParamOsc2ToOsc2
	ParamOsc2ToOut1
	ParamOsc2ToOut2
)

// Info describes the matrix processor
var Info = plugin.Info{
	ID:       "com.lfogo.lfo.matrix",
	Name:     "Matrix LFO",
	Version:  "1.0.0",
	Vendor:   "lfogo",
	Category: "Modulator",
}

func init() {
	plugin.Register("lfo-matrix", &Plugin{})
}

// Plugin implements the Plugin interface
type Plugin struct{}

// GetInfo returns plugin metadata
func (p *Plugin) GetInfo() plugin.Info {
	return Info
}

// CreateProcessor creates a new processor instance
func (p *Plugin) CreateProcessor() plugin.Processor {
	return NewProcessor()
}

// Processor adapts host parameters to an lfo.MatrixEngine
type Processor struct {
	*plugin.BaseProcessor

	engine   *lfo.MatrixEngine
	controls lfo.MatrixControls
	guard    *plugin.SelectorGuard
	logger   *debug.Logger

	seed   int64
	seeded bool
}

// NewProcessor creates a matrix processor; the engine is built in Initialize.
func NewProcessor() *Processor {
	p := &Processor{
		BaseProcessor: plugin.NewBaseProcessor(bus.NewCVConfiguration(nil, []string{"Out 1", "Out 2"})),
		controls:      lfo.DefaultMatrixControls(),
		logger:        debug.Default().With("lfo-matrix"),
	}
	p.guard = plugin.NewSelectorGuard(p.logger,
		ParamOsc1+voiceShape, ParamOsc1+voicePolarity,
		ParamOsc2+voiceShape, ParamOsc2+voicePolarity)

	p.initializeParameters()

	p.OnInitialize(func(sampleRate float64, maxBlockSize int32) error {
		p.engine = lfo.NewMatrix(sampleRate)
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
			p.engine.Deactivate()
			p.engine.Reset()
		}
	})

	return p
}

func (p *Processor) initializeParameters() {
	params := p.Parameters()

	for i, base := range []uint32{ParamOsc1, ParamOsc2} {
		name := fmt.Sprintf("Osc %d ", i+1)
		short := fmt.Sprintf("osc%d_", i+1)
		params.Add(
			param.OnOffParameter(base+voiceOn, name+"On", true).ShortName(short+"on").Build(),
			param.RateParameter(base+voiceRate, name+"Rate", dsp.DefaultMinRate, dsp.DefaultMaxRate, dsp.DefaultRate).
				ShortName(short+"rate").Build(),
			param.Choice(base+voiceShape, name+"Shape", lfoplugin.ShapeOptions()).ShortName(short+"shape").Build(),
			param.ChanceParameter(base+voiceChance, name+"Chance").ShortName(short+"chance").Build(),
			param.Choice(base+voicePolarity, name+"Polarity", lfoplugin.PolarityOptions()).ShortName(short+"polarity").Build(),
		)
	}

	weights := []struct {
		id    uint32
		name  string
		short string
		on    bool
	}{
		{ParamOsc1ToOsc1, "Osc 1 to Osc 1", "osc1_osc1", false},
		{ParamOsc1ToOsc2, "Osc 1 to Osc 2", "osc1_osc2", false},
		{ParamOsc1ToOut1, "Osc 1 to Out 1", "osc1_out1", true},
		{ParamOsc1ToOut2, "Osc 1 to Out 2", "osc1_out2", false},
		{ParamOsc2ToOsc1, "Osc 2 to Osc 1", "osc2_osc1", false},
		{ParamOsc2ToOsc2, "Osc 2 to Osc 2", "osc2_osc2", false},
		{ParamOsc2ToOut1, "Osc 2 to Out 1", "osc2_out1", false},
		{ParamOsc2ToOut2, "Osc 2 to Out 2", "osc2_out2", true},
	}
	for _, w := range weights {
		b := param.WeightParameter(w.id, w.name).ShortName(w.short)
		if w.on {
			b.Default(1)
		}
		params.Add(b.Build())
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
func (p *Processor) Controls() lfo.MatrixControls {
	return p.controls
}

// ProcessAudio renders one block of both outputs
func (p *Processor) ProcessAudio(ctx *process.Context) {
	if p.engine == nil || !p.IsActive() {
		ctx.Clear()
		return
	}

	p.updateControls(ctx)

	if ctx.NumSamples() == 0 || len(ctx.Output) < 2 {
		return
	}

	out1 := ctx.WorkBuffer()
	out2 := ctx.TempBuffer()
	p.engine.ProcessBlock(p.controls, out1, out2)
	dsp.ToFloat32(ctx.Output[0], out1)
	dsp.ToFloat32(ctx.Output[1], out2)
}

func (p *Processor) updateControls(ctx *process.Context) {
	p.controls.Osc1 = p.voice(ctx, ParamOsc1, p.controls.Osc1)
	p.controls.Osc2 = p.voice(ctx, ParamOsc2, p.controls.Osc2)

	// Cubed weights give finer control near zero
	w := func(id uint32) float64 {
		return utility.Cube(ctx.ParamPlain(id))
	}
	p.controls.Routing = matrix.Coefficients{
		Osc1ToOsc1: w(ParamOsc1ToOsc1),
		Osc1ToOsc2: w(ParamOsc1ToOsc2),
		Osc1ToOut1: w(ParamOsc1ToOut1),
		Osc1ToOut2: w(ParamOsc1ToOut2),
		Osc2ToOsc1: w(ParamOsc2ToOsc1),
		Osc2ToOsc2: w(ParamOsc2ToOsc2),
		Osc2ToOut1: w(ParamOsc2ToOut1),
		Osc2ToOut2: w(ParamOsc2ToOut2),
	}
}

func (p *Processor) voice(ctx *process.Context, base uint32, current lfo.Voice) lfo.Voice {
	return lfo.Voice{
		On:        ctx.ParamPlain(base+voiceOn) >= 0.5,
		Frequency: ctx.ParamPlain(base + voiceRate),
		Shape:     plugin.Select(p.guard, base+voiceShape, ctx.ParamPlain(base+voiceShape), modulation.ShapeFromCode, current.Shape),
		Chance:    utility.PercentToUnit(ctx.ParamPlain(base + voiceChance)),
		Polarity:  plugin.Select(p.guard, base+voicePolarity, ctx.ParamPlain(base+voicePolarity), modulation.PolarityFromCode, current.Polarity),
	}
}
