// Command lfoplay streams a processor's CV to the audio device, either as
// a tremolo on a carrier tone or directly with DC removed.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/justyntemme/lfogo/internal/cli"
	"github.com/justyntemme/lfogo/pkg/dsp/oscillator"
	"github.com/justyntemme/lfogo/pkg/framework/param"
	"github.com/justyntemme/lfogo/pkg/playback"
	"github.com/justyntemme/lfogo/pkg/render"
)

func main() {
	var (
		common   cli.Common
		seconds  = flag.Float64("seconds", 0, "length to play (0 = until interrupted)")
		mode     = flag.String("mode", "tone", "tone|direct")
		tone     = flag.Float64("tone", 220, "carrier frequency in Hz for -mode tone")
		waveform = flag.String("waveform", "sine", "carrier waveform: sine|saw|square|triangle")
		latency  = flag.Float64("latency", playback.DefaultLatencyMs, "output latency in ms")
	)
	common.Register(flag.CommandLine)
	flag.Parse()

	if common.List {
		if err := cli.List(os.Stdout); err != nil {
			cli.Exit(nil, err)
		}
		return
	}

	proc, script, logger, err := common.Setup("lfoplay")
	if err != nil {
		cli.Exit(logger, err)
	}
	if script != nil {
		defer script.Close()
	}

	m, err := playback.ParseMode(*mode)
	if err != nil {
		cli.Exit(logger, err)
	}
	w, err := oscillator.ParseWaveform(*waveform)
	if err != nil {
		cli.Exit(logger, err)
	}
	carrier := oscillator.New(common.SampleRate)
	carrier.SetFrequency(*tone)
	carrier.SetWaveform(w)

	session, err := playback.NewSession(proc, playback.Options{
		Render: render.Options{
			SampleRate: common.SampleRate,
			BlockSize:  common.BlockSize,
			Seconds:    *seconds,
			Script:     script,
		},
		Mode:      m,
		Carrier:   carrier,
		LatencyMs: *latency,
		Logger:    logger,
	})
	if err != nil {
		cli.Exit(logger, err)
	}
	defer session.Close()

	bufferSize := time.Duration(*latency * float64(time.Millisecond))
	player, err := playback.NewPlayer(int(common.SampleRate), playback.OutputChannels, bufferSize, session.Reader())
	if err != nil {
		cli.Exit(logger, err)
	}
	defer player.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if m == playback.ModeTone {
		logger.Info("monitoring through a %v carrier at %s", w, param.FrequencyFormatter(*tone))
	}
	player.Start()
	if err := session.Run(ctx); err != nil {
		cli.Exit(logger, err)
	}
	session.Drain(ctx)
}
