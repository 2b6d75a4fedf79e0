// Command lforender renders a processor's CV outputs offline to a 24-bit
// WAV file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/justyntemme/lfogo/internal/cli"
	"github.com/justyntemme/lfogo/pkg/framework/debug"
	"github.com/justyntemme/lfogo/pkg/render"
)

func main() {
	var (
		common  cli.Common
		seconds = flag.Float64("seconds", 4, "length to render")
		out     = flag.String("out", "-", "output WAV file (- for stdout)")
		input   = flag.String("input", "", "WAV file fed to the CV inputs (full scale = ±10 V)")
		profile = flag.Bool("profile", false, "report block processing load")
		stats   = flag.Bool("stats", false, "log per-channel statistics")
	)
	common.Register(flag.CommandLine)
	flag.Parse()

	if common.List {
		if err := cli.List(os.Stdout); err != nil {
			cli.Exit(nil, err)
		}
		return
	}

	if *out == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
		cli.Exit(nil, errors.New("refusing to write WAV data to a terminal; use -out or redirect stdout"))
	}

	proc, script, logger, err := common.Setup("lforender")
	if err != nil {
		cli.Exit(logger, err)
	}
	if script != nil {
		defer script.Close()
	}

	opts := render.Options{
		SampleRate: common.SampleRate,
		BlockSize:  common.BlockSize,
		Seconds:    *seconds,
		Script:     script,
	}
	if *input != "" {
		if opts.Input, err = readInput(*input, common.SampleRate, logger); err != nil {
			cli.Exit(logger, err)
		}
	}
	if *profile {
		opts.Profiler = debug.NewBlockProfiler(common.SampleRate, common.BlockSize)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := render.Render(ctx, proc, opts)
	if err != nil {
		cli.Exit(logger, err)
	}
	logger.Info("rendered %v of %s (%d channels)", res.Duration(), common.Plugin, len(res.Channels))

	if *stats {
		analyzer := debug.NewCVAnalyzer()
		for i, s := range render.Stats(res) {
			logger.Info("%s", s)
			analyzer.LogStats(logger, res.Channels[i], s.Name)
		}
	}
	if opts.Profiler != nil {
		fmt.Fprint(os.Stderr, opts.Profiler.BlockReport())
	}

	if err := write(*out, res); err != nil {
		cli.Exit(logger, err)
	}
}

func readInput(path string, sampleRate float64, logger *debug.Logger) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	channels, rate, err := render.ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rate != sampleRate {
		logger.Warn("%s is %.0f Hz, rendering at %.0f Hz without resampling", path, rate, sampleRate)
	}
	return channels, nil
}

// write encodes res to path. The WAV encoder needs to seek, so stdout is
// written through a temporary file.
func write(path string, res *render.Result) error {
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render.WriteWAV(f, res); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	tmp, err := os.CreateTemp("", "lforender-*.wav")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := render.WriteWAV(tmp, res); err != nil {
		return err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err = io.Copy(os.Stdout, tmp)
	return err
}
