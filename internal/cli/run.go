package cli

import (
	"context"

	"github.com/AndreyAkinshin/benchcheck/internal/baseline"
	"github.com/AndreyAkinshin/benchcheck/internal/config"
	"github.com/AndreyAkinshin/benchcheck/internal/harness"
	"github.com/AndreyAkinshin/benchcheck/internal/output"
	"github.com/AndreyAkinshin/benchcheck/internal/ppm"
	"github.com/AndreyAkinshin/benchcheck/internal/regress"
	"github.com/AndreyAkinshin/benchcheck/internal/report"
	"github.com/AndreyAkinshin/benchcheck/internal/runner"
	"github.com/AndreyAkinshin/benchcheck/internal/scenes"
	"github.com/AndreyAkinshin/benchcheck/pkg/benchcheck"
)

var setLogger = harness.SetLogger

// execute resolves the configuration and performs the requested action.
func execute(ctx context.Context, opts *Options, w *output.Writer) int {
	cfg, warnings, err := config.Resolve(opts.Config)
	for _, warning := range warnings {
		w.Warning("%s", warning)
	}
	if err != nil {
		w.ErrorPrefix("configuration: %v", err)
		return benchcheck.ExitAborted
	}
	applyFlags(cfg, opts)

	registry, err := scenes.FromConfig(cfg)
	if err != nil {
		w.ErrorPrefix("%v", err)
		return benchcheck.ExitAborted
	}

	if opts.TestsList {
		w.List(registry.Names())
		return benchcheck.ExitSuccess
	}

	selected, err := registry.Select(scenes.ParseSelection(opts.Tests))
	if err != nil {
		w.ErrorPrefix("%v", err)
		return benchcheck.ExitAborted
	}
	modes, err := scenes.ParseModes(opts.Renderer)
	if err != nil {
		w.ErrorPrefix("%v", err)
		return benchcheck.ExitAborted
	}

	table, err := baseline.Load(opts.Baseline)
	if err != nil {
		w.ErrorPrefix("%v", err)
		return benchcheck.ExitAborted
	}

	timeout, _ := cfg.TimeoutDuration() // validated by config.Resolve
	exec := runner.NewExecRunner(cfg.Executable)
	exec.SetTimeout(timeout)

	hopts := harness.Options{
		Scenes:   selected,
		Modes:    modes,
		Baseline: table,
		Runner:   exec,
		Settings: runner.Settings{
			ImageDir:     cfg.ImageDir,
			Width:        cfg.Width,
			Height:       cfg.Height,
			BenchFrames:  cfg.BenchFrames,
			WarmupFrames: cfg.WarmupFrames,
		},
		ReferenceDir: opts.Reference,
		Scores:       regress.NewComparator(cfg.ScoreTolerance()),
		Images:       ppm.NewComparator(cfg.PixelTolerance()),
		Out:          w,
	}

	if opts.Output != "" {
		csv, err := report.CreateCSV(opts.Output)
		if err != nil {
			w.ErrorPrefix("%v", err)
			return benchcheck.ExitAborted
		}
		defer func() {
			if err := csv.Close(); err != nil {
				w.Warning("closing %s: %v", opts.Output, err)
			}
		}()
		hopts.Stats = csv
	}

	summary, runErr := harness.New(hopts).Run(ctx)

	printSummary(w, summary)

	if opts.Summary != "" {
		rs := summary.Report()
		rs.Executable = cfg.Executable
		rs.Width = cfg.Width
		rs.Height = cfg.Height
		rs.Baseline = opts.Baseline
		rs.Reference = opts.Reference
		if err := report.WriteSummary(opts.Summary, rs); err != nil {
			w.ErrorPrefix("%v", err)
			return benchcheck.ExitAborted
		}
	}

	if runErr != nil {
		w.ErrorPrefix("run aborted: %v", runErr)
		return benchcheck.ExitAborted
	}
	return benchcheck.FailureExitCode(summary.Failed)
}

// applyFlags overrides configuration values with the ones given on the
// command line.
func applyFlags(cfg *config.Config, opts *Options) {
	if opts.Exe != "" {
		cfg.Executable = opts.Exe
	}
	if opts.ImageDir != "" {
		cfg.ImageDir = opts.ImageDir
	}
	if opts.Width > 0 {
		cfg.Width = opts.Width
	}
	if opts.Height > 0 {
		cfg.Height = opts.Height
	}
}
