// Package harness runs the benchmark scenes and judges their results.
//
// Runs are strictly sequential. For every selected (scene, mode) pair the
// harness invokes the renderer, waits for it to exit and then applies the
// checks in order: exit status, fatal error marker, statistics block, score
// against the baseline and finally the rendered image against its
// reference. The first failing check decides the reason; later checks are
// skipped. Per-test failures never stop the run.
package harness

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AndreyAkinshin/benchcheck/internal/baseline"
	"github.com/AndreyAkinshin/benchcheck/internal/errors"
	"github.com/AndreyAkinshin/benchcheck/internal/output"
	"github.com/AndreyAkinshin/benchcheck/internal/ppm"
	"github.com/AndreyAkinshin/benchcheck/internal/regress"
	"github.com/AndreyAkinshin/benchcheck/internal/runner"
	"github.com/AndreyAkinshin/benchcheck/internal/scenes"
	"github.com/AndreyAkinshin/benchcheck/internal/stats"
)

// imageMismatch is the failure reason of an image comparison.
const imageMismatch = "reference image differs from the generated one"

// StatsSink receives the statistics of every test that produced them.
type StatsSink interface {
	Write(id string, rec *stats.Record) error
}

// Options configures a Harness.
type Options struct {
	Scenes       []scenes.Scene // selected scenes
	Modes        []scenes.Mode  // renderer modes to run each scene in
	Baseline     baseline.Table
	Runner       runner.Runner
	Settings     runner.Settings
	ReferenceDir string // empty disables image comparison
	Scores       regress.Comparator
	Images       ppm.Comparator
	Stats        StatsSink // optional
	Out          *output.Writer
}

// Harness executes a benchmark run.
type Harness struct {
	opts Options
	out  *output.Writer
}

// New creates a Harness. A nil Out writes to the process's standard streams.
func New(opts Options) *Harness {
	out := opts.Out
	if out == nil {
		out = output.New()
	}
	return &Harness{opts: opts, out: out}
}

// Plan returns the pending test runs in execution order: by scene name,
// then pt before scivis.
func (h *Harness) Plan() []*TestRun {
	var runs []*TestRun
	for _, sc := range h.opts.Scenes {
		for _, mode := range h.opts.Modes {
			runs = append(runs, &TestRun{
				ID:    scenes.RunID(sc.Name, mode),
				Scene: sc,
				Mode:  mode,
			})
		}
	}
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Scene.Name != runs[j].Scene.Name {
			return runs[i].Scene.Name < runs[j].Scene.Name
		}
		return runs[i].Mode < runs[j].Mode
	})
	return runs
}

// Run executes every planned test and returns the summary. Test failures are
// recorded in the summary; the returned error is set only when the run was
// aborted (cancellation, image directory or statistics file errors), in
// which case the summary covers the tests run so far.
func (h *Harness) Run(ctx context.Context) (*Summary, error) {
	log := Logger()
	runs := h.Plan()
	summary := &Summary{RunID: uuid.NewString(), StartedAt: time.Now()}
	defer func() { summary.Duration = time.Since(summary.StartedAt) }()

	if err := os.MkdirAll(h.opts.Settings.ImageDir, 0o755); err != nil {
		return summary, errors.Wrap(err, fmt.Sprintf("failed to create image directory %s: %v", h.opts.Settings.ImageDir, err))
	}

	h.out.Info("All tests run at %d x %d", h.opts.Settings.Width, h.opts.Settings.Height)
	log.Debug("starting run", "run_id", summary.RunID, "tests", len(runs), "baseline_entries", h.opts.Baseline.Len(),
		"reference", h.opts.ReferenceDir)

	for i, run := range runs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		h.out.Headline("TEST %d/%d: %s (%s)", i+1, len(runs), run.Scene.Name, run.Mode.Name())

		if err := h.execute(ctx, run); err != nil {
			log.Warn("run aborted", "test", run.ID, "completed", summary.Total(), "error", err)
			return summary, err
		}
		summary.add(run)

		if run.Status == StatusPassed {
			h.out.TestPassed()
		} else {
			h.out.TestFailed(run.Reason)
		}
	}
	return summary, nil
}

// execute performs one test run. It returns an error only if the whole run
// must stop.
func (h *Harness) execute(ctx context.Context, run *TestRun) error {
	log := Logger().With("test", run.ID)
	run.Status = StatusRunning
	start := time.Now()
	defer func() { run.Duration = time.Since(start) }()

	inv := runner.NewInvocation(run.Scene, run.Mode, h.opts.Settings)
	if cl, ok := h.opts.Runner.(interface{ CommandLine(runner.Invocation) string }); ok {
		h.out.Info("Running %q", cl.CommandLine(inv))
	}
	log.Debug("invoking renderer", "args", inv.Args)

	res, err := h.opts.Runner.Run(ctx, inv)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		run.fail(errors.Subprocess(run.ID, err.Error(), err))
		return nil
	}
	log.Debug("renderer exited", "exit_code", res.ExitCode, "duration", res.Duration,
		"stdout_bytes", len(res.Stdout), "stderr_bytes", len(res.Stderr))

	if err := h.analyze(run, res); err != nil {
		if !errors.KindOf(err).PerTest() {
			return err
		}
		run.fail(err)
		return nil
	}
	run.Status = StatusPassed
	return nil
}

// analyze applies the checks to a finished renderer run. Errors of a
// per-test kind fail the test; any other error aborts the run.
func (h *Harness) analyze(run *TestRun, res runner.Result) error {
	log := Logger().With("test", run.ID)

	if res.ExitCode != 0 {
		return errors.Subprocess(run.ID, fmt.Sprintf("subprocess returned with exit code %d", res.ExitCode), nil)
	}

	if msg, ok := stats.DetectFatal(res.Stderr); ok {
		return errors.FatalRender(run.ID, "fatal error: "+msg)
	}

	rec, err := stats.Parse(res.Stdout)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Test = run.ID
		}
		return err
	}
	run.Record = rec
	h.out.Block(rec.Block)
	log.Debug("parsed statistics", "fields", len(rec.Values), "score", rec.Score())

	if h.opts.Stats != nil {
		if err := h.opts.Stats.Write(run.ID, rec); err != nil {
			return errors.Wrap(err, err.Error())
		}
	}

	if expected, ok := h.opts.Baseline.Lookup(run.ID); ok {
		run.Expected = &expected
	}
	outcome := h.opts.Scores.Compare(rec, h.opts.Baseline, run.ID)
	run.Ratio = outcome.Ratio
	if err := outcome.Err(run.ID); err != nil {
		return err
	}

	if h.opts.ReferenceDir != "" {
		candidate := runner.ImagePath(h.opts.Settings.ImageDir, run.ID)
		reference := runner.ImagePath(h.opts.ReferenceDir, run.ID)
		result, err := h.opts.Images.CompareFiles(candidate, reference)
		if err != nil {
			log.Debug("image decode failed", "error", err)
			return errors.ImageMismatch(run.ID, imageMismatch, err)
		}
		if result.Skipped {
			log.Debug("image comparison skipped", "candidate", candidate, "reference", reference)
		}
		if !result.Match {
			log.Debug("image mismatch", "mismatched_bytes", result.Diff.Mismatched,
				"first_offset", result.Diff.FirstOffset, "max_diff", result.Diff.MaxDiff)
			return errors.ImageMismatch(run.ID, imageMismatch, nil)
		}
	}

	return nil
}
