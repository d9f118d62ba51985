// Package runner invokes the external benchmark renderer.
//
// A run is strictly sequential: the caller starts one renderer process,
// blocks until it exits and only then analyses the captured output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AndreyAkinshin/benchcheck/internal/scenes"
)

// waitDelay bounds how long Run waits for output pipes after the renderer
// has been killed on timeout or cancellation.
const waitDelay = 5 * time.Second

// Invocation describes a single renderer run.
type Invocation struct {
	ID   string   // run identifier, e.g. "fiu1_pt"
	Args []string // arguments after the executable
}

// Result is the captured outcome of a renderer process that ran to
// completion, successfully or not.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner runs the external renderer.
//
// Run returns an error only when no exit status is available: the
// executable could not be started, the context was cancelled or the
// configured timeout expired. A non-zero exit status is reported through
// Result.ExitCode with a nil error.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner runs the renderer as a child process.
type ExecRunner struct {
	executable string
	dir        string
	timeout    time.Duration
}

// NewExecRunner creates a runner for the given executable.
func NewExecRunner(executable string) *ExecRunner {
	return &ExecRunner{executable: executable}
}

// SetDir sets the working directory of the renderer. Empty means the
// current directory.
func (r *ExecRunner) SetDir(dir string) {
	r.dir = dir
}

// SetTimeout limits each run. Zero disables the limit.
func (r *ExecRunner) SetTimeout(d time.Duration) {
	r.timeout = d
}

// Executable returns the configured executable.
func (r *ExecRunner) Executable() string {
	return r.executable
}

// CommandLine returns the command line of inv for display.
func (r *ExecRunner) CommandLine(inv Invocation) string {
	return strings.Join(append([]string{r.executable}, inv.Args...), " ")
}

// Run executes the renderer and captures its output.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.executable, inv.Args...)
	cmd.Dir = r.dir
	cmd.Env = os.Environ()
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case ctx.Err() != nil:
		return res, fmt.Errorf("%s: %w", inv.ID, ctx.Err())
	case runCtx.Err() != nil:
		return res, fmt.Errorf("%s: renderer timed out after %s", inv.ID, r.timeout)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("failed to start %s: %w", r.executable, err)
	}
	return res, nil
}

// Settings are the per-run renderer options shared by all scenes.
type Settings struct {
	ImageDir     string
	Width        int
	Height       int
	BenchFrames  int
	WarmupFrames int
}

// ImagePrefix returns the output prefix passed to the renderer's -i option.
// The renderer appends ".ppm".
func ImagePrefix(imageDir, id string) string {
	return filepath.Join(imageDir, "test_"+id)
}

// ImagePath returns the path of the image rendered for run id in dir.
func ImagePath(dir, id string) string {
	return ImagePrefix(dir, id) + ".ppm"
}

// BuildArgs returns the renderer arguments for a scene in the given mode:
//
//	<scene> <camera> -bf N -wf N -r {sv|pt} -i <prefix> <params> -w W -h H
func BuildArgs(s scenes.Scene, mode scenes.Mode, set Settings) []string {
	id := scenes.RunID(s.Name, mode)

	args := []string{s.File}
	args = append(args, s.Camera.Args()...)
	args = append(args,
		"-bf", strconv.Itoa(set.BenchFrames),
		"-wf", strconv.Itoa(set.WarmupFrames),
		"-r", mode.Flag(),
		"-i", ImagePrefix(set.ImageDir, id),
	)
	args = append(args, s.Params...)
	args = append(args, "-w", strconv.Itoa(set.Width), "-h", strconv.Itoa(set.Height))
	return args
}

// NewInvocation builds the invocation for a scene in the given mode.
func NewInvocation(s scenes.Scene, mode scenes.Mode, set Settings) Invocation {
	return Invocation{
		ID:   scenes.RunID(s.Name, mode),
		Args: BuildArgs(s, mode, set),
	}
}
