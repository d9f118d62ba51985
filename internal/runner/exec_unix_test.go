//go:build !windows

package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeRenderer writes a shell script that behaves according to its first
// argument.
func fakeRenderer(t *testing.T) string {
	t.Helper()
	script := `#!/bin/sh
case "$1" in
  ok)
    echo "loading scene"
    echo "Statistics:"
    echo "  max: 12.5"
    echo "  mean: 10"
    echo "warning" >&2
    ;;
  fail)
    echo "partial"
    exit 3
    ;;
  hang)
    sleep 10
    ;;
  pwd)
    pwd
    ;;
esac
`
	path := filepath.Join(t.TempDir(), "renderer.sh")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecRunner_CapturesOutput(t *testing.T) {
	t.Parallel()

	r := NewExecRunner(fakeRenderer(t))
	res, err := r.Run(context.Background(), Invocation{ID: "x_pt", Args: []string{"ok"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(res.Stdout, "Statistics:") {
		t.Errorf("Stdout = %q, want statistics block", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "warning" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "warning")
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	t.Parallel()

	r := NewExecRunner(fakeRenderer(t))
	res, err := r.Run(context.Background(), Invocation{ID: "x_pt", Args: []string{"fail"}})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil for non-zero exit", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "partial" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	t.Parallel()

	r := NewExecRunner(filepath.Join(t.TempDir(), "missing"))
	_, err := r.Run(context.Background(), Invocation{ID: "x_pt"})
	if err == nil || !strings.Contains(err.Error(), "failed to start") {
		t.Errorf("Run() error = %v, want start failure", err)
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	t.Parallel()

	r := NewExecRunner(fakeRenderer(t))
	r.SetTimeout(100 * time.Millisecond)

	start := time.Now()
	_, err := r.Run(context.Background(), Invocation{ID: "x_pt", Args: []string{"hang"}})
	if err == nil || !strings.Contains(err.Error(), "timed out after 100ms") {
		t.Errorf("Run() error = %v, want timeout", err)
	}
	if elapsed := time.Since(start); elapsed > 8*time.Second {
		t.Errorf("Run() took %s, want the renderer killed on timeout", elapsed)
	}
}

func TestExecRunner_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewExecRunner(fakeRenderer(t))
	_, err := r.Run(ctx, Invocation{ID: "x_pt", Args: []string{"ok"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestExecRunner_Dir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewExecRunner(fakeRenderer(t))
	r.SetDir(dir)

	res, err := r.Run(context.Background(), Invocation{ID: "x_pt", Args: []string{"pwd"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(res.Stdout))
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}
