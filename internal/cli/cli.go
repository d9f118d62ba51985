// Package cli provides the command-line interface of benchcheck.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/benchcheck/internal/output"
	"github.com/AndreyAkinshin/benchcheck/internal/scenes"
	"github.com/AndreyAkinshin/benchcheck/pkg/benchcheck"
)

// Version is set at build time.
var Version = "dev"

// Options holds the parsed command-line flags. Zero values mean "not set";
// configuration and defaults fill them in.
type Options struct {
	Width     int
	Height    int
	Tests     string
	TestsList bool
	Output    string
	Baseline  string
	Reference string
	Renderer  string
	Config    string
	Exe       string
	ImageDir  string
	Summary   string
	Verbose   bool
	Quiet     bool
	Help      bool
	Version   bool
}

// Run executes the CLI with the given arguments and returns an exit code.
// An interrupt cancels the renderer that is currently running and aborts
// the run.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, args, output.New(), os.Stderr)
}

func run(ctx context.Context, args []string, w *output.Writer, logOut io.Writer) int {
	opts, err := parseFlags(args)
	if err != nil {
		w.ErrorPrefix("%v", err)
		w.Errorln("run 'benchcheck --help' for usage")
		return benchcheck.ExitAborted
	}

	switch {
	case opts.Help:
		printUsage(w)
		return benchcheck.ExitSuccess
	case opts.Version:
		w.Println("benchcheck %s", Version)
		return benchcheck.ExitSuccess
	}

	w.SetQuiet(opts.Quiet)
	if opts.Verbose {
		restore := enableDebugLogging(logOut)
		defer restore()
	}

	return execute(ctx, opts, w)
}

// valueFlags are the flags that take a value, mapped to their setters.
var valueFlags = map[string]func(o *Options, v string) error{
	"--width":     func(o *Options, v string) error { return setDimension(&o.Width, "--width", v) },
	"--height":    func(o *Options, v string) error { return setDimension(&o.Height, "--height", v) },
	"--tests":     func(o *Options, v string) error { o.Tests = v; return nil },
	"--output":    func(o *Options, v string) error { o.Output = v; return nil },
	"--baseline":  func(o *Options, v string) error { o.Baseline = v; return nil },
	"--reference": func(o *Options, v string) error { o.Reference = v; return nil },
	"--renderer":  setRenderer,
	"--config":    func(o *Options, v string) error { o.Config = v; return nil },
	"--exe":       func(o *Options, v string) error { o.Exe = v; return nil },
	"--image-dir": func(o *Options, v string) error { o.ImageDir = v; return nil },
	"--summary":   func(o *Options, v string) error { o.Summary = v; return nil },
}

// parseFlags manually parses the command line. Value flags accept both
// "--flag value" and "--flag=value".
func parseFlags(args []string) (*Options, error) {
	opts := &Options{Renderer: scenes.RendererBoth}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			opts.Help = true
			i++
			continue
		case "--version":
			opts.Version = true
			i++
			continue
		case "-v", "--verbose":
			opts.Verbose = true
			i++
			continue
		case "-q", "--quiet":
			opts.Quiet = true
			i++
			continue
		case "--tests-list":
			opts.TestsList = true
			i++
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		set, ok := valueFlags[name]
		if !ok {
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag %q", arg)
			}
			return nil, fmt.Errorf("unexpected argument %q", arg)
		}
		if !hasValue {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", name)
			}
			value = args[i+1]
			i++
		}
		if err := set(opts, value); err != nil {
			return nil, err
		}
		i++
	}

	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func setDimension(dst *int, flag, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s value %q\n  must be a positive integer", flag, value)
	}
	*dst = n
	return nil
}

func setRenderer(o *Options, value string) error {
	if _, err := scenes.ParseModes(value); err != nil {
		return err
	}
	o.Renderer = value
	return nil
}

// validateOptions checks flag combinations.
func validateOptions(opts *Options) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

func enableDebugLogging(w io.Writer) (restore func()) {
	setLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { setLogger(nil) }
}
