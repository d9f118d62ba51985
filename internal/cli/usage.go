package cli

import (
	"github.com/AndreyAkinshin/benchcheck/internal/config"
	"github.com/AndreyAkinshin/benchcheck/internal/output"
)

const flagWidth = 22

func printUsage(w *output.Writer) {
	w.HelpTitle("benchcheck - benchmark regression harness")

	w.HelpSection("Usage:")
	w.HelpUsage("benchcheck [flags]")

	w.HelpSection("Selection:")
	w.HelpFlag("--tests <a,b,...>", "Comma-separated tests to run (default: all)", flagWidth)
	w.HelpFlag("--tests-list", "Print the available tests and exit", flagWidth)
	w.HelpFlag("--renderer <mode>", "Renderer: both, scivis or pt (default: both)", flagWidth)

	w.HelpSection("Rendering:")
	w.HelpFlag("--width <px>", "Image width (default: 1024)", flagWidth)
	w.HelpFlag("--height <px>", "Image height (default: 1024)", flagWidth)
	w.HelpFlag("--exe <path>", "Renderer executable (default: "+config.DefaultExecutable+")", flagWidth)
	w.HelpFlag("--image-dir <dir>", "Directory for rendered images (default: "+config.DefaultImageDir+")", flagWidth)

	w.HelpSection("Checks and Output:")
	w.HelpFlag("--baseline <file>", "CSV of a previous run to compare scores against", flagWidth)
	w.HelpFlag("--reference <dir>", "Directory with reference images", flagWidth)
	w.HelpFlag("--output <file>", "Write the statistics of every test as CSV", flagWidth)
	w.HelpFlag("--summary <file>", "Write a YAML summary of the run", flagWidth)
	w.HelpFlag("--config <file>", "Configuration file (.json, .yaml or .toml)", flagWidth)

	w.HelpSection("General:")
	w.HelpFlag("-q, --quiet", "Only print failures and the verdict", flagWidth)
	w.HelpFlag("-v, --verbose", "Log diagnostics to stderr", flagWidth)
	w.HelpFlag("-h, --help", "Show this help", flagWidth)
	w.HelpFlag("--version", "Show version information", flagWidth)

	w.HelpSection("Exit Status:")
	w.HelpUsage("0        all tests passed")
	w.HelpUsage("1-254    number of failed tests (capped at 254)")
	w.HelpUsage("255      run aborted (bad arguments, configuration or baseline)")

	w.HelpSection("Examples:")
	w.HelpExample("benchcheck --tests-list", "")
	w.HelpExample("benchcheck --output current.csv", "Record a new baseline")
	w.HelpExample("benchcheck --baseline current.csv --reference ref_images --renderer pt",
		"Check path-traced scores and images against a previous run")
	w.HelpExample("benchcheck --tests fiu1,sponza1 --width 512 --height 512", "")
}
