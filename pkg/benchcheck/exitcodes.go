// Package benchcheck provides public constants for external tools
// integrating with the benchcheck CLI.
package benchcheck

// Exit codes returned by the benchcheck CLI.
//
// A completed run exits with the number of failed test invocations, so any
// code between ExitSuccess and MaxFailureExit is a failure count.
const (
	// ExitSuccess indicates every selected test passed.
	ExitSuccess = 0

	// MaxFailureExit is the largest failure count reported through the exit
	// code. Runs with more failures still exit with MaxFailureExit.
	MaxFailureExit = 254

	// ExitAborted indicates the run did not complete: invalid arguments or
	// configuration, an unreadable or malformed baseline, or an output file
	// that could not be written.
	ExitAborted = 255
)

// FailureExitCode maps a failure count to a process exit code.
func FailureExitCode(failed int) int {
	switch {
	case failed <= 0:
		return ExitSuccess
	case failed > MaxFailureExit:
		return MaxFailureExit
	default:
		return failed
	}
}
