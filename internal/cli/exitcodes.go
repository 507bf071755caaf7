package cli

import (
	"errors"

	"ftr/internal/execution"
)

// Process exit codes.
const (
	ExitSuccess     = 0 // All tests pass
	ExitTestFailure = 1 // Test failures or unreadable directories
	ExitRuntimeErr  = 2 // Stalled runs, bad configuration and other errors
)

// ExitCode maps the error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var failures *execution.FailuresError
	if errors.As(err, &failures) {
		return ExitTestFailure
	}
	return ExitRuntimeErr
}
