package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/gitci/internal/errors"
)

// Exit codes for the gitci CLI
// These codes let CI pipelines tell bad input apart from repository state
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure such as an unreadable repository
	ExitFailure = 1

	// ExitConfigError indicates the release configuration is invalid
	ExitConfigError = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates the repository is not in a usable
	// state, e.g. no git repository or no version tags
	ExitMissingDependencies = 4
)

// ExitError carries an explicit process exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return exitCodeFor(cliErr.Category)
	}
	return ExitFailure
}

func exitCodeFor(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfigError
	case clierrors.Prerequisite:
		return ExitMissingDependencies
	default:
		return ExitFailure
	}
}
