// Package commandutil holds helpers shared by command-driven providers.
package commandutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
)

// ErrCommandNotFound is returned by Run when the executable is missing.
var ErrCommandNotFound = errors.New("command not found")

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Call   ports.CommandCall
	Result ports.CommandResult
}

// Error returns the command line, exit code and diagnostic output.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Call.String(), e.Result.ExitCode)
	if d := e.Result.Diagnostic(); d != "" {
		msg += ": " + d
	}
	return msg
}

// IsCommandNotFound reports whether an error indicates a missing executable.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCommandNotFound) || errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return true
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return true
	}
	return false
}

// Run executes a command and turns a non-zero exit into an *ExitError and a
// missing executable into ErrCommandNotFound.
func Run(ctx context.Context, runner ports.CommandRunner, command string, args ...string) (ports.CommandResult, error) {
	call := ports.CommandCall{Command: command, Args: args}

	result, err := runner.Run(ctx, command, args...)
	if err != nil {
		if IsCommandNotFound(err) {
			return result, fmt.Errorf("%s: %w", command, ErrCommandNotFound)
		}
		return result, fmt.Errorf("%s: %w", call.String(), err)
	}
	if !result.Success() {
		return result, &ExitError{Call: call, Result: result}
	}
	return result, nil
}
