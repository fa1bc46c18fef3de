// Package command provides command execution adapters.
package command

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
)

// RealRunner executes host commands.
type RealRunner struct {
	env []string
}

// RunnerOption configures a RealRunner.
type RunnerOption func(*RealRunner)

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(kv ...string) RunnerOption {
	return func(r *RealRunner) {
		r.env = append(r.env, kv...)
	}
}

// WithCLocale forces the C locale so tool output is stable to parse.
func WithCLocale() RunnerOption {
	return WithEnv("LC_ALL=C", "LANG=C")
}

// NewRealRunner creates a new RealRunner.
func NewRealRunner(opts ...RunnerOption) *RealRunner {
	r := &RealRunner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a command and returns the result. A non-zero exit status is
// reported through CommandResult.ExitCode, not as an error.
func (r *RealRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, err
		}
		result.ExitCode = exitErr.ExitCode()
	}

	if logger := ports.LoggerFromContext(ctx); logger != nil {
		call := ports.CommandCall{Command: command, Args: args}
		logger.Debug(ctx, "command finished",
			ports.F("command", call.String()),
			ports.F("exit_code", result.ExitCode),
			ports.F("duration", time.Since(start).String()),
		)
	}

	return result, nil
}

// Ensure RealRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*RealRunner)(nil)
