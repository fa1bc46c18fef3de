package execution

import (
	"fmt"
	"strings"
)

// Error codes for reconciliation runs.
const (
	ErrCodePlanningFailed  = "PLANNING_FAILED"
	ErrCodeExecutionFailed = "EXECUTION_FAILED"
)

// Error is a fatal run error with an actionable suggestion.
type Error struct {
	Code       string // Error code for categorization
	Message    string // User-friendly error message
	Package    string // Package being processed, if any
	Command    string // Package-manager operation that failed, if any
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	var parts []string

	if e.Package != "" {
		parts = append(parts, fmt.Sprintf("package %q", e.Package))
	}
	if e.Command != "" {
		parts = append(parts, fmt.Sprintf("command %q", e.Command))
	}

	msg := e.Message
	if len(parts) > 0 {
		msg = fmt.Sprintf("%s: %s", strings.Join(parts, ", "), e.Message)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Format returns a fully formatted error with all details.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Package != "" {
		b.WriteString(fmt.Sprintf("\n  Package: %s", e.Package))
	}
	if e.Command != "" {
		b.WriteString(fmt.Sprintf("\n  Command: %s", e.Command))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  Suggestion: %s", e.Suggestion))
	}
	if e.Underlying != nil {
		b.WriteString(fmt.Sprintf("\n  Cause: %s", e.Underlying.Error()))
	}

	return b.String()
}

// WithSuggestion returns a new Error with suggestion set.
func (e *Error) WithSuggestion(suggestion string) *Error {
	c := *e
	c.Suggestion = suggestion
	return &c
}

// WithUnderlying returns a new Error wrapping another error.
func (e *Error) WithUnderlying(err error) *Error {
	c := *e
	c.Underlying = err
	return &c
}

// NewPlanningError creates an error for a failure before any package changed.
func NewPlanningError(message string, err error) *Error {
	return &Error{
		Code:       ErrCodePlanningFailed,
		Message:    message,
		Suggestion: "Check that the package manager and its versionlock plugin are installed and that the repositories are reachable.",
		Underlying: err,
	}
}

// NewExecutionError creates an error for a failed package-manager command.
func NewExecutionError(pkg, command string, err error) *Error {
	return &Error{
		Code:       ErrCodeExecutionFailed,
		Message:    "package operation failed",
		Package:    pkg,
		Command:    command,
		Suggestion: "Actions applied before this one were not rolled back. Fix the cause and run again; completed packages will be reported as satisfied.",
		Underlying: err,
	}
}
