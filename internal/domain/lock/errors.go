package lock

import (
	"errors"
	"fmt"
	"strings"
)

// Guard errors.
var (
	ErrLockListUnavailable = errors.New("version lock list unavailable")
	ErrAlreadyStarted      = errors.New("lock guard already started")
)

// Operation names a single version-lock command.
type Operation string

const (
	// OpUnlock removes a pin.
	OpUnlock Operation = "unlock"
	// OpLock adds a pin.
	OpLock Operation = "lock"
	// OpList reads the pin list.
	OpList Operation = "list"
)

// OperationError is a failed lock, unlock or list command.
// It never aborts a run; guards collect them and report warnings.
type OperationError struct {
	Op   Operation
	Name string
	Err  error
}

// Error implements the error interface.
func (e OperationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("version lock %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("version lock %s %s failed: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e OperationError) Unwrap() error {
	return e.Err
}

// Warnings renders collected failures as report lines, one per operation kind.
func Warnings(failures []OperationError) []string {
	var unlock, lock, list []string
	for _, f := range failures {
		switch f.Op {
		case OpUnlock:
			unlock = appendUnique(unlock, f.Name)
		case OpLock:
			lock = appendUnique(lock, f.Name)
		case OpList:
			list = append(list, f.Err.Error())
		}
	}

	var warnings []string
	if len(unlock) > 0 {
		warnings = append(warnings, "Packages failed to unlock: "+strings.Join(unlock, "; "))
	}
	if len(lock) > 0 {
		warnings = append(warnings, "Packages failed to lock: "+strings.Join(lock, "; "))
	}
	if len(list) > 0 {
		warnings = append(warnings, "Unable to read version locks: "+strings.Join(list, "; "))
	}
	return warnings
}

func appendUnique(list []string, name string) []string {
	for _, n := range list {
		if n == name {
			return list
		}
	}
	return append(list, name)
}
