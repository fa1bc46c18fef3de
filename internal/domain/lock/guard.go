// Package lock protects per-package version pins around a reconciliation run.
//
// The package manager hides versions of pinned packages from its queries, so
// pins on desired packages are lifted before inventories are read and put back
// afterwards. A Guard owns that protocol for exactly one run and is the only
// code that touches the host pin list. Concurrent runs against the same host
// are not coordinated here; callers must serialize them.
package lock

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/packages"
	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
	"github.com/felixgeelhaar/statekit"
)

// Locker manages the package manager's version pins.
type Locker interface {
	// Locked returns the names of all pinned packages.
	Locked(ctx context.Context) ([]string, error)
	// Lock pins the installed version of name.
	Lock(ctx context.Context, name string) error
	// Unlock removes the pin on name.
	Unlock(ctx context.Context, name string) error
}

// Phase is the guard's position in its protocol.
type Phase string

// Guard phases.
const (
	PhaseIdle     Phase = "idle"
	PhaseUnlocked Phase = "unlocked"
	PhaseRestored Phase = "restored"
	PhaseHardened Phase = "hardened"
)

// State machine identifiers. Untyped so they convert to statekit's types.
const (
	stateIdle     = "idle"
	stateUnlocked = "unlocked"
	stateRestored = "restored"
	stateHardened = "hardened"

	eventSnapshot = "SNAPSHOT"
	eventRestore  = "RESTORE"
	eventHarden   = "HARDEN"
)

// Stats counts the pins a guard touched.
type Stats struct {
	Unlocked int
	Relocked int
	Hardened int
}

// Guard snapshots, lifts, restores and hardens version pins for one run.
type Guard struct {
	locker          Locker
	specs           []packages.Spec
	initiallyLocked []string
	hardened        []string
	failures        []OperationError
	stats           Stats
	interp          *statekit.Interpreter[Stats]
}

// NewGuard creates a Guard for the desired specs.
func NewGuard(locker Locker, specs []packages.Spec) (*Guard, error) {
	machine, err := statekit.NewMachine[Stats]("version-lock-guard").
		WithInitial(stateIdle).
		WithContext(Stats{}).
		State(stateIdle).
		On(eventSnapshot).Target(stateUnlocked).
		On(eventRestore).Target(stateRestored).Done().
		State(stateUnlocked).
		On(eventRestore).Target(stateRestored).Done().
		State(stateRestored).
		On(eventHarden).Target(stateHardened).Done().
		State(stateHardened).
		On(eventRestore).Target(stateHardened).Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock guard state machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()

	return &Guard{
		locker: locker,
		specs:  specs,
		interp: interp,
	}, nil
}

// Phase returns the current protocol phase.
func (g *Guard) Phase() Phase {
	return Phase(g.interp.State().Value)
}

// SnapshotAndUnlock records which desired packages are pinned and unpins them.
// Unlock failures are collected, not returned. An unreadable pin list is
// returned as ErrLockListUnavailable; nothing has been changed in that case.
func (g *Guard) SnapshotAndUnlock(ctx context.Context) error {
	if g.Phase() != PhaseIdle {
		return ErrAlreadyStarted
	}

	locked, err := g.locker.Locked(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLockListUnavailable, err)
	}

	lockedSet := toSet(locked)
	seen := make(map[string]bool, len(g.specs))
	for _, name := range packages.Names(g.specs) {
		if lockedSet[name] && !seen[name] {
			seen[name] = true
			g.initiallyLocked = append(g.initiallyLocked, name)
		}
	}

	for _, name := range g.initiallyLocked {
		if err := g.locker.Unlock(ctx, name); err != nil {
			g.fail(ctx, OperationError{Op: OpUnlock, Name: name, Err: err})
			continue
		}
		g.stats.Unlocked++
	}

	debug(ctx, "version locks lifted", ports.F("locked", len(g.initiallyLocked)), ports.F("unlocked", g.stats.Unlocked))
	g.interp.Send(statekit.Event{Type: eventSnapshot})
	return nil
}

// Restore re-pins every initially pinned package. It runs at most once; later
// calls are no-ops, so it is safe to defer unconditionally.
func (g *Guard) Restore(ctx context.Context) {
	if p := g.Phase(); p == PhaseRestored || p == PhaseHardened {
		return
	}

	for _, name := range g.initiallyLocked {
		if err := g.locker.Lock(ctx, name); err != nil {
			g.fail(ctx, OperationError{Op: OpLock, Name: name, Err: err})
			continue
		}
		g.stats.Relocked++
	}

	debug(ctx, "version locks restored", ports.F("relocked", g.stats.Relocked))
	g.interp.Send(statekit.Event{Type: eventRestore})
}

// Harden pins desired packages that are installed but not pinned yet.
// Specs accepting any version are only hardened if they were pinned when the
// run started. Harden is only valid after Restore.
func (g *Guard) Harden(ctx context.Context, installed []packages.Record) {
	if g.Phase() != PhaseRestored {
		return
	}

	locked, err := g.locker.Locked(ctx)
	if err != nil {
		g.fail(ctx, OperationError{Op: OpList, Err: err})
		g.interp.Send(statekit.Event{Type: eventHarden})
		return
	}

	lockedSet := toSet(locked)
	initial := toSet(g.initiallyLocked)
	present := packages.NewIndex(installed)

	for _, spec := range g.specs {
		if spec.Constraint.IsAny() && !initial[spec.Name] {
			continue
		}
		if !present.Has(spec.Name) || lockedSet[spec.Name] {
			continue
		}
		lockedSet[spec.Name] = true
		if err := g.locker.Lock(ctx, spec.Name); err != nil {
			g.fail(ctx, OperationError{Op: OpLock, Name: spec.Name, Err: err})
			continue
		}
		g.hardened = append(g.hardened, spec.Name)
		g.stats.Hardened++
	}

	debug(ctx, "version locks hardened", ports.F("hardened", g.stats.Hardened))
	g.interp.Send(statekit.Event{Type: eventHarden})
}

// InitiallyLocked returns the desired packages that were pinned at snapshot time.
func (g *Guard) InitiallyLocked() []string {
	return append([]string(nil), g.initiallyLocked...)
}

// Hardened returns the packages newly pinned by Harden.
func (g *Guard) Hardened() []string {
	return append([]string(nil), g.hardened...)
}

// Failures returns all collected lock operation failures.
func (g *Guard) Failures() []OperationError {
	return append([]OperationError(nil), g.failures...)
}

// Warnings renders the collected failures as report lines.
func (g *Guard) Warnings() []string {
	return Warnings(g.failures)
}

// Stats returns counters for the run.
func (g *Guard) Stats() Stats {
	return g.stats
}

func (g *Guard) fail(ctx context.Context, opErr OperationError) {
	g.failures = append(g.failures, opErr)
	if logger := ports.LoggerFromContext(ctx); logger != nil {
		logger.Warn(ctx, opErr.Error(), ports.F("op", string(opErr.Op)), ports.F("package", opErr.Name))
	}
}

func debug(ctx context.Context, msg string, fields ...ports.Field) {
	if logger := ports.LoggerFromContext(ctx); logger != nil {
		logger.Debug(ctx, msg, fields...)
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
