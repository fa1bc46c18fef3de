// Package execution runs a reconciliation pass: snapshot locks, read
// inventories, classify, apply, restore.
package execution

import (
	"context"
	"time"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/lock"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/packages"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/reconcile"
	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
)

// PackageManager is everything a run needs from the host package manager.
type PackageManager interface {
	lock.Locker

	// Installed returns the packages in the local database.
	Installed(ctx context.Context) ([]packages.Record, error)
	// Available returns every build offered by the enabled repositories.
	Available(ctx context.Context) ([]packages.Record, error)
	// Install installs or upgrades to target (name or name-version).
	Install(ctx context.Context, target string) error
	// Downgrade downgrades to target (name or name-version).
	Downgrade(ctx context.Context, target string) error
}

// LockGuard scopes version pins around one run.
type LockGuard interface {
	SnapshotAndUnlock(ctx context.Context) error
	Restore(ctx context.Context)
	Harden(ctx context.Context, installed []packages.Record)
	Hardened() []string
	Warnings() []string
}

// GuardFactory creates the lock guard for one run.
type GuardFactory func(locker lock.Locker, specs []packages.Spec) (LockGuard, error)

// DefaultGuardFactory builds a lock.Guard.
func DefaultGuardFactory(locker lock.Locker, specs []packages.Spec) (LockGuard, error) {
	g, err := lock.NewGuard(locker, specs)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Executor runs reconciliation passes against one package manager.
type Executor struct {
	pm          PackageManager
	policy      reconcile.Policy
	hardenLocks bool
	newGuard    GuardFactory
}

// NewExecutor creates a new Executor.
func NewExecutor(pm PackageManager) *Executor {
	return &Executor{
		pm:       pm,
		newGuard: DefaultGuardFactory,
	}
}

// WithPolicy returns an Executor classifying with the given policy.
func (e *Executor) WithPolicy(policy reconcile.Policy) *Executor {
	c := *e
	c.policy = policy
	return &c
}

// WithHardenLocks returns an Executor that pins desired packages after a
// successful execute run.
func (e *Executor) WithHardenLocks(harden bool) *Executor {
	c := *e
	c.hardenLocks = harden
	return &c
}

// WithGuardFactory returns an Executor using factory for its lock guards.
func (e *Executor) WithGuardFactory(factory GuardFactory) *Executor {
	c := *e
	c.newGuard = factory
	return &c
}

// Run reconciles the host with specs. In dry-run mode nothing is installed
// and the report describes what would happen. Pins lifted for the run are
// restored before Run returns, whatever the outcome; on error the report
// carries only the lock warnings.
func (e *Executor) Run(ctx context.Context, specs []packages.Spec, dryRun bool) (Report, error) {
	guard, err := e.newGuard(e.pm, specs)
	if err != nil {
		return Report{}, NewPlanningError("failed to create lock guard", err)
	}

	var (
		report Report
		runErr error
	)
	func() {
		defer guard.Restore(ctx)
		report, runErr = e.reconcile(ctx, guard, specs, dryRun)
	}()
	if runErr != nil {
		// Only lock warnings survive a failed run.
		return Report{Warnings: guard.Warnings()}, runErr
	}

	if !dryRun && e.hardenLocks {
		installed, err := e.pm.Installed(ctx)
		if err != nil {
			report.Warnings = append(report.Warnings, "Unable to read installed packages for hardening: "+err.Error())
		} else {
			guard.Harden(ctx, installed)
			report.Hardened = guard.Hardened()
		}
	}

	report.Warnings = append(report.Warnings, guard.Warnings()...)
	return report, nil
}

func (e *Executor) reconcile(ctx context.Context, guard LockGuard, specs []packages.Spec, dryRun bool) (Report, error) {
	logger := ports.LoggerFromContext(ctx)

	if err := guard.SnapshotAndUnlock(ctx); err != nil {
		return Report{}, NewPlanningError("failed to lift version locks", err)
	}

	installed, err := e.pm.Installed(ctx)
	if err != nil {
		return Report{}, NewPlanningError("failed to read installed packages", err)
	}
	available, err := e.pm.Available(ctx)
	if err != nil {
		return Report{}, NewPlanningError("failed to read available packages", err)
	}

	plan := reconcile.Classify(specs, installed, available, e.policy)
	if logger != nil {
		logger.Debug(ctx, "plan classified",
			ports.F("specs", len(specs)),
			ports.F("actions", plan.Len()),
			ports.F("satisfied", len(plan.Satisfied())),
		)
	}

	if !dryRun {
		for _, action := range plan.Actions() {
			if err := e.apply(ctx, logger, action); err != nil {
				return Report{}, err
			}
		}
	}

	return BuildReport(plan, dryRun), nil
}

// apply runs the package-manager command for one action.
func (e *Executor) apply(ctx context.Context, logger ports.Logger, action reconcile.Action) error {
	if !action.NeedsCommand() {
		return nil
	}

	select {
	case <-ctx.Done():
		return NewExecutionError(action.Spec.Name, "", ctx.Err())
	default:
	}

	target := action.Target()
	op, run := "install", e.pm.Install
	if action.Kind == reconcile.KindDowngrade {
		op, run = "downgrade", e.pm.Downgrade
	}
	command := op + " " + target

	start := time.Now()
	err := run(ctx, target)
	duration := time.Since(start)

	if err != nil {
		if logger != nil {
			logger.Error(ctx, "package operation failed",
				ports.F("package", action.Spec.Name),
				ports.F("command", command),
				ports.F("error", err.Error()),
			)
		}
		return NewExecutionError(action.Spec.Name, command, err)
	}

	if logger != nil {
		logger.Info(ctx, "package "+action.Kind.String()+" applied",
			ports.F("package", action.Spec.Name),
			ports.F("target", target),
			ports.F("duration", duration.String()),
		)
	}
	return nil
}
