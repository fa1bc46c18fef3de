// Package app wires configuration, the package-manager provider and the
// reconciliation engine into the pkgreconcile commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/felixgeelhaar/pkgreconcile/internal/adapters/command"
	"github.com/felixgeelhaar/pkgreconcile/internal/adapters/filesystem"
	"github.com/felixgeelhaar/pkgreconcile/internal/adapters/logging"
	"github.com/felixgeelhaar/pkgreconcile/internal/adapters/runstore"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/config"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/execution"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/reconcile"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/runlog"
	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
	"github.com/felixgeelhaar/pkgreconcile/internal/provider/yum"
)

// Reconciler is the main application orchestrator.
type Reconciler struct {
	runner     ports.CommandRunner
	fs         ports.FileSystem
	records    runlog.Repository
	loaderOpts []config.LoaderOption
	now        func() time.Time
	out        io.Writer
}

// New creates a Reconciler acting on the local host.
func New(out io.Writer) *Reconciler {
	fs := filesystem.NewRealFileSystem()
	return &Reconciler{
		// Package-manager output is parsed, so keep it untranslated.
		runner:  command.NewRealRunner(command.WithCLocale()),
		fs:      fs,
		records: runstore.NewYAMLRepository(fs),
		now:     time.Now,
		out:     out,
	}
}

// WithRunner sets the command runner used for package-manager calls.
func (r *Reconciler) WithRunner(runner ports.CommandRunner) *Reconciler {
	r.runner = runner
	return r
}

// WithFileSystem sets the filesystem for configuration, repository
// definitions and run records.
func (r *Reconciler) WithFileSystem(fs ports.FileSystem) *Reconciler {
	r.fs = fs
	r.records = runstore.NewYAMLRepository(fs)
	return r
}

// WithRecords sets the run record repository.
func (r *Reconciler) WithRecords(records runlog.Repository) *Reconciler {
	r.records = records
	return r
}

// WithLoaderOptions sets options for configuration loading.
func (r *Reconciler) WithLoaderOptions(opts ...config.LoaderOption) *Reconciler {
	r.loaderOpts = opts
	return r
}

// WithClock sets the time source for run records.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// LoadConfig loads and validates the configuration at path.
func (r *Reconciler) LoadConfig(path string) (*config.Config, error) {
	return config.NewLoader(r.fs, r.loaderOpts...).Load(path)
}

// RunOptions configures a reconciliation run.
type RunOptions struct {
	// DryRun reports the plan without changing the host.
	DryRun bool
	// SkipRepos leaves repository definitions untouched.
	SkipRepos bool
}

// Result is the outcome of Run.
type Result struct {
	Record *runlog.Record
	Report execution.Report
}

// Run reconciles the host with cfg. A record of the run is saved to
// cfg.StateFile whether or not it succeeds; the returned Result is non-nil
// in both cases.
func (r *Reconciler) Run(ctx context.Context, cfg *config.Config, opts RunOptions) (*Result, error) {
	backend, err := yum.ParseBackend(cfg.Manager.Backend)
	if err != nil {
		return nil, err
	}

	record := runlog.NewRecord(runlog.ModeFor(opts.DryRun), string(backend), r.now())
	result := &Result{Record: record}

	logger := ports.LoggerFromContext(ctx)
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(ports.F("run_id", record.ID))
	ctx = ports.ContextWithLogger(ctx, logger)
	logger.Info(ctx, "run started",
		ports.F("mode", string(record.Mode)),
		ports.F("backend", string(backend)),
		ports.F("packages", len(cfg.Specs())),
	)

	runErr := r.run(ctx, cfg, backend, opts, result)
	record.Finish(r.now(), runErr)

	if err := r.records.Save(ctx, cfg.StateFile, record); err != nil {
		logger.Warn(ctx, "failed to save run record",
			ports.F("path", cfg.StateFile),
			ports.F("error", err.Error()),
		)
	}

	if runErr != nil {
		logger.Error(ctx, "run failed", ports.F("error", runErr.Error()))
	} else {
		logger.Info(ctx, "run finished",
			ports.F("warnings", len(record.Warnings)),
			ports.F("duration", record.Duration().String()),
		)
	}

	return result, runErr
}

func (r *Reconciler) run(ctx context.Context, cfg *config.Config, backend yum.Backend, opts RunOptions, result *Result) error {
	if !opts.DryRun && !opts.SkipRepos {
		changed, err := r.installRepos(ctx, cfg)
		result.Record.RepoFiles = changed
		if err != nil {
			return err
		}
	}

	executor := execution.NewExecutor(yum.NewManager(backend, r.runner)).
		WithPolicy(reconcile.Policy{KeepNewerBuilds: cfg.Policy.KeepNewerBuilds}).
		WithHardenLocks(cfg.HardenEnabled())

	report, err := executor.Run(ctx, cfg.Specs(), opts.DryRun)
	if err != nil {
		result.Record.Warnings = report.Warnings
		return err
	}

	result.Report = report
	result.Record.Info = report.Info
	result.Record.Warnings = report.Warnings
	result.Record.Hardened = report.Hardened
	return nil
}

// installRepos writes the managed repository definitions and returns the
// paths that changed.
func (r *Reconciler) installRepos(ctx context.Context, cfg *config.Config) ([]string, error) {
	writer := yum.NewRepoWriter(r.fs, cfg.Manager.RepoDir)
	logger := ports.LoggerFromContext(ctx)

	var changed []string
	for _, repo := range cfg.ManagedRepositories() {
		updated, err := writer.Write(yum.Repo{Name: repo.Name, Content: repo.Content})
		if err != nil {
			return changed, fmt.Errorf("failed to install repository definitions: %w", err)
		}
		if !updated {
			continue
		}
		path := writer.Path(repo.Name)
		changed = append(changed, path)
		if logger != nil {
			logger.Info(ctx, "repository definition written", ports.F("path", path))
		}
	}
	return changed, nil
}

// ErrNoRuns is returned by LastRun when nothing has been recorded yet.
var ErrNoRuns = runlog.ErrRecordNotFound

// LastRun loads the most recent run record.
func (r *Reconciler) LastRun(ctx context.Context, cfg *config.Config) (*runlog.Record, error) {
	record, err := r.records.Load(ctx, cfg.StateFile)
	if err != nil {
		if errors.Is(err, runlog.ErrRecordNotFound) {
			return nil, ErrNoRuns
		}
		return nil, fmt.Errorf("failed to load last run: %w", err)
	}
	return record, nil
}

// printf is a helper that writes to the output writer, ignoring errors.
func (r *Reconciler) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}
