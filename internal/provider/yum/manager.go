// Package yum drives yum or dnf, rpm and the versionlock plugin on the host.
package yum

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/inventory"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/packages"
	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
	"github.com/felixgeelhaar/pkgreconcile/internal/provider/commandutil"
)

// Backend selects the package-manager front end.
type Backend string

// Supported backends.
const (
	BackendYum Backend = "yum"
	BackendDNF Backend = "dnf"
)

// ParseBackend parses a backend name; empty means yum.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendYum:
		return BackendYum, nil
	case BackendDNF:
		return BackendDNF, nil
	default:
		return "", fmt.Errorf("unsupported package manager backend %q (want yum or dnf)", s)
	}
}

// Query formats. rpm needs the trailing newline, repoquery adds its own.
const (
	rpmQueryFormat       = "%{NAME} %{VERSION} %{RELEASE}\n"
	repoqueryQueryFormat = "%{name} %{version} %{release}"
)

// Manager implements the package-manager operations a reconciliation run needs.
type Manager struct {
	backend Backend
	runner  ports.CommandRunner
}

// NewManager creates a Manager for backend.
func NewManager(backend Backend, runner ports.CommandRunner) *Manager {
	if backend == "" {
		backend = BackendYum
	}
	return &Manager{backend: backend, runner: runner}
}

// Backend returns the configured backend.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Installed lists the packages in the rpm database.
func (m *Manager) Installed(ctx context.Context) ([]packages.Record, error) {
	result, err := commandutil.Run(ctx, m.runner, "rpm", "-qa", "--qf", rpmQueryFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed packages: %w", err)
	}
	return m.parse(ctx, "installed", result.Stdout), nil
}

// Available lists every build offered by the enabled repositories,
// including older builds.
func (m *Manager) Available(ctx context.Context) ([]packages.Record, error) {
	var (
		result ports.CommandResult
		err    error
	)
	switch m.backend {
	case BackendDNF:
		result, err = commandutil.Run(ctx, m.runner, "dnf", "repoquery", "-q", "--show-duplicates", "--qf", repoqueryQueryFormat+"\n")
	default:
		result, err = commandutil.Run(ctx, m.runner, "repoquery", "-a", "--show-duplicates", "--qf", repoqueryQueryFormat)
	}
	if err != nil {
		if commandutil.IsCommandNotFound(err) {
			return nil, fmt.Errorf("failed to list available packages (is %s installed?): %w", m.repoqueryPackage(), err)
		}
		return nil, fmt.Errorf("failed to list available packages: %w", err)
	}
	return m.parse(ctx, "available", result.Stdout), nil
}

// Install installs target, a bare name or name-version. yum picks the
// highest matching build, which makes this an upgrade when a lower build is
// installed.
func (m *Manager) Install(ctx context.Context, target string) error {
	return m.change(ctx, "install", target)
}

// Downgrade downgrades to target, a bare name or name-version.
func (m *Manager) Downgrade(ctx context.Context, target string) error {
	return m.change(ctx, "downgrade", target)
}

func (m *Manager) change(ctx context.Context, op, target string) error {
	if err := checkArg(target); err != nil {
		return err
	}
	if _, err := commandutil.Run(ctx, m.runner, string(m.backend), "-y", op, target); err != nil {
		return fmt.Errorf("%s %s failed: %w", op, target, err)
	}
	return nil
}

func (m *Manager) parse(ctx context.Context, source, output string) []packages.Record {
	records, skipped := inventory.Parse(output)
	if logger := ports.LoggerFromContext(ctx); logger != nil {
		for _, s := range skipped {
			logger.Debug(ctx, "skipped inventory line",
				ports.F("source", source),
				ports.F("line", s.Line),
				ports.F("reason", s.Reason),
			)
		}
		logger.Debug(ctx, "inventory read",
			ports.F("source", source),
			ports.F("records", len(records)),
			ports.F("skipped", len(skipped)),
		)
	}
	return records
}

func (m *Manager) repoqueryPackage() string {
	if m.backend == BackendDNF {
		return "dnf-plugins-core"
	}
	return "yum-utils"
}

// checkArg rejects values the package manager would read as an option.
func checkArg(arg string) error {
	if arg == "" {
		return fmt.Errorf("empty package argument")
	}
	if strings.HasPrefix(arg, "-") {
		return fmt.Errorf("package argument %q looks like an option", arg)
	}
	return nil
}
