package yum

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/pkgreconcile/internal/provider/commandutil"
)

// Locked returns the names of all packages pinned by the versionlock plugin.
func (m *Manager) Locked(ctx context.Context) ([]string, error) {
	result, err := commandutil.Run(ctx, m.runner, string(m.backend), "-q", "versionlock", "list")
	if err != nil {
		return nil, fmt.Errorf("failed to list version locks: %w", err)
	}
	return ParseLockList(result.Stdout), nil
}

// Lock pins the installed version of name.
func (m *Manager) Lock(ctx context.Context, name string) error {
	return m.versionlock(ctx, "add", name)
}

// Unlock removes every pin on name.
func (m *Manager) Unlock(ctx context.Context, name string) error {
	return m.versionlock(ctx, "delete", name)
}

func (m *Manager) versionlock(ctx context.Context, op, name string) error {
	if err := checkArg(name); err != nil {
		return err
	}
	if _, err := commandutil.Run(ctx, m.runner, string(m.backend), "-q", "versionlock", op, name); err != nil {
		return fmt.Errorf("versionlock %s %s: %w", op, name, err)
	}
	return nil
}

// ParseLockList extracts package names from versionlock list output.
// Entries look like "0:name-1.0-1.el7.*" (yum) or "name-0:1.0-1.el7.*"
// (dnf). Exclusions ("!..."), comments and any line with spaces (plugin
// banners, metadata notices) are ignored. Names are unique, in output order.
func ParseLockList(output string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(output, "\n") {
		entry := strings.TrimSpace(line)
		if entry == "" || strings.ContainsAny(entry, " \t") {
			continue
		}
		if strings.HasPrefix(entry, "!") || strings.HasPrefix(entry, "#") {
			continue
		}

		name, ok := lockEntryName(entry)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}

func lockEntryName(entry string) (string, bool) {
	// Leading epoch (yum form).
	if i := strings.Index(entry, ":"); i > 0 && isDigits(entry[:i]) {
		entry = entry[i+1:]
	}

	// Trailing arch, usually "*".
	if i := strings.LastIndex(entry, "."); i > 0 {
		entry = entry[:i]
	}

	// Drop release, then version (which may carry "epoch:" in the dnf form).
	for n := 0; n < 2; n++ {
		i := strings.LastIndex(entry, "-")
		if i <= 0 {
			return "", false
		}
		entry = entry[:i]
	}

	return entry, entry != ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
