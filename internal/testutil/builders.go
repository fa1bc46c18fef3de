package testutil

import (
	"fmt"
	"strings"
)

// TestRepository is a repository entry for generated configurations.
type TestRepository struct {
	Name     string
	Content  string
	Packages []TestPackage
}

// TestPackage is a desired package entry. An empty Version is omitted.
type TestPackage struct {
	Name    string
	Version string
}

// ConfigBuilder builds pkgreconcile.yaml documents.
type ConfigBuilder struct {
	backend     string
	stateFile   string
	hardenLocks *bool
	keepNewer   bool
	repos       []TestRepository
}

// NewConfigBuilder creates a new config builder.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithBackend sets manager.backend.
func (b *ConfigBuilder) WithBackend(backend string) *ConfigBuilder {
	b.backend = backend
	return b
}

// WithStateFile sets state_file.
func (b *ConfigBuilder) WithStateFile(path string) *ConfigBuilder {
	b.stateFile = path
	return b
}

// WithHardenLocks sets manager.harden_locks.
func (b *ConfigBuilder) WithHardenLocks(enabled bool) *ConfigBuilder {
	b.hardenLocks = &enabled
	return b
}

// WithKeepNewerBuilds sets policy.keep_newer_builds.
func (b *ConfigBuilder) WithKeepNewerBuilds(enabled bool) *ConfigBuilder {
	b.keepNewer = enabled
	return b
}

// WithRepository adds a repository. A definition with a baseurl is
// generated when content is empty.
func (b *ConfigBuilder) WithRepository(name, content string) *ConfigBuilder {
	if content == "" {
		content = fmt.Sprintf("[%s]\nname=%s\nbaseurl=http://repo.example.org/%s/\nenabled=1\n", name, name, name)
	}
	b.repos = append(b.repos, TestRepository{Name: name, Content: content})
	return b
}

// WithPackage adds a package to the most recently added repository,
// creating a repository named "base" without a definition if there is none.
func (b *ConfigBuilder) WithPackage(name, version string) *ConfigBuilder {
	if len(b.repos) == 0 {
		b.repos = append(b.repos, TestRepository{Name: "base"})
	}
	last := &b.repos[len(b.repos)-1]
	last.Packages = append(last.Packages, TestPackage{Name: name, Version: version})
	return b
}

// ToYAML renders the configuration.
func (b *ConfigBuilder) ToYAML() string {
	var sb strings.Builder

	if b.backend != "" || b.hardenLocks != nil {
		sb.WriteString("manager:\n")
		if b.backend != "" {
			fmt.Fprintf(&sb, "  backend: %s\n", b.backend)
		}
		if b.hardenLocks != nil {
			fmt.Fprintf(&sb, "  harden_locks: %t\n", *b.hardenLocks)
		}
	}
	if b.keepNewer {
		sb.WriteString("policy:\n  keep_newer_builds: true\n")
	}
	if b.stateFile != "" {
		fmt.Fprintf(&sb, "state_file: %s\n", b.stateFile)
	}

	sb.WriteString("repositories:\n")
	for _, r := range b.repos {
		fmt.Fprintf(&sb, "  - name: %s\n", r.Name)
		if r.Content != "" {
			sb.WriteString("    content: |\n")
			for _, line := range strings.Split(strings.TrimRight(r.Content, "\n"), "\n") {
				fmt.Fprintf(&sb, "      %s\n", line)
			}
		}
		sb.WriteString("    packages:\n")
		for _, p := range r.Packages {
			fmt.Fprintf(&sb, "      - name: %s\n", p.Name)
			if p.Version != "" {
				fmt.Fprintf(&sb, "        version: %q\n", p.Version)
			}
		}
	}

	return sb.String()
}

// InventoryBuilder builds rpm/repoquery query-format listings.
type InventoryBuilder struct {
	lines []string
}

// NewInventoryBuilder creates a new inventory builder.
func NewInventoryBuilder() *InventoryBuilder {
	return &InventoryBuilder{}
}

// Add appends a "name version release" line.
func (b *InventoryBuilder) Add(name, version, release string) *InventoryBuilder {
	b.lines = append(b.lines, fmt.Sprintf("%s %s %s", name, version, release))
	return b
}

// String returns the listing with a trailing newline per line.
func (b *InventoryBuilder) String() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}
