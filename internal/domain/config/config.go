// Package config loads and validates the desired package state.
package config

import (
	"strings"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/packages"
)

// Defaults applied to fields left empty.
const (
	DefaultBackend   = "yum"
	DefaultRepoDir   = "/etc/yum.repos.d"
	DefaultStateFile = "/var/lib/pkgreconcile/last-run.yaml"
	DefaultLogLevel  = "info"
)

// Config is the root of pkgreconcile.yaml / pkgreconcile.toml.
type Config struct {
	Manager      ManagerConfig `yaml:"manager" toml:"manager"`
	Policy       PolicyConfig  `yaml:"policy" toml:"policy"`
	StateFile    string        `yaml:"state_file" toml:"state_file"`
	LogLevel     string        `yaml:"log_level,omitempty" toml:"log_level,omitempty"`
	Repositories []Repository  `yaml:"repositories" toml:"repositories"`
}

// ManagerConfig selects and configures the package manager.
type ManagerConfig struct {
	Backend string `yaml:"backend" toml:"backend"`
	RepoDir string `yaml:"repo_dir" toml:"repo_dir"`
	// HardenLocks pins desired packages after a successful run. Defaults to true.
	HardenLocks *bool `yaml:"harden_locks,omitempty" toml:"harden_locks,omitempty"`
}

// PolicyConfig tunes classification.
type PolicyConfig struct {
	KeepNewerBuilds bool `yaml:"keep_newer_builds" toml:"keep_newer_builds"`
}

// Repository is a .repo definition and the packages wanted from it.
type Repository struct {
	Name     string    `yaml:"name" toml:"name"`
	Content  string    `yaml:"content,omitempty" toml:"content,omitempty"`
	Packages []Package `yaml:"packages" toml:"packages"`
}

// Package is one desired package entry. An empty version means "present".
type Package struct {
	Name    string `yaml:"name" toml:"name"`
	Version string `yaml:"version,omitempty" toml:"version,omitempty"`
}

// Constraint returns the version constraint of the entry.
func (p Package) Constraint() packages.Constraint {
	return packages.ParseConstraint(p.Version)
}

// HardenEnabled reports whether pins are added after a successful run.
func (c *Config) HardenEnabled() bool {
	return c.Manager.HardenLocks == nil || *c.Manager.HardenLocks
}

// ManagedRepositories returns the repositories that carry a definition to
// install.
func (c *Config) ManagedRepositories() []Repository {
	var repos []Repository
	for _, r := range c.Repositories {
		if strings.TrimSpace(r.Content) != "" {
			repos = append(repos, r)
		}
	}
	return repos
}

// Specs returns the desired packages across all repositories, in file order.
// Repeated entries with the same constraint appear once. Conflicting entries
// are rejected by Validate and collapse to the first here.
func (c *Config) Specs() []packages.Spec {
	var specs []packages.Spec
	seen := make(map[string]bool)

	for _, repo := range c.Repositories {
		for _, p := range repo.Packages {
			name := strings.TrimSpace(p.Name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			specs = append(specs, packages.Spec{Name: name, Constraint: p.Constraint()})
		}
	}

	return specs
}

func (c *Config) applyDefaults() {
	if c.Manager.Backend == "" {
		c.Manager.Backend = DefaultBackend
	}
	if c.Manager.RepoDir == "" {
		c.Manager.RepoDir = DefaultRepoDir
	}
	if c.StateFile == "" {
		c.StateFile = DefaultStateFile
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Manager.Backend = strings.ToLower(strings.TrimSpace(c.Manager.Backend))
}
