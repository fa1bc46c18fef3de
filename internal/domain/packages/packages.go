// Package packages defines the desired and observed package model.
package packages

import (
	"errors"
	"strings"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/version"
)

// AnyVersion is the configuration literal requesting whatever version is best.
const AnyVersion = "present"

// ErrEmptyName is returned for a spec without a package name.
var ErrEmptyName = errors.New("package name cannot be empty")

// Constraint describes which version of a package is wanted.
// The zero value means any version.
type Constraint struct {
	exact string
}

// Any returns a constraint satisfied by the best available version.
func Any() Constraint {
	return Constraint{}
}

// Exact returns a constraint pinned to a single version string.
func Exact(v string) Constraint {
	return Constraint{exact: v}
}

// ParseConstraint maps a configuration value to a constraint.
// Empty and "present" both mean any version.
func ParseConstraint(raw string) Constraint {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == AnyVersion {
		return Any()
	}
	return Exact(raw)
}

// IsAny reports whether any version satisfies the constraint.
func (c Constraint) IsAny() bool {
	return c.exact == ""
}

// Version returns the pinned version and true, or "" and false for Any.
func (c Constraint) Version() (string, bool) {
	return c.exact, c.exact != ""
}

// String returns the version or "present".
func (c Constraint) String() string {
	if c.IsAny() {
		return AnyVersion
	}
	return c.exact
}

// Spec is one desired package.
type Spec struct {
	Name       string
	Constraint Constraint
}

// NewSpec creates a Spec, rejecting empty names.
func NewSpec(name string, c Constraint) (Spec, error) {
	if strings.TrimSpace(name) == "" {
		return Spec{}, ErrEmptyName
	}
	return Spec{Name: name, Constraint: c}, nil
}

// Label is how the spec is printed in reports: name or name-version.
func (s Spec) Label() string {
	if v, ok := s.Constraint.Version(); ok {
		return NV(s.Name, v)
	}
	return s.Name
}

// Names returns the spec names in order.
func Names(specs []Spec) []string {
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return names
}

// Record is one installed or available package build.
type Record struct {
	Name    string
	Version string
	Release string
}

// VR returns the record's version/release pair.
func (r Record) VR() version.VR {
	return version.VR{Version: r.Version, Release: r.Release}
}

// NV returns "name-version" for the record.
func (r Record) NV() string {
	return NV(r.Name, r.Version)
}

// String returns "name-version-release".
func (r Record) String() string {
	return r.Name + "-" + r.VR().String()
}

// NV joins a package name and version the way the package manager accepts them.
func NV(name, v string) string {
	if v == "" {
		return name
	}
	return name + "-" + v
}

// Best returns the record with the greatest (version, release).
// Ties keep the earliest record. The second result is false for an empty slice.
func Best(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if version.CompareVR(r.VR(), best.VR()) > 0 {
			best = r
		}
	}
	return best, true
}

// Index groups records by name, keeping input order within a name.
type Index map[string][]Record

// NewIndex builds an Index without modifying records.
func NewIndex(records []Record) Index {
	idx := make(Index)
	for _, r := range records {
		idx[r.Name] = append(idx[r.Name], r)
	}
	return idx
}

// Lookup returns the records for name.
func (i Index) Lookup(name string) []Record {
	return i[name]
}

// Has reports whether at least one record exists for name.
func (i Index) Has(name string) bool {
	return len(i[name]) > 0
}
