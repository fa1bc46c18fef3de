// Package reconcile classifies desired packages against host inventories.
package reconcile

import (
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/packages"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/version"
)

// Kind is the category of a planned action.
type Kind int

// Action kinds, in report order.
const (
	KindInstall Kind = iota
	KindUpgrade
	KindDowngrade
	KindDifferentVersion
	KindNotFound
)

// Kinds lists every kind in report order.
var Kinds = []Kind{KindInstall, KindUpgrade, KindDowngrade, KindDifferentVersion, KindNotFound}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInstall:
		return "install"
	case KindUpgrade:
		return "upgrade"
	case KindDowngrade:
		return "downgrade"
	case KindDifferentVersion:
		return "different-version"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Actionable reports whether the kind results in a package-manager command.
func (k Kind) Actionable() bool {
	return k != KindNotFound
}

// Action is one classified desired package.
type Action struct {
	Kind Kind
	Spec packages.Spec
	// From is the best installed record (Upgrade, Downgrade, and
	// DifferentVersion when the package is installed).
	From *packages.Record
	// To is the candidate to install (Upgrade, Downgrade, DifferentVersion,
	// and Install when the spec accepts any version).
	To *packages.Record
}

// NeedsCommand reports whether applying the action runs a package-manager
// command. A DifferentVersion whose substitute is already installed is still
// reported but changes nothing.
func (a Action) NeedsCommand() bool {
	if !a.Kind.Actionable() {
		return false
	}
	if a.Kind == KindDifferentVersion && a.From != nil && a.To != nil {
		return version.CompareVR(a.From.VR(), a.To.VR()) != 0
	}
	return true
}

// Target is the argument passed to the package manager for this action:
// the bare name for specs accepting any version that move forward, otherwise
// name-version.
func (a Action) Target() string {
	switch a.Kind {
	case KindInstall:
		return a.Spec.Label()
	case KindUpgrade:
		if a.Spec.Constraint.IsAny() || a.To == nil {
			return a.Spec.Label()
		}
		return a.To.NV()
	case KindDowngrade, KindDifferentVersion:
		if a.To == nil {
			return a.Spec.Label()
		}
		return a.To.NV()
	default:
		return ""
	}
}

// Label is the report text for the action: a single name-version, or a
// "from -> to" transition.
func (a Action) Label() string {
	switch a.Kind {
	case KindUpgrade:
		if a.Spec.Constraint.IsAny() {
			return a.Spec.Name
		}
		return transition(a.From, a.To)
	case KindDowngrade:
		return transition(a.From, a.To)
	case KindDifferentVersion:
		if a.To == nil {
			return a.Spec.Label()
		}
		return a.Spec.Label() + " -> " + a.To.NV()
	default:
		return a.Spec.Label()
	}
}

func transition(from, to *packages.Record) string {
	switch {
	case to == nil:
		return ""
	case from == nil || from.NV() == to.NV():
		return to.NV()
	default:
		return from.NV() + " -> " + to.NV()
	}
}
