package reconcile

import (
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/packages"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/version"
)

// Policy tunes classification choices the inventories alone do not decide.
type Policy struct {
	// KeepNewerBuilds leaves an installed build alone when it is newer than
	// every repository candidate of a spec accepting any version. When false
	// such packages are downgraded to the best candidate.
	KeepNewerBuilds bool
}

// Plan is the ordered result of classification.
type Plan struct {
	actions   []Action
	satisfied []packages.Spec
}

// Actions returns all actions in spec order.
func (p *Plan) Actions() []Action {
	return append([]Action(nil), p.actions...)
}

// ByKind returns the actions of one kind in spec order.
func (p *Plan) ByKind(k Kind) []Action {
	var out []Action
	for _, a := range p.actions {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// Satisfied returns the specs that need no action.
func (p *Plan) Satisfied() []packages.Spec {
	return append([]packages.Spec(nil), p.satisfied...)
}

// Len returns the number of actions.
func (p *Plan) Len() int {
	return len(p.actions)
}

// IsEmpty returns true if every spec is already satisfied.
func (p *Plan) IsEmpty() bool {
	return len(p.actions) == 0
}

// HasChanges returns true if any action would run a package-manager command.
func (p *Plan) HasChanges() bool {
	for _, a := range p.actions {
		if a.NeedsCommand() {
			return true
		}
	}
	return false
}

// Classify assigns every spec exactly one outcome: an action, or satisfied.
// Inputs are read only; the same inputs always produce the same plan.
func Classify(specs []packages.Spec, installed, available []packages.Record, policy Policy) *Plan {
	inst := packages.NewIndex(installed)
	avail := packages.NewIndex(available)

	plan := &Plan{}
	for _, spec := range specs {
		action, ok := classifyOne(spec, inst.Lookup(spec.Name), avail.Lookup(spec.Name), policy)
		if !ok {
			plan.satisfied = append(plan.satisfied, spec)
			continue
		}
		plan.actions = append(plan.actions, action)
	}
	return plan
}

// classifyOne returns false when the spec is already satisfied.
func classifyOne(spec packages.Spec, installed, available []packages.Record, policy Policy) (Action, bool) {
	desired, exact := spec.Constraint.Version()

	candidates := available
	if exact {
		candidates = matchVersion(available, desired)
		if len(candidates) == 0 {
			best, ok := packages.Best(available)
			if !ok {
				return Action{Kind: KindNotFound, Spec: spec}, true
			}
			action := Action{Kind: KindDifferentVersion, Spec: spec, To: &best}
			if current, ok := packages.Best(installed); ok {
				action.From = &current
			}
			return action, true
		}
	}

	best, ok := packages.Best(candidates)
	if !ok {
		return Action{Kind: KindNotFound, Spec: spec}, true
	}

	current, ok := packages.Best(installed)
	if !ok {
		return Action{Kind: KindInstall, Spec: spec, To: &best}, true
	}

	switch c := version.CompareVR(current.VR(), best.VR()); {
	case c < 0:
		return Action{Kind: KindUpgrade, Spec: spec, From: &current, To: &best}, true
	case c > 0:
		if !exact && policy.KeepNewerBuilds {
			return Action{}, false
		}
		return Action{Kind: KindDowngrade, Spec: spec, From: &current, To: &best}, true
	default:
		return Action{}, false
	}
}

func matchVersion(records []packages.Record, v string) []packages.Record {
	var out []packages.Record
	for _, r := range records {
		if r.Version == v {
			out = append(out, r)
		}
	}
	return out
}
