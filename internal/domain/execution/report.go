package execution

import (
	"strings"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/reconcile"
)

// Report is the human-readable outcome of a run.
type Report struct {
	Info     []string
	Warnings []string
	// Plan is the classification the report was built from.
	Plan *reconcile.Plan
	// Hardened lists packages pinned after a successful execute run.
	Hardened []string
}

// category pairs an action kind with its report phrase.
type category struct {
	kind    reconcile.Kind
	phrase  string
	warning bool
}

var categories = []category{
	{kind: reconcile.KindInstall, phrase: "installed"},
	{kind: reconcile.KindUpgrade, phrase: "upgraded"},
	{kind: reconcile.KindDowngrade, phrase: "downgraded"},
	{kind: reconcile.KindDifferentVersion, phrase: "installed with different version", warning: true},
	{kind: reconcile.KindNotFound, phrase: "not found", warning: true},
}

// BuildReport renders a plan into info and warning lines. Dry runs speak in
// the future tense ("Packages to be installed"). Empty categories are omitted.
func BuildReport(plan *reconcile.Plan, dryRun bool) Report {
	report := Report{Plan: plan}

	for _, c := range categories {
		actions := plan.ByKind(c.kind)
		if len(actions) == 0 {
			continue
		}

		labels := make([]string, 0, len(actions))
		for _, a := range actions {
			labels = append(labels, a.Label())
		}

		line := heading(c, dryRun) + strings.Join(labels, "; ")
		if c.warning {
			report.Warnings = append(report.Warnings, line)
		} else {
			report.Info = append(report.Info, line)
		}
	}

	return report
}

func heading(c category, dryRun bool) string {
	if dryRun && c.kind.Actionable() {
		return "Packages to be " + c.phrase + ": "
	}
	return "Packages " + c.phrase + ": "
}
