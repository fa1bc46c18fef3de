package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/reconcile"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/runlog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PrintResult outputs the plan listing and report of a finished run.
func (r *Reconciler) PrintResult(result *Result) {
	s := defaultStyles()
	report := result.Report
	dryRun := result.Record.Mode == runlog.ModeDryRun

	title := "Reconciliation Results"
	if dryRun {
		title = "Reconciliation Plan"
	}
	r.printf("\n%s\n%s\n\n", s.Title.Render(title), strings.Repeat("=", len(title)))

	if len(result.Record.RepoFiles) > 0 {
		r.printf("Repository definitions written: %s\n\n", strings.Join(result.Record.RepoFiles, ", "))
	}

	plan := report.Plan
	if plan == nil || plan.IsEmpty() {
		r.printf("%s\n", s.Success.Render("No changes needed. All packages are up to date."))
	} else {
		caser := cases.Title(language.English)
		for _, action := range plan.Actions() {
			kind := caser.String(strings.ReplaceAll(action.Kind.String(), "-", " "))
			style := s.Kind
			if !action.Kind.Actionable() || action.Kind == reconcile.KindDifferentVersion {
				style = style.Foreground(colorWarning)
			}
			r.printf("  %s %s\n", style.Render(kind), action.Label())
		}
		r.printf("\n%s\n", s.Muted.Render(planSummary(plan)))
	}

	if len(report.Info) > 0 || len(report.Warnings) > 0 {
		r.printf("\n")
	}
	for _, line := range report.Info {
		r.printf("%s\n", line)
	}
	for _, line := range report.Warnings {
		r.printf("%s %s\n", s.Warning.Render("Warning:"), line)
	}

	if len(report.Hardened) > 0 {
		r.printf("\nVersion locks added: %s\n", strings.Join(report.Hardened, ", "))
	}

	if dryRun && plan != nil && plan.HasChanges() {
		r.printf("\nRun 'pkgreconcile apply' to execute this plan.\n")
	}
}

func planSummary(plan *reconcile.Plan) string {
	var parts []string
	for _, k := range reconcile.Kinds {
		if n := len(plan.ByKind(k)); n > 0 {
			parts = append(parts, strconv.Itoa(n)+" "+k.String())
		}
	}
	parts = append(parts, strconv.Itoa(len(plan.Satisfied()))+" satisfied")
	return strings.Join(parts, ", ")
}

// PrintRecord outputs a stored run record.
func (r *Reconciler) PrintRecord(record *runlog.Record) {
	s := defaultStyles()

	r.printf("\n%s\n", s.Title.Render("Last Run"))
	r.printf("  ID:       %s\n", record.ID)
	r.printf("  Mode:     %s\n", record.Mode)
	if record.Backend != "" {
		r.printf("  Backend:  %s\n", record.Backend)
	}
	r.printf("  Started:  %s\n", record.StartedAt.Local().Format(time.RFC3339))
	r.printf("  Duration: %s\n", record.Duration().Round(time.Millisecond))

	if record.Succeeded() {
		r.printf("  Status:   %s\n", s.Success.Render("succeeded"))
	} else {
		r.printf("  Status:   %s\n", s.Error.Render("failed"))
		r.printf("  Error:    %s\n", record.Error)
	}

	for _, path := range record.RepoFiles {
		r.printf("  Repo:     %s\n", path)
	}
	for _, line := range record.Info {
		r.printf("  %s\n", line)
	}
	for _, line := range record.Warnings {
		r.printf("  %s %s\n", s.Warning.Render("Warning:"), line)
	}
	if len(record.Hardened) > 0 {
		r.printf("  Version locks added: %s\n", strings.Join(record.Hardened, ", "))
	}
}
