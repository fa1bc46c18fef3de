// Package inventory turns package-manager listings into package records.
package inventory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/packages"
)

var (
	// nameRegex matches RPM package names.
	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_+][a-zA-Z0-9._+-]*$`)

	// versionRegex requires a leading digit, optionally after an epoch.
	versionRegex = regexp.MustCompile(`^([0-9]+:)?[0-9][a-zA-Z0-9._+~^]*$`)

	// releaseRegex matches the release part of an EVR.
	releaseRegex = regexp.MustCompile(`^[a-zA-Z0-9._+~^]+$`)
)

// ParseError describes a listing line that was skipped.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Parse reads one package per line. Two line shapes are understood:
//
//	name version release                      (rpm/repoquery query format)
//	name.arch [epoch:]version-release [repo]  (yum list columns)
//
// A yum list row whose name was too long to share a line with its fields is
// joined with the continuation line below it. Lines that match neither shape
// are skipped and returned as ParseErrors.
func Parse(output string) ([]packages.Record, []ParseError) {
	var (
		records     []packages.Record
		skipped     []ParseError
		pending     string
		pendingLine int
	)

	flushPending := func() {
		if pending != "" {
			skipped = append(skipped, ParseError{Line: pendingLine, Text: pending, Reason: "dangling name without fields"})
			pending = ""
		}
	}

	for i, raw := range strings.Split(output, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			flushPending()
			continue
		}

		fields := strings.Fields(line)
		text := line

		if pending != "" {
			if len(fields) <= 2 {
				fields = append([]string{pending}, fields...)
				text = pending + " " + line
				lineNo = pendingLine
				pending = ""
			} else {
				flushPending()
			}
		}

		if len(fields) == 1 && strings.Contains(fields[0], ".") && nameRegex.MatchString(fields[0]) {
			pending = fields[0]
			pendingLine = lineNo
			continue
		}

		rec, reason := parseFields(fields)
		if reason != "" {
			skipped = append(skipped, ParseError{Line: lineNo, Text: text, Reason: reason})
			continue
		}
		records = append(records, rec)
	}
	flushPending()

	return records, skipped
}

func parseFields(fields []string) (packages.Record, string) {
	switch {
	case len(fields) == 3 && !strings.Contains(fields[1], "-"):
		return parseQueryFormat(fields)
	case (len(fields) == 2 || len(fields) == 3) && strings.Contains(fields[1], "-"):
		return parseListFormat(fields)
	default:
		return packages.Record{}, "unrecognized line"
	}
}

func parseQueryFormat(fields []string) (packages.Record, string) {
	rec := packages.Record{Name: fields[0], Version: fields[1], Release: fields[2]}
	return rec, validate(rec)
}

func parseListFormat(fields []string) (packages.Record, string) {
	name := fields[0]
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}

	evr := fields[1]
	idx := strings.LastIndex(evr, "-")
	rec := packages.Record{Name: name, Version: evr[:idx], Release: evr[idx+1:]}
	return rec, validate(rec)
}

func validate(rec packages.Record) string {
	switch {
	case !nameRegex.MatchString(rec.Name):
		return "invalid package name"
	case !versionRegex.MatchString(rec.Version):
		return "invalid version"
	case !releaseRegex.MatchString(rec.Release):
		return "invalid release"
	default:
		return ""
	}
}
