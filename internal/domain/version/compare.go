// Package version orders package version and release strings.
package version

import "strings"

// VR is a (version, release) pair as reported by the package manager.
type VR struct {
	Version string
	Release string
}

// String returns "version-release", or just the version when the release is empty.
func (v VR) String() string {
	if v.Release == "" {
		return v.Version
	}
	return v.Version + "-" + v.Release
}

// CompareVersions compares two dot-separated version strings.
// It returns -1 if a < b, 0 if a == b and 1 if a > b.
//
// Both strings are split on "." and the shorter one is padded with "0"
// segments. Segments that both parse as integers compare numerically,
// everything else compares lexically.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		if c := compareSegment(segment(as, i), segment(bs, i)); c != 0 {
			return c
		}
	}
	return 0
}

// CompareVR compares versions first and falls back to releases on a tie.
func CompareVR(a, b VR) int {
	if c := CompareVersions(a.Version, b.Version); c != 0 {
		return c
	}
	return CompareVersions(a.Release, b.Release)
}

func segment(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return "0"
}

func compareSegment(a, b string) int {
	if isDigits(a) && isDigits(b) {
		return compareDigits(a, b)
	}
	return strings.Compare(a, b)
}

// compareDigits orders decimal strings of any length numerically.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
