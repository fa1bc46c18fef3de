// Package validation checks user-supplied values before they reach a
// package-manager command line or the file system.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrInvalidPackageName = errors.New("invalid package name")
	ErrInvalidVersion     = errors.New("invalid package version")
	ErrInvalidRepoName    = errors.New("invalid repository name")
	ErrPathTraversal      = errors.New("path traversal detected")
	ErrInvalidPath        = errors.New("invalid path")
	ErrCommandInjection   = errors.New("potential command injection detected")
)

var (
	// packageNameRegex matches RPM package names.
	// Examples: "nagios-plugins-argo", "python3.11", "libstdc++", "perl-Net_SSLeay"
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_+][a-zA-Z0-9._+-]*$`)

	// versionRegex matches an RPM version with an optional epoch and no
	// release; the release is always chosen from the repositories.
	// Examples: "0.1.12", "2:1.8.3", "1.0~rc1"
	versionRegex = regexp.MustCompile(`^([0-9]+:)?[a-zA-Z0-9][a-zA-Z0-9._+~^]*$`)

	// repoNameRegex matches repository ids, which also name the .repo file.
	// Examples: "argo-devel", "epel", "nordugrid-updates"
	repoNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._:-]*$`)

	// shellMetaChars contains shell metacharacters that could enable injection
	shellMetaChars = []string{";", "|", "&", "$", "`", "(", ")", "{", "}", "<", ">", "\n", "\r", "\\", " ", "'", "\""}
)

// ValidatePackageName validates an RPM package name.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 256 {
		return fmt.Errorf("%w: name too long (max 256 characters)", ErrInvalidPackageName)
	}

	if containsShellMeta(name) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, name)
	}

	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidPackageName, name)
	}

	return nil
}

// ValidateVersion validates an exact RPM version string.
func ValidateVersion(version string) error {
	if version == "" {
		return ErrEmptyInput
	}

	if len(version) > 128 {
		return fmt.Errorf("%w: version too long (max 128 characters)", ErrInvalidVersion)
	}

	if containsShellMeta(version) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, version)
	}

	if !versionRegex.MatchString(version) {
		return fmt.Errorf("%w: %q is not a valid version", ErrInvalidVersion, version)
	}

	return nil
}

// ValidateRepoName validates a repository id.
func ValidateRepoName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 100 {
		return fmt.Errorf("%w: name too long (max 100 characters)", ErrInvalidRepoName)
	}

	if !repoNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidRepoName, name)
	}

	return nil
}

// ValidatePath validates a file path and rejects traversal sequences.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}

	return nil
}

func containsShellMeta(s string) bool {
	for _, char := range shellMetaChars {
		if strings.Contains(s, char) {
			return true
		}
	}
	return false
}

// containsPathTraversal checks for common path traversal patterns.
func containsPathTraversal(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return true
		}
	}

	if strings.Contains(path, "%2e%2e") || strings.Contains(path, "%2E%2E") {
		return true
	}

	return false
}
