package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "simple name", input: "git", wantErr: nil},
		{name: "with hyphens", input: "nagios-plugins-argo", wantErr: nil},
		{name: "with underscore", input: "perl-Net_SSLeay", wantErr: nil},
		{name: "with dot", input: "python3.11", wantErr: nil},
		{name: "with plus", input: "libstdc++", wantErr: nil},
		{name: "numeric start", input: "389-ds-base", wantErr: nil},

		{name: "empty", input: "", wantErr: ErrEmptyInput},
		{name: "with semicolon", input: "git;rm -rf", wantErr: ErrCommandInjection},
		{name: "with pipe", input: "git|cat", wantErr: ErrCommandInjection},
		{name: "with dollar", input: "git$PATH", wantErr: ErrCommandInjection},
		{name: "with backtick", input: "git`whoami`", wantErr: ErrCommandInjection},
		{name: "with newline", input: "git\nrm", wantErr: ErrCommandInjection},
		{name: "with space", input: "git repo", wantErr: ErrCommandInjection},
		{name: "starts with hyphen", input: "-y", wantErr: ErrInvalidPackageName},
		{name: "glob", input: "nagios-*", wantErr: ErrInvalidPackageName},
		{name: "too long", input: strings.Repeat("a", 300), wantErr: ErrInvalidPackageName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "dotted", input: "0.1.12", wantErr: nil},
		{name: "epoch", input: "2:1.8.3", wantErr: nil},
		{name: "tilde", input: "1.0~rc1", wantErr: nil},
		{name: "single", input: "7", wantErr: nil},

		{name: "empty", input: "", wantErr: ErrEmptyInput},
		{name: "with release", input: "1.0-1.el7", wantErr: ErrInvalidVersion},
		{name: "leading dot", input: ".1", wantErr: ErrInvalidVersion},
		{name: "glob", input: "1.*", wantErr: ErrInvalidVersion},
		{name: "injection", input: "1.0;reboot", wantErr: ErrCommandInjection},
		{name: "too long", input: strings.Repeat("1", 200), wantErr: ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVersion(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRepoName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "simple", input: "epel", wantErr: nil},
		{name: "with hyphen", input: "argo-devel", wantErr: nil},
		{name: "with dot", input: "nordugrid.updates", wantErr: nil},

		{name: "empty", input: "", wantErr: ErrEmptyInput},
		{name: "slash", input: "../etc/passwd", wantErr: ErrInvalidRepoName},
		{name: "space", input: "my repo", wantErr: ErrInvalidRepoName},
		{name: "too long", input: strings.Repeat("r", 101), wantErr: ErrInvalidRepoName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepoName(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "absolute", input: "/etc/yum.repos.d", wantErr: nil},
		{name: "relative", input: "state/last-run.yaml", wantErr: nil},
		{name: "home", input: "~/.pkgreconcile/last-run.yaml", wantErr: nil},

		{name: "empty", input: "", wantErr: ErrEmptyInput},
		{name: "null byte", input: "/etc/\x00", wantErr: ErrInvalidPath},
		{name: "traversal", input: "/etc/../root", wantErr: ErrPathTraversal},
		{name: "encoded traversal", input: "/etc/%2e%2e/root", wantErr: ErrPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
