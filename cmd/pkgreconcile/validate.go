package main

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration without touching the host",
	Long: `Validate checks your configuration for errors without running the
package manager or writing repository definitions.

Exit codes:
  0 - Valid configuration
  1 - Configuration could not be read or is invalid

Examples:
  pkgreconcile validate
  pkgreconcile validate --config /etc/pkgreconcile/argo.toml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if err := s.reconciler.ValidateRepositories(s.cfg); err != nil {
		return err
	}

	s.reconciler.PrintValidation(s.cfg)
	return nil
}
