package main

import (
	"github.com/felixgeelhaar/pkgreconcile/internal/app"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Install, upgrade and downgrade packages to match the configuration",
	Long: `Apply brings the host in line with your configuration.

This command:
1. Writes the configured repository definitions
2. Lifts version locks on desired packages
3. Reads installed and available packages and classifies each desired package
4. Runs yum/dnf install or downgrade for every package that needs it
5. Restores the version locks and pins newly reconciled packages

A failed package operation stops the run. Packages changed before the
failure are not rolled back; run apply again after fixing the cause.

Use --dry-run to see what would happen without making changes.`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

var (
	applyDryRun    bool
	applySkipRepos bool
)

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be done without making changes")
	applyCmd.Flags().BoolVar(&applySkipRepos, "skip-repos", false, "Do not write repository definitions")
}

func runApply(cmd *cobra.Command, _ []string) error {
	return reconcile(cmd, app.RunOptions{
		DryRun:    applyDryRun,
		SkipRepos: applySkipRepos,
	})
}
