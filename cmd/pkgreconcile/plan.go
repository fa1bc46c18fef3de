package main

import (
	"github.com/felixgeelhaar/pkgreconcile/internal/app"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what pkgreconcile would change",
	Long: `Plan loads your configuration and shows what would change, without
installing anything or writing repository definitions.

Version locks on desired packages are still lifted while the package
lists are read, and restored before the command exits.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	return reconcile(cmd, app.RunOptions{DryRun: true})
}
