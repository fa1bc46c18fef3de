package main

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/pkgreconcile/internal/app"
	"github.com/spf13/cobra"
)

var lastRunCmd = &cobra.Command{
	Use:   "last-run",
	Short: "Show the outcome of the most recent run",
	Args:  cobra.NoArgs,
	RunE:  runLastRun,
}

func init() {
	rootCmd.AddCommand(lastRunCmd)
}

func runLastRun(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	record, err := s.reconciler.LastRun(s.ctx, s.cfg)
	if errors.Is(err, app.ErrNoRuns) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No runs recorded yet (%s).\n", s.cfg.StateFile)
		return nil
	}
	if err != nil {
		return err
	}

	s.reconciler.PrintRecord(record)
	return nil
}
