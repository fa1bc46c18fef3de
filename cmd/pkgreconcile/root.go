package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/pkgreconcile/internal/adapters/logging"
	"github.com/felixgeelhaar/pkgreconcile/internal/app"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/config"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/execution"
	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
	"github.com/spf13/cobra"
)

// defaultConfigPath is used when --config is not given.
const defaultConfigPath = "/etc/pkgreconcile/pkgreconcile.yaml"

var (
	// Global flags
	cfgFile string
	verbose bool
	logJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "pkgreconcile",
	Short: "Reconcile installed yum/dnf packages with a declared list",
	Long: `pkgreconcile brings the packages on a yum or dnf host in line with a
declared list of packages and versions.

Each run reads the installed and available packages with version locks
lifted, classifies every desired package (install, upgrade, downgrade,
different version, not found) and either reports the plan or applies it.
Version locks are always put back afterwards.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// newReconciler builds the application; tests replace it.
var newReconciler = func(out io.Writer) *app.Reconciler {
	return app.New(out)
}

// Execute runs the root command.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

// session is what every command needs: the app, its config and a context
// carrying the logger.
type session struct {
	ctx        context.Context
	reconciler *app.Reconciler
	cfg        *config.Config
}

func newSession(cmd *cobra.Command) (*session, error) {
	reconciler := newReconciler(cmd.OutOrStdout())

	cfg, err := reconciler.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	level, err := ports.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = ports.LevelDebug
	}

	logger := logging.NewConsoleLogger(
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithLevel(level),
		logging.WithJSONFormat(logJSON),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &session{
		ctx:        ports.ContextWithLogger(ctx, logger),
		reconciler: reconciler,
		cfg:        cfg,
	}, nil
}

// reconcile runs one pass and prints its outcome. The report is printed
// only when the run succeeded; failures surface as the returned error.
func reconcile(cmd *cobra.Command, opts app.RunOptions) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	result, err := s.reconciler.Run(s.ctx, s.cfg, opts)
	if err != nil {
		return err
	}

	s.reconciler.PrintResult(result)
	return nil
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var list *config.ErrorList
	if errors.As(err, &list) {
		return list.Format()
	}

	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}

	var runErr *execution.Error
	if errors.As(err, &runErr) {
		if verbose {
			return runErr.Format()
		}
		msg := runErr.Error()
		if runErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", runErr.Suggestion)
		}
		return msg
	}

	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
