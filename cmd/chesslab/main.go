package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sousa16/chesslab/internal/app"
	"github.com/sousa16/chesslab/internal/config"
	"github.com/sousa16/chesslab/internal/logger"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chesslab",
		Short:         "chesslab - opening repertoire trainer",
		Long:          "Build chess opening repertoires and drill them with spaced repetition.",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().String("db", "", "sqlite database path (overrides DB_PATH)")
	cmd.PersistentFlags().String("log-level", "WARN", "log level: DEBUG, INFO, WARN, ERROR")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newUserCmd())
	cmd.AddCommand(newRepertoireCmd())
	cmd.AddCommand(newLineCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newTreeCmd())
	cmd.AddCommand(newPracticeCmd())
	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newRemindersCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chesslab %s (commit: %s)\n", Version, Commit)
		},
	}
}

// openApp loads configuration, applies the global flags and opens the
// database. Callers close the returned app.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg := config.Load()
	if path := cmd.Flag("db").Value.String(); path != "" {
		cfg.DBPath = path
	}

	level, err := logger.ParseLevel(cmd.Flag("log-level").Value.String())
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(
		logger.WithLevel(level),
		logger.WithOutput(cmd.ErrOrStderr()),
	))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	return a, nil
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
