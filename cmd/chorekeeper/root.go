package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorekeeper/internal/config"
	"github.com/dukerupert/chorekeeper/internal/logging"
)

// RootOptions holds flags shared by every command.
type RootOptions struct {
	DBPath string
	NoSeed bool
}

// NewRootCommand builds the chorekeeper CLI. Running it without a
// subcommand starts the server.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "chorekeeper",
		Short:         "Household chore tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (overrides CHOREKEEPER_DB_PATH)")
	cmd.PersistentFlags().BoolVar(&opts.NoSeed, "no-seed", false, "skip loading the sample household")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// load reads configuration, applies flag overrides and sets up logging.
func (o *RootOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.NoSeed {
		cfg.Seed = false
	}
	return cfg, logging.Setup(cfg.LogLevel, cfg.LogFormat), nil
}
