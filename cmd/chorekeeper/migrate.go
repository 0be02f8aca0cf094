package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorekeeper/internal/bootstrap"
	"github.com/dukerupert/chorekeeper/internal/database"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		Long: `Apply any pending schema migrations to the database, load the sample
household unless --no-seed is given, and print the schema version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.load()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if cfg.Seed {
				if err := bootstrap.Seed(db, cfg.AdminPassword, logger.With("component", "seed")); err != nil {
					return fmt.Errorf("seed database: %w", err)
				}
			}

			version, err := database.Version(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s at schema version %d\n", cfg.DBPath, version)
			return nil
		},
	}
}
