package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"guild-tracker/internal/infra/db"
)

func migrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create (or with --down, drop) the watermark table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			dialect, err := db.DialectFor(cfg.StoreDriver)
			if err != nil {
				return err
			}

			database, err := db.Open(cfg.StoreDriver, cfg.StoreDSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if down {
				if err := db.MigrateDown(database); err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "watermark table dropped")
				return nil
			}

			if err := db.MigrateUp(database, dialect); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "watermark table ready")
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "drop the table; every guild replays its latest matches afterwards")

	return cmd
}
