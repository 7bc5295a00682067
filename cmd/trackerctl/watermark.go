package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"guild-tracker/internal/app"
)

func watermarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watermark",
		Short: "Inspect or change the delivery watermark",
	}
	cmd.AddCommand(watermarkGetCmd())
	cmd.AddCommand(watermarkSetCmd())
	return cmd
}

func watermarkGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the stored watermark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			store, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.DB.Close() }()

			key := cfg.PollConfig().Key()
			wm, err := store.Watermarks.Get(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("read watermark: %w", err)
			}

			out := cmd.OutOrStdout()
			if wm == nil {
				fmt.Fprintf(out, "%s/%d: no watermark (every fetched match is new)\n", key.Group, key.GuildID)
				return nil
			}
			fmt.Fprintf(out, "%s/%d: %d (updated %s)\n",
				wm.Group, wm.GuildID, wm.MatchID, wm.UpdatedAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
}

func watermarkSetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "set <match-id>",
		Short: "Advance the watermark to a match id",
		Long: `Advance the watermark so matches up to <match-id> are treated as delivered.

Without --force a value below the stored watermark is ignored. With --force
the value is written unconditionally, which makes the next run deliver
every fetched match above it again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || matchID < 0 {
				return fmt.Errorf("invalid match id %q", args[0])
			}

			cfg, _, err := loadConfig(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			store, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.DB.Close() }()

			key := cfg.PollConfig().Key()
			if force {
				err = store.Watermarks.Reset(cmd.Context(), key, matchID)
			} else {
				err = store.Watermarks.Put(cmd.Context(), key, matchID)
			}
			if err != nil {
				return fmt.Errorf("write watermark: %w", err)
			}

			wm, err := store.Watermarks.Get(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("read watermark: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%d: %d\n", key.Group, key.GuildID, wm.MatchID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite even when the value moves the watermark backwards")

	return cmd
}
