package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"guild-tracker/internal/app"
	"guild-tracker/internal/observability/logging"
	"guild-tracker/internal/usecase/poll"
)

func runCmd() *cobra.Command {
	var (
		timeout       time.Duration
		maxConcurrent int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one poll pass and print the result",
		Long: `Fetch the guild's recent matches, deliver the new ones and advance the
watermark, exactly like one scheduled worker tick.

Prints {"message":"Success"} or {"message":"Failure: ..."} and exits
non-zero on failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			cfg.WarnStratzToken(logger, time.Now())

			a, err := app.New(logger, cfg, maxConcurrent)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx, cancel := context.WithTimeout(logging.WithLogger(cmd.Context(), logger), timeout)
			defer cancel()

			_, runErr := a.Poll.Run(ctx)

			enc := json.NewEncoder(cmd.OutOrStdout())
			if err := enc.Encode(poll.ResultFor(runErr)); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "maximum duration of the run")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 2, "destinations notified in parallel")

	return cmd
}
