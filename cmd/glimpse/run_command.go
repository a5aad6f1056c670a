package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"glimpse/internal/daemon"
	"glimpse/internal/logging"
)

func newRunCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Capture frames and answer detected questions until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "glimpse.log")},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			d, err := daemon.New(ctx, cfg, logger)
			if err != nil {
				return err
			}

			runErr := d.Run(ctx)
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}

			stats := d.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Session complete")
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Frames sampled", strconv.FormatInt(stats.Frames, 10)},
					{"Questions detected", strconv.FormatInt(stats.Questions, 10)},
					{"Questions answered", strconv.Itoa(stats.Answered)},
				},
				1,
			))
			return nil
		},
	}
}
