package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"glimpse/internal/logging"
	"glimpse/internal/services"
	"glimpse/internal/services/llm"
)

func newAskCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Send a single question to the configured answer backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return errors.New("question must not be empty")
			}

			client, err := llm.New(cmd.Context(), cfg.LLM, logging.NewNop())
			if err != nil {
				return err
			}

			ctx, cancel := services.Deadline(cmd.Context(), services.Seconds(cfg.LLM.TimeoutSeconds, 20*time.Second))
			defer cancel()

			answer, err := client.Ask(ctx, question)
			if err != nil {
				return fmt.Errorf("ask %s: %w", client.Name(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}
