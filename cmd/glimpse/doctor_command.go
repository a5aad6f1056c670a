package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glimpse/internal/preflight"
)

func newDoctorCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external binaries and backend connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := writerSupportsColor(out)
			problems := 0

			fmt.Fprintln(out, renderHeading("System dependencies", colorize))
			statuses := preflight.CheckSystemDeps(cfg)
			if len(statuses) == 0 {
				fmt.Fprintln(out, checkIndent+"No external binaries required for this configuration")
			} else {
				rows := make([][]string, 0, len(statuses))
				for _, st := range statuses {
					state := "found"
					if !st.Available {
						state = "missing"
						if !st.Optional {
							problems++
						}
					}
					rows = append(rows, []string{st.Name, st.Command, state, st.Detail})
				}
				fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Status", "Detail"}, rows))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderHeading("Backend checks", colorize))
			for _, res := range preflight.RunAll(cmd.Context(), cfg) {
				state := checkPassed
				if !res.Passed {
					state = checkFailed
					problems++
				}
				fmt.Fprintln(out, renderCheckLine(res.Name, state, res.Detail, colorize))
			}

			fmt.Fprintln(out)
			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
