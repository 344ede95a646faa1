// SPDX-License-Identifier: Apache-2.0
package history

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/pkg/config"
)

func newListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent install runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			theme := config.CurrentTheme
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, theme.SubtleStyle().Render("No install runs recorded yet"))
				return nil
			}

			fmt.Fprintln(out)
			for _, r := range runs {
				outcome := r.Outcome()
				switch outcome {
				case "ok":
					outcome = theme.SuccessStyle().Render(outcome)
				case "partial", "aborted":
					outcome = theme.WarningStyle().Render(outcome)
				default:
					outcome = theme.ErrorStyle().Render(outcome)
				}
				fmt.Fprintf(out, "  %s  %-16s %-8s %3d ok %3d failed %3d skipped  %s\n",
					theme.AccentStyle().Render(r.ShortID()),
					humanize.Time(r.StartedAt),
					outcome,
					r.Succeeded, r.Failed, r.Skipped,
					theme.SubtleStyle().Render(r.Hostname))
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	return cmd
}
