// SPDX-License-Identifier: Apache-2.0
package history

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/cmd/cmdutil"
	"github.com/Work-Fort/Loadstar/pkg/ui"
)

func newShowCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show the report for one run",
		Long:  `Show a run's outcome and every item it installed, skipped or failed. ID may be a unique prefix.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			md := run.Markdown()
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMarkdown(md, cmdutil.TerminalWidth(100)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown report without styling")
	return cmd
}
