// SPDX-License-Identifier: Apache-2.0
package history

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/cmd/cmdutil"
	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/ui"
)

func newClearCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if !cmdutil.IsInteractive() {
					return fmt.Errorf("refusing to clear history without --force")
				}
				ok, err := ui.Confirm("Clear install history?", "Every recorded run will be deleted.")
				if err != nil {
					return err
				}
				if !ok {
					return ui.ErrUserCancelled
				}
			}

			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.CurrentTheme.SuccessMessage(fmt.Sprintf("Deleted %d runs", n)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}
