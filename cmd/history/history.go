// SPDX-License-Identifier: Apache-2.0
package history

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/history"
)

// NewHistoryCmd creates the history command with subcommands
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past install runs",
		Long: fmt.Sprintf(`List, show and clear the install runs recorded by the wizard.

Runs are stored in a SQLite database at:
  %s`, config.GlobalPaths.HistoryDB),
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newClearCmd())

	return cmd
}

// open reads the history database even when recording is disabled.
func open(ctx context.Context) (*history.Store, error) {
	return history.Open(ctx, config.GlobalPaths.HistoryDB)
}
