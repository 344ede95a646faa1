// SPDX-License-Identifier: Apache-2.0
package version

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/github"
)

// NewVersionCmd creates the version command
func NewVersionCmd(version string) *cobra.Command {
	return newVersionCmd(version, github.NewClient())
}

func newVersionCmd(version string, client *github.Client) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the current version of loadstar.

With --check, ask GitHub whether a newer release exists. The check can be
turned off with 'loadstar config set update.check false'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version == "" {
				version = "dev"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "loadstar version %s\n", version)
			if !check {
				return nil
			}
			if !config.GetUpdateCheck() {
				return errors.New("update checks are disabled (update.check = false)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			info, err := client.CheckForUpdate(ctx, version)
			if err != nil {
				return fmt.Errorf("failed to check for updates: %w", err)
			}
			log.Debug("update check", "current", info.Current, "latest", info.Latest, "available", info.Available)

			theme := config.CurrentTheme
			if info.Available {
				fmt.Fprintln(out, theme.InfoMessage(fmt.Sprintf("Version %s is available: %s", info.Latest, info.URL)))
			} else {
				fmt.Fprintln(out, theme.SuccessMessage(fmt.Sprintf("Up to date (latest release is %s)", info.Latest)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
