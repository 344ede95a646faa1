// SPDX-License-Identifier: Apache-2.0
package catalog

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/pkg/catalog"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Fuzzy search the catalog",
		Long:  `Fuzzy match QUERY against app names and descriptions, best matches first.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			matches := catalog.Search(strings.Join(args, " "))
			if len(matches) == 0 {
				printApps(out, nil)
				return nil
			}
			for _, app := range matches {
				printMatch(out, app)
			}
			return nil
		},
	}
}
