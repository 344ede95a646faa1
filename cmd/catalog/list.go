// SPDX-License-Identifier: Apache-2.0
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/pkg/catalog"
)

func newListCmd() *cobra.Command {
	var category, tag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog apps",
		Long:  `List every app in the catalog, optionally narrowed to one category or tag.`,
		Example: `  loadstar catalog list
  loadstar catalog list --category language
  loadstar catalog list --tag essential`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apps := catalog.All()
			if category != "" {
				c, err := catalog.ParseCategory(category)
				if err != nil {
					return fmt.Errorf("%w (valid: %s)", err, categorySlugs())
				}
				apps = catalog.ByCategory(c)
			}
			if tag != "" {
				apps = slices.DeleteFunc(apps, func(a catalog.App) bool { return !a.HasTag(tag) })
			}
			// Group by category while keeping catalog order inside each.
			slices.SortStableFunc(apps, func(a, b catalog.App) int { return int(a.Category) - int(b.Category) })
			printApps(cmd.OutOrStdout(), apps)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list one category")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Only list apps with this tag")
	_ = cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return strings.Split(categorySlugs(), ", "), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
