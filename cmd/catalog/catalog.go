// SPDX-License-Identifier: Apache-2.0
package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/pkg/catalog"
	"github.com/Work-Fort/Loadstar/pkg/config"
)

// NewCatalogCmd creates the catalog command with subcommands
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the installable apps",
		Long:  `List, search and inspect the apps the wizard can install.`,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newShowCmd())

	return cmd
}

// printApps writes apps grouped under category headings in catalog order.
func printApps(w io.Writer, apps []catalog.App) {
	theme := config.CurrentTheme
	if len(apps) == 0 {
		fmt.Fprintln(w, theme.SubtleStyle().Render("  No apps found"))
		return
	}

	var current catalog.Category = -1
	for _, app := range apps {
		if app.Category != current {
			current = app.Category
			fmt.Fprintf(w, "\n%s\n", theme.InfoStyle().Bold(true).Render(current.Icon()+" "+current.Name()))
		}
		fmt.Fprintf(w, "  %-16s %s\n", app.ID, theme.SubtleStyle().Render(app.Description))
	}
	fmt.Fprintln(w)
}

func categorySlugs() string {
	var slugs []string
	for _, c := range catalog.AllCategories() {
		slugs = append(slugs, c.Slug())
	}
	return strings.Join(slugs, ", ")
}
