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

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one app",
		Long:  `Show everything the catalog knows about an app, including how it is installed.`,
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var ids []string
			for _, app := range catalog.All() {
				if strings.HasPrefix(app.ID, toComplete) {
					ids = append(ids, app.ID)
				}
			}
			return ids, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := catalog.MustLookup(args[0])
			if err != nil {
				return err
			}
			printDetail(cmd.OutOrStdout(), app)
			return nil
		},
	}
}

func printMatch(w io.Writer, app catalog.App) {
	theme := config.CurrentTheme
	fmt.Fprintf(w, "  %-16s %s %s\n", app.ID,
		theme.SubtleStyle().Render("["+app.Category.Slug()+"]"), app.Description)
}

func printDetail(w io.Writer, app catalog.App) {
	theme := config.CurrentTheme
	label := theme.SubtleStyle()
	value := theme.InfoStyle()

	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.InfoStyle().Bold(true).Render(app.Name))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", label.Render("ID:          "), value.Render(app.ID))
	fmt.Fprintf(w, "  %s %s\n", label.Render("Category:    "), value.Render(app.Category.Name()))
	fmt.Fprintf(w, "  %s %s\n", label.Render("Description: "), value.Render(app.Description))
	fmt.Fprintf(w, "  %s %s\n", label.Render("Install:     "), value.Render(app.Install.Command()))
	if len(app.Dependencies) > 0 {
		fmt.Fprintf(w, "  %s %s\n", label.Render("Depends on:  "), value.Render(strings.Join(app.Dependencies, ", ")))
	}
	if len(app.ConfigFiles) > 0 {
		fmt.Fprintf(w, "  %s %s\n", label.Render("Config files:"), value.Render(strings.Join(app.ConfigFiles, ", ")))
	}
	if len(app.Tags) > 0 {
		fmt.Fprintf(w, "  %s %s\n", label.Render("Tags:        "), value.Render(strings.Join(app.Tags, ", ")))
	}
	if app.URL != "" {
		fmt.Fprintf(w, "  %s %s\n", label.Render("URL:         "), value.Render(app.URL))
	}
	fmt.Fprintln(w)
}
