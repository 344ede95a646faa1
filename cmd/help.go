// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/cmd/cmdutil"
	"github.com/Work-Fort/Loadstar/pkg/ui"
)

func styledHelpFunc(cmd *cobra.Command, args []string) {
	printMarkdown(helpMarkdown(cmd))
}

func styledUsageFunc(cmd *cobra.Command) error {
	printMarkdown(usageMarkdown(cmd))
	return nil
}

// helpMarkdown renders the full help page. The root command also shows the
// banner.
func helpMarkdown(cmd *cobra.Command) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", cmd.Name())
	if !cmd.HasParent() {
		fmt.Fprintf(&md, "```\n%s```\n\n", ui.Banner())
	}

	switch {
	case cmd.Long != "":
		fmt.Fprintf(&md, "%s\n\n", cmd.Long)
	case cmd.Short != "":
		fmt.Fprintf(&md, "%s\n\n", cmd.Short)
	}

	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(&md, "## Aliases\n\n`%s`\n\n", strings.Join(cmd.Aliases, "`, `"))
	}
	writeCommandSections(&md, cmd)

	var topics []*cobra.Command
	for _, sub := range cmd.Commands() {
		if sub.IsAdditionalHelpTopicCommand() {
			topics = append(topics, sub)
		}
	}
	if len(topics) > 0 {
		md.WriteString("## Additional Help Topics\n\n")
		for _, sub := range topics {
			fmt.Fprintf(&md, "- **%s** - %s\n", sub.CommandPath(), sub.Short)
		}
		md.WriteString("\n")
	}

	fmt.Fprintf(&md, "Use `%s [command] --help` for more information about a command.\n", cmd.CommandPath())
	return md.String()
}

func usageMarkdown(cmd *cobra.Command) string {
	var md strings.Builder
	writeCommandSections(&md, cmd)
	return md.String()
}

// writeCommandSections writes the usage line, subcommands and flags.
func writeCommandSections(md *strings.Builder, cmd *cobra.Command) {
	if cmd.Runnable() {
		fmt.Fprintf(md, "## Usage\n\n```\n%s\n```\n\n", cmd.UseLine())
	}

	var subs []*cobra.Command
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() && !sub.IsAdditionalHelpTopicCommand() {
			subs = append(subs, sub)
		}
	}
	if len(subs) > 0 {
		md.WriteString("## Available Commands\n\n")
		for _, sub := range subs {
			fmt.Fprintf(md, "- **%s** - %s\n", sub.Name(), sub.Short)
		}
		md.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(md, "## Flags\n\n```\n%s\n```\n\n", cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(md, "## Global Flags\n\n```\n%s\n```\n\n", cmd.InheritedFlags().FlagUsages())
	}
}

func printMarkdown(md string) {
	rendered := ui.RenderMarkdown(md, cmdutil.TerminalWidth(100))
	fmt.Println(strings.TrimRight(rendered, " \n"))
}
