// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// completionShell is one shell loadstar can write a completion script for.
// These are the same shells the wizard knows how to configure.
type completionShell struct {
	name    string
	install string // how to load the script in every new session
	gen     func(root *cobra.Command, w io.Writer, descriptions bool) error
}

var completionShells = []completionShell{
	{
		name:    "zsh",
		install: `loadstar completion zsh > "${fpath[1]}/_loadstar"`,
		gen: func(root *cobra.Command, w io.Writer, desc bool) error {
			if !desc {
				return root.GenZshCompletionNoDesc(w)
			}
			return root.GenZshCompletion(w)
		},
	},
	{
		name:    "bash",
		install: "loadstar completion bash > $(brew --prefix)/etc/bash_completion.d/loadstar",
		gen: func(root *cobra.Command, w io.Writer, desc bool) error {
			return root.GenBashCompletionV2(w, desc)
		},
	},
	{
		name:    "fish",
		install: "loadstar completion fish > ~/.config/fish/completions/loadstar.fish",
		gen: func(root *cobra.Command, w io.Writer, desc bool) error {
			return root.GenFishCompletion(w, desc)
		},
	},
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "completion",
		Short:             "Generate shell completion scripts",
		Long:              "Generate a completion script for zsh, bash or fish and print it to stdout.",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	for _, sh := range completionShells {
		cmd.AddCommand(newShellCompletionCmd(sh))
	}
	return cmd
}

func newShellCompletionCmd(sh completionShell) *cobra.Command {
	var noDesc bool
	cmd := &cobra.Command{
		Use:   sh.name,
		Short: fmt.Sprintf("Generate the %s completion script", sh.name),
		Long: fmt.Sprintf(`Generate the completion script for %[1]s.

Load it into the current session with the output of 'loadstar completion %[1]s'.
To load it for every new session, run once:

    %[2]s
`, sh.name, sh.install),
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		ValidArgsFunction:     cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sh.gen(cmd.Root(), os.Stdout, !noDesc)
		},
	}
	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "disable completion descriptions")
	return cmd
}
