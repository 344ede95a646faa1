// SPDX-License-Identifier: Apache-2.0
package config

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/pkg/config"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage loadstar configuration",
		Long: `Manage loadstar configuration settings.

Configuration precedence (highest to lowest):
  1. Environment variables (LOADSTAR_*)
  2. Local config (./loadstar.yaml)
  3. User config (~/.config/loadstar/config.yaml)
  4. Defaults

Commands write the local config by default, which is handy to keep next to
your dotfiles. Use --global to write the user config instead.`,
		Example: `  # Prefill the identity screen
  loadstar config set --global identity.name "Ada Lovelace"
  loadstar config set --global identity.email ada@example.com

  # Kill the running installer when an install is aborted
  loadstar config set install.kill-on-abort true

  loadstar config get install.tick-interval
  loadstar config unset --global github-token
  loadstar config list`,
	}

	cmd.AddCommand(
		newSetCmd(),
		newGetCmd(),
		newUnsetCmd(),
		newListCmd(),
		newSchemaCmd(),
	)
	return cmd
}

// scopeFlag is the --global switch shared by commands that write a file.
type scopeFlag struct {
	global bool
}

func (f *scopeFlag) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.global, "global", false, "Operate on user config instead of local config")
}

func (f *scopeFlag) scope() (config.ConfigScope, string) {
	if f.global {
		return config.ScopeUser, "global"
	}
	return config.ScopeLocal, "local"
}

// completeKeys offers registered keys for the first argument.
func completeKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, key := range config.Keys() {
		if strings.HasPrefix(key, toComplete) {
			out = append(out, key+"\t"+config.ConfigRegistry[key].Description)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
