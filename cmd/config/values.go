// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/pkg/config"
)

func newSetCmd() *cobra.Command {
	var sf scopeFlag
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set configuration value",
		Long: `Set a configuration key to a value.

Keys use dot notation for nested values (e.g., install.kill-on-abort).
Booleans accept true/false, yes/no, on/off and enable(d)/disable(d).`,
		Args: cobra.ExactArgs(2),
		Example: `  loadstar config set use-tui false
  loadstar config set install.tick-interval 100
  loadstar config set --global identity.github ada-lovelace`,
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, name := sf.scope()
			if err := config.SetConfigValue(args[0], args[1], scope); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s (%s: %s)\n", args[0], args[1], name, config.DisplayConfigPath(scope))
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func newGetCmd() *cobra.Command {
	var valueOnly bool
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get configuration value",
		Long: `Get the effective value of a key and where it comes from: an
environment variable, ./loadstar.yaml, the user config, or the default.`,
		Args: cobra.ExactArgs(1),
		Example: `  loadstar config get log-level
  # log-level = debug (from ENV: LOADSTAR_LOG_LEVEL)

  loadstar config get --value identity.email`,
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			cv, err := config.GetConfigValue(args[0])
			if err != nil {
				return err
			}
			if valueOnly {
				fmt.Fprintln(cmd.OutOrStdout(), cv.Value)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v (%s)\n", cv.Key, cv.DisplayValue(), cv.Source)
			return nil
		},
	}
	cmd.Flags().BoolVar(&valueOnly, "value", false, "Print only the raw value, for scripts")
	return cmd
}

func newUnsetCmd() *cobra.Command {
	var sf scopeFlag
	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove configuration value",
		Long: `Remove a key from a config file.

Removing a section removes everything under it, so 'unset identity' clears
identity.name, identity.email and identity.github. Environment variables
and defaults still apply afterwards.`,
		Args: cobra.ExactArgs(1),
		Example: `  loadstar config unset install.kill-on-abort
  loadstar config unset --global identity`,
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, name := sf.scope()
			if err := config.UnsetConfigValue(args[0], scope); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s config (%s)\n", args[0], name, config.DisplayConfigPath(scope))
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all configuration values",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := config.ListConfigValues()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(values) == 0 {
				fmt.Fprintln(out, "No configuration set")
				return nil
			}
			for _, cv := range values {
				fmt.Fprintf(out, "%s = %v (%s)\n", cv.Key, cv.DisplayValue(), cv.Source)
			}
			subtle := config.CurrentTheme.SubtleStyle()
			fmt.Fprintln(out)
			if config.IsLocalMode() {
				fmt.Fprintln(out, subtle.Render("Local config: "+config.DisplayConfigPath(config.ScopeLocal)))
			}
			fmt.Fprintln(out, subtle.Render("Precedence: ENV > ./loadstar.yaml > user config > defaults"))
			return nil
		},
	}
}
