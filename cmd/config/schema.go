// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/pkg/config"
)

func parseScope(name string) (*config.ConfigScope, error) {
	var s config.ConfigScope
	switch name {
	case "":
		return nil, nil
	case "user":
		s = config.ScopeUser
	case "local":
		s = config.ScopeLocal
	default:
		return nil, fmt.Errorf("invalid scope: %s (must be 'user' or 'local')", name)
	}
	return &s, nil
}

func newSchemaCmd() *cobra.Command {
	var outputFile, scopeName string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Export configuration schema",
		Long: `Export the configuration schema as JSON Schema (Draft 2020-12), for
editor completion and validation of config files. --scope limits it to the
keys allowed in one file.`,
		Example: `  loadstar config schema --scope local --output loadstar.schema.json

  # VS Code (.vscode/settings.json):
  #   "yaml.schemas": { "./loadstar.schema.json": "loadstar.yaml" }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(scopeName)
			if err != nil {
				return err
			}
			schema, err := config.GenerateJSONSchemaForScope(scope)
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}

			if outputFile == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(schema))
				return nil
			}
			if err := os.WriteFile(outputFile, append(schema, '\n'), 0o644); err != nil {
				return fmt.Errorf("failed to write schema to file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write schema to file instead of stdout")
	cmd.Flags().StringVar(&scopeName, "scope", "", "Limit to keys allowed in one scope: user or local")
	_ = cmd.RegisterFlagCompletionFunc("scope", cobra.FixedCompletions([]string{"user", "local"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}
