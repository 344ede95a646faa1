// SPDX-License-Identifier: Apache-2.0
package preflight

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/cmd/cmdutil"
	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/system"
)

// NewPreflightCmd creates the preflight command
func NewPreflightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check that this machine is ready for setup",
		Long: `Runs the environment checks the wizard depends on: internet access,
Homebrew, free disk space, Xcode command line tools on macOS, a writable
home directory and a recent enough git.

Exits non-zero when any check fails. Warnings do not fail the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := cmdutil.DetectSystem()
			if err != nil {
				return err
			}
			report := system.Preflight{Info: info}.Run(cmd.Context())
			printReport(cmd.OutOrStdout(), info, report)
			if !report.AllPassed() {
				return fmt.Errorf("%d preflight checks failed", report.FailCount())
			}
			return nil
		},
	}
}

func printReport(w io.Writer, info *system.Info, report system.Report) {
	theme := config.CurrentTheme

	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.InfoStyle().Bold(true).Render("Preflight checks for "+info.Describe()))
	fmt.Fprintln(w)

	for _, c := range report.Checks {
		var mark string
		switch c.Status {
		case system.StatusPass:
			mark = theme.CompleteIndicator()
		case system.StatusWarn:
			mark = theme.WarningStyle().Render("!")
		default:
			mark = theme.ErrorIndicator()
		}
		fmt.Fprintf(w, "  %s %-24s %s\n", mark, c.Name, theme.SubtleStyle().Render(c.Detail))
	}

	fmt.Fprintln(w)
	switch {
	case !report.AllPassed():
		fmt.Fprintln(w, theme.ErrorMessage(fmt.Sprintf("%d failed, %d warnings", report.FailCount(), report.WarnCount())))
	case report.WarnCount() > 0:
		fmt.Fprintln(w, theme.WarningMessage(fmt.Sprintf("Ready, with %d warnings", report.WarnCount())))
	default:
		fmt.Fprintln(w, theme.SuccessMessage("Ready for setup"))
	}
}
