// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	catalogCmd "github.com/Work-Fort/Loadstar/cmd/catalog"
	configCmd "github.com/Work-Fort/Loadstar/cmd/config"
	historyCmd "github.com/Work-Fort/Loadstar/cmd/history"
	"github.com/Work-Fort/Loadstar/cmd/preflight"
	"github.com/Work-Fort/Loadstar/cmd/version"
	"github.com/Work-Fort/Loadstar/cmd/wizard"
	"github.com/Work-Fort/Loadstar/pkg/config"
)

var (
	// Version is set at build time via ldflags
	// -ldflags "-X github.com/Work-Fort/Loadstar/cmd.Version=x.y.z"
	Version string

	logLevel string
	useTUI   bool
)

var rootCmd = &cobra.Command{
	Use:   "loadstar",
	Short: "Interactive developer machine setup",
	Long: `Loadstar - developer machine setup wizard

Walks through identity, shell, developer tools and apps in a retro terminal
UI, installs everything with Homebrew and friends, then configures git, SSH,
GitHub and commit signing. Running loadstar with no command starts the
wizard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wizard.Run(cmd, wizard.Flags{})
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitDirs(); err != nil {
			return err
		}
		if err := config.LoadConfig(); err != nil {
			return err
		}

		// Flags may have been overridden by a config file or LOADSTAR_* env.
		useTUI = config.GetUseTUI()
		logLevel = config.GetLogLevel()

		setupLogging(logLevel)
		log.Debug("loadstar starting", "version", Version, "command", cmd.CommandPath(), "tui", useTUI)
		return nil
	},
}

// setupLogging points the default logger at the rotated log file. The wizard
// owns the terminal, so nothing is ever logged to stderr.
func setupLogging(levelName string) {
	if levelName == "disabled" {
		log.SetOutput(io.Discard)
		return
	}

	level, err := log.ParseLevel(levelName)
	if err != nil {
		level = log.InfoLevel
	}

	sink := &lumberjack.Logger{
		Filename:   config.GlobalPaths.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.SetDefault(log.NewWithOptions(sink, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02T15:04:05.000Z07:00",
		Level:           level,
		ReportCaller:    true,
		Formatter:       log.JSONFormatter,
	}))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", config.CurrentTheme.ErrorStyle().Render("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	// Quiet until PersistentPreRunE knows where logs belong.
	log.SetReportTimestamp(false)
	log.SetLevel(log.WarnLevel)

	config.InitViper()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&logLevel, "log-level", "l", "info", "Log level: disabled, debug, info, warn, error")
	flags.BoolVar(&useTUI, "use-tui", true, "Use the full-screen wizard instead of plain prompts")
	config.BindFlags(flags)

	rootCmd.AddCommand(
		catalogCmd.NewCatalogCmd(),
		configCmd.NewConfigCmd(),
		historyCmd.NewHistoryCmd(),
		preflight.NewPreflightCmd(),
		version.NewVersionCmd(Version),
		wizard.NewWizardCmd(),
		newCompletionCmd(),
	)

	rootCmd.SetHelpFunc(styledHelpFunc)
	rootCmd.SetUsageFunc(styledUsageFunc)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
