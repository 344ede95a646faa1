// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Work-Fort/Loadstar/cmd/cmdutil"
	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/history"
	"github.com/Work-Fort/Loadstar/pkg/install"
	"github.com/Work-Fort/Loadstar/pkg/proc"
	"github.com/Work-Fort/Loadstar/pkg/profile"
	"github.com/Work-Fort/Loadstar/pkg/setup"
	"github.com/Work-Fort/Loadstar/pkg/system"
	"github.com/Work-Fort/Loadstar/pkg/ui"
	wizardpkg "github.com/Work-Fort/Loadstar/pkg/wizard"
)

// Flags are the wizard's command line options.
type Flags struct {
	Profile string
	Yes     bool
}

// NewWizardCmd creates the wizard command.
func NewWizardCmd() *cobra.Command {
	var flags Flags
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Run the interactive machine setup wizard",
		Long: `Walks through identity, shell, developer tools and apps, then installs
everything that was selected and configures git, SSH and GitHub.

With --profile the choices are read from a saved profile and the wizard
opens at the review screen. Adding --yes, or running without a terminal,
installs the profile without any interactive screens.`,
		Example: `  # Interactive wizard
  loadstar wizard

  # Replay the last confirmed setup on a new machine
  loadstar wizard --profile ~/.config/loadstar/last-profile.yaml --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.Profile, "profile", "", "Load choices from a saved profile")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Install the profile without interactive screens")
	return cmd
}

// Run starts the wizard, interactively when possible.
func Run(cmd *cobra.Command, flags Flags) error {
	info, err := cmdutil.DetectSystem()
	if err != nil {
		return err
	}

	session, err := startingSession(flags.Profile)
	if err != nil {
		return err
	}

	store, err := cmdutil.OpenHistory(cmd.Context())
	if err != nil {
		log.Warn("history unavailable", "err", err)
		fmt.Fprintln(cmd.ErrOrStderr(), config.CurrentTheme.WarningMessage(err.Error()))
	}
	if store != nil {
		defer store.Close()
	}

	worker := newWorker(info)
	if cmdutil.IsInteractive() && !flags.Yes {
		return runInteractive(session, worker, store, info.Hostname)
	}

	if flags.Profile == "" {
		return errors.New("no terminal available: use --profile FILE to install a saved profile")
	}
	return runHeadless(cmd, session, worker, store, info.Hostname, flags.Yes)
}

// startingSession is a fresh session seeded from config, or the session
// stored in a profile.
func startingSession(path string) (*wizardpkg.Session, error) {
	if path != "" {
		p, err := profile.Load(afero.NewOsFs(), path)
		if err != nil {
			return nil, err
		}
		return p.Session()
	}

	s := wizardpkg.NewSession()
	if v := config.GetIdentityName(); v != "" {
		s.Identity.Name = v
	}
	if v := config.GetIdentityEmail(); v != "" {
		s.Identity.Email = v
	}
	if v := config.GetIdentityGitHub(); v != "" {
		s.Identity.GitHubUser = v
	}
	return s, nil
}

func newWorker(info *system.Info) Worker {
	return Worker{
		Runner: proc.ExecRunner{KillProcessGroup: config.GetKillOnAbort()},
		Fs:     afero.NewOsFs(),
		Options: install.Options{
			BrewInstalled: info.HasHomebrew(),
			BrewPrefix:    info.BrewPrefix(),
			SkipBootstrap: !config.GetBrewBootstrap(),
		},
		Env:                setup.EnvFromInfo(info, os.Getenv("SSH_AUTH_SOCK")),
		GenerateSigningKey: config.GetGenerateSigningKey(),
		WriteConfigs:       config.GetGenerateConfigs(),
	}
}

func saveProfile(s *wizardpkg.Session) (string, error) {
	path := config.GlobalPaths.ProfileFile
	return path, profile.Save(afero.NewOsFs(), path, profile.FromSession(s))
}

// runInteractive launches the Bubble Tea TUI wizard
func runInteractive(session *wizardpkg.Session, worker Worker, store *history.Store, hostname string) error {
	m := NewModel(ModelOptions{
		Session:      session,
		Worker:       worker,
		History:      store,
		SaveProfile:  saveProfile,
		Hostname:     hostname,
		TickInterval: config.GetTickInterval(),
		KillOnAbort:  config.GetKillOnAbort(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}

// runHeadless installs a profile and prints the event log to stdout.
func runHeadless(cmd *cobra.Command, session *wizardpkg.Session, worker Worker, store *history.Store, hostname string, yes bool) error {
	out := cmd.OutOrStdout()
	theme := config.CurrentTheme
	apps := session.InstallApps()

	fmt.Fprintf(out, "%s %d items for %s <%s>\n",
		theme.AccentStyle().Render("Installing"), len(apps), session.Identity.Name, session.Identity.Email)

	if !yes {
		ok, err := ui.Confirm("Install this profile?", fmt.Sprintf("%d items will be installed", len(apps)))
		if err != nil {
			return err
		}
		if !ok {
			return ui.ErrUserCancelled
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if path, err := saveProfile(session); err != nil {
		log.Warn("failed to save profile", "err", err)
	} else {
		log.Debug("profile saved", "path", path)
	}

	run := history.NewRun(time.Now(), hostname)
	res := worker.Run(ctx, session, printer(out))
	run.ApplySummary(res.Summary)
	run.Fatal = res.Fatal
	run.Aborted = ctx.Err() != nil
	run.FinishedAt = time.Now()

	if store != nil {
		if err := store.Record(context.Background(), run); err != nil {
			log.Warn("failed to record history", "err", err)
		} else {
			fmt.Fprintf(out, "[HISTORY] Run %s recorded\n", run.ShortID())
		}
	}

	switch {
	case res.Fatal != "":
		return errors.New(res.Fatal)
	case run.Aborted:
		return errors.New("installation interrupted")
	case run.Failed > 0:
		return fmt.Errorf("%d of %d items failed", run.Failed, len(apps))
	}
	fmt.Fprintln(out, theme.SuccessMessage("Installation finished"))
	return nil
}

// printer writes every event except progress counters as a log line.
func printer(w io.Writer) install.Sender {
	return install.SenderFunc(func(ev install.Event) {
		if _, ok := ev.(install.Progress); ok {
			return
		}
		fmt.Fprintln(w, install.Describe(ev))
	})
}
