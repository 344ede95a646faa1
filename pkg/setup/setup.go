// SPDX-License-Identifier: Apache-2.0

// Package setup runs the advisory steps that follow an install: git
// identity, SSH and GitHub CLI setup, commit signing and starter dotfiles.
// Nothing here can fail a run; every problem becomes a warning log line.
package setup

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/Work-Fort/Loadstar/pkg/install"
	"github.com/Work-Fort/Loadstar/pkg/proc"
	"github.com/Work-Fort/Loadstar/pkg/system"
	"github.com/Work-Fort/Loadstar/pkg/wizard"
)

// Phase banners.
const (
	PhaseGitHub  = "Git & GitHub Setup"
	PhaseConfigs = "Configuration Files"
)

// Plan is the part of a confirmed session the advisory steps need.
type Plan struct {
	Name       string
	Email      string
	GitHubUser string
	// Apps are the ids being installed.
	Apps []string

	GenerateSSHKey     bool
	SetupGitSigning    bool
	GenerateSigningKey bool
	WriteConfigs       bool

	Shell wizard.ShellConfig
}

// PlanFromSession derives a plan from a session snapshot.
func PlanFromSession(s *wizard.Session) Plan {
	var ids []string
	for _, app := range s.InstallApps() {
		ids = append(ids, app.ID)
	}
	return Plan{
		Name:            s.Identity.Name,
		Email:           s.Identity.Email,
		GitHubUser:      s.Identity.GitHubUser,
		Apps:            ids,
		GenerateSSHKey:  s.GenerateSSHKey,
		SetupGitSigning: s.SetupGitSigning,
		WriteConfigs:    true,
		Shell:           s.Shell,
	}
}

func (p Plan) has(id string) bool { return slices.Contains(p.Apps, id) }

// Env is the host information the steps depend on.
type Env struct {
	OS         system.OS
	Home       string
	ConfigDir  string
	Hostname   string
	Username   string
	BrewPrefix string
	// AuthSock is SSH_AUTH_SOCK of the calling process, if any.
	AuthSock string
}

// EnvFromInfo builds an Env from detected system info.
func EnvFromInfo(info *system.Info, authSock string) Env {
	return Env{
		OS:         info.OS,
		Home:       info.Home,
		ConfigDir:  info.ConfigDir,
		Hostname:   info.Hostname,
		Username:   info.Username,
		BrewPrefix: info.BrewPrefix(),
		AuthSock:   authSock,
	}
}

// Steps runs the advisory steps, reporting through Events.
type Steps struct {
	Runner proc.Runner
	Events install.Sender
	Fs     afero.Fs
	Env    Env
}

// Run performs every step in order. It never returns an error.
func (s *Steps) Run(ctx context.Context, plan Plan) {
	s.GitHub(ctx, plan)
	if plan.WriteConfigs {
		s.Configs(plan)
	}
}

// GitHub configures git, SSH, the GitHub CLI and signing.
func (s *Steps) GitHub(ctx context.Context, plan Plan) {
	s.Events.Send(install.PhaseStarted{Phase: PhaseGitHub})

	s.configureGit(ctx, plan)

	keyPath := s.ensureSSHKey(ctx, plan)
	if keyPath != "" {
		s.addKeyToAgent(ctx, keyPath)
	}

	if plan.has("gh") {
		s.setupGH(ctx, keyPath)
	}

	if plan.SetupGitSigning {
		s.setupSigning(ctx, plan)
	}

	s.logf("[GIT] Git & GitHub setup complete")
}

func (s *Steps) logf(format string, args ...any) {
	s.Events.Send(install.LogLine{Line: fmt.Sprintf(format, args...)})
}

// output runs a command quietly and returns its captured output.
func (s *Steps) output(ctx context.Context, name string, args ...string) (proc.Captured, error) {
	c, err := proc.Output(ctx, s.Runner, name, args...)
	log.Debug("setup command", "cmd", proc.FormatCommand(name, args...), "code", c.ExitCode, "err", err)
	return c, err
}

// failure describes why a captured command failed.
func failure(c proc.Captured, err error) string {
	if err != nil {
		return err.Error()
	}
	if msg := c.LastError(); msg != "" {
		return msg
	}
	return fmt.Sprintf("exited with code %d", c.ExitCode)
}

// tilde shortens paths under the home directory for display.
func (s *Steps) tilde(path string) string {
	if s.Env.Home != "" && strings.HasPrefix(path, s.Env.Home+string(filepath.Separator)) {
		return "~" + strings.TrimPrefix(path, s.Env.Home)
	}
	return path
}
