// SPDX-License-Identifier: Apache-2.0

// Package profile saves and restores wizard choices as YAML so a setup can
// be replayed without the interactive wizard.
package profile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Work-Fort/Loadstar/pkg/catalog"
	"github.com/Work-Fort/Loadstar/pkg/wizard"
)

// FileName is the profile written when an install starts.
const FileName = "last-profile.yaml"

// Profile is the serialized form of a confirmed session. Choices are stored
// by display name so the file is readable and hand-editable.
type Profile struct {
	Identity struct {
		Name      string `yaml:"name"`
		Email     string `yaml:"email"`
		GitHub    string `yaml:"github"`
		SetupType string `yaml:"setup_type"`
	} `yaml:"identity"`
	Shell struct {
		Shell       string `yaml:"shell"`
		Prompt      string `yaml:"prompt"`
		Terminal    string `yaml:"terminal"`
		Multiplexer string `yaml:"multiplexer"`
		Editor      string `yaml:"editor"`
	} `yaml:"shell"`
	Options struct {
		InstallHomebrew bool `yaml:"install_homebrew"`
		GenerateSSHKey  bool `yaml:"generate_ssh_key"`
		SetupGitSigning bool `yaml:"setup_git_signing"`
	} `yaml:"options"`
	Apps []string `yaml:"apps"`
}

// FromSession captures s.
func FromSession(s *wizard.Session) *Profile {
	p := &Profile{}
	p.Identity.Name = s.Identity.Name
	p.Identity.Email = s.Identity.Email
	p.Identity.GitHub = s.Identity.GitHubUser
	p.Identity.SetupType = s.Identity.SetupType.Name()
	p.Shell.Shell = s.Shell.Shell.Name()
	p.Shell.Prompt = s.Shell.Prompt.Name()
	p.Shell.Terminal = s.Shell.Terminal.Name()
	p.Shell.Multiplexer = s.Shell.Multiplexer.Name()
	p.Shell.Editor = s.Shell.Editor.Name()
	p.Options.InstallHomebrew = s.InstallHomebrew
	p.Options.GenerateSSHKey = s.GenerateSSHKey
	p.Options.SetupGitSigning = s.SetupGitSigning
	p.Apps = s.SelectedIDs()
	return p
}

type named interface {
	Name() string
}

func pick[T named](field, want string, all []T) (T, error) {
	for _, v := range all {
		if strings.EqualFold(v.Name(), want) {
			return v, nil
		}
	}
	var zero T
	names := make([]string, len(all))
	for i, v := range all {
		names[i] = v.Name()
	}
	return zero, fmt.Errorf("invalid %s %q (expected one of: %s)", field, want, strings.Join(names, ", "))
}

// Session builds a session at the review phase from the profile. Unknown
// app ids and choice names are errors.
func (p *Profile) Session() (*wizard.Session, error) {
	s := wizard.NewSession()
	s.Identity.Name = p.Identity.Name
	s.Identity.Email = p.Identity.Email
	s.Identity.GitHubUser = p.Identity.GitHub
	s.InstallHomebrew = p.Options.InstallHomebrew
	s.GenerateSSHKey = p.Options.GenerateSSHKey
	s.SetupGitSigning = p.Options.SetupGitSigning

	var errs []error
	choose := func(value string, apply func() error) {
		if value == "" {
			return
		}
		if err := apply(); err != nil {
			errs = append(errs, err)
		}
	}
	choose(p.Identity.SetupType, func() (err error) {
		s.Identity.SetupType, err = pick("setup_type", p.Identity.SetupType, wizard.AllSetupTypes())
		return
	})
	choose(p.Shell.Shell, func() (err error) {
		s.Shell.Shell, err = pick("shell", p.Shell.Shell, wizard.AllShells())
		return
	})
	choose(p.Shell.Prompt, func() (err error) {
		s.Shell.Prompt, err = pick("prompt", p.Shell.Prompt, wizard.AllPrompts())
		return
	})
	choose(p.Shell.Terminal, func() (err error) {
		s.Shell.Terminal, err = pick("terminal", p.Shell.Terminal, wizard.AllTerminals())
		return
	})
	choose(p.Shell.Multiplexer, func() (err error) {
		s.Shell.Multiplexer, err = pick("multiplexer", p.Shell.Multiplexer, wizard.AllMultiplexers())
		return
	})
	choose(p.Shell.Editor, func() (err error) {
		s.Shell.Editor, err = pick("editor", p.Shell.Editor, wizard.AllEditors())
		return
	})

	s.ClearSelection()
	for _, id := range p.Apps {
		if _, err := catalog.MustLookup(id); err != nil {
			errs = append(errs, err)
			continue
		}
		s.SetSelected(id, true)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	for s.Phase < wizard.PhaseReview {
		s.Advance()
	}
	return s, nil
}

// Load reads a profile from path.
func Load(fs afero.Fs, path string) (*Profile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &p, nil
}

// Save writes p to path, creating parent directories.
func Save(fs afero.Fs, path string, p *Profile) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	header := []byte("# Loadstar profile. Replay with: loadstar wizard --profile " + filepath.Base(path) + "\n")
	if err := afero.WriteFile(fs, path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}
