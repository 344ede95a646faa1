// SPDX-License-Identifier: Apache-2.0
package profile

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/Work-Fort/Loadstar/pkg/wizard"
)

func TestRoundTripThroughFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	s := wizard.NewSession()
	s.Identity.Name = "Ada Lovelace"
	s.Identity.Email = "ada@example.com"
	s.Identity.SetupType = wizard.SetupWork
	s.Shell.Shell = wizard.ShellFish
	s.Shell.Multiplexer = wizard.MultiplexerNone
	s.ClearSelection()
	s.ToggleApp("ripgrep")
	s.ToggleApp("git")

	if err := Save(fs, "/cfg/loadstar/last-profile.yaml", FromSession(s)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(fs, "/cfg/loadstar/last-profile.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	restored, err := loaded.Session()
	if err != nil {
		t.Fatalf("session failed: %v", err)
	}

	if restored.Phase != wizard.PhaseReview {
		t.Errorf("expected review phase, got %s", restored.Phase)
	}
	if restored.Identity != s.Identity {
		t.Errorf("identity mismatch: %+v vs %+v", restored.Identity, s.Identity)
	}
	if restored.Shell != s.Shell {
		t.Errorf("shell mismatch: %+v vs %+v", restored.Shell, s.Shell)
	}
	if got := restored.SelectedIDs(); len(got) != 2 || got[0] != "git" || got[1] != "ripgrep" {
		t.Errorf("unexpected selection %v", got)
	}
}

func TestSessionRejectsUnknownValues(t *testing.T) {
	p := &Profile{}
	p.Shell.Shell = "tcsh"
	p.Apps = []string{"git", "not-an-app"}

	_, err := p.Session()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{`invalid shell "tcsh"`, "not-an-app"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestChoiceNamesAreCaseInsensitive(t *testing.T) {
	p := &Profile{}
	p.Shell.Terminal = "wezterm"
	p.Shell.Editor = "vs code"

	s, err := p.Session()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Shell.Terminal != wizard.TerminalWezTerm || s.Shell.Editor != wizard.EditorVSCode {
		t.Errorf("unexpected shell config %+v", s.Shell)
	}
}
