// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"slices"
	"testing"

	"github.com/Work-Fort/Loadstar/pkg/catalog"
)

func TestPhaseOrdering(t *testing.T) {
	all := AllPhases()
	if len(all) != 8 {
		t.Fatalf("expected 8 phases, got %d", len(all))
	}
	for i, p := range all {
		if p.Index() != i {
			t.Errorf("phase %s has index %d, want %d", p, p.Index(), i)
		}
		if p.Name() == "" || p.Description() == "" {
			t.Errorf("phase %d is missing display data", i)
		}
	}
}

func TestPhaseNextPrevAreInverses(t *testing.T) {
	for _, p := range AllPhases() {
		if next, ok := p.Next(); ok {
			if back, _ := next.Prev(); back != p {
				t.Errorf("%s.Next().Prev() = %s", p, back)
			}
		}
		if prev, ok := p.Prev(); ok {
			if fwd, _ := prev.Next(); fwd != p {
				t.Errorf("%s.Prev().Next() = %s", p, fwd)
			}
		}
	}
	if _, ok := PhaseComplete.Next(); ok {
		t.Error("Complete should have no successor")
	}
	if _, ok := PhaseBoot.Prev(); ok {
		t.Error("Boot should have no predecessor")
	}
}

func TestAdvanceStopsAtComplete(t *testing.T) {
	s := NewSession()
	for s.Advance() {
	}
	if s.Phase != PhaseComplete {
		t.Fatalf("expected Complete, got %s", s.Phase)
	}
	if s.Advance() {
		t.Error("Advance at Complete should be a no-op")
	}
	if s.Phase != PhaseComplete {
		t.Errorf("phase changed to %s", s.Phase)
	}
}

func TestGoBackNeverReentersBoot(t *testing.T) {
	s := NewSession()
	if s.GoBack() {
		t.Error("GoBack at Boot should return false")
	}

	s.Advance()
	if s.Phase != PhaseIdentity {
		t.Fatalf("expected Identity, got %s", s.Phase)
	}
	if s.GoBack() {
		t.Error("GoBack at Identity should not return to Boot")
	}

	s.Advance()
	s.Cursor, s.Scroll = 3, 2
	if !s.GoBack() {
		t.Fatal("GoBack from Shell should succeed")
	}
	if s.Phase != PhaseIdentity || s.Cursor != 0 || s.Scroll != 0 {
		t.Errorf("expected Identity with reset position, got %s cursor=%d scroll=%d", s.Phase, s.Cursor, s.Scroll)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	s := NewSession()
	for _, id := range []string{"git", "k9s"} {
		before := s.IsSelected(id)
		s.ToggleApp(id)
		if s.IsSelected(id) == before {
			t.Errorf("toggle did not flip %s", id)
		}
		s.ToggleApp(id)
		if s.IsSelected(id) != before {
			t.Errorf("toggle twice did not restore %s", id)
		}
	}
}

func TestDefaultsSelectEssentials(t *testing.T) {
	s := NewSession()
	if got, want := s.SelectedCount(), len(catalog.Essential()); got != want {
		t.Errorf("expected %d preselected apps, got %d", want, got)
	}
	if s.Shell.Shell != ShellZsh || s.Shell.Prompt != PromptStarship || s.Shell.Multiplexer != MultiplexerTmux {
		t.Errorf("unexpected shell defaults: %+v", s.Shell)
	}
	if !s.GenerateSSHKey || s.SetupGitSigning {
		t.Error("unexpected toggle defaults")
	}
}

func TestSelectedAppsInCatalogOrder(t *testing.T) {
	s := NewSession()
	s.ClearSelection()
	s.Shell = ShellConfig{Shell: ShellBash, Prompt: PromptNone, Multiplexer: MultiplexerNone, Editor: EditorNone}
	s.ToggleApp("fzf")
	s.ToggleApp("git")

	if got := s.SelectedIDs(); !slices.Equal(got, []string{"git", "fzf"}) {
		t.Errorf("expected catalog order [git fzf], got %v", got)
	}
	if got := s.EstimatedInstallTime(); got != 7 {
		t.Errorf("expected 7 minutes, got %d", got)
	}

	s.ClearSelection()
	if got := s.EstimatedInstallTime(); got != 5 {
		t.Errorf("expected 5 minutes for empty selection, got %d", got)
	}
}

func TestEstimatedInstallTimeCountsImpliedApps(t *testing.T) {
	s := NewSession()
	s.ClearSelection()
	s.ToggleApp("git")

	implied := len(s.ImpliedAppIDs())
	if implied == 0 {
		t.Fatal("default shell choices should imply apps")
	}
	if got, want := s.EstimatedInstallTime(), 5+len(s.InstallApps()); got != want {
		t.Errorf("expected %d minutes, got %d", want, got)
	}
	if got := s.EstimatedInstallTime(); got <= 5+s.SelectedCount() {
		t.Errorf("estimate %d ignores the %d implied apps", got, implied)
	}
}

func TestBrewPackagesAndCasks(t *testing.T) {
	s := NewSession()
	s.ClearSelection()
	s.ToggleApp("git")
	s.ToggleApp("docker")

	if got := s.BrewPackages(); !slices.Equal(got, []string{"git"}) {
		t.Errorf("unexpected formulae %v", got)
	}
	if got := s.BrewCasks(); !slices.Equal(got, []string{"docker"}) {
		t.Errorf("unexpected casks %v", got)
	}
}

func TestInstallAppsIncludesShellChoices(t *testing.T) {
	s := NewSession()
	s.ClearSelection()
	s.ToggleApp("tmux")
	s.Shell.Terminal = TerminalWezTerm

	var ids []string
	for _, app := range s.InstallApps() {
		ids = append(ids, app.ID)
	}
	for _, want := range []string{"zsh", "starship", "neovim", "tmux", "wezterm"} {
		if !slices.Contains(ids, want) {
			t.Errorf("expected %s in install list %v", want, ids)
		}
	}
	if n := len(ids); n != 5 {
		t.Errorf("expected 5 unique apps, got %d: %v", n, ids)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewSession()
	c := s.Clone()
	c.ToggleApp("git")
	c.Identity.Name = "someone else"

	if s.IsSelected("git") == c.IsSelected("git") {
		t.Error("clone shares the selection set")
	}
	if s.Identity.Name == "someone else" {
		t.Error("clone shares identity")
	}
}

func TestOptionCyclingWraps(t *testing.T) {
	if got := ShellZsh.Cycle(false); got != ShellNushell {
		t.Errorf("expected Nushell, got %s", got.Name())
	}
	if got := ShellNushell.Cycle(true); got != ShellZsh {
		t.Errorf("expected Zsh, got %s", got.Name())
	}
	if got := MultiplexerNone.Cycle(true); got != MultiplexerTmux {
		t.Errorf("expected Tmux, got %s", got.Name())
	}
	if got := SetupPersonal.Cycle(false); got != SetupFull {
		t.Errorf("expected Full, got %s", got.Name())
	}
	if got := TerminalGhostty.Cycle(true); got != TerminalKeep {
		t.Errorf("expected Keep Current, got %s", got.Name())
	}
}
