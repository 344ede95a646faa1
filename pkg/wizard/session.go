// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"maps"
	"os/user"
	"strings"

	"github.com/Work-Fort/Loadstar/pkg/catalog"
)

// Identity is who the machine is being set up for.
type Identity struct {
	Name       string
	Email      string
	GitHubUser string
	SetupType  SetupType
}

// ShellConfig holds the choices made on the shell screen.
type ShellConfig struct {
	Shell       Shell
	Prompt      Prompt
	Terminal    Terminal
	Multiplexer Multiplexer
	Editor      Editor
}

// Session is the wizard state. It is owned by the interactive loop; the
// install worker only ever sees a Clone.
type Session struct {
	Phase    Phase
	Identity Identity
	Shell    ShellConfig

	InstallHomebrew bool
	InstallFonts    bool
	GenerateSSHKey  bool
	SetupGitSigning bool
	ShowDetails     bool

	selected map[string]struct{}

	// Cursor is the highlighted row, Scroll the review scroll offset,
	// Field the focused identity field and Category the index into the
	// phase's category list.
	Cursor   int
	Scroll   int
	Field    int
	Category int

	// Filter is the fuzzy query applied to the app list while Filtering.
	Filter    string
	Filtering bool
}

// NewSession returns a session at PhaseBoot with the default choices and the
// essential apps preselected.
func NewSession() *Session {
	s := &Session{
		Phase: PhaseBoot,
		Identity: Identity{
			Name:      defaultName(),
			SetupType: SetupPersonal,
		},
		Shell: ShellConfig{
			Shell:       ShellZsh,
			Prompt:      PromptStarship,
			Terminal:    TerminalKeep,
			Multiplexer: MultiplexerTmux,
			Editor:      EditorNeovim,
		},
		InstallHomebrew: true,
		InstallFonts:    true,
		GenerateSSHKey:  true,
		ShowDetails:     true,
		selected:        make(map[string]struct{}),
	}
	for _, app := range catalog.Essential() {
		s.selected[app.ID] = struct{}{}
	}
	return s
}

// defaultName is the OS user's full name, falling back to the login name.
func defaultName() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Username
}

func (s *Session) resetPosition() {
	s.Cursor = 0
	s.Scroll = 0
	s.Category = 0
	s.Filter = ""
	s.Filtering = false
}

// Advance moves to the next phase. It returns false at PhaseComplete.
func (s *Session) Advance() bool {
	next, ok := s.Phase.Next()
	if !ok {
		return false
	}
	s.Phase = next
	s.resetPosition()
	return true
}

// GoBack moves to the previous phase. PhaseBoot is never re-entered, so it
// returns false at PhaseBoot and PhaseIdentity.
func (s *Session) GoBack() bool {
	prev, ok := s.Phase.Prev()
	if !ok || prev == PhaseBoot {
		return false
	}
	s.Phase = prev
	s.resetPosition()
	return true
}

// Complete jumps straight to PhaseComplete. Only the abort path uses it.
func (s *Session) Complete() {
	s.Phase = PhaseComplete
	s.resetPosition()
}

// ToggleApp flips the selection of id.
func (s *Session) ToggleApp(id string) {
	if s.selected == nil {
		s.selected = make(map[string]struct{})
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

func (s *Session) SetSelected(id string, on bool) {
	if s.selected == nil {
		s.selected = make(map[string]struct{})
	}
	if on {
		s.selected[id] = struct{}{}
	} else {
		delete(s.selected, id)
	}
}

func (s *Session) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// ClearSelection deselects everything.
func (s *Session) ClearSelection() {
	clear(s.selected)
}

// SelectedApps returns the selected apps in catalog order.
func (s *Session) SelectedApps() []catalog.App {
	var out []catalog.App
	for _, app := range catalog.All() {
		if s.IsSelected(app.ID) {
			out = append(out, app)
		}
	}
	return out
}

// SelectedIDs returns the selected ids in catalog order.
func (s *Session) SelectedIDs() []string {
	apps := s.SelectedApps()
	ids := make([]string, len(apps))
	for i, app := range apps {
		ids[i] = app.ID
	}
	return ids
}

func (s *Session) SelectedCount() int { return len(s.SelectedApps()) }

func (s *Session) TotalCount() int { return len(catalog.All()) }

// ImpliedAppIDs are the catalog ids implied by the shell screen choices.
func (s *Session) ImpliedAppIDs() []string {
	var ids []string
	for _, id := range []string{
		s.Shell.Shell.AppID(),
		s.Shell.Prompt.AppID(),
		s.Shell.Terminal.AppID(),
		s.Shell.Multiplexer.AppID(),
		s.Shell.Editor.AppID(),
	} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// InstallApps is what the executor receives: the selection plus the apps
// implied by the shell screen, in catalog order and without duplicates.
func (s *Session) InstallApps() []catalog.App {
	want := make(map[string]struct{}, len(s.selected))
	maps.Copy(want, s.selected)
	for _, id := range s.ImpliedAppIDs() {
		want[id] = struct{}{}
	}
	var out []catalog.App
	for _, app := range catalog.All() {
		if _, ok := want[app.ID]; ok {
			out = append(out, app)
		}
	}
	return out
}

// BrewPackages lists the selected formulae.
func (s *Session) BrewPackages() []string {
	return s.targetsFor(catalog.MethodBrew)
}

// BrewCasks lists the selected casks.
func (s *Session) BrewCasks() []string {
	return s.targetsFor(catalog.MethodBrewCask)
}

func (s *Session) targetsFor(m catalog.Method) []string {
	var out []string
	for _, app := range s.SelectedApps() {
		if app.Install.Method == m {
			out = append(out, app.Install.Target)
		}
	}
	return out
}

// EstimatedInstallTime is a rough estimate in minutes, counting the apps
// the shell screen implies as well as the selection.
func (s *Session) EstimatedInstallTime() int {
	return 5 + len(s.InstallApps())
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.selected = maps.Clone(s.selected)
	if c.selected == nil {
		c.selected = make(map[string]struct{})
	}
	return &c
}
