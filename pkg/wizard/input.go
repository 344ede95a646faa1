// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"github.com/Work-Fort/Loadstar/pkg/catalog"
)

// Key is a discrete key press. Name uses bubbletea's spelling ("tab",
// "shift+tab", "enter", "esc", "backspace", " ", "a", ...). Text holds the
// typed characters for printable input and is empty for control keys.
type Key struct {
	Name string
	Text string
}

// Named builds a control key.
func Named(name string) Key { return Key{Name: name} }

// Typed builds a printable key.
func Typed(text string) Key { return Key{Name: text, Text: text} }

// Action tells the loop what a key press requires beyond the state change
// already applied to the session.
type Action int

const (
	ActionNone Action = iota
	ActionSkipIntro
	ActionStartInstall
	ActionQuit
)

const (
	FieldName = iota
	FieldEmail
	FieldGitHub
	FieldSetupType
	identityFieldCount
)

const (
	RowShell = iota
	RowPrompt
	RowTerminal
	RowMultiplexer
	RowEditor
	shellRowCount
)

// DevToolsCategories are the categories offered on the dev tools screen.
var DevToolsCategories = []catalog.Category{
	catalog.CategoryLanguage,
	catalog.CategoryEditor,
	catalog.CategoryGit,
	catalog.CategoryContainer,
	catalog.CategoryCloud,
}

// Categories returns the category list for the current phase.
func (s *Session) Categories() []catalog.Category {
	switch s.Phase {
	case PhaseDevTools:
		return DevToolsCategories
	case PhaseApps:
		return catalog.AllCategories()
	}
	return nil
}

// CurrentCategory is the category shown on a selection screen.
func (s *Session) CurrentCategory() (catalog.Category, bool) {
	cats := s.Categories()
	if len(cats) == 0 {
		return 0, false
	}
	return cats[((s.Category%len(cats))+len(cats))%len(cats)], true
}

// VisibleApps is the list the cursor moves over on a selection screen.
func (s *Session) VisibleApps() []catalog.App {
	cat, ok := s.CurrentCategory()
	if !ok {
		return nil
	}
	return catalog.SearchIn(catalog.ByCategory(cat), s.Filter)
}

// CursorApp is the app under the cursor.
func (s *Session) CursorApp() (catalog.App, bool) {
	apps := s.VisibleApps()
	if s.Cursor < 0 || s.Cursor >= len(apps) {
		return catalog.App{}, false
	}
	return apps[s.Cursor], true
}

// HandleKey applies k to the session according to the current phase.
func (s *Session) HandleKey(k Key) Action {
	switch s.Phase {
	case PhaseBoot:
		return ActionSkipIntro
	case PhaseIdentity:
		s.identityKey(k)
	case PhaseShell:
		s.shellKey(k)
	case PhaseDevTools, PhaseApps:
		s.selectionKey(k)
	case PhaseReview:
		return s.reviewKey(k)
	case PhaseComplete:
		if k.Name == "enter" || k.Name == "q" {
			return ActionQuit
		}
	}
	return ActionNone
}

func (s *Session) identityKey(k Key) {
	switch k.Name {
	case "tab", "down":
		s.Field = cycle(s.Field, identityFieldCount, true)
		return
	case "shift+tab", "up":
		s.Field = cycle(s.Field, identityFieldCount, false)
		return
	case "left", "right":
		if s.Field == FieldSetupType {
			s.Identity.SetupType = s.Identity.SetupType.Cycle(k.Name == "right")
		}
		return
	case "enter":
		if s.Field == FieldSetupType {
			s.Advance()
		} else {
			s.Field++
		}
		return
	case "esc":
		s.GoBack()
		return
	case "backspace":
		if f := s.identityText(); f != nil && *f != "" {
			r := []rune(*f)
			*f = string(r[:len(r)-1])
		}
		return
	}
	if k.Text != "" {
		if f := s.identityText(); f != nil {
			*f += k.Text
		}
	}
}

func (s *Session) identityText() *string {
	switch s.Field {
	case FieldName:
		return &s.Identity.Name
	case FieldEmail:
		return &s.Identity.Email
	case FieldGitHub:
		return &s.Identity.GitHubUser
	}
	return nil
}

func (s *Session) shellKey(k Key) {
	switch k.Name {
	case "up", "k":
		s.Cursor = cycle(s.Cursor, shellRowCount, false)
	case "down", "j":
		s.Cursor = cycle(s.Cursor, shellRowCount, true)
	case "left", "h":
		s.cycleShellRow(false)
	case "right", "l":
		s.cycleShellRow(true)
	case "enter":
		s.Advance()
	case "esc":
		s.GoBack()
	}
}

func (s *Session) cycleShellRow(forward bool) {
	switch s.Cursor {
	case RowShell:
		s.Shell.Shell = s.Shell.Shell.Cycle(forward)
	case RowPrompt:
		s.Shell.Prompt = s.Shell.Prompt.Cycle(forward)
	case RowTerminal:
		s.Shell.Terminal = s.Shell.Terminal.Cycle(forward)
	case RowMultiplexer:
		s.Shell.Multiplexer = s.Shell.Multiplexer.Cycle(forward)
	case RowEditor:
		s.Shell.Editor = s.Shell.Editor.Cycle(forward)
	}
}

func (s *Session) selectionKey(k Key) {
	if s.Filtering {
		s.filterKey(k)
		return
	}

	apps := s.VisibleApps()
	switch k.Name {
	case "up", "k":
		if s.Cursor > 0 {
			s.Cursor--
		}
	case "down", "j":
		if s.Cursor < len(apps)-1 {
			s.Cursor++
		}
	case "tab", "shift+tab":
		s.Category = cycle(s.Category, len(s.Categories()), k.Name == "tab")
		s.Cursor = 0
	case " ":
		if app, ok := s.CursorApp(); ok {
			s.ToggleApp(app.ID)
		}
	case "a", "n":
		if s.Phase != PhaseDevTools {
			return
		}
		for _, app := range apps {
			s.SetSelected(app.ID, k.Name == "a")
		}
	case "d":
		if s.Phase == PhaseApps {
			s.ShowDetails = !s.ShowDetails
		}
	case "/":
		s.Filtering = true
		s.Cursor = 0
	case "enter":
		s.Advance()
	case "esc":
		s.GoBack()
	}
}

func (s *Session) filterKey(k Key) {
	switch k.Name {
	case "enter":
		s.Filtering = false
	case "esc":
		s.Filtering = false
		s.Filter = ""
	case "backspace":
		if r := []rune(s.Filter); len(r) > 0 {
			s.Filter = string(r[:len(r)-1])
		}
	default:
		if k.Text == "" {
			return
		}
		s.Filter += k.Text
	}
	s.Cursor = 0
}

func (s *Session) reviewKey(k Key) Action {
	switch k.Name {
	case "enter", "y":
		if s.Advance() {
			return ActionStartInstall
		}
	case "esc", "n":
		s.GoBack()
	case "up", "k":
		if s.Scroll > 0 {
			s.Scroll--
		}
	case "down", "j":
		if s.Scroll < len(s.InstallApps())-1 {
			s.Scroll++
		}
	}
	return ActionNone
}
