// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Work-Fort/Loadstar/pkg/wizard"
)

// KeyBinding is a single key action shown in a footer.
type KeyBinding struct {
	Key         string   // Display name: "ENTER", "TAB", "SPACE"
	Keys        []string // Keys to match: ["enter"], ["up", "k"]
	Description string
}

// KeyBindingSet is a collection of related key bindings.
type KeyBindingSet struct {
	Bindings []KeyBinding
}

// Contains returns the binding matching key, or nil.
func (kbs KeyBindingSet) Contains(key string) *KeyBinding {
	for i := range kbs.Bindings {
		for _, k := range kbs.Bindings[i].Keys {
			if k == key {
				return &kbs.Bindings[i]
			}
		}
	}
	return nil
}

// Render formats key bindings for display.
// Format: "[KEY] Action  •  [KEY] Action"
func (kbs KeyBindingSet) Render(style lipgloss.Style) string {
	if len(kbs.Bindings) == 0 {
		return ""
	}
	parts := make([]string, len(kbs.Bindings))
	for i, b := range kbs.Bindings {
		parts[i] = fmt.Sprintf("[%s] %s", b.Key, b.Description)
	}
	return style.Render(strings.Join(parts, "  •  "))
}

// RenderInline formats key bindings compactly.
// Format: "Key: action | Key: action"
func (kbs KeyBindingSet) RenderInline(style lipgloss.Style) string {
	if len(kbs.Bindings) == 0 {
		return ""
	}
	parts := make([]string, len(kbs.Bindings))
	caser := cases.Title(language.Und, cases.NoLower)
	for i, b := range kbs.Bindings {
		parts[i] = fmt.Sprintf("%s: %s", caser.String(b.Keys[0]), strings.ToLower(b.Description))
	}
	return style.Render(strings.Join(parts, " | "))
}

var (
	bindQuit    = KeyBinding{Key: "CTRL+C", Keys: []string{"ctrl+c"}, Description: "Quit"}
	bindBack    = KeyBinding{Key: "ESC", Keys: []string{"esc"}, Description: "Back"}
	bindNext    = KeyBinding{Key: "ENTER", Keys: []string{"enter"}, Description: "Next"}
	bindMove    = KeyBinding{Key: "↑↓", Keys: []string{"up", "down", "k", "j"}, Description: "Move"}
	bindToggle  = KeyBinding{Key: "SPACE", Keys: []string{" "}, Description: "Toggle"}
	bindSection = KeyBinding{Key: "TAB", Keys: []string{"tab", "shift+tab"}, Description: "Category"}
)

// PhaseKeyBindings returns the footer bindings for a wizard screen.
func PhaseKeyBindings(phase wizard.Phase, filtering bool) KeyBindingSet {
	var b []KeyBinding
	switch phase {
	case wizard.PhaseBoot:
		b = []KeyBinding{{Key: "ANY", Keys: []string{"any"}, Description: "Skip"}}
	case wizard.PhaseIdentity:
		b = []KeyBinding{
			{Key: "TAB", Keys: []string{"tab", "shift+tab", "up", "down"}, Description: "Field"},
			{Key: "←→", Keys: []string{"left", "right"}, Description: "Setup Type"},
			bindNext, bindBack,
		}
	case wizard.PhaseShell:
		b = []KeyBinding{
			bindMove,
			{Key: "←→", Keys: []string{"left", "right", "h", "l"}, Description: "Change"},
			bindNext, bindBack,
		}
	case wizard.PhaseDevTools:
		b = []KeyBinding{
			bindMove, bindToggle, bindSection,
			{Key: "A/N", Keys: []string{"a", "n"}, Description: "All/None"},
			bindNext, bindBack,
		}
	case wizard.PhaseApps:
		if filtering {
			b = []KeyBinding{
				{Key: "ENTER", Keys: []string{"enter"}, Description: "Keep Filter"},
				{Key: "ESC", Keys: []string{"esc"}, Description: "Clear Filter"},
			}
			break
		}
		b = []KeyBinding{
			bindMove, bindToggle, bindSection,
			{Key: "/", Keys: []string{"/"}, Description: "Filter"},
			{Key: "D", Keys: []string{"d"}, Description: "Details"},
			bindNext, bindBack,
		}
	case wizard.PhaseReview:
		b = []KeyBinding{
			{Key: "ENTER/Y", Keys: []string{"enter", "y"}, Description: "Install"},
			{Key: "ESC/N", Keys: []string{"esc", "n"}, Description: "Back"},
			{Key: "↑↓", Keys: []string{"up", "down"}, Description: "Scroll"},
		}
	case wizard.PhaseInstall:
		b = []KeyBinding{{Key: "CTRL+C", Keys: []string{"ctrl+c"}, Description: "Abort"}}
		return KeyBindingSet{Bindings: b}
	case wizard.PhaseComplete:
		b = []KeyBinding{{Key: "ENTER/Q", Keys: []string{"enter", "q"}, Description: "Exit"}}
	}
	return KeyBindingSet{Bindings: append(b, bindQuit)}
}
