// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Work-Fort/Loadstar/pkg/wizard"
)

func TestTypewriterRevealsThenCompletes(t *testing.T) {
	tw := NewTypewriter("OK")
	tw.Tick()
	if tw.Visible() != "O" || tw.Done() {
		t.Fatalf("after one tick: %q done=%v", tw.Visible(), tw.Done())
	}
	tw.Tick()
	if tw.Done() {
		t.Fatal("typewriter should need one extra tick after the last rune")
	}
	tw.Tick()
	if !tw.Done() || tw.Visible() != "OK" {
		t.Fatalf("expected done with full text, got %q done=%v", tw.Visible(), tw.Done())
	}
}

func TestBootSequenceCompletes(t *testing.T) {
	b := NewBootSequence()
	ticks := 0
	for !b.Complete() {
		b.Tick()
		ticks++
		if ticks > 1000 {
			t.Fatal("boot sequence never completed")
		}
	}
	want := 0
	for _, m := range BootMessages {
		want += len([]rune(m)) + 1
	}
	if ticks != want {
		t.Errorf("boot took %d ticks, want %d", ticks, want)
	}
}

func TestBootSequenceSkip(t *testing.T) {
	b := NewBootSequence()
	b.Tick()
	b.Skip()
	if !b.Complete() {
		t.Fatal("Skip should complete the sequence")
	}
	view := b.View("*")
	for _, m := range BootMessages {
		if !strings.Contains(view, strings.TrimSpace(m)) {
			t.Errorf("view missing %q after skip", m)
		}
	}
}

func TestPhaseTabs(t *testing.T) {
	tabs, active := PhaseTabs(wizard.PhaseApps, false, false)
	if len(tabs) != len(wizard.AllPhases())-1 {
		t.Fatalf("expected %d tabs, got %d", len(wizard.AllPhases())-1, len(tabs))
	}
	if tabs[active].Title != wizard.PhaseApps.Name() || tabs[active].State != TabActive {
		t.Errorf("active tab = %+v", tabs[active])
	}
	if tabs[0].State != TabComplete || tabs[len(tabs)-1].State != TabPending {
		t.Error("tabs before the current phase should be complete and after pending")
	}

	tabs, active = PhaseTabs(wizard.PhaseInstall, true, false)
	if !tabs[active].Busy {
		t.Error("install tab should be busy while installing")
	}

	tabs, active = PhaseTabs(wizard.PhaseComplete, false, true)
	if tabs[active].State != TabError {
		t.Errorf("failed run should mark Complete as error, got %v", tabs[active].State)
	}
}

func TestPhaseKeyBindings(t *testing.T) {
	for _, p := range wizard.AllPhases() {
		if len(PhaseKeyBindings(p, false).Bindings) == 0 {
			t.Errorf("%s has no key bindings", p)
		}
	}
	if PhaseKeyBindings(wizard.PhaseDevTools, false).Contains("a") == nil {
		t.Error("dev tools should advertise select all")
	}
	if PhaseKeyBindings(wizard.PhaseApps, false).Contains("a") != nil {
		t.Error("apps should not advertise select all")
	}
	if b := PhaseKeyBindings(wizard.PhaseInstall, false).Contains("ctrl+c"); b == nil || b.Description != "Abort" {
		t.Errorf("install ctrl+c should abort, got %+v", b)
	}
	if PhaseKeyBindings(wizard.PhaseApps, true).Contains("/") != nil {
		t.Error("filter mode should not offer to start filtering")
	}
}

func TestRenderInline(t *testing.T) {
	set := KeyBindingSet{Bindings: []KeyBinding{
		{Key: "ENTER", Keys: []string{"enter"}, Description: "Next"},
		{Key: "ESC", Keys: []string{"esc"}, Description: "Back"},
	}}
	if got := set.RenderInline(lipgloss.NewStyle()); got != "Enter: next | Esc: back" {
		t.Errorf("RenderInline = %q", got)
	}
}

func TestCalculateContentHeight(t *testing.T) {
	dims := CalculateContentHeight(40, 10, 2, 5)
	if !dims.ShowInstructions || dims.ContentHeight != 28 {
		t.Errorf("roomy layout = %+v", dims)
	}
	dims = CalculateContentHeight(16, 10, 2, 5)
	if dims.ShowInstructions || dims.ContentHeight != 6 {
		t.Errorf("tight layout = %+v", dims)
	}
	dims = CalculateContentHeight(8, 10, 2, 5)
	if dims.ContentHeight != 5 {
		t.Errorf("minimum not enforced: %+v", dims)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("ripgrep", 10); got != "ripgrep" {
		t.Errorf("short string changed: %q", got)
	}
	if got := Truncate("ripgrep", 4); got != "rip…" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestTruncateStyled(t *testing.T) {
	styled := "ok \x1b[2mripgrep search\x1b[0m"
	got := Truncate(styled, 8)
	if plain := ansi.Strip(got); plain != "ok ripg…" {
		t.Errorf("visible text = %q", plain)
	}
	if w := ansi.StringWidth(got); w > 8 {
		t.Errorf("width = %d, want <= 8", w)
	}
	if !strings.HasSuffix(got, "\x1b[0m") {
		t.Errorf("style reset lost: %q", got)
	}
}
