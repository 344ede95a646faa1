// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"

	"github.com/Work-Fort/Loadstar/pkg/config"
)

// BootMessages are typed out one after another on the intro screen.
var BootMessages = []string{
	"BIOS CHECK... ",
	"NEURAL INTERFACE ONLINE... ",
	"SCANNING REALITY MATRIX... ",
	"QUANTUM ENTANGLEMENT STABLE... ",
	"CONSCIOUSNESS UPLOAD READY... ",
	"READY.",
}

// Banner is the figlet title shown on the intro screen and in help.
func Banner() string {
	return figure.NewFigure("LOADSTAR", "standard", true).String()
}

// Typewriter reveals text one rune per tick.
type Typewriter struct {
	text    []rune
	visible int
	blink   bool
	done    bool
}

func NewTypewriter(text string) *Typewriter {
	return &Typewriter{text: []rune(text), blink: true}
}

// Tick reveals one more rune. The tick after the last rune marks it done.
func (t *Typewriter) Tick() {
	if t.visible < len(t.text) {
		t.visible++
	} else {
		t.done = true
	}
	t.blink = !t.blink
}

func (t *Typewriter) Done() bool      { return t.done }
func (t *Typewriter) Visible() string { return string(t.text[:t.visible]) }

// Cursor is a block while typing and an underscore once done.
func (t *Typewriter) Cursor() string {
	switch {
	case !t.blink:
		return " "
	case t.done:
		return "_"
	}
	return "█"
}

// BootSequence drives the intro screen.
type BootSequence struct {
	stage    int
	done     []bool
	writer   *Typewriter
	complete bool
}

func NewBootSequence() *BootSequence {
	return &BootSequence{
		done:   make([]bool, len(BootMessages)),
		writer: NewTypewriter(BootMessages[0]),
	}
}

// Tick advances the current line, moving to the next when it is typed.
func (b *BootSequence) Tick() {
	if b.complete {
		return
	}
	b.writer.Tick()
	if !b.writer.Done() {
		return
	}
	b.done[b.stage] = true
	b.stage++
	if b.stage < len(BootMessages) {
		b.writer = NewTypewriter(BootMessages[b.stage])
		return
	}
	b.writer = nil
	b.complete = true
}

// Skip completes every line at once.
func (b *BootSequence) Skip() {
	for i := range b.done {
		b.done[i] = true
	}
	b.stage = len(BootMessages)
	b.writer = nil
	b.complete = true
}

func (b *BootSequence) Complete() bool { return b.complete }

// View renders the boot lines; spin is the current spinner frame.
func (b *BootSequence) View(spin string) string {
	theme := config.CurrentTheme
	phosphor := theme.PrimaryStyle()

	var sb strings.Builder
	sb.WriteString(theme.AccentStyle().Render(Banner()))
	sb.WriteString("\n")
	sb.WriteString(theme.AccentStyle().Render("    **** LOADSTAR DEV MACHINE SETUP ****"))
	sb.WriteString("\n\n")

	for i, msg := range BootMessages {
		var status, text string
		switch {
		case b.done[i]:
			status = theme.SuccessStyle().Render(" OK ")
			text = msg
		case i == b.stage && b.writer != nil:
			status = theme.WarningStyle().Render(" " + spin + " ")
			text = b.writer.Visible() + b.writer.Cursor()
		default:
			status = theme.SubtleStyle().Render(" .. ")
		}
		sb.WriteString("   " + status + " " + phosphor.Render(text) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(theme.SubtleStyle().Render("   Press any key to skip..."))
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}
