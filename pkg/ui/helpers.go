// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Work-Fort/Loadstar/pkg/config"
)

// LayoutDimensions holds calculated dimensions for a screen.
type LayoutDimensions struct {
	Width             int
	Height            int
	PaneContentWidth  int
	PaneRenderedWidth int
	ShowInstructions  bool
	ContentHeight     int
}

// CalculateSplitPaneDimensions splits the width into two panes with a
// two column gap.
//
// Lipgloss renders borders outside Style.Width, so each pane's content
// width is its rendered width minus the two border columns.
func CalculateSplitPaneDimensions(terminalWidth, terminalHeight int) LayoutDimensions {
	const gap, borderWidth = 2, 2
	rendered := (terminalWidth - gap) / 2
	return LayoutDimensions{
		Width:             terminalWidth,
		Height:            terminalHeight,
		PaneContentWidth:  rendered - borderWidth,
		PaneRenderedWidth: rendered,
	}
}

// CalculateContentHeight returns how many lines remain for content once the
// required chrome is drawn. Instructions are dropped before the content
// shrinks below minContentHeight.
func CalculateContentHeight(terminalHeight, requiredLines, instructionLines, minContentHeight int) LayoutDimensions {
	available := terminalHeight - requiredLines
	dims := LayoutDimensions{Height: terminalHeight}

	switch {
	case available >= minContentHeight+instructionLines:
		dims.ShowInstructions = true
		dims.ContentHeight = available - instructionLines
	case available >= minContentHeight:
		dims.ContentHeight = available
	default:
		dims.ContentHeight = minContentHeight
	}
	return dims
}

// RenderCenteredModal renders content in a bordered box centered on screen.
func RenderCenteredModal(content string, width, height int, borderColor lipgloss.Color, modalWidth int) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

// CreatePaneStyle uses ThickBorder for the focused pane and NormalBorder
// otherwise; both are two columns wide.
func CreatePaneStyle(isActive bool, contentWidth int) lipgloss.Style {
	return config.CurrentTheme.PaneStyle(contentWidth, isActive)
}

// FillTerminal pads content to the full terminal size.
func FillTerminal(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, content)
}

// RenderMarkdown renders markdown through glamour, falling back to the raw
// text when rendering fails.
func RenderMarkdown(markdown string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}

// Truncate shortens s to width display columns, ending with "…". Styling
// escapes in s survive, so a cut never leaves a style open.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
