// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the application color scheme.
type Theme struct {
	Primary   string // Phosphor green
	Secondary string // Cyan accent
	Muted     string // Dim green
	Selection string // Background of the highlighted row
	Success   string
	Info      string
	Warning   string
	Error     string
}

// CurrentTheme is the active theme used throughout the application.
var CurrentTheme = Theme{
	Primary:   "#00FF41",
	Secondary: "#00D7FF",
	Muted:     "#009628",
	Selection: "#1E3C28",
	Success:   "#87FF87",
	Info:      "#00D7FF",
	Warning:   "#FFD700",
	Error:     "#FF5F5F",
}

func (t Theme) GetPrimaryColor() lipgloss.Color   { return lipgloss.Color(t.Primary) }
func (t Theme) GetSecondaryColor() lipgloss.Color { return lipgloss.Color(t.Secondary) }
func (t Theme) GetMutedColor() lipgloss.Color     { return lipgloss.Color(t.Muted) }
func (t Theme) GetSelectionColor() lipgloss.Color { return lipgloss.Color(t.Selection) }
func (t Theme) GetSuccessColor() lipgloss.Color   { return lipgloss.Color(t.Success) }
func (t Theme) GetInfoColor() lipgloss.Color      { return lipgloss.Color(t.Info) }
func (t Theme) GetWarningColor() lipgloss.Color   { return lipgloss.Color(t.Warning) }
func (t Theme) GetErrorColor() lipgloss.Color     { return lipgloss.Color(t.Error) }

// Common style builders

func (t Theme) PrimaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetPrimaryColor())
}

func (t Theme) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetSecondaryColor()).Bold(true)
}

func (t Theme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetPrimaryColor()).Background(t.GetSelectionColor()).Bold(true)
}

func (t Theme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetSuccessColor()).Bold(true)
}

func (t Theme) InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetInfoColor())
}

func (t Theme) WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetWarningColor())
}

func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetErrorColor())
}

func (t Theme) SubtleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetMutedColor())
}

// Message formatters

func (t Theme) SuccessMessage(text string) string { return t.SuccessStyle().Render("✓ " + text) }
func (t Theme) InfoMessage(text string) string    { return t.InfoStyle().Render("ℹ " + text) }
func (t Theme) WarningMessage(text string) string { return t.WarningStyle().Render("⚠ " + text) }
func (t Theme) ErrorMessage(text string) string   { return t.ErrorStyle().Render("✗ " + text) }

// Indicators

func (t Theme) CheckedIndicator() string   { return t.SuccessStyle().Render("[x]") }
func (t Theme) UncheckedIndicator() string { return t.SubtleStyle().Render("[ ]") }
func (t Theme) CursorIndicator() string    { return t.AccentStyle().Render("▶") }
func (t Theme) CompleteIndicator() string  { return t.SuccessStyle().Render("✓") }
func (t Theme) ErrorIndicator() string     { return t.ErrorStyle().Render("✗") }
func (t Theme) PendingIndicator() string   { return t.SubtleStyle().Render("○") }
func (t Theme) ActiveIndicator() string    { return t.AccentStyle().Render("●") }

// PaneStyle is a bordered box around a screen section.
func (t Theme) PaneStyle(width int, active bool) lipgloss.Style {
	border, color := lipgloss.NormalBorder(), t.GetMutedColor()
	if active {
		border, color = lipgloss.ThickBorder(), t.GetPrimaryColor()
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Width(width).
		Padding(0, 1)
}

// RenderHeader renders the banner shared by every screen.
// Format: "  LOADSTAR  ▸  SECTION  ▸  [CONTEXT]  "
func (t Theme) RenderHeader(width int, section, context string) string {
	text := fmt.Sprintf("  LOADSTAR  ▸  %s  ▸  [%s]  ", section, context)
	return lipgloss.NewStyle().
		Foreground(t.GetSecondaryColor()).
		Bold(true).
		Width(width).
		Align(lipgloss.Center).
		Render(text)
}

// RenderFooter renders the key help line.
// Format: "╰─ [content] ─╯"
func (t Theme) RenderFooter(width int, content string) string {
	return lipgloss.NewStyle().
		Foreground(t.GetMutedColor()).
		Width(width).
		Align(lipgloss.Center).
		Render("╰─ " + content + " ─╯")
}
