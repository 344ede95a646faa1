// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/wizard"
)

// TabState represents the state of a tab.
type TabState int

const (
	TabPending TabState = iota
	TabActive
	TabComplete
	TabError
)

// Tab is a single tab in the phase strip.
type Tab struct {
	Title string
	State TabState
	// Busy tabs show the spinner instead of the active dot.
	Busy bool
}

// TabsConfig holds configuration for tab rendering.
type TabsConfig struct {
	ActiveIndex int
	Width       int
	Spinner     spinner.Model
}

// PhaseTabs builds the tab strip for the wizard's progress through its
// phases. Boot is not shown.
func PhaseTabs(current wizard.Phase, installing, failed bool) ([]Tab, int) {
	var tabs []Tab
	active := 0
	for _, p := range wizard.AllPhases() {
		if p == wizard.PhaseBoot {
			continue
		}
		t := Tab{Title: p.Name()}
		switch {
		case p < current:
			t.State = TabComplete
		case p == current:
			t.State = TabActive
			t.Busy = installing
			if p == wizard.PhaseComplete {
				t.State = TabComplete
				if failed {
					t.State = TabError
				}
			}
			active = len(tabs)
		}
		tabs = append(tabs, t)
	}
	return tabs, active
}

// RenderTabs renders a row of tabs joined to the content pane below.
func RenderTabs(tabs []Tab, cfg TabsConfig) string {
	theme := config.CurrentTheme
	base := lipgloss.NewStyle().Border(tabBorderWithBottom("┴", "─", "┴"), true).Padding(0, 1)

	var rendered []string
	for i, tab := range tabs {
		isFirst, isLast, isActive := i == 0, i == len(tabs)-1, i == cfg.ActiveIndex

		var style lipgloss.Style
		var title string
		switch tab.State {
		case TabActive:
			style = base.BorderForeground(theme.GetSecondaryColor())
			if tab.Busy {
				title = cfg.Spinner.View() + " " + tab.Title
			} else {
				title = theme.ActiveIndicator() + " " + tab.Title
			}
		case TabComplete:
			style = base.BorderForeground(theme.GetSuccessColor())
			title = theme.CompleteIndicator() + " " + tab.Title
		case TabError:
			style = base.BorderForeground(theme.GetErrorColor())
			title = theme.ErrorIndicator() + " " + tab.Title
		default:
			style = base.BorderForeground(theme.GetMutedColor())
			title = theme.PendingIndicator() + " " + tab.Title
		}

		border, _, _, _, _ := style.GetBorder()
		switch {
		case isActive:
			border.BottomLeft, border.Bottom, border.BottomRight = "┘", " ", "└"
			if isFirst {
				border.BottomLeft = "│"
			}
		case isFirst:
			border.BottomLeft = "├"
		}
		if isLast && !isActive {
			border.BottomRight = "┴"
		}
		rendered = append(rendered, style.Border(border).Render(title))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	rowWidth := lipgloss.Width(row)
	if cfg.Width <= rowWidth {
		return row
	}

	// Extend the bottom line to the right edge of the content pane.
	fill := cfg.Width - rowWidth
	blank := strings.Repeat(" ", fill)
	bottom := lipgloss.NewStyle().
		Foreground(theme.GetPrimaryColor()).
		Render(strings.Repeat("─", fill-1) + "┐")
	return lipgloss.JoinHorizontal(lipgloss.Top, row, lipgloss.JoinVertical(lipgloss.Left, blank, blank, bottom))
}

// RenderTabContent renders the pane under the tabs.
func RenderTabContent(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(config.CurrentTheme.GetPrimaryColor()).
		BorderTop(false).
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(content)
}

func tabBorderWithBottom(left, middle, right string) lipgloss.Border {
	border := lipgloss.RoundedBorder()
	border.BottomLeft = left
	border.Bottom = middle
	border.BottomRight = right
	return border
}
