// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Work-Fort/Loadstar/pkg/catalog"
	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/ui"
	wizardpkg "github.com/Work-Fort/Loadstar/pkg/wizard"
)

// Smallest terminal the wizard lays out in.
const (
	minWidth  = 60
	minHeight = 16
)

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	s := m.session
	if s.Phase == wizardpkg.PhaseBoot {
		return ui.FillTerminal(m.boot.View(m.spinner.View()), m.width, m.height)
	}

	theme := config.CurrentTheme
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small\n\nNeed %dx%d, have %dx%d", minWidth, minHeight, m.width, m.height)
		return ui.RenderCenteredModal(msg, m.width, m.height, theme.GetWarningColor(), minWidth/2)
	}

	step := fmt.Sprintf("%d/%d", s.Phase.Index(), len(wizardpkg.AllPhases())-1)
	header := theme.RenderHeader(m.width, strings.ToUpper(s.Phase.Name()), step)
	tabs, active := ui.PhaseTabs(s.Phase, m.installing, m.aborted || m.fatal != "")
	tabsView := ui.RenderTabs(tabs, ui.TabsConfig{ActiveIndex: active, Width: m.width, Spinner: m.spinner})

	// Header, tabs, the pane's bottom border and its vertical padding.
	required := lipgloss.Height(header) + lipgloss.Height(tabsView) + 3
	dims := ui.CalculateContentHeight(m.height, required, 1, 6)

	body := theme.AccentStyle().Render(s.Phase.Description()) + "\n\n" + m.phaseView(dims.ContentHeight-2)
	content := ui.RenderTabContent(body, m.width-2, dims.ContentHeight)

	parts := []string{header, tabsView, content}
	if dims.ShowInstructions {
		keys := ui.PhaseKeyBindings(s.Phase, s.Filtering).Render(lipgloss.NewStyle())
		parts = append(parts, theme.RenderFooter(m.width, keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) phaseView(height int) string {
	switch m.session.Phase {
	case wizardpkg.PhaseIdentity:
		return m.identityView()
	case wizardpkg.PhaseShell:
		return m.shellView()
	case wizardpkg.PhaseDevTools, wizardpkg.PhaseApps:
		return m.selectionView(height)
	case wizardpkg.PhaseReview:
		return m.reviewView(height)
	case wizardpkg.PhaseInstall:
		return m.installView()
	case wizardpkg.PhaseComplete:
		return m.completeView()
	}
	return ""
}

func cursor(on bool) string {
	if on {
		return config.CurrentTheme.CursorIndicator() + " "
	}
	return "  "
}

func (m Model) identityView() string {
	theme := config.CurrentTheme
	s := m.session
	fields := []struct {
		label, value string
	}{
		{"Full Name", s.Identity.Name},
		{"Email", s.Identity.Email},
		{"GitHub User", s.Identity.GitHubUser},
	}

	var b strings.Builder
	for i, f := range fields {
		focused := s.Field == i
		value := f.value
		if focused {
			value += "█"
			value = theme.SelectedStyle().Render(value)
		} else if value == "" {
			value = theme.SubtleStyle().Render("(not set)")
		}
		fmt.Fprintf(&b, "%s%-13s %s\n", cursor(focused), f.label+":", value)
	}

	focused := s.Field == wizardpkg.FieldSetupType
	setup := "◀ " + s.Identity.SetupType.Name() + " ▶"
	if focused {
		setup = theme.SelectedStyle().Render(setup)
	}
	fmt.Fprintf(&b, "\n%s%-13s %s\n", cursor(focused), "Setup Type:", setup)
	b.WriteString("  " + theme.SubtleStyle().Render(s.Identity.SetupType.Description()) + "\n")
	return b.String()
}

func (m Model) shellView() string {
	theme := config.CurrentTheme
	sh := m.session.Shell
	rows := []struct {
		label, value, description string
	}{
		{"Shell", sh.Shell.Name(), sh.Shell.Description()},
		{"Prompt", sh.Prompt.Name(), sh.Prompt.Description()},
		{"Terminal", sh.Terminal.Name(), sh.Terminal.Description()},
		{"Multiplexer", sh.Multiplexer.Name(), sh.Multiplexer.Description()},
		{"Editor", sh.Editor.Name(), sh.Editor.Description()},
	}

	var b strings.Builder
	for i, r := range rows {
		focused := m.session.Cursor == i
		value := "◀ " + r.value + " ▶"
		if focused {
			value = theme.SelectedStyle().Render(value)
		}
		fmt.Fprintf(&b, "%s%-12s %s\n", cursor(focused), r.label+":", value)
		if focused {
			b.WriteString("               " + theme.SubtleStyle().Render(r.description) + "\n")
		}
	}

	if implied := m.session.ImpliedAppIDs(); len(implied) > 0 {
		b.WriteString("\n" + theme.SubtleStyle().Render("Will also install: "+strings.Join(implied, ", ")))
	}
	return b.String()
}

func (m Model) categoryStrip() string {
	theme := config.CurrentTheme
	current, _ := m.session.CurrentCategory()
	var parts []string
	for _, c := range m.session.Categories() {
		label := c.Icon() + " " + c.Name()
		if c == current {
			parts = append(parts, theme.SelectedStyle().Render(" "+label+" "))
		} else {
			parts = append(parts, theme.SubtleStyle().Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) selectionView(height int) string {
	theme := config.CurrentTheme
	s := m.session

	var b strings.Builder
	b.WriteString(m.categoryStrip() + "\n\n")
	if s.Filtering || s.Filter != "" {
		query := "/" + s.Filter
		if s.Filtering {
			query += "█"
		}
		b.WriteString(theme.AccentStyle().Render("Filter: "+query) + "\n\n")
	}

	apps := s.VisibleApps()
	listHeight := max(height-lipgloss.Height(b.String())-2, 3)
	start := 0
	if s.Cursor >= listHeight {
		start = s.Cursor - listHeight + 1
	}
	end := min(start+listHeight, len(apps))

	showDetails := s.Phase == wizardpkg.PhaseApps && s.ShowDetails && m.width >= 100
	listWidth := m.width - 10
	dims := ui.CalculateSplitPaneDimensions(m.width-8, height)
	if showDetails {
		listWidth = dims.PaneContentWidth
	}

	var list strings.Builder
	if len(apps) == 0 {
		list.WriteString(theme.SubtleStyle().Render("  No matches"))
	}
	for i := start; i < end; i++ {
		app := apps[i]
		box := theme.UncheckedIndicator()
		if s.IsSelected(app.ID) {
			box = theme.CheckedIndicator()
		}
		line := fmt.Sprintf("%s %s", box, app.Name)
		if !showDetails {
			line += theme.SubtleStyle().Render("  " + app.Description)
		}
		line = ui.Truncate(line, listWidth)
		if i == s.Cursor {
			line = theme.SelectedStyle().Render(line)
		}
		list.WriteString(cursor(i == s.Cursor) + line + "\n")
	}

	if showDetails {
		detail := "Nothing selected"
		if app, ok := s.CursorApp(); ok {
			detail = appDetail(app)
		}
		left := ui.CreatePaneStyle(true, dims.PaneContentWidth).Render(strings.TrimRight(list.String(), "\n"))
		right := ui.CreatePaneStyle(false, dims.PaneContentWidth).Render(detail)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	} else {
		b.WriteString(list.String())
	}

	b.WriteString("\n" + theme.SubtleStyle().Render(
		fmt.Sprintf("Selected: %d of %d", s.SelectedCount(), s.TotalCount())))
	return b.String()
}

func appDetail(app catalog.App) string {
	theme := config.CurrentTheme
	var b strings.Builder
	b.WriteString(theme.AccentStyle().Render(app.Name) + "\n\n")
	b.WriteString(app.Description + "\n\n")
	b.WriteString(theme.SubtleStyle().Render("Install: ") + app.Install.Command() + "\n")
	if len(app.Dependencies) > 0 {
		b.WriteString(theme.SubtleStyle().Render("Needs:   ") + strings.Join(app.Dependencies, ", ") + "\n")
	}
	if len(app.Tags) > 0 {
		b.WriteString(theme.SubtleStyle().Render("Tags:    ") + strings.Join(app.Tags, ", ") + "\n")
	}
	if app.URL != "" {
		b.WriteString(theme.SubtleStyle().Render("URL:     ") + app.URL + "\n")
	}
	return b.String()
}

func (m Model) reviewView(height int) string {
	theme := config.CurrentTheme
	s := m.session

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s <%s>", theme.AccentStyle().Render("Identity:"), s.Identity.Name, s.Identity.Email)
	if s.Identity.GitHubUser != "" {
		fmt.Fprintf(&b, " @%s", s.Identity.GitHubUser)
	}
	fmt.Fprintf(&b, " (%s)\n", s.Identity.SetupType.Name())
	fmt.Fprintf(&b, "%s %s, %s prompt, %s, %s, %s\n",
		theme.AccentStyle().Render("Shell:"),
		s.Shell.Shell.Name(), s.Shell.Prompt.Name(), s.Shell.Terminal.Name(),
		s.Shell.Multiplexer.Name(), s.Shell.Editor.Name())

	apps := s.InstallApps()
	fmt.Fprintf(&b, "%s %d items (%d formulae, %d casks), about %d minutes\n\n",
		theme.AccentStyle().Render("Install:"), len(apps),
		len(s.BrewPackages()), len(s.BrewCasks()), s.EstimatedInstallTime())

	listHeight := max(height-lipgloss.Height(b.String())-2, 3)
	start := min(s.Scroll, max(len(apps)-1, 0))
	end := min(start+listHeight, len(apps))
	for _, app := range apps[start:end] {
		line := fmt.Sprintf("  %s %-22s %s", theme.PendingIndicator(), app.Name,
			theme.SubtleStyle().Render(app.Install.Command()))
		b.WriteString(ui.Truncate(line, m.width-8) + "\n")
	}
	if end < len(apps) {
		b.WriteString(theme.SubtleStyle().Render(fmt.Sprintf("  ... %d more", len(apps)-end)) + "\n")
	}

	b.WriteString("\n" + theme.WarningStyle().Render("Proceed with installation? [Y/n]"))
	return b.String()
}

func (m Model) counters() string {
	theme := config.CurrentTheme
	return fmt.Sprintf("%s  %s  %s",
		theme.SuccessStyle().Render(fmt.Sprintf("%d succeeded", m.succeeded)),
		theme.ErrorStyle().Render(fmt.Sprintf("%d failed", m.failed)),
		theme.SubtleStyle().Render(fmt.Sprintf("%d skipped", m.skipped)))
}

func (m Model) installView() string {
	theme := config.CurrentTheme
	var b strings.Builder

	phase := m.phase
	if phase == "" {
		phase = "Starting"
	}
	b.WriteString(theme.AccentStyle().Render(phase) + "\n")
	if m.current != "" {
		b.WriteString(m.spinner.View() + " Installing " + m.current + "\n")
	} else {
		b.WriteString(m.spinner.View() + " Working...\n")
	}
	b.WriteString("\n" + m.progress.ViewAs(m.percent/100) + "\n")
	elapsed := m.now().Sub(m.started).Round(time.Second)
	fmt.Fprintf(&b, "%d/%d  %.0f%%  elapsed %s\n", m.completed, m.total, m.percent, elapsed)
	b.WriteString(m.counters() + "\n\n")
	b.WriteString(m.logView.View())
	return b.String()
}

func (m Model) completeView() string {
	theme := config.CurrentTheme
	var b strings.Builder

	switch {
	case m.aborted:
		b.WriteString(theme.WarningMessage("Installation aborted"))
	case m.fatal != "":
		b.WriteString(theme.ErrorMessage(m.fatal))
	case m.failed > 0:
		b.WriteString(theme.WarningMessage(fmt.Sprintf("Finished with %d failures", m.failed)))
	default:
		b.WriteString(theme.SuccessMessage("Your machine is ready"))
	}
	b.WriteString("\n\n" + m.counters())
	if !m.started.IsZero() {
		fmt.Fprintf(&b, "  in %s", m.finished.Sub(m.started).Round(time.Second))
	}
	b.WriteString("\n\n" + m.logView.View() + "\n\n")
	b.WriteString(theme.SubtleStyle().Render("Restart your terminal to load the new shell configuration."))
	return b.String()
}
