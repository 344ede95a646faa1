// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/history"
	"github.com/Work-Fort/Loadstar/pkg/install"
	"github.com/Work-Fort/Loadstar/pkg/ui"
	wizardpkg "github.com/Work-Fort/Loadstar/pkg/wizard"
)

const maxLogLines = 2000

// Log markers added by the loop itself.
const (
	LogComplete = "[COMPLETE] Installation finished!"
	LogAbort    = "[ABORT] Installation interrupted by user"
)

// ModelOptions configure NewModel.
type ModelOptions struct {
	// Session is the starting state. A nil session starts a fresh wizard at
	// the boot screen.
	Session *wizardpkg.Session
	Worker  launcher
	// History may be nil when recording is disabled.
	History *history.Store
	// SaveProfile persists the confirmed session and returns where it went.
	SaveProfile  func(*wizardpkg.Session) (string, error)
	Hostname     string
	TickInterval time.Duration
	KillOnAbort  bool
	Now          func() time.Time
}

// Model is the interactive loop. It is the only owner of the session; the
// worker receives a clone.
type Model struct {
	width  int
	height int

	session *wizardpkg.Session
	boot    *ui.BootSequence

	spinner  spinner.Model
	progress progress.Model
	logView  viewport.Model

	worker      launcher
	store       *history.Store
	saveProfile func(*wizardpkg.Session) (string, error)
	hostname    string
	interval    time.Duration
	killOnAbort bool
	now         func() time.Time

	run        *installRun
	installing bool
	aborted    bool
	quitting   bool
	record     *history.Run
	started    time.Time
	finished   time.Time

	log       []string
	phase     string
	current   string
	completed int
	total     int
	succeeded int
	failed    int
	skipped   int
	percent   float64
	fatal     string
}

func NewModel(opts ModelOptions) Model {
	s := opts.Session
	if s == nil {
		s = wizardpkg.NewSession()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 50 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	theme := config.CurrentTheme
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.GetSecondaryColor())

	bar := progress.New(
		progress.WithGradient(theme.Muted, theme.Primary),
		progress.WithoutPercentage(),
	)

	return Model{
		session:     s,
		boot:        ui.NewBootSequence(),
		spinner:     sp,
		progress:    bar,
		logView:     viewport.New(80, 10),
		worker:      opts.Worker,
		store:       opts.History,
		saveProfile: opts.SaveProfile,
		hostname:    opts.Hostname,
		interval:    opts.TickInterval,
		killOnAbort: opts.KillOnAbort,
		now:         opts.Now,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick())
}

// Session is the live wizard state.
func (m Model) Session() *wizardpkg.Session { return m.session }

// Installing reports whether a worker is attached.
func (m Model) Installing() bool { return m.installing }

// Aborted reports whether the user interrupted the install.
func (m Model) Aborted() bool { return m.aborted }

// Log is the visible install log.
func (m Model) Log() []string { return m.log }

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tickMsg:
		return m, tea.Batch(m.onTick(), m.tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case historyRecordedMsg:
		if msg.Err != nil {
			log.Warn("failed to record history", "err", msg.Err)
			m.appendLog("[WARN] Could not record install history: " + msg.Err.Error())
		} else {
			m.appendLog(fmt.Sprintf("[HISTORY] Run %s recorded, see 'loadstar history show %s'", msg.ID, msg.ID))
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		if m.session.Phase == wizardpkg.PhaseInstall && m.installing {
			return m.abort()
		}
		m.quitting = true
		return tea.Quit
	}

	switch m.session.Phase {
	case wizardpkg.PhaseInstall:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return cmd
	case wizardpkg.PhaseComplete:
		switch msg.String() {
		case "up", "down", "pgup", "pgdown", "k", "j":
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return cmd
		}
	}

	before := m.session.Phase
	action := m.session.HandleKey(toKey(msg))
	if m.session.Phase != before {
		log.Debug("phase changed", "from", before, "to", m.session.Phase)
	}

	switch action {
	case wizardpkg.ActionSkipIntro:
		m.boot.Skip()
		m.session.Advance()
	case wizardpkg.ActionStartInstall:
		m.startInstall()
	case wizardpkg.ActionQuit:
		m.quitting = true
		return tea.Quit
	}
	return nil
}

// toKey converts a bubbletea key press to the session's key type.
func toKey(msg tea.KeyMsg) wizardpkg.Key {
	switch msg.Type {
	case tea.KeyRunes:
		if !msg.Alt {
			return wizardpkg.Typed(string(msg.Runes))
		}
	case tea.KeySpace:
		return wizardpkg.Typed(" ")
	}
	return wizardpkg.Named(msg.String())
}

func (m *Model) onTick() tea.Cmd {
	switch {
	case m.session.Phase == wizardpkg.PhaseBoot:
		m.boot.Tick()
		if m.boot.Complete() {
			m.session.Advance()
		}
	case m.installing && m.run != nil:
		return m.poll()
	}
	return nil
}

// poll checks for worker completion before draining so every event sent
// before the worker finished is folded before the phase changes.
func (m *Model) poll() tea.Cmd {
	var res *workerResult
	select {
	case r := <-m.run.done:
		res = &r
	default:
	}

	for _, ev := range m.run.events.Drain() {
		m.fold(ev)
	}

	if res != nil {
		return m.finish(*res)
	}
	return nil
}

func (m *Model) fold(ev install.Event) {
	switch e := ev.(type) {
	case install.PhaseStarted:
		m.phase = e.Phase
	case install.ItemStarted:
		m.current = e.Name
	case install.ItemSucceeded:
		m.succeeded++
	case install.ItemSkipped:
		m.skipped++
	case install.ItemFailed:
		m.failed++
	case install.LogLine:
	case install.Progress:
		m.completed, m.total = e.Completed, e.Total
		m.percent = e.Percent()
		return
	case install.Done:
		m.succeeded, m.failed, m.skipped = e.Succeeded, e.Failed, e.Skipped
		m.current = ""
	case install.Fatal:
		m.fatal = e.Message
	}
	line := install.Describe(ev)
	log.Debug("install event", "line", line)
	m.appendLog(line)
}

func (m *Model) appendLog(line string) {
	m.log = append(m.log, line)
	if over := len(m.log) - maxLogLines; over > 0 {
		m.log = m.log[over:]
	}
	m.logView.SetContent(strings.Join(m.log, "\n"))
	m.logView.GotoBottom()
}

func (m *Model) startInstall() {
	snapshot := m.session.Clone()
	m.started = m.now()
	m.record = history.NewRun(m.started, m.hostname)
	m.total = len(snapshot.InstallApps())
	m.percent = 0

	if m.saveProfile != nil {
		if path, err := m.saveProfile(snapshot); err != nil {
			log.Warn("failed to save profile", "err", err)
			m.appendLog("[WARN] Could not save profile: " + err.Error())
		} else {
			m.appendLog("[PROFILE] Saved choices to " + path)
		}
	}

	log.Info("starting install", "items", m.total, "run", m.record.ID)
	m.run = m.worker.launch(snapshot)
	m.installing = true
}

// finish folds the joined worker result and moves to Complete.
func (m *Model) finish(res workerResult) tea.Cmd {
	m.run = nil
	m.installing = false
	m.percent = 100
	m.finished = m.now()
	if res.Fatal != "" {
		m.fatal = res.Fatal
	}
	m.appendLog(LogComplete)
	m.session.Advance()

	if m.record == nil {
		return nil
	}
	m.record.ApplySummary(res.Summary)
	m.record.Fatal = m.fatal
	m.record.FinishedAt = m.finished
	return m.recordHistory(m.record)
}

// abort detaches from the worker without waiting for it. With KillOnAbort
// the worker's running process group is killed as well.
func (m *Model) abort() tea.Cmd {
	m.run.events.Close()
	if m.killOnAbort {
		m.run.cancel()
	}
	m.run = nil
	m.installing = false
	m.aborted = true
	m.finished = m.now()
	m.appendLog(LogAbort)
	m.session.Complete()
	log.Info("install aborted by user", "completed", m.completed, "total", m.total)

	if m.record == nil {
		return nil
	}
	m.record.Aborted = true
	m.record.Succeeded = m.succeeded
	m.record.Failed = m.failed
	m.record.Skipped = m.skipped
	m.record.FinishedAt = m.finished
	return m.recordHistory(m.record)
}

func (m *Model) recordHistory(r *history.Run) tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return historyRecordedMsg{ID: r.ShortID(), Err: store.Record(ctx, r)}
	}
}

func (m *Model) resize() {
	w := max(m.width-8, 20)
	m.progress.Width = w
	m.logView.Width = w
	// Header, tabs, pane chrome, footer and the install screen's fixed rows.
	m.logView.Height = max(m.height-19, 3)
}
