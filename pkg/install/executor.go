// SPDX-License-Identifier: Apache-2.0

// Package install runs the selected install directives and reports every
// step as an Event.
package install

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Work-Fort/Loadstar/pkg/catalog"
	"github.com/Work-Fort/Loadstar/pkg/proc"
)

// Phase banners, in the order they are emitted.
const (
	PhaseBootstrap = "Homebrew Bootstrap"
	PhaseFormulae  = "Homebrew Formulae"
	PhaseCasks     = "Homebrew Casks"
	PhaseOther     = "Additional Tools"
)

// ReasonAlreadyInstalled is the skip reason for satisfied items.
const ReasonAlreadyInstalled = "Already installed"

// BrewInstallCommand is the official non-interactive Homebrew installer.
const BrewInstallCommand = `NONINTERACTIVE=1 /bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`

// Options describe the environment the executor runs in.
type Options struct {
	// BrewInstalled is true when brew is already on PATH.
	BrewInstalled bool
	// BrewPrefix is where a freshly bootstrapped Homebrew lives. Its bin/brew
	// is used after a bootstrap since PATH does not know about it yet.
	BrewPrefix string
	// SkipBootstrap disables installing Homebrew when it is missing.
	SkipBootstrap bool
}

// Outcome pairs an item name with an error or skip reason.
type Outcome struct {
	Name   string
	Detail string
}

// Summary is the result of a run.
type Summary struct {
	Succeeded []string
	Failed    []Outcome
	Skipped   []Outcome
}

// Total is the number of items that reached a terminal state.
func (s Summary) Total() int {
	return len(s.Succeeded) + len(s.Failed) + len(s.Skipped)
}

// Empty reports whether nothing was attempted.
func (s Summary) Empty() bool { return s.Total() == 0 }

// Executor runs install directives one at a time on the calling goroutine.
type Executor struct {
	runner proc.Runner
	events Sender
	opts   Options
	brew   string
	now    func() time.Time
}

func NewExecutor(runner proc.Runner, events Sender, opts Options) *Executor {
	return &Executor{
		runner: runner,
		events: events,
		opts:   opts,
		brew:   "brew",
		now:    time.Now,
	}
}

type batch struct {
	phase string
	apps  []catalog.App
}

// partition groups apps into formulae, casks and everything else, keeping
// input order within each group.
func partition(apps []catalog.App) []batch {
	batches := []batch{{phase: PhaseFormulae}, {phase: PhaseCasks}, {phase: PhaseOther}}
	for _, app := range apps {
		switch app.Install.Method {
		case catalog.MethodBrew:
			batches[0].apps = append(batches[0].apps, app)
		case catalog.MethodBrewCask:
			batches[1].apps = append(batches[1].apps, app)
		default:
			batches[2].apps = append(batches[2].apps, app)
		}
	}
	return batches
}

func dedupe(apps []catalog.App) []catalog.App {
	seen := make(map[string]struct{}, len(apps))
	out := make([]catalog.App, 0, len(apps))
	for _, app := range apps {
		if _, ok := seen[app.ID]; ok {
			continue
		}
		seen[app.ID] = struct{}{}
		out = append(out, app)
	}
	return out
}

// Run installs apps and returns what happened. Item failures never stop the
// run; only a failed Homebrew bootstrap does, in which case a Fatal event is
// sent and the summary is empty. ctx is only honored between items.
func (e *Executor) Run(ctx context.Context, apps []catalog.App) Summary {
	apps = dedupe(apps)
	total := len(apps)
	log.Info("install run starting", "items", total)

	if !e.bootstrap(ctx) {
		return Summary{}
	}

	var sum Summary
	completed := 0
batches:
	for _, b := range partition(apps) {
		if len(b.apps) == 0 {
			continue
		}
		if ctx.Err() != nil {
			e.logf("[ABORT] Stopping before %s", b.apps[0].Name)
			break
		}
		e.send(PhaseStarted{Phase: b.phase})
		for _, app := range b.apps {
			if ctx.Err() != nil {
				e.logf("[ABORT] Stopping before %s", app.Name)
				break batches
			}
			e.installOne(ctx, app, &sum)
			completed++
			e.send(Progress{Completed: completed, Total: total})
		}
	}

	e.send(Done{
		Succeeded: len(sum.Succeeded),
		Failed:    len(sum.Failed),
		Skipped:   len(sum.Skipped),
	})
	log.Info("install run finished",
		"succeeded", len(sum.Succeeded), "failed", len(sum.Failed), "skipped", len(sum.Skipped))
	return sum
}

func (e *Executor) bootstrap(ctx context.Context) bool {
	e.send(PhaseStarted{Phase: PhaseBootstrap})

	if e.opts.BrewInstalled {
		e.logf("[BREW] Homebrew found, updating...")
		if msg, ok := e.runCommand(ctx, e.brew, "update"); !ok {
			e.logf("[WARN] brew update failed: %s", msg)
		}
		return true
	}

	if e.opts.SkipBootstrap {
		e.logf("[BREW] Homebrew not found and bootstrap is disabled")
		return true
	}

	e.logf("[BREW] Homebrew not found, installing...")
	e.logf("[BREW] Downloading Homebrew installer...")
	name, args := proc.Shell(BrewInstallCommand)
	if msg, ok := e.runCommand(ctx, name, args...); !ok {
		log.Error("homebrew bootstrap failed", "err", msg)
		e.send(Fatal{Message: "Failed to install Homebrew: " + msg})
		return false
	}
	e.logf("[BREW] Homebrew installed successfully")
	if e.opts.BrewPrefix != "" {
		e.brew = filepath.Join(e.opts.BrewPrefix, "bin", "brew")
	}
	return true
}

func (e *Executor) installOne(ctx context.Context, app catalog.App, sum *Summary) {
	e.send(ItemStarted{Name: app.Name, Command: app.Install.Command()})

	if e.alreadyInstalled(ctx, app.Install) {
		sum.Skipped = append(sum.Skipped, Outcome{Name: app.Name, Detail: ReasonAlreadyInstalled})
		e.send(ItemSkipped{Name: app.Name, Reason: ReasonAlreadyInstalled})
		return
	}

	name, args := e.installCommand(app.Install)
	start := e.now()
	msg, ok := e.runCommand(ctx, name, args...)
	if !ok {
		sum.Failed = append(sum.Failed, Outcome{Name: app.Name, Detail: msg})
		e.send(ItemFailed{Name: app.Name, Error: msg})
		return
	}
	sum.Succeeded = append(sum.Succeeded, app.Name)
	e.send(ItemSucceeded{Name: app.Name, Duration: e.now().Sub(start)})
}

// alreadyInstalled asks the package manager whether the target is present.
// Methods without a query always report false.
func (e *Executor) alreadyInstalled(ctx context.Context, d catalog.Directive) bool {
	var name string
	var args []string
	switch d.Method {
	case catalog.MethodBrew:
		name, args = e.brew, []string{"list", "--formula", d.Target}
	case catalog.MethodBrewCask:
		name, args = e.brew, []string{"list", "--cask", d.Target}
	case catalog.MethodNpm:
		name, args = "npm", []string{"ls", "-g", "--depth=0", d.Target}
	case catalog.MethodPip:
		name, args = "pip3", []string{"show", d.Target}
	default:
		return false
	}
	code, err := e.runner.Run(ctx, nil, name, args...)
	log.Debug("install check", "target", d.Target, "method", d.Method, "code", code, "err", err)
	return err == nil && code == 0
}

func (e *Executor) installCommand(d catalog.Directive) (string, []string) {
	switch d.Method {
	case catalog.MethodBrew:
		return e.brew, []string{"install", d.Target}
	case catalog.MethodBrewCask:
		return e.brew, []string{"install", "--cask", d.Target}
	case catalog.MethodCargo:
		return "cargo", []string{"install", d.Target}
	case catalog.MethodNpm:
		return "npm", []string{"install", "-g", d.Target}
	case catalog.MethodPip:
		return "pip3", []string{"install", d.Target}
	case catalog.MethodGo:
		return "go", []string{"install", d.Target}
	case catalog.MethodScript:
		e.logf("[SCRIPT] Downloading %s", d.Target)
		return proc.Shell(fmt.Sprintf("curl -fsSL %s | sh", d.Target))
	case catalog.MethodManual:
		e.logf("[CMD] %s", d.Target)
		return proc.Shell(d.Target)
	case catalog.MethodApt:
		return "sudo", []string{"apt", "install", "-y", d.Target}
	}
	return proc.Shell(d.Command())
}

// runCommand runs a program, forwarding its non-empty output lines as log
// events. On failure it returns the last non-empty stderr line, or the exit
// code when stderr was empty.
func (e *Executor) runCommand(ctx context.Context, name string, args ...string) (string, bool) {
	e.logf("[RUN] %s", proc.FormatCommand(name, args...))

	var lastErr string
	code, err := e.runner.Run(ctx, func(stream proc.Stream, line string) {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			return
		}
		e.send(LogLine{Line: "  " + line})
		if stream == proc.Stderr {
			lastErr = strings.TrimSpace(line)
		}
	}, name, args...)

	switch {
	case err != nil:
		return fmt.Sprintf("Failed to run '%s': %v", name, err), false
	case code != 0 && lastErr != "":
		return lastErr, false
	case code != 0:
		return fmt.Sprintf("exited with code %d", code), false
	}
	return "", true
}

func (e *Executor) send(ev Event) {
	e.events.Send(ev)
}

func (e *Executor) logf(format string, args ...any) {
	e.send(LogLine{Line: fmt.Sprintf(format, args...)})
}
