// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/Work-Fort/Loadstar/pkg/install"
	"github.com/Work-Fort/Loadstar/pkg/proc"
	"github.com/Work-Fort/Loadstar/pkg/setup"
	wizardpkg "github.com/Work-Fort/Loadstar/pkg/wizard"
)

// installRun is the loop's handle on a running worker. The loop owns it
// until the run finishes or is aborted, then drops it.
type installRun struct {
	events *install.Channel
	done   chan workerResult
	cancel context.CancelFunc
}

// launcher starts a worker for a session snapshot.
type launcher interface {
	launch(snapshot *wizardpkg.Session) *installRun
}

// Worker runs the executor and then the advisory setup steps.
type Worker struct {
	Runner  proc.Runner
	Fs      afero.Fs
	Options install.Options
	Env     setup.Env

	GenerateSigningKey bool
	WriteConfigs       bool
}

func (w Worker) launch(snapshot *wizardpkg.Session) *installRun {
	ctx, cancel := context.WithCancel(context.Background())
	run := &installRun{
		events: install.NewChannel(),
		done:   make(chan workerResult, 1),
		cancel: cancel,
	}
	go func() {
		defer cancel()
		run.done <- w.Run(ctx, snapshot, run.events)
	}()
	return run
}

// Run installs everything snapshot asks for and then runs the setup steps,
// reporting every step to events. Setup is skipped after a fatal bootstrap
// failure or once ctx is cancelled.
func (w Worker) Run(ctx context.Context, snapshot *wizardpkg.Session, events install.Sender) workerResult {
	var fatal string
	tee := install.SenderFunc(func(ev install.Event) {
		if f, ok := ev.(install.Fatal); ok {
			fatal = f.Message
		}
		events.Send(ev)
	})

	opts := w.Options
	if !snapshot.InstallHomebrew {
		opts.SkipBootstrap = true
	}
	sum := install.NewExecutor(w.Runner, tee, opts).Run(ctx, snapshot.InstallApps())
	if fatal != "" {
		return workerResult{Fatal: fatal}
	}
	if ctx.Err() != nil {
		log.Info("install cancelled, skipping setup steps")
		return workerResult{Summary: sum}
	}

	plan := setup.PlanFromSession(snapshot)
	plan.GenerateSigningKey = w.GenerateSigningKey
	plan.WriteConfigs = w.WriteConfigs
	steps := setup.Steps{Runner: w.Runner, Events: events, Fs: w.Fs, Env: w.Env}
	steps.Run(ctx, plan)

	return workerResult{Summary: sum}
}
