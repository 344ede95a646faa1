// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Work-Fort/Loadstar/pkg/install"
	"github.com/Work-Fort/Loadstar/pkg/proc"
	"github.com/Work-Fort/Loadstar/pkg/proc/proctest"
	"github.com/Work-Fort/Loadstar/pkg/setup"
	"github.com/Work-Fort/Loadstar/pkg/system"
)

func testWorker(runner proc.Runner, brewInstalled bool) Worker {
	return Worker{
		Runner:  runner,
		Fs:      afero.NewMemMapFs(),
		Options: install.Options{BrewInstalled: brewInstalled, BrewPrefix: "/opt/homebrew"},
		Env: setup.Env{
			OS:        system.Linux,
			Home:      "/home/ada",
			ConfigDir: "/home/ada/.config",
			Hostname:  "studio",
			Username:  "ada",
			AuthSock:  "/tmp/agent.sock",
		},
	}
}

func phases(events []install.Event) []string {
	var out []string
	for _, e := range events {
		if p, ok := e.(install.PhaseStarted); ok {
			out = append(out, p.Phase)
		}
	}
	return out
}

func TestWorkerRunsSetupAfterInstall(t *testing.T) {
	fake := proctest.New()
	s := reviewSession()
	s.Identity.Email = "ada@example.com"

	var c install.Collector
	res := testWorker(fake, true).Run(context.Background(), s, &c)

	require.Empty(t, res.Fatal)
	got := phases(c.Events())
	assert.Equal(t, install.PhaseBootstrap, got[0])
	assert.Contains(t, got, setup.PhaseGitHub)
	assert.NotContains(t, got, setup.PhaseConfigs, "configs are off unless WriteConfigs is set")
	assert.Equal(t, len(s.InstallApps()), res.Summary.Total())
}

func TestWorkerWritesConfigsWhenEnabled(t *testing.T) {
	w := testWorker(proctest.New(), true)
	w.WriteConfigs = true

	var c install.Collector
	w.Run(context.Background(), reviewSession(), &c)

	assert.Contains(t, phases(c.Events()), setup.PhaseConfigs)
	ok, err := afero.Exists(w.Fs, "/home/ada/.config/loadstar/init.zsh")
	require.NoError(t, err)
	assert.True(t, ok, "zsh init file should be written")
}

func TestWorkerFatalSkipsSetup(t *testing.T) {
	name, args := proc.Shell(install.BrewInstallCommand)
	fake := proctest.New().On(proc.FormatCommand(name, args...), proctest.Response{
		Code:   1,
		Stderr: []string{"curl: (6) Could not resolve host"},
	})

	var c install.Collector
	res := testWorker(fake, false).Run(context.Background(), reviewSession(), &c)

	assert.Equal(t, "Failed to install Homebrew: curl: (6) Could not resolve host", res.Fatal)
	assert.True(t, res.Summary.Empty())
	assert.Equal(t, []string{install.PhaseBootstrap}, phases(c.Events()))
	assert.False(t, fake.CalledPrefix("git "), "setup must not run after a fatal bootstrap")
}

func TestWorkerSkipsBootstrapWhenDeclined(t *testing.T) {
	fake := proctest.New()
	s := reviewSession()
	s.InstallHomebrew = false

	var c install.Collector
	res := testWorker(fake, false).Run(context.Background(), s, &c)

	assert.Empty(t, res.Fatal)
	assert.False(t, fake.CalledPrefix("/bin/bash -c NONINTERACTIVE=1"))
}

func TestWorkerCancelledSkipsSetup(t *testing.T) {
	fake := proctest.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var c install.Collector
	res := testWorker(fake, true).Run(ctx, reviewSession(), &c)

	assert.True(t, res.Summary.Empty())
	assert.NotContains(t, phases(c.Events()), setup.PhaseGitHub)
	events := c.Events()
	_, isDone := events[len(events)-1].(install.Done)
	assert.True(t, isDone, "a cancelled run still ends with Done")
}

func TestWorkerLaunchReportsOnDone(t *testing.T) {
	run := testWorker(proctest.New(), true).launch(reviewSession())

	select {
	case res := <-run.done:
		assert.Empty(t, res.Fatal)
	case <-time.After(5 * time.Second):
		t.Fatal("worker never finished")
	}
	assert.NotZero(t, run.events.Len())
}

func TestPrinterSkipsProgress(t *testing.T) {
	var buf bytes.Buffer
	p := printer(&buf)
	p.Send(install.ItemStarted{Name: "jq", Command: "brew install jq"})
	p.Send(install.Progress{Completed: 1, Total: 1})
	p.Send(install.Done{Succeeded: 1})

	assert.Equal(t, "[INSTALL] jq (brew install jq)\n[DONE] 1 succeeded, 0 failed, 0 skipped\n", buf.String())
}
