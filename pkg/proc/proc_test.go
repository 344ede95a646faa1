// SPDX-License-Identifier: Apache-2.0
package proc

import (
	"context"
	"slices"
	"testing"
)

func TestExecRunnerStreamsAndReportsExitCode(t *testing.T) {
	var out, errs []string
	code, err := ExecRunner{}.Run(context.Background(), func(s Stream, line string) {
		if s == Stderr {
			errs = append(errs, line)
		} else {
			out = append(out, line)
		}
	}, "/bin/sh", "-c", "echo one; echo two; echo bad >&2; exit 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
	if !slices.Equal(out, []string{"one", "two"}) {
		t.Errorf("unexpected stdout %v", out)
	}
	if !slices.Equal(errs, []string{"bad"}) {
		t.Errorf("unexpected stderr %v", errs)
	}
}

func TestExecRunnerSpawnFailure(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), nil, "/nonexistent/loadstar-test-binary")
	if err == nil {
		t.Fatal("expected spawn error")
	}
}

func TestExecRunnerKillsProcessGroup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := ExecRunner{KillProcessGroup: true}

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, func(Stream, string) {
			select {
			case <-started:
			default:
				close(started)
			}
		}, "/bin/sh", "-c", "echo ready; sleep 30")
		done <- err
	}()

	<-started
	cancel()
	if err := <-done; err == nil {
		t.Error("expected context error after kill")
	}
}

func TestOutputCaptures(t *testing.T) {
	c, err := Output(context.Background(), ExecRunner{}, "/bin/sh", "-c", "echo hi; echo first >&2; echo last >&2; echo >&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Success() {
		t.Errorf("expected success, got %d", c.ExitCode)
	}
	if c.StdoutText() != "hi" {
		t.Errorf("unexpected stdout %q", c.StdoutText())
	}
	if c.LastError() != "last" {
		t.Errorf("expected last non-empty stderr line, got %q", c.LastError())
	}
}

func TestFormatCommand(t *testing.T) {
	if got := FormatCommand("brew", "install", "fzf"); got != "brew install fzf" {
		t.Errorf("got %q", got)
	}
	name, args := Shell("echo hi")
	if got := FormatCommand(name, args...); got != "/bin/bash -c echo hi" {
		t.Errorf("got %q", got)
	}
}
