// SPDX-License-Identifier: Apache-2.0

// Package proc runs external programs and streams their output line by line.
package proc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
)

// Stream identifies which output stream a line came from.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// LineHandler receives one output line without its trailing newline. A
// Runner never calls it concurrently.
type LineHandler func(stream Stream, line string)

// Runner spawns a program and blocks until it exits. The returned error is
// non-nil only when the program could not be run at all; a non-zero exit is
// reported through the exit code.
type Runner interface {
	Run(ctx context.Context, onLine LineHandler, name string, args ...string) (int, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	// KillProcessGroup starts each program in its own process group and
	// kills the whole group when ctx is cancelled. When false, cancellation
	// is ignored and the program runs to completion.
	KillProcessGroup bool
	// Env is appended to the inherited environment.
	Env []string
}

func (r ExecRunner) Run(ctx context.Context, onLine LineHandler, name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	if r.KillProcessGroup {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return -1, err
	}
	log.Debug("process started", "cmd", name, "args", args, "pid", cmd.Process.Pid)

	var mu sync.Mutex
	emit := func(stream Stream, line string) {
		if onLine == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		onLine(stream, line)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		streamLines(stdout, Stdout, emit)
	}()
	go func() {
		defer wg.Done()
		streamLines(stderr, Stderr, emit)
	}()

	stop := make(chan struct{})
	if r.KillProcessGroup && ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				log.Debug("killing process group", "cmd", name, "pid", cmd.Process.Pid)
				_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			case <-stop:
			}
		}()
	}

	wg.Wait()
	waitErr := cmd.Wait()
	close(stop)

	if waitErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if r.KillProcessGroup && ctx != nil && ctx.Err() != nil {
			return exitErr.ExitCode(), ctx.Err()
		}
		return exitErr.ExitCode(), nil
	}
	return -1, waitErr
}

func streamLines(r io.Reader, stream Stream, emit func(Stream, string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		emit(stream, scanner.Text())
	}
	// Drain so the child never blocks on a full pipe after a scan error.
	_, _ = io.Copy(io.Discard, r)
}

// Shell returns the program and arguments that run command under bash.
func Shell(command string) (string, []string) {
	return "/bin/bash", []string{"-c", command}
}

// FormatCommand renders a command line for logs.
func FormatCommand(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// Captured is the complete result of a program run by Output.
type Captured struct {
	ExitCode int
	Stdout   []string
	Stderr   []string
}

func (c Captured) Success() bool { return c.ExitCode == 0 }

// StdoutText joins the stdout lines with newlines.
func (c Captured) StdoutText() string { return strings.Join(c.Stdout, "\n") }

// StderrText joins the stderr lines with newlines.
func (c Captured) StderrText() string { return strings.Join(c.Stderr, "\n") }

// LastError is the last non-empty stderr line, or "".
func (c Captured) LastError() string {
	for i := len(c.Stderr) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(c.Stderr[i]); line != "" {
			return line
		}
	}
	return ""
}

// Output runs a program and captures both streams.
func Output(ctx context.Context, r Runner, name string, args ...string) (Captured, error) {
	var c Captured
	code, err := r.Run(ctx, func(stream Stream, line string) {
		if stream == Stderr {
			c.Stderr = append(c.Stderr, line)
		} else {
			c.Stdout = append(c.Stdout, line)
		}
	}, name, args...)
	c.ExitCode = code
	return c, err
}
