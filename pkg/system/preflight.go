// SPDX-License-Identifier: Apache-2.0
package system

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-version"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"

	"github.com/Work-Fort/Loadstar/pkg/proc"
)

// MinGitVersion is the oldest git that understands every key the setup
// step writes (init.defaultBranch arrived in 2.28).
const MinGitVersion = "2.28.0"

const (
	diskPassBytes = 10 << 30
	diskWarnBytes = 5 << 30
)

type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	}
	return "unknown"
}

// Check is the outcome of one preflight check.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// Report is the full preflight result.
type Report struct {
	Checks []Check
}

// AllPassed is true when no check failed. Warnings are allowed.
func (r Report) AllPassed() bool { return r.FailCount() == 0 }

func (r Report) FailCount() int { return r.count(StatusFail) }

func (r Report) WarnCount() int { return r.count(StatusWarn) }

func (r Report) count(s Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == s {
			n++
		}
	}
	return n
}

// Preflight runs the checks for info. Zero-valued fields fall back to the
// real host.
type Preflight struct {
	Info      *Info
	Runner    proc.Runner
	Fs        afero.Fs
	FreeBytes func(path string) (uint64, error)
}

// Run executes every check in display order.
func (p Preflight) Run(ctx context.Context) Report {
	if p.Runner == nil {
		p.Runner = proc.ExecRunner{}
	}
	if p.Fs == nil {
		p.Fs = afero.NewOsFs()
	}
	if p.FreeBytes == nil {
		p.FreeBytes = freeBytes
	}

	checks := []Check{
		p.internet(ctx),
		p.homebrew(),
		p.disk(),
	}
	if p.Info.OS == MacOS {
		checks = append(checks, p.xcode(ctx))
	}
	checks = append(checks, p.homeWritable(), p.git(ctx))

	for _, c := range checks {
		log.Debug("preflight", "check", c.Name, "status", c.Status, "detail", c.Detail)
	}
	return Report{Checks: checks}
}

func (p Preflight) internet(ctx context.Context) Check {
	c := Check{Name: "Internet connectivity"}
	code, err := p.Runner.Run(ctx, nil, "ping", "-c", "1", "-W", "3", "github.com")
	if err != nil || code != 0 {
		c.Status, c.Detail = StatusFail, "Cannot reach github.com - check your connection"
		return c
	}
	c.Status, c.Detail = StatusPass, "Connected"
	return c
}

func (p Preflight) homebrew() Check {
	c := Check{Name: "Homebrew"}
	if p.Info.HasHomebrew() {
		c.Status, c.Detail = StatusPass, "Found at "+p.Info.Managers.Homebrew
		return c
	}
	c.Status, c.Detail = StatusWarn, "Not installed - will be installed during setup"
	return c
}

func (p Preflight) disk() Check {
	c := Check{Name: "Disk space"}
	free, err := p.FreeBytes(p.Info.Home)
	if err != nil {
		c.Status, c.Detail = StatusWarn, "Could not determine available disk space"
		return c
	}
	size := humanize.IBytes(free)
	switch {
	case free >= diskPassBytes:
		c.Status, c.Detail = StatusPass, size+" available"
	case free >= diskWarnBytes:
		c.Status, c.Detail = StatusWarn, "Only "+size+" available - may be tight"
	default:
		c.Status, c.Detail = StatusFail, "Only "+size+" available - need at least 5 GiB"
	}
	return c
}

func (p Preflight) xcode(ctx context.Context) Check {
	c := Check{Name: "Xcode CLT"}
	code, err := p.Runner.Run(ctx, nil, "xcode-select", "-p")
	if err != nil || code != 0 {
		c.Status, c.Detail = StatusWarn, "Not installed - will prompt during Homebrew install"
		return c
	}
	c.Status, c.Detail = StatusPass, "Installed"
	return c
}

func (p Preflight) homeWritable() Check {
	c := Check{Name: "Home directory"}
	probe := filepath.Join(p.Info.Home, ".loadstar_write_test")
	if err := afero.WriteFile(p.Fs, probe, []byte("ok"), 0o644); err != nil {
		c.Status, c.Detail = StatusFail, fmt.Sprintf("%s is not writable: %v", p.Info.Home, err)
		return c
	}
	_ = p.Fs.Remove(probe)
	c.Status, c.Detail = StatusPass, p.Info.Home+" is writable"
	return c
}

var gitVersionRe = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

func (p Preflight) git(ctx context.Context) Check {
	c := Check{Name: "Git"}
	out, err := proc.Output(ctx, p.Runner, "git", "--version")
	if err != nil || !out.Success() {
		c.Status, c.Detail = StatusWarn, "Not installed - will be installed via Homebrew"
		return c
	}
	line := out.StdoutText()

	m := gitVersionRe.FindString(line)
	have, verr := version.NewVersion(m)
	if verr != nil {
		c.Status, c.Detail = StatusPass, line
		return c
	}
	if have.LessThan(version.Must(version.NewVersion(MinGitVersion))) {
		c.Status, c.Detail = StatusWarn, fmt.Sprintf("%s is older than %s - Homebrew will provide a newer git", line, MinGitVersion)
		return c
	}
	c.Status, c.Detail = StatusPass, line
	return c
}

func freeBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
