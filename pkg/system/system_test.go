// SPDX-License-Identifier: Apache-2.0
package system

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/Work-Fort/Loadstar/pkg/proc/proctest"
)

func testProbe(goos, goarch string, onPath map[string]string) Probe {
	env := map[string]string{"HOME": "/home/ada", "SHELL": "/usr/bin/fish"}
	return Probe{
		GOOS:   goos,
		GOARCH: goarch,
		Getenv: func(k string) string { return env[k] },
		LookPath: func(name string) (string, error) {
			if p, ok := onPath[name]; ok {
				return p, nil
			}
			return "", exec.ErrNotFound
		},
		Hostname: func() (string, error) { return "", errors.New("no hostname") },
		Username: func() string { return "ada" },
		Fs:       afero.NewMemMapFs(),
	}
}

func TestDetectLinux(t *testing.T) {
	p := testProbe("linux", "amd64", map[string]string{"pip": "/usr/bin/pip", "apt": "/usr/bin/apt"})
	afero.WriteFile(p.Fs, "/etc/os-release", []byte("NAME=\"Ubuntu\"\nID=ubuntu\nVERSION_ID=\"24.04\"\n"), 0o644)

	info, err := DetectWith(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.OS != Linux || info.Arch != X86_64 {
		t.Errorf("unexpected platform %s/%s", info.OS, info.Arch)
	}
	if info.Hostname != "unknown" {
		t.Errorf("expected hostname fallback, got %q", info.Hostname)
	}
	if info.ConfigDir != "/home/ada/.config" {
		t.Errorf("unexpected config dir %q", info.ConfigDir)
	}
	if info.Managers.Pip != "/usr/bin/pip" || info.Managers.Apt != "/usr/bin/apt" {
		t.Errorf("unexpected managers %+v", info.Managers)
	}
	if info.HasHomebrew() {
		t.Error("expected no homebrew")
	}
	if info.Distro == nil || info.Distro.ID != "ubuntu" || info.Distro.Name != "Ubuntu" {
		t.Errorf("unexpected distro %+v", info.Distro)
	}
	if info.BrewPrefix() != "/home/linuxbrew/.linuxbrew" {
		t.Errorf("unexpected brew prefix %s", info.BrewPrefix())
	}
}

func TestDetectMacFindsBrewOffPath(t *testing.T) {
	p := testProbe("darwin", "arm64", nil)
	afero.WriteFile(p.Fs, "/opt/homebrew/bin/brew", []byte("#!/bin/sh"), 0o755)

	info, err := DetectWith(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.IsAppleSilicon() {
		t.Error("expected Apple Silicon")
	}
	if info.Managers.Homebrew != "/opt/homebrew/bin/brew" {
		t.Errorf("expected brew at prefix, got %q", info.Managers.Homebrew)
	}
}

func TestDetectUnsupportedOS(t *testing.T) {
	_, err := DetectWith(testProbe("windows", "amd64", nil))
	if !errors.Is(err, ErrUnsupportedOS) {
		t.Errorf("expected ErrUnsupportedOS, got %v", err)
	}
}

func TestParseOSReleaseTrimsQuotes(t *testing.T) {
	d := ParseOSRelease(strings.NewReader("ID='fedora'\nNAME=\"Fedora Linux\"\n# comment\n"))
	if d.ID != "fedora" || d.Name != "Fedora Linux" {
		t.Errorf("unexpected distro %+v", d)
	}
}

func preflightFor(info *Info, fake *proctest.Fake, free uint64) Preflight {
	return Preflight{
		Info:      info,
		Runner:    fake,
		Fs:        afero.NewMemMapFs(),
		FreeBytes: func(string) (uint64, error) { return free, nil },
	}
}

func findCheck(t *testing.T, r Report, name string) Check {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q missing", name)
	return Check{}
}

func TestPreflightAllGood(t *testing.T) {
	fake := proctest.New()
	fake.On("git --version", proctest.Response{Stdout: []string{"git version 2.45.1"}})
	info := &Info{OS: MacOS, Arch: ARM64, Home: "/Users/ada", Managers: PackageManagers{Homebrew: "/opt/homebrew/bin/brew"}}

	r := preflightFor(info, fake, 200<<30).Run(context.Background())
	if !r.AllPassed() || r.WarnCount() != 0 {
		t.Errorf("expected clean report, got %+v", r.Checks)
	}
	if len(r.Checks) != 6 {
		t.Errorf("expected 6 checks on macOS, got %d", len(r.Checks))
	}
	if c := findCheck(t, r, "Disk space"); c.Detail != "200 GiB available" {
		t.Errorf("unexpected disk detail %q", c.Detail)
	}
}

func TestPreflightFailuresAndWarnings(t *testing.T) {
	fake := proctest.New()
	fake.On("ping -c 1 -W 3 github.com", proctest.Response{Code: 2})
	fake.On("git --version", proctest.Response{Stdout: []string{"git version 2.17.1"}})
	info := &Info{OS: Linux, Arch: X86_64, Home: "/home/ada"}

	r := preflightFor(info, fake, 3<<30).Run(context.Background())
	if r.AllPassed() {
		t.Error("expected failures")
	}
	if r.FailCount() != 2 {
		t.Errorf("expected internet and disk failures, got %d", r.FailCount())
	}
	if c := findCheck(t, r, "Homebrew"); c.Status != StatusWarn {
		t.Errorf("expected homebrew warning, got %s", c.Status)
	}
	if c := findCheck(t, r, "Git"); c.Status != StatusWarn {
		t.Errorf("expected old git warning, got %s: %s", c.Status, c.Detail)
	}
	if fake.Called("xcode-select -p") {
		t.Error("xcode check should only run on macOS")
	}
}

func TestPreflightDiskWarnBand(t *testing.T) {
	info := &Info{OS: Linux, Arch: ARM64, Home: "/home/ada"}
	r := preflightFor(info, proctest.New(), 7<<30).Run(context.Background())
	if c := findCheck(t, r, "Disk space"); c.Status != StatusWarn {
		t.Errorf("expected warning, got %s", c.Status)
	}
}

func TestPreflightHomeNotWritable(t *testing.T) {
	info := &Info{OS: Linux, Arch: ARM64, Home: "/home/ada"}
	p := preflightFor(info, proctest.New(), 50<<30)
	p.Fs = afero.NewReadOnlyFs(afero.NewMemMapFs())

	r := p.Run(context.Background())
	if c := findCheck(t, r, "Home directory"); c.Status != StatusFail {
		t.Errorf("expected failure, got %s", c.Status)
	}
}
