// SPDX-License-Identifier: Apache-2.0

// Package system detects the host environment and runs preflight checks.
package system

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// ErrUnsupportedOS is returned by Detect on anything but macOS and Linux.
var ErrUnsupportedOS = errors.New("unsupported operating system")

type OS string

const (
	MacOS OS = "macos"
	Linux OS = "linux"
)

func (o OS) Name() string {
	switch o {
	case MacOS:
		return "macOS"
	case Linux:
		return "Linux"
	}
	return string(o)
}

type Arch string

const (
	ARM64  Arch = "arm64"
	X86_64 Arch = "x86_64"
)

// PackageManagers holds the path of each package manager found, or "".
type PackageManagers struct {
	Homebrew string
	Cargo    string
	Npm      string
	Pip      string
	Apt      string
}

// Distro is the ID and NAME from /etc/os-release.
type Distro struct {
	ID   string
	Name string
}

// Info describes the machine being set up.
type Info struct {
	OS        OS
	Arch      Arch
	Hostname  string
	Username  string
	Shell     string
	Home      string
	ConfigDir string
	Managers  PackageManagers
	Distro    *Distro
}

// Probe is the set of host lookups Detect depends on.
type Probe struct {
	GOOS     string
	GOARCH   string
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Hostname func() (string, error)
	Username func() string
	Fs       afero.Fs
}

// HostProbe reads the real host.
func HostProbe() Probe {
	return Probe{
		GOOS:     runtime.GOOS,
		GOARCH:   runtime.GOARCH,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Hostname: os.Hostname,
		Username: func() string {
			if u, err := user.Current(); err == nil {
				return u.Username
			}
			return os.Getenv("USER")
		},
		Fs: afero.NewOsFs(),
	}
}

// Detect inspects the current host.
func Detect() (*Info, error) {
	return DetectWith(HostProbe())
}

// DetectWith inspects the host described by p.
func DetectWith(p Probe) (*Info, error) {
	info := &Info{}

	switch p.GOOS {
	case "darwin":
		info.OS = MacOS
	case "linux":
		info.OS = Linux
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, p.GOOS)
	}

	switch p.GOARCH {
	case "arm64":
		info.Arch = ARM64
	case "amd64":
		info.Arch = X86_64
	default:
		return nil, fmt.Errorf("unsupported architecture: %s", p.GOARCH)
	}

	info.Hostname = "unknown"
	if h, err := p.Hostname(); err == nil && h != "" {
		info.Hostname = h
	}
	info.Username = p.Username()

	info.Shell = p.Getenv("SHELL")
	if info.Shell == "" {
		info.Shell = "/bin/zsh"
	}
	info.Home = p.Getenv("HOME")
	info.ConfigDir = p.Getenv("XDG_CONFIG_HOME")
	if info.ConfigDir == "" {
		info.ConfigDir = filepath.Join(info.Home, ".config")
	}

	find := func(names ...string) string {
		for _, n := range names {
			if path, err := p.LookPath(n); err == nil {
				return path
			}
		}
		return ""
	}
	info.Managers = PackageManagers{
		Homebrew: find("brew"),
		Cargo:    find("cargo"),
		Npm:      find("npm"),
		Pip:      find("pip3", "pip"),
		Apt:      find("apt"),
	}
	// A Homebrew that was installed but never added to PATH still counts.
	if info.Managers.Homebrew == "" {
		candidate := filepath.Join(info.BrewPrefix(), "bin", "brew")
		if ok, _ := afero.Exists(p.Fs, candidate); ok {
			info.Managers.Homebrew = candidate
		}
	}

	if info.OS == Linux {
		if f, err := p.Fs.Open("/etc/os-release"); err == nil {
			info.Distro = ParseOSRelease(f)
			f.Close()
		}
	}

	return info, nil
}

// ParseOSRelease reads ID and NAME from an os-release file.
func ParseOSRelease(r io.Reader) *Distro {
	d := &Distro{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "ID":
			d.ID = value
		case "NAME":
			d.Name = value
		}
	}
	return d
}

// BrewPrefix is where Homebrew lives on this platform.
func (i *Info) BrewPrefix() string {
	switch {
	case i.OS == MacOS && i.Arch == ARM64:
		return "/opt/homebrew"
	case i.OS == MacOS:
		return "/usr/local"
	default:
		return "/home/linuxbrew/.linuxbrew"
	}
}

func (i *Info) IsAppleSilicon() bool {
	return i.OS == MacOS && i.Arch == ARM64
}

func (i *Info) HasHomebrew() bool {
	return i.Managers.Homebrew != ""
}

// Describe is a one-line summary such as "macOS arm64 (studio)".
func (i *Info) Describe() string {
	s := fmt.Sprintf("%s %s (%s)", i.OS.Name(), i.Arch, i.Hostname)
	if i.Distro != nil && i.Distro.Name != "" {
		s = fmt.Sprintf("%s %s %s (%s)", i.OS.Name(), i.Distro.Name, i.Arch, i.Hostname)
	}
	return s
}
