// SPDX-License-Identifier: Apache-2.0

// Package proctest provides a scripted proc.Runner for tests.
package proctest

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Work-Fort/Loadstar/pkg/proc"
)

// Response is what the fake returns for one command line.
type Response struct {
	Code   int
	Stdout []string
	Stderr []string
	Err    error
	// Do runs before the response is delivered, for commands whose side
	// effects a test needs, such as files a tool writes.
	Do func()
}

// Fake answers commands from a table keyed by the full command line as
// rendered by proc.FormatCommand. Unknown commands get Default.
type Fake struct {
	Default Response

	mu        sync.Mutex
	responses map[string]Response
	prefixes  []prefixResponse
	calls     []string
}

type prefixResponse struct {
	prefix string
	resp   Response
}

func New() *Fake {
	return &Fake{responses: make(map[string]Response)}
}

// On scripts an exact command line.
func (f *Fake) On(cmdline string, r Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = r
	return f
}

// OnPrefix scripts every command line starting with prefix. Exact entries
// win over prefixes; earlier prefixes win over later ones.
func (f *Fake) OnPrefix(prefix string, r Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixes = append(f.prefixes, prefixResponse{prefix, r})
	return f
}

func (f *Fake) Run(_ context.Context, onLine proc.LineHandler, name string, args ...string) (int, error) {
	cmdline := proc.FormatCommand(name, args...)

	f.mu.Lock()
	f.calls = append(f.calls, cmdline)
	resp, ok := f.responses[cmdline]
	if !ok {
		resp = f.Default
		for _, p := range f.prefixes {
			if strings.HasPrefix(cmdline, p.prefix) {
				resp = p.resp
				break
			}
		}
	}
	f.mu.Unlock()

	if resp.Do != nil {
		resp.Do()
	}
	if resp.Err != nil {
		return -1, resp.Err
	}
	if onLine != nil {
		for _, line := range resp.Stdout {
			onLine(proc.Stdout, line)
		}
		for _, line := range resp.Stderr {
			onLine(proc.Stderr, line)
		}
	}
	return resp.Code, nil
}

// Calls returns every command line run so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Called reports whether cmdline was run.
func (f *Fake) Called(cmdline string) bool {
	return slices.Contains(f.Calls(), cmdline)
}

// CalledPrefix reports whether any command line starting with prefix ran.
func (f *Fake) CalledPrefix(prefix string) bool {
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

var _ proc.Runner = (*Fake)(nil)
