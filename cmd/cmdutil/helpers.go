// SPDX-License-Identifier: Apache-2.0
package cmdutil

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/history"
	"github.com/Work-Fort/Loadstar/pkg/system"
)

// IsInteractive checks if stdin is connected to a terminal AND the user wants TUI mode
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && config.GetUseTUI()
}

// TerminalWidth is the width of stdout, or fallback when it is not a terminal.
func TerminalWidth(fallback int) int {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

// OpenHistory opens the history database. It returns a nil store and no
// error when history is disabled.
func OpenHistory(ctx context.Context) (*history.Store, error) {
	if !config.GetHistoryEnabled() {
		log.Debug("history disabled by config")
		return nil, nil
	}
	store, err := history.Open(ctx, config.GlobalPaths.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// DetectSystem inspects the host and logs what it found.
func DetectSystem() (*system.Info, error) {
	info, err := system.Detect()
	if err != nil {
		return nil, err
	}
	log.Debug("system detected", "os", info.OS, "arch", info.Arch, "brew", info.HasHomebrew())
	return info, nil
}
