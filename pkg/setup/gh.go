// SPDX-License-Identifier: Apache-2.0
package setup

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// KeyTitle is the title an uploaded SSH key gets on GitHub.
func (s *Steps) KeyTitle() string {
	return fmt.Sprintf(`LOAD"*",8,1 (%s)`, s.Env.Hostname)
}

// setupGH checks GitHub CLI auth, prefers SSH for git operations, uploads
// the public key unless GitHub already has it and makes gh the git
// credential helper.
func (s *Steps) setupGH(ctx context.Context, keyPath string) {
	if c, err := s.output(ctx, "gh", "--version"); err != nil || !c.Success() {
		s.logf("[GH] GitHub CLI not found, skipping auth setup")
		return
	}
	c, err := s.output(ctx, "gh", "auth", "status")
	if err != nil || !c.Success() {
		s.logf("[GH] Not authenticated. Run 'gh auth login --protocol ssh --web' after setup to connect GitHub")
		return
	}
	s.logf("[GH] GitHub CLI authenticated")

	if c, err := s.output(ctx, "gh", "config", "set", "git_protocol", "ssh"); err != nil || !c.Success() {
		s.logf("  [WARN] gh config set git_protocol failed: %s", failure(c, err))
	}
	if keyPath != "" {
		s.uploadSSHKey(ctx, keyPath)
	}
	if c, err := s.output(ctx, "gh", "auth", "setup-git"); err != nil || !c.Success() {
		s.logf("  [WARN] gh auth setup-git failed: %s", failure(c, err))
		return
	}
	s.logf("[GH] gh is the git credential helper")
}

// KeyBody is the base64 field of an OpenSSH public key line.
func KeyBody(pub string) string {
	fields := strings.Fields(pub)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

func (s *Steps) uploadSSHKey(ctx context.Context, keyPath string) {
	pubPath := keyPath + ".pub"
	pub, err := afero.ReadFile(s.Fs, pubPath)
	if err != nil {
		s.logf("[GH] No public key at %s, skipping upload", s.tilde(pubPath))
		return
	}

	body := KeyBody(string(pub))
	if c, err := s.output(ctx, "gh", "ssh-key", "list"); err == nil && c.Success() &&
		body != "" && strings.Contains(c.StdoutText(), body) {
		s.logf("[GH] SSH key already on GitHub, skipping upload")
		return
	}

	c, err := s.output(ctx, "gh", "ssh-key", "add", pubPath, "--title", s.KeyTitle())
	switch {
	case err == nil && c.Success():
		s.logf("[GH] SSH key uploaded to GitHub")
	case err == nil && strings.Contains(strings.ToLower(c.StderrText()), "already"):
		s.logf("[GH] SSH key already registered with GitHub")
	default:
		s.logf("[WARN] gh ssh-key add failed: %s", failure(c, err))
	}
}
