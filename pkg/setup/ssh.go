// SPDX-License-Identifier: Apache-2.0
package setup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/Work-Fort/Loadstar/pkg/system"
)

// KeyComment marks the blocks loadstar appends to files it does not own.
const KeyComment = `# Added by LOAD"*",8,1`

// sshConfigBlock lets macOS remember key passphrases in the keychain. The
// github.com entry pins the key loadstar set up.
const sshConfigBlock = `
` + KeyComment + `
Host github.com
  AddKeysToAgent yes
  UseKeychain yes
  IdentityFile %s

Host *
  AddKeysToAgent yes
  UseKeychain yes
`

func (s *Steps) sshDir() string { return filepath.Join(s.Env.Home, ".ssh") }

// SSHKeyPath is the ed25519 key loadstar looks for and creates.
func (s *Steps) SSHKeyPath() string { return filepath.Join(s.sshDir(), "id_ed25519") }

// ensureSSHKey returns the path of a usable private key, generating one when
// the plan asks for it. An existing ed25519 key wins over an RSA one. It
// returns "" when no key is available.
func (s *Steps) ensureSSHKey(ctx context.Context, plan Plan) string {
	path := s.SSHKeyPath()
	if ok, _ := afero.Exists(s.Fs, path); ok {
		s.logf("[SSH] Found existing key at %s", s.tilde(path))
		s.showPublicKey(path)
		return path
	}
	rsa := filepath.Join(s.sshDir(), "id_rsa")
	if ok, _ := afero.Exists(s.Fs, rsa); ok {
		s.logf("[SSH] Found existing RSA key at %s, skipping generation", s.tilde(rsa))
		s.showPublicKey(rsa)
		return rsa
	}
	if !plan.GenerateSSHKey {
		s.logf("[SSH] No SSH key found, skipping generation")
		return ""
	}

	if err := s.Fs.MkdirAll(s.sshDir(), 0o700); err != nil {
		s.logf("[WARN] Could not create %s: %v", s.tilde(s.sshDir()), err)
		return ""
	}
	// MkdirAll leaves an existing directory's mode alone.
	if err := s.Fs.Chmod(s.sshDir(), 0o700); err != nil {
		log.Debug("chmod ssh dir", "path", s.sshDir(), "err", err)
	}

	comment := plan.Email
	if comment == "" {
		comment = s.Env.Username + "@loadstar"
	}
	s.logf("[SSH] Generating ed25519 key...")
	c, err := s.output(ctx, "ssh-keygen", "-t", "ed25519", "-C", comment, "-f", path, "-N", "")
	if err != nil || !c.Success() {
		s.logf("[WARN] ssh-keygen failed: %s", failure(c, err))
		return ""
	}
	if err := s.Fs.Chmod(path, 0o600); err != nil {
		log.Debug("chmod ssh key", "path", path, "err", err)
	}
	s.logf("[SSH] Generated %s", s.tilde(path))
	s.showPublicKey(path)
	return path
}

// AbbreviateKey shortens a long public key line for the install log.
func AbbreviateKey(pub string) string {
	pub = strings.TrimSpace(pub)
	if len(pub) <= 60 {
		return pub
	}
	return pub[:30] + "..." + pub[len(pub)-20:]
}

func (s *Steps) showPublicKey(keyPath string) {
	data, err := afero.ReadFile(s.Fs, keyPath+".pub")
	if err != nil {
		return
	}
	s.logf("  Public key: %s", AbbreviateKey(string(data)))
}

// ParseAgentSocket extracts SSH_AUTH_SOCK from `ssh-agent -s` output.
func ParseAgentSocket(out string) string {
	for _, stmt := range strings.FieldsFunc(out, func(r rune) bool { return r == ';' || r == '\n' }) {
		if v, ok := strings.CutPrefix(strings.TrimSpace(stmt), "SSH_AUTH_SOCK="); ok {
			return v
		}
	}
	return ""
}

func (s *Steps) addKeyToAgent(ctx context.Context, keyPath string) {
	sock := s.Env.AuthSock
	if sock == "" {
		c, err := s.output(ctx, "ssh-agent", "-s")
		if err != nil || !c.Success() {
			s.logf("[WARN] Could not start ssh-agent: %s", failure(c, err))
			return
		}
		if sock = ParseAgentSocket(c.StdoutText()); sock == "" {
			s.logf("[WARN] Could not find SSH_AUTH_SOCK in ssh-agent output")
			return
		}
		s.logf("[SSH] Started ssh-agent")
	}

	args := []string{"SSH_AUTH_SOCK=" + sock, "ssh-add"}
	if s.Env.OS == system.MacOS {
		args = append(args, "--apple-use-keychain")
	}
	args = append(args, keyPath)

	c, err := s.output(ctx, "env", args...)
	if err != nil || !c.Success() {
		s.logf("[WARN] ssh-add failed: %s", failure(c, err))
		return
	}
	s.logf("[SSH] Key added to agent")

	if s.Env.OS == system.MacOS {
		s.ensureSSHConfig(keyPath)
	}
}

// ensureSSHConfig appends the keychain block to ~/.ssh/config unless the
// file already configures AddKeysToAgent.
func (s *Steps) ensureSSHConfig(keyPath string) {
	path := filepath.Join(s.sshDir(), "config")
	existing, err := afero.ReadFile(s.Fs, path)
	if err != nil && !os.IsNotExist(err) {
		s.logf("[WARN] Could not read %s: %v", s.tilde(path), err)
		return
	}
	if bytes.Contains(existing, []byte("AddKeysToAgent")) {
		s.logf("[SSH] %s already configures the agent", s.tilde(path))
		return
	}
	if err := s.Fs.MkdirAll(s.sshDir(), 0o700); err != nil {
		s.logf("[WARN] Could not create %s: %v", s.tilde(s.sshDir()), err)
		return
	}
	if err := appendFile(s.Fs, path, fmt.Sprintf(sshConfigBlock, keyPath), 0o644); err != nil {
		s.logf("[WARN] Could not update %s: %v", s.tilde(path), err)
		return
	}
	if err := s.Fs.Chmod(path, 0o644); err != nil {
		log.Debug("chmod ssh config", "path", path, "err", err)
	}
	s.logf("[SSH] Updated %s", s.tilde(path))
}

func appendFile(fs afero.Fs, path, text string, perm os.FileMode) error {
	f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
