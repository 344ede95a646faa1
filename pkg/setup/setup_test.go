// SPDX-License-Identifier: Apache-2.0
package setup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Work-Fort/Loadstar/pkg/install"
	"github.com/Work-Fort/Loadstar/pkg/proc/proctest"
	"github.com/Work-Fort/Loadstar/pkg/system"
	"github.com/Work-Fort/Loadstar/pkg/wizard"
)

const home = "/home/ada"

const pubKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIGq7Lr8m2Xv0TzYw9k1H3pUeRnC4sJdQbFa6oWt5iMx ada@example.com"

type harness struct {
	steps  *Steps
	fake   *proctest.Fake
	events *install.Collector
	fs     afero.Fs
}

func newHarness(os system.OS) *harness {
	h := &harness{
		fake:   proctest.New(),
		events: &install.Collector{},
		fs:     afero.NewMemMapFs(),
	}
	h.steps = &Steps{
		Runner: h.fake,
		Events: h.events,
		Fs:     h.fs,
		Env: Env{
			OS:        os,
			Home:      home,
			ConfigDir: home + "/.config",
			Hostname:  "forge",
			Username:  "ada",
			AuthSock:  "/tmp/agent.sock",
		},
	}
	return h
}

func (h *harness) logs() []string {
	var out []string
	for _, e := range h.events.Events() {
		if l, ok := e.(install.LogLine); ok {
			out = append(out, l.Line)
		}
	}
	return out
}

func (h *harness) logged(substr string) bool {
	return slices.ContainsFunc(h.logs(), func(l string) bool { return strings.Contains(l, substr) })
}

func basePlan() Plan {
	return Plan{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Apps:  []string{"git", "gh"},
		Shell: wizard.ShellConfig{
			Shell:       wizard.ShellZsh,
			Prompt:      wizard.PromptStarship,
			Multiplexer: wizard.MultiplexerTmux,
		},
	}
}

func TestGitSettingsIncludeDeltaOnlyWhenSelected(t *testing.T) {
	keys := func(p Plan) []string {
		var out []string
		for _, kv := range gitSettings(p) {
			out = append(out, kv.key)
		}
		return out
	}

	plan := basePlan()
	assert.NotContains(t, keys(plan), "core.pager")
	assert.Equal(t, "user.name", keys(plan)[0])

	plan.Apps = append(plan.Apps, "delta")
	assert.Contains(t, keys(plan), "core.pager")

	plan.Name = ""
	assert.NotContains(t, keys(plan), "user.name")
}

func TestGitHubPhaseConfiguresGit(t *testing.T) {
	h := newHarness(system.Linux)
	h.steps.GitHub(context.Background(), basePlan())

	events := h.events.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, install.PhaseStarted{Phase: PhaseGitHub}, events[0])

	assert.True(t, h.fake.Called("git config --global user.name Ada Lovelace"))
	assert.True(t, h.fake.Called("git config --global user.email ada@example.com"))
	assert.True(t, h.logged("  git config --global init.defaultBranch = main"))
	assert.Equal(t, "[GIT] Git & GitHub setup complete", h.logs()[len(h.logs())-1])
}

func TestGitConfigFailureIsAWarning(t *testing.T) {
	h := newHarness(system.Linux)
	h.fake.OnPrefix("git config --global pull.rebase", proctest.Response{Code: 1, Stderr: []string{"error: could not lock config file"}})

	h.steps.GitHub(context.Background(), basePlan())

	assert.True(t, h.logged("  [WARN] git config pull.rebase failed: error: could not lock config file"))
	assert.True(t, h.logged("[GIT] Git & GitHub setup complete"))
}

func TestExistingSSHKeyIsReused(t *testing.T) {
	h := newHarness(system.Linux)
	require.NoError(t, afero.WriteFile(h.fs, h.steps.SSHKeyPath(), []byte("key"), 0o600))
	require.NoError(t, afero.WriteFile(h.fs, h.steps.SSHKeyPath()+".pub", []byte(pubKey+"\n"), 0o644))

	plan := basePlan()
	plan.GenerateSSHKey = true
	h.steps.GitHub(context.Background(), plan)

	assert.False(t, h.fake.CalledPrefix("ssh-keygen"))
	assert.True(t, h.logged("[SSH] Found existing key at ~/.ssh/id_ed25519"))
	assert.True(t, h.logged("  Public key: ssh-ed25519 AAAAC3NzaC1lZDI1NT...5iMx ada@example.com"))
	assert.True(t, h.fake.Called("env SSH_AUTH_SOCK=/tmp/agent.sock ssh-add "+h.steps.SSHKeyPath()))
}

func TestExistingRSAKeyIsReused(t *testing.T) {
	h := newHarness(system.Linux)
	rsa := home + "/.ssh/id_rsa"
	require.NoError(t, afero.WriteFile(h.fs, rsa, []byte("key"), 0o600))

	plan := basePlan()
	plan.GenerateSSHKey = true
	assert.Equal(t, rsa, h.steps.ensureSSHKey(context.Background(), plan))
	assert.False(t, h.fake.CalledPrefix("ssh-keygen"))
	assert.True(t, h.logged("[SSH] Found existing RSA key at ~/.ssh/id_rsa, skipping generation"))
}

func TestGeneratedKeyPermissions(t *testing.T) {
	h := newHarness(system.Linux)
	require.NoError(t, h.fs.MkdirAll(home+"/.ssh", 0o755))
	key := h.steps.SSHKeyPath()
	h.fake.On(`ssh-keygen -t ed25519 -C ada@example.com -f /home/ada/.ssh/id_ed25519 -N `, proctest.Response{
		Do: func() {
			_ = afero.WriteFile(h.fs, key, []byte("private"), 0o644)
			_ = afero.WriteFile(h.fs, key+".pub", []byte(pubKey+"\n"), 0o644)
		},
	})

	plan := basePlan()
	plan.GenerateSSHKey = true
	require.Equal(t, key, h.steps.ensureSSHKey(context.Background(), plan))

	dir, err := h.fs.Stat(home + "/.ssh")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dir.Mode().Perm())
	fi, err := h.fs.Stat(key)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	assert.True(t, h.logged("  Public key: ssh-ed25519 AAAAC3NzaC1lZDI1NT...5iMx ada@example.com"))
}

func TestSSHKeyCommentWithoutEmail(t *testing.T) {
	h := newHarness(system.Linux)
	plan := basePlan()
	plan.Email = ""
	plan.GenerateSSHKey = true

	h.steps.ensureSSHKey(context.Background(), plan)
	assert.True(t, h.fake.Called(`ssh-keygen -t ed25519 -C ada@loadstar -f /home/ada/.ssh/id_ed25519 -N `))
}

func TestAbbreviateKey(t *testing.T) {
	assert.Equal(t, "ssh-ed25519 AAAAC3NzaC1lZDI1NT...5iMx ada@example.com", AbbreviateKey(pubKey+"\n"))
	assert.Equal(t, "ssh-ed25519 AAAA ada@forge", AbbreviateKey(" ssh-ed25519 AAAA ada@forge \n"))
}

func TestMissingSSHKeyIsGeneratedWhenRequested(t *testing.T) {
	h := newHarness(system.Linux)
	plan := basePlan()

	h.steps.GitHub(context.Background(), plan)
	assert.False(t, h.fake.CalledPrefix("ssh-keygen"))
	assert.True(t, h.logged("[SSH] No SSH key found, skipping generation"))

	h = newHarness(system.Linux)
	plan.GenerateSSHKey = true
	h.steps.GitHub(context.Background(), plan)
	assert.True(t, h.fake.Called(`ssh-keygen -t ed25519 -C ada@example.com -f /home/ada/.ssh/id_ed25519 -N `))
	assert.True(t, h.logged("[SSH] Generated ~/.ssh/id_ed25519"))
}

func TestParseAgentSocket(t *testing.T) {
	out := "SSH_AUTH_SOCK=/tmp/ssh-XXXX/agent.42; export SSH_AUTH_SOCK;\nSSH_AGENT_PID=43; export SSH_AGENT_PID;\necho Agent pid 43;"
	assert.Equal(t, "/tmp/ssh-XXXX/agent.42", ParseAgentSocket(out))
	assert.Empty(t, ParseAgentSocket("Agent pid 43"))
}

func TestAgentStartedWhenNoSocket(t *testing.T) {
	h := newHarness(system.MacOS)
	h.steps.Env.AuthSock = ""
	h.fake.On("ssh-agent -s", proctest.Response{Stdout: []string{"SSH_AUTH_SOCK=/tmp/new.sock; export SSH_AUTH_SOCK;"}})

	h.steps.addKeyToAgent(context.Background(), "/home/ada/.ssh/id_ed25519")

	assert.True(t, h.fake.Called("env SSH_AUTH_SOCK=/tmp/new.sock ssh-add --apple-use-keychain /home/ada/.ssh/id_ed25519"))
	assert.True(t, h.logged("[SSH] Key added to agent"))
}

func TestMacSSHConfigAppendedOnce(t *testing.T) {
	h := newHarness(system.MacOS)
	h.steps.addKeyToAgent(context.Background(), "/home/ada/.ssh/id_ed25519")
	h.steps.addKeyToAgent(context.Background(), "/home/ada/.ssh/id_ed25519")

	data, err := afero.ReadFile(h.fs, "/home/ada/.ssh/config")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), KeyComment))
	assert.True(t, h.logged("already configures the agent"))
}

func TestMacSSHConfigNamesKeyAndIsReadable(t *testing.T) {
	h := newHarness(system.MacOS)
	h.steps.addKeyToAgent(context.Background(), "/home/ada/.ssh/id_rsa")

	data, err := afero.ReadFile(h.fs, "/home/ada/.ssh/config")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Host github.com\n")
	assert.Contains(t, string(data), "IdentityFile /home/ada/.ssh/id_rsa\n")
	assert.NotContains(t, string(data), "id_ed25519")

	fi, err := h.fs.Stat("/home/ada/.ssh/config")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
}

func TestGHUnauthenticatedSkipsUpload(t *testing.T) {
	h := newHarness(system.Linux)
	h.fake.On("gh auth status", proctest.Response{Code: 1})

	h.steps.setupGH(context.Background(), "/home/ada/.ssh/id_ed25519")

	assert.False(t, h.fake.CalledPrefix("gh ssh-key"))
	assert.False(t, h.fake.Called("gh auth setup-git"))
	assert.True(t, h.logged("gh auth login"))
}

func TestGHMissingSkipsSetup(t *testing.T) {
	h := newHarness(system.Linux)
	h.fake.On("gh --version", proctest.Response{Err: errors.New(`exec: "gh": executable file not found in $PATH`)})

	h.steps.setupGH(context.Background(), "/home/ada/.ssh/id_ed25519")

	assert.Equal(t, []string{"gh --version"}, h.fake.Calls())
	assert.True(t, h.logged("[GH] GitHub CLI not found, skipping auth setup"))
}

func TestGHUploadsKey(t *testing.T) {
	h := newHarness(system.Linux)
	require.NoError(t, afero.WriteFile(h.fs, "/home/ada/.ssh/id_ed25519.pub", []byte(pubKey+"\n"), 0o644))
	h.steps.setupGH(context.Background(), "/home/ada/.ssh/id_ed25519")

	assert.True(t, h.fake.Called("gh ssh-key list"))
	assert.True(t, h.fake.Called(`gh ssh-key add /home/ada/.ssh/id_ed25519.pub --title LOAD"*",8,1 (forge)`))
	assert.True(t, h.logged("[GH] SSH key uploaded to GitHub"))
	assert.True(t, h.fake.Called("gh auth setup-git"))
	assert.True(t, h.logged("[GH] gh is the git credential helper"))
}

func TestGHKeyAlreadyListed(t *testing.T) {
	h := newHarness(system.Linux)
	require.NoError(t, afero.WriteFile(h.fs, "/home/ada/.ssh/id_ed25519.pub", []byte(pubKey+"\n"), 0o644))
	h.fake.On("gh ssh-key list", proctest.Response{Stdout: []string{
		"LOAD\"*\",8,1 (forge)\t" + KeyBody(pubKey) + "\t2026-01-02T10:00:00Z\t101\tauthentication",
	}})

	h.steps.setupGH(context.Background(), "/home/ada/.ssh/id_ed25519")

	assert.False(t, h.fake.CalledPrefix("gh ssh-key add"))
	assert.True(t, h.logged("[GH] SSH key already on GitHub, skipping upload"))
	assert.True(t, h.fake.Called("gh auth setup-git"))
}

func TestGHWithoutPublicKeySkipsUpload(t *testing.T) {
	h := newHarness(system.Linux)
	h.steps.setupGH(context.Background(), "/home/ada/.ssh/id_ed25519")

	assert.False(t, h.fake.CalledPrefix("gh ssh-key"))
	assert.True(t, h.logged("[GH] No public key at ~/.ssh/id_ed25519.pub, skipping upload"))
	assert.True(t, h.fake.Called("gh auth setup-git"))
}

func TestGHKeyAlreadyRegistered(t *testing.T) {
	h := newHarness(system.Linux)
	require.NoError(t, afero.WriteFile(h.fs, "/home/ada/.ssh/id_ed25519.pub", []byte(pubKey+"\n"), 0o644))
	h.fake.OnPrefix("gh ssh-key add", proctest.Response{Code: 1, Stderr: []string{"HTTP 422: key is already in use"}})

	h.steps.setupGH(context.Background(), "/home/ada/.ssh/id_ed25519")
	assert.True(t, h.logged("[GH] SSH key already registered with GitHub"))
}

func TestGHSkippedWhenNotSelected(t *testing.T) {
	h := newHarness(system.Linux)
	plan := basePlan()
	plan.Apps = []string{"git"}

	h.steps.GitHub(context.Background(), plan)
	assert.False(t, h.fake.CalledPrefix("gh "))
}

func TestParseSecretKeyID(t *testing.T) {
	out := `/home/ada/.gnupg/pubring.kbx
------------------------------
sec   ed25519/abcdef1234567890 2024-01-01 [SC]
      0123456789ABCDEF0123456789ABCDEF01234567
uid                 [ultimate] Ada Lovelace <ada@example.com>
ssb   cv25519/1111222233334444 2024-01-01 [E]`

	assert.Equal(t, "ABCDEF1234567890", ParseSecretKeyID(out))
	assert.Empty(t, ParseSecretKeyID("gpg: no secret keys"))
}

func TestSigningUsesExistingKey(t *testing.T) {
	h := newHarness(system.Linux)
	h.fake.On("gpg --list-secret-keys --keyid-format=long ada@example.com", proctest.Response{
		Stdout: []string{"sec   ed25519/ABCDEF1234567890 2024-01-01 [SC]"},
	})

	plan := basePlan()
	plan.SetupGitSigning = true
	h.steps.setupSigning(context.Background(), plan)

	assert.True(t, h.fake.Called("git config --global user.signingkey ABCDEF1234567890"))
	assert.True(t, h.fake.Called("git config --global commit.gpgsign true"))
	assert.True(t, h.logged("[GPG] Commits will be signed with ABCDEF1234567890"))
}

func TestSigningPicksKeyForPlanEmail(t *testing.T) {
	h := newHarness(system.Linux)
	h.fake.On("gpg --list-secret-keys --keyid-format=long", proctest.Response{Stdout: []string{
		"sec   ed25519/AAAAAAAAAAAAAAAA 2023-01-01 [SC]",
		"uid                 [ultimate] Work <ada@work.example>",
		"sec   ed25519/BBBBBBBBBBBBBBBB 2024-01-01 [SC]",
		"uid                 [ultimate] Ada Lovelace <ada@example.com>",
	}})
	h.fake.On("gpg --list-secret-keys --keyid-format=long ada@example.com", proctest.Response{Stdout: []string{
		"sec   ed25519/BBBBBBBBBBBBBBBB 2024-01-01 [SC]",
		"uid                 [ultimate] Ada Lovelace <ada@example.com>",
	}})

	plan := basePlan()
	plan.SetupGitSigning = true
	h.steps.setupSigning(context.Background(), plan)

	require.NotEmpty(t, h.fake.Calls())
	assert.Equal(t, "gpg --version", h.fake.Calls()[0])
	assert.True(t, h.fake.Called("git config --global user.signingkey BBBBBBBBBBBBBBBB"))
	assert.False(t, h.fake.Called("git config --global user.signingkey AAAAAAAAAAAAAAAA"))
}

func TestSigningWhenNoKeyMatchesEmail(t *testing.T) {
	h := newHarness(system.Linux)
	h.fake.On("gpg --list-secret-keys --keyid-format=long ada@example.com", proctest.Response{
		Code:   2,
		Stderr: []string{`gpg: error reading key: No secret key`},
	})

	plan := basePlan()
	plan.SetupGitSigning = true
	h.steps.setupSigning(context.Background(), plan)

	assert.False(t, h.fake.CalledPrefix("git config --global user.signingkey"))
	assert.True(t, h.logged("gpg --full-generate-key"))
}

func TestSigningWithoutKeyOrGeneration(t *testing.T) {
	h := newHarness(system.Linux)
	plan := basePlan()
	plan.SetupGitSigning = true

	h.steps.setupSigning(context.Background(), plan)
	assert.False(t, h.fake.CalledPrefix("git config --global user.signingkey"))
	assert.True(t, h.logged("gpg --full-generate-key"))
}

func TestSigningWhenGPGMissing(t *testing.T) {
	h := newHarness(system.Linux)
	h.fake.OnPrefix("gpg ", proctest.Response{Err: errors.New(`exec: "gpg": executable file not found in $PATH`)})

	h.steps.setupSigning(context.Background(), basePlan())
	assert.True(t, h.logged("[WARN] gpg is not available"))
	assert.False(t, h.fake.CalledPrefix("gpg --list-secret-keys"))
}

func TestGenerateSigningKey(t *testing.T) {
	armored, info, err := GenerateSigningKey("Ada Lovelace", "ada@example.com", 0)
	require.NoError(t, err)
	assert.Contains(t, armored, "BEGIN PGP PRIVATE KEY BLOCK")
	assert.Len(t, info.KeyID, 16)
	assert.Equal(t, "Ada Lovelace <ada@example.com>", info.UserID())
	assert.True(t, info.Expires.IsZero())

	again, err := InspectKey([]byte(armored))
	require.NoError(t, err)
	assert.Equal(t, info.Fingerprint, again.Fingerprint)

	_, _, err = GenerateSigningKey("", "ada@example.com", 0)
	assert.Error(t, err)
}

func TestGeneratedKeyIsImported(t *testing.T) {
	h := newHarness(system.Linux)
	plan := basePlan()
	plan.SetupGitSigning = true
	plan.GenerateSigningKey = true

	h.steps.setupSigning(context.Background(), plan)

	keyFile := filepath.Join(home, ".config", "loadstar", "signing-key.asc")
	assert.True(t, h.fake.Called("gpg --batch --import "+keyFile))
	assert.True(t, h.fake.CalledPrefix("git config --global user.signingkey "))
	exists, _ := afero.Exists(h.fs, keyFile)
	assert.False(t, exists, "private key file should be removed after import")
}

func TestRenderInitZsh(t *testing.T) {
	h := newHarness(system.MacOS)
	h.steps.Env.BrewPrefix = "/opt/homebrew"
	plan := basePlan()
	plan.Apps = append(plan.Apps, "zoxide", "fzf")

	body, err := h.steps.RenderInit(plan)
	require.NoError(t, err)

	want := `# Generated by loadstar. Edit freely; it will not be overwritten.
eval "$(/opt/homebrew/bin/brew shellenv)"
eval "$(zoxide init zsh)"
eval "$(fzf --zsh)"
eval "$(starship init zsh)"
`
	assert.Equal(t, want, body)
}

func TestRenderInitFish(t *testing.T) {
	h := newHarness(system.Linux)
	plan := basePlan()
	plan.Shell.Shell = wizard.ShellFish
	plan.Shell.Prompt = wizard.PromptPure
	plan.Apps = []string{"direnv"}

	body, err := h.steps.RenderInit(plan)
	require.NoError(t, err)
	assert.Contains(t, body, "direnv hook fish | source")
	assert.NotContains(t, body, "starship")

	plan.Shell.Shell = wizard.ShellNushell
	_, err = h.steps.RenderInit(plan)
	assert.Error(t, err)
}

func TestConfigsWriteOnceAndKeepExisting(t *testing.T) {
	h := newHarness(system.Linux)
	require.NoError(t, afero.WriteFile(h.fs, home+"/.tmux.conf", []byte("set -g mouse off\n"), 0o644))

	plan := basePlan()
	h.steps.Configs(plan)
	h.steps.Configs(plan)

	tmux, err := afero.ReadFile(h.fs, home+"/.tmux.conf")
	require.NoError(t, err)
	assert.Equal(t, "set -g mouse off\n", string(tmux))

	starship, err := afero.ReadFile(h.fs, home+"/.config/starship.toml")
	require.NoError(t, err)
	assert.Contains(t, string(starship), "[character]")

	rc, err := afero.ReadFile(h.fs, home+"/.zshrc")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(rc), KeyComment))
	assert.Equal(t, 1, strings.Count(string(rc), `source "`))

	assert.True(t, h.logged("[CONFIG] Kept existing ~/.tmux.conf"))
	assert.True(t, h.logged("[CONFIG] Added loadstar init to ~/.zshrc"))
}

func TestRunSkipsConfigsWhenDisabled(t *testing.T) {
	h := newHarness(system.Linux)
	h.steps.Run(context.Background(), basePlan())

	for _, e := range h.events.Events() {
		if p, ok := e.(install.PhaseStarted); ok {
			assert.NotEqual(t, PhaseConfigs, p.Phase)
		}
	}
	exists, _ := afero.Exists(h.fs, home+"/.zshrc")
	assert.False(t, exists)
}

func TestPlanFromSession(t *testing.T) {
	s := wizard.NewSession()
	s.ClearSelection()
	s.ToggleApp("gh")
	s.Identity.Email = "ada@example.com"

	plan := PlanFromSession(s)
	assert.Equal(t, "ada@example.com", plan.Email)
	assert.True(t, plan.has("gh"))
	assert.True(t, plan.has("zsh"), "shell choices should be part of the plan")
	assert.True(t, plan.WriteConfigs)
}
