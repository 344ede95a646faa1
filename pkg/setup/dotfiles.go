// SPDX-License-Identifier: Apache-2.0
package setup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/Work-Fort/Loadstar/pkg/install"
	"github.com/Work-Fort/Loadstar/pkg/wizard"
)

const initTemplate = `{{ .Comment }} Generated by loadstar. Edit freely; it will not be overwritten.
{{- if .BrewShellenv }}
{{ .BrewShellenv }}
{{- end }}
{{- range .Hooks }}
{{ . }}
{{- end }}
`

const starshipTOML = `# Generated by loadstar
add_newline = true
command_timeout = 1000

[character]
success_symbol = "[❯](bold green)"
error_symbol = "[❯](bold red)"

[directory]
truncation_length = 3
truncate_to_repo = true

[git_branch]
symbol = " "
`

const tmuxConf = `# Generated by loadstar
set -g mouse on
set -g base-index 1
setw -g pane-base-index 1
set -g renumber-windows on
set -g history-limit 50000
set -g default-terminal "tmux-256color"
set -sg escape-time 10

bind r source-file ~/.tmux.conf \; display "reloaded"
bind | split-window -h -c "#{pane_current_path}"
bind - split-window -v -c "#{pane_current_path}"
`

var tmplInit = template.Must(template.New("init").Parse(initTemplate))

// hookTools are the apps with a shell hook, in the order the hooks load.
var hookTools = []struct {
	id  string
	cmd string // %s is the shell name
}{
	{"mise", "mise activate %s"},
	{"direnv", "direnv hook %s"},
	{"zoxide", "zoxide init %s"},
	{"fzf", "fzf --%s"},
	{"atuin", "atuin init %s"},
	{"starship", "starship init %s"},
}

type shellFlavor struct {
	slug     string // name the tools expect
	ext      string
	rc       string // relative to home, or to the config dir when inConfig
	inConfig bool
	source   string // %s is the init file
	hook     string // %s is the tool command
}

var flavors = map[wizard.Shell]shellFlavor{
	wizard.ShellZsh: {
		slug: "zsh", ext: "zsh", rc: ".zshrc",
		source: `[ -f "%s" ] && source "%s"`, hook: `eval "$(%s)"`,
	},
	wizard.ShellBash: {
		slug: "bash", ext: "bash", rc: ".bashrc",
		source: `[ -f "%s" ] && source "%s"`, hook: `eval "$(%s)"`,
	},
	wizard.ShellFish: {
		slug: "fish", ext: "fish", rc: "fish/config.fish", inConfig: true,
		source: `test -f "%s"; and source "%s"`, hook: `%s | source`,
	},
}

// InitFile is where the generated shell snippet for sh lives.
func (s *Steps) InitFile(sh wizard.Shell) (string, bool) {
	f, ok := flavors[sh]
	if !ok {
		return "", false
	}
	return filepath.Join(s.Env.ConfigDir, "loadstar", "init."+f.ext), true
}

// RenderInit renders the shell snippet for plan.
func (s *Steps) RenderInit(plan Plan) (string, error) {
	f, ok := flavors[plan.Shell.Shell]
	if !ok {
		return "", fmt.Errorf("no init template for %s", plan.Shell.Shell.Name())
	}

	data := struct {
		Comment      string
		BrewShellenv string
		Hooks        []string
	}{Comment: "#"}

	if s.Env.BrewPrefix != "" {
		data.BrewShellenv = fmt.Sprintf(f.hook, filepath.Join(s.Env.BrewPrefix, "bin", "brew")+" shellenv")
	}
	for _, t := range hookTools {
		if t.id == "starship" && plan.Shell.Prompt != wizard.PromptStarship {
			continue
		}
		if t.id != "starship" && !plan.has(t.id) {
			continue
		}
		data.Hooks = append(data.Hooks, fmt.Sprintf(f.hook, fmt.Sprintf(t.cmd, f.slug)))
	}

	var buf bytes.Buffer
	if err := tmplInit.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render init template: %w", err)
	}
	return buf.String(), nil
}

// Configs writes starter configuration files. Existing files are kept.
func (s *Steps) Configs(plan Plan) {
	s.Events.Send(install.PhaseStarted{Phase: PhaseConfigs})

	if plan.Shell.Prompt == wizard.PromptStarship {
		s.writeNew(filepath.Join(s.Env.ConfigDir, "starship.toml"), starshipTOML)
	}
	if plan.Shell.Multiplexer == wizard.MultiplexerTmux {
		s.writeNew(filepath.Join(s.Env.Home, ".tmux.conf"), tmuxConf)
	}
	s.shellInit(plan)

	s.logf("[CONFIG] Configuration files ready")
}

func (s *Steps) shellInit(plan Plan) {
	path, ok := s.InitFile(plan.Shell.Shell)
	if !ok {
		s.logf("[CONFIG] No init snippet for %s; add tool hooks to its config by hand", plan.Shell.Shell.Name())
		return
	}
	body, err := s.RenderInit(plan)
	if err != nil {
		s.logf("[WARN] %v", err)
		return
	}
	if !s.writeNew(path, body) {
		return
	}

	f := flavors[plan.Shell.Shell]
	rc := filepath.Join(s.Env.Home, f.rc)
	if f.inConfig {
		rc = filepath.Join(s.Env.ConfigDir, f.rc)
	}
	existing, err := afero.ReadFile(s.Fs, rc)
	if err != nil && !os.IsNotExist(err) {
		s.logf("[WARN] Could not read %s: %v", s.tilde(rc), err)
		return
	}
	if strings.Contains(string(existing), path) {
		return
	}
	if err := s.Fs.MkdirAll(filepath.Dir(rc), 0o755); err != nil {
		s.logf("[WARN] Could not create %s: %v", s.tilde(filepath.Dir(rc)), err)
		return
	}
	line := "\n" + KeyComment + "\n" + fmt.Sprintf(f.source, path, path) + "\n"
	if err := appendFile(s.Fs, rc, line, 0o644); err != nil {
		s.logf("[WARN] Could not update %s: %v", s.tilde(rc), err)
		return
	}
	s.logf("[CONFIG] Added loadstar init to %s", s.tilde(rc))
}

// writeNew creates path with body unless it exists. It reports whether the
// file is in place afterwards.
func (s *Steps) writeNew(path, body string) bool {
	if ok, _ := afero.Exists(s.Fs, path); ok {
		s.logf("[CONFIG] Kept existing %s", s.tilde(path))
		return true
	}
	if err := s.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logf("[WARN] Could not create %s: %v", s.tilde(filepath.Dir(path)), err)
		return false
	}
	if err := writeFile(s.Fs, path, body, 0o644); err != nil {
		s.logf("[WARN] Could not write %s: %v", s.tilde(path), err)
		return false
	}
	s.logf("[CONFIG] Wrote %s", s.tilde(path))
	return true
}

func writeFile(fs afero.Fs, path, body string, perm os.FileMode) error {
	return afero.WriteFile(fs, path, []byte(body), perm)
}
