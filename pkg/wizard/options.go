// SPDX-License-Identifier: Apache-2.0
package wizard

// option is the display data shared by every choice enum. appID names the
// catalog entry the choice implies, if any.
type option struct {
	name        string
	description string
	appID       string
}

// cycle steps an index through n options with wraparound in both directions.
func cycle(cur, n int, forward bool) int {
	if n <= 0 {
		return 0
	}
	if forward {
		return (cur + 1) % n
	}
	return (cur - 1 + n) % n
}

func lookupOption(table []option, i int) option {
	if i < 0 || i >= len(table) {
		return option{name: "Unknown"}
	}
	return table[i]
}

// SetupType is the broad flavor of machine being configured.
type SetupType int

const (
	SetupPersonal SetupType = iota
	SetupWork
	SetupMinimal
	SetupFull
)

var setupTypes = []option{
	SetupPersonal: {name: "Personal", description: "Personal development machine with all the bells and whistles"},
	SetupWork:     {name: "Work", description: "Professional setup with work-oriented tools"},
	SetupMinimal:  {name: "Minimal", description: "Essential tools only - fast and lean"},
	SetupFull:     {name: "Full", description: "Everything. Maximum power. No compromises."},
}

func AllSetupTypes() []SetupType {
	return []SetupType{SetupPersonal, SetupWork, SetupMinimal, SetupFull}
}

func (s SetupType) Name() string { return lookupOption(setupTypes, int(s)).name }
func (s SetupType) Description() string { return lookupOption(setupTypes, int(s)).description }
func (s SetupType) Cycle(forward bool) SetupType {
	return SetupType(cycle(int(s), len(setupTypes), forward))
}

// Shell is the login shell to configure.
type Shell int

const (
	ShellZsh Shell = iota
	ShellBash
	ShellFish
	ShellNushell
)

var shells = []option{
	ShellZsh:     {name: "Zsh", description: "Feature-rich, highly customizable (recommended)", appID: "zsh"},
	ShellBash:    {name: "Bash", description: "Classic Unix shell, maximum compatibility"},
	ShellFish:    {name: "Fish", description: "Friendly interactive shell with great defaults"},
	ShellNushell: {name: "Nushell", description: "Modern shell with structured data"},
}

func AllShells() []Shell { return []Shell{ShellZsh, ShellBash, ShellFish, ShellNushell} }

func (s Shell) Name() string { return lookupOption(shells, int(s)).name }
func (s Shell) Description() string { return lookupOption(shells, int(s)).description }
func (s Shell) AppID() string { return lookupOption(shells, int(s)).appID }
func (s Shell) Cycle(forward bool) Shell { return Shell(cycle(int(s), len(shells), forward)) }

// Prompt is the prompt theme.
type Prompt int

const (
	PromptStarship Prompt = iota
	PromptPowerlevel10k
	PromptPure
	PromptMinimal
	PromptNone
)

var prompts = []option{
	PromptStarship:      {name: "Starship", description: "Cross-shell prompt, fast & customizable (recommended)", appID: "starship"},
	PromptPowerlevel10k: {name: "Powerlevel10k", description: "Zsh theme with instant prompt"},
	PromptPure:          {name: "Pure", description: "Pretty, minimal and fast prompt"},
	PromptMinimal:       {name: "Minimal", description: "Simple, distraction-free prompt"},
	PromptNone:          {name: "Default", description: "Keep system default"},
}

func AllPrompts() []Prompt {
	return []Prompt{PromptStarship, PromptPowerlevel10k, PromptPure, PromptMinimal, PromptNone}
}

func (p Prompt) Name() string { return lookupOption(prompts, int(p)).name }
func (p Prompt) Description() string { return lookupOption(prompts, int(p)).description }
func (p Prompt) AppID() string { return lookupOption(prompts, int(p)).appID }
func (p Prompt) Cycle(forward bool) Prompt { return Prompt(cycle(int(p), len(prompts), forward)) }

// Terminal is the terminal emulator to install. TerminalKeep installs
// nothing.
type Terminal int

const (
	TerminalKeep Terminal = iota
	TerminalWezTerm
	TerminalAlacritty
	TerminalKitty
	TerminalITerm2
	TerminalGhostty
)

var terminals = []option{
	TerminalKeep:      {name: "Keep Current", description: "Don't install a new terminal"},
	TerminalWezTerm:   {name: "WezTerm", description: "GPU-accelerated with Lua config", appID: "wezterm"},
	TerminalAlacritty: {name: "Alacritty", description: "Minimal, fast, GPU-accelerated", appID: "alacritty"},
	TerminalKitty:     {name: "Kitty", description: "Feature-rich, GPU-accelerated", appID: "kitty"},
	TerminalITerm2:    {name: "iTerm2", description: "macOS classic with many features"},
	TerminalGhostty:   {name: "Ghostty", description: "Native, fast, by Mitchell Hashimoto"},
}

func AllTerminals() []Terminal {
	return []Terminal{TerminalKeep, TerminalWezTerm, TerminalAlacritty, TerminalKitty, TerminalITerm2, TerminalGhostty}
}

func (t Terminal) Name() string { return lookupOption(terminals, int(t)).name }
func (t Terminal) Description() string { return lookupOption(terminals, int(t)).description }
func (t Terminal) AppID() string { return lookupOption(terminals, int(t)).appID }
func (t Terminal) Cycle(forward bool) Terminal {
	return Terminal(cycle(int(t), len(terminals), forward))
}

// Multiplexer is the optional terminal multiplexer; MultiplexerNone means
// no multiplexer.
type Multiplexer int

const (
	MultiplexerTmux Multiplexer = iota
	MultiplexerZellij
	MultiplexerNone
)

var multiplexers = []option{
	MultiplexerTmux:   {name: "Tmux", description: "Classic multiplexer, huge ecosystem", appID: "tmux"},
	MultiplexerZellij: {name: "Zellij", description: "Modern alternative with better defaults", appID: "zellij"},
	MultiplexerNone:   {name: "None", description: "No terminal multiplexer"},
}

func AllMultiplexers() []Multiplexer {
	return []Multiplexer{MultiplexerTmux, MultiplexerZellij, MultiplexerNone}
}

func (m Multiplexer) Name() string { return lookupOption(multiplexers, int(m)).name }
func (m Multiplexer) Description() string { return lookupOption(multiplexers, int(m)).description }
func (m Multiplexer) AppID() string { return lookupOption(multiplexers, int(m)).appID }
func (m Multiplexer) Cycle(forward bool) Multiplexer {
	return Multiplexer(cycle(int(m), len(multiplexers), forward))
}

// Editor is the primary editor.
type Editor int

const (
	EditorNeovim Editor = iota
	EditorHelix
	EditorVSCode
	EditorZed
	EditorNone
)

var editors = []option{
	EditorNeovim: {name: "Neovim", description: "Hyperextensible Vim-based editor", appID: "neovim"},
	EditorHelix:  {name: "Helix", description: "Post-modern modal editor", appID: "helix"},
	EditorVSCode: {name: "VS Code", description: "Popular extensible editor", appID: "vscode"},
	EditorZed:    {name: "Zed", description: "High-performance collaborative editor"},
	EditorNone:   {name: "None", description: "Keep whatever is installed"},
}

func AllEditors() []Editor {
	return []Editor{EditorNeovim, EditorHelix, EditorVSCode, EditorZed, EditorNone}
}

func (e Editor) Name() string { return lookupOption(editors, int(e)).name }
func (e Editor) Description() string { return lookupOption(editors, int(e)).description }
func (e Editor) AppID() string { return lookupOption(editors, int(e)).appID }
func (e Editor) Cycle(forward bool) Editor { return Editor(cycle(int(e), len(editors), forward)) }
