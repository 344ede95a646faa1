// SPDX-License-Identifier: Apache-2.0

// Package catalog is the static, read-only table of installable apps.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ErrUnknownApp is returned when an app id is not in the catalog.
var ErrUnknownApp = errors.New("unknown app")

// Category groups apps for the selection screens.
type Category int

const (
	CategoryShell Category = iota
	CategoryEditor
	CategoryGit
	CategoryTerminal
	CategoryFileManager
	CategorySearch
	CategorySystem
	CategoryNetwork
	CategoryContainer
	CategoryLanguage
	CategoryDatabase
	CategorySecurity
	CategoryProductivity
	CategoryMedia
	CategoryCloud
	CategoryAI
)

type categoryInfo struct {
	slug string
	name string
	icon string
}

var categories = []categoryInfo{
	CategoryShell:        {"shell", "Shell & Prompt", "🐚"},
	CategoryEditor:       {"editor", "Editors", "✏️"},
	CategoryGit:          {"git", "Git & Version Control", "⎇"},
	CategoryTerminal:     {"terminal", "Terminal Tools", "⌨"},
	CategoryFileManager:  {"file-manager", "File Management", "📁"},
	CategorySearch:       {"search", "Search & Navigation", "🔍"},
	CategorySystem:       {"system", "System Utilities", "⚙️"},
	CategoryNetwork:      {"network", "Network Tools", "🌐"},
	CategoryContainer:    {"container", "Containers & VMs", "📦"},
	CategoryLanguage:     {"language", "Languages & Runtimes", "⟨⟩"},
	CategoryDatabase:     {"database", "Databases", "⛁"},
	CategorySecurity:     {"security", "Security", "🔒"},
	CategoryProductivity: {"productivity", "Productivity", "⚡"},
	CategoryMedia:        {"media", "Media", "🎬"},
	CategoryCloud:        {"cloud", "Cloud & DevOps", "☁️"},
	CategoryAI:           {"ai", "AI & ML Tools", "🤖"},
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	out := make([]Category, len(categories))
	for i := range categories {
		out[i] = Category(i)
	}
	return out
}

func (c Category) valid() bool { return c >= 0 && int(c) < len(categories) }

// Name is the display name.
func (c Category) Name() string {
	if !c.valid() {
		return "Unknown"
	}
	return categories[c].name
}

func (c Category) Icon() string {
	if !c.valid() {
		return "?"
	}
	return categories[c].icon
}

// Slug is the identifier used in catalog.yaml and on the command line.
func (c Category) Slug() string {
	if !c.valid() {
		return ""
	}
	return categories[c].slug
}

func (c Category) String() string { return c.Slug() }

// ParseCategory resolves a slug such as "file-manager".
func ParseCategory(s string) (Category, error) {
	for i, info := range categories {
		if info.slug == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseCategory(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// Method is the install mechanism of a directive.
type Method int

const (
	MethodBrew Method = iota
	MethodBrewCask
	MethodCargo
	MethodNpm
	MethodPip
	MethodGo
	MethodScript
	MethodManual
	MethodApt
)

var methodSlugs = []string{
	MethodBrew:     "brew",
	MethodBrewCask: "brew-cask",
	MethodCargo:    "cargo",
	MethodNpm:      "npm",
	MethodPip:      "pip",
	MethodGo:       "go",
	MethodScript:   "script",
	MethodManual:   "manual",
	MethodApt:      "apt",
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodSlugs) {
		return "unknown"
	}
	return methodSlugs[m]
}

func (m *Method) UnmarshalYAML(value *yaml.Node) error {
	idx := slices.Index(methodSlugs, value.Value)
	if idx < 0 {
		return fmt.Errorf("line %d: unknown install method %q", value.Line, value.Value)
	}
	*m = Method(idx)
	return nil
}

// Directive describes how to install one app. Target is a package name,
// a script URL (MethodScript) or a shell command (MethodManual).
type Directive struct {
	Method Method `yaml:"method"`
	Target string `yaml:"target"`
}

// Command renders the directive as the command a user would type.
func (d Directive) Command() string {
	switch d.Method {
	case MethodBrew:
		return "brew install " + d.Target
	case MethodBrewCask:
		return "brew install --cask " + d.Target
	case MethodCargo:
		return "cargo install " + d.Target
	case MethodNpm:
		return "npm install -g " + d.Target
	case MethodPip:
		return "pip3 install " + d.Target
	case MethodGo:
		return "go install " + d.Target
	case MethodScript:
		return "curl -fsSL " + d.Target + " | sh"
	case MethodManual:
		return d.Target
	case MethodApt:
		return "sudo apt install -y " + d.Target
	}
	return ""
}

// App is one catalog entry.
type App struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Description  string    `yaml:"description"`
	Category     Category  `yaml:"category"`
	Install      Directive `yaml:"install"`
	ConfigFiles  []string  `yaml:"config_files"`
	Dependencies []string  `yaml:"dependencies"`
	Tags         []string  `yaml:"tags"`
	URL          string    `yaml:"url"`
}

func (a App) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

// Load parses a catalog document and checks that ids are unique.
func Load(data []byte) ([]App, error) {
	var apps []App
	if err := yaml.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(apps))
	for _, app := range apps {
		if strings.TrimSpace(app.ID) == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", app.Name)
		}
		if _, dup := seen[app.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", app.ID)
		}
		seen[app.ID] = struct{}{}
	}
	return apps, nil
}

var builtin = sync.OnceValue(func() []App {
	apps, err := Load(catalogYAML)
	if err != nil {
		panic(err)
	}
	return apps
})

// All returns a copy of every app in catalog order.
func All() []App {
	return slices.Clone(builtin())
}

// Lookup finds an app by id.
func Lookup(id string) (App, bool) {
	for _, app := range builtin() {
		if app.ID == id {
			return app, true
		}
	}
	return App{}, false
}

// MustLookup is Lookup returning ErrUnknownApp for a missing id.
func MustLookup(id string) (App, error) {
	app, ok := Lookup(id)
	if !ok {
		return App{}, fmt.Errorf("%w: %s", ErrUnknownApp, id)
	}
	return app, nil
}

func ByCategory(c Category) []App {
	return filter(func(a App) bool { return a.Category == c })
}

func ByTag(tag string) []App {
	return filter(func(a App) bool { return a.HasTag(tag) })
}

// Essential returns the apps preselected for a new session.
func Essential() []App {
	return ByTag("essential")
}

func filter(keep func(App) bool) []App {
	var out []App
	for _, app := range builtin() {
		if keep(app) {
			out = append(out, app)
		}
	}
	return out
}
