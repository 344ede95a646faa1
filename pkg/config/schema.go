// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"regexp"
	"slices"
)

// ScopeConstraints are per-scope validation rules for a key.
type ScopeConstraints struct {
	Forbidden  bool     // key cannot be set in this scope
	EnumValues []string // overrides the global EnumValues
	Pattern    string   // overrides the global Pattern
}

// ConfigKeyDefinition describes one configuration key.
type ConfigKeyDefinition struct {
	Key         string // dot notation
	Type        string // "string", "bool", "enum", "int"
	Default     interface{}
	Description string

	EnumValues []string
	Pattern    string
	// Min and Max bound "int" keys when Max > 0.
	Min, Max int
	// Sensitive values are masked in listings.
	Sensitive bool

	// Recommended is the scope a key usually lives in; other placements
	// are allowed and only logged.
	Recommended *ConfigScope

	UserConstraints  *ScopeConstraints
	LocalConstraints *ScopeConstraints
}

func scopePtr(s ConfigScope) *ConfigScope { return &s }

const (
	emailPattern  = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	githubPattern = `^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`
)

// ConfigRegistry holds every known key.
//
// Constraint System:
//   - No constraints: key can be set in any scope with the same rules
//   - Forbidden: key cannot be set in that scope
//   - Scope-specific EnumValues or Pattern: different rules per scope
var ConfigRegistry = map[string]ConfigKeyDefinition{
	"use-tui": {
		Key:         "use-tui",
		Type:        "bool",
		Default:     true,
		Description: "Use the full-screen wizard; false uses plain prompts and log output",
	},

	"log-level": {
		Key:         "log-level",
		Type:        "enum",
		Default:     "info",
		Description: "Debug log verbosity",
		EnumValues:  []string{"disabled", "debug", "info", "warn", "error"},
	},

	"github-token": {
		Key:         "github-token",
		Type:        "string",
		Default:     "",
		Description: "GitHub personal access token for release checks",
		Sensitive:   true,
		Recommended: scopePtr(ScopeUser),
		LocalConstraints: &ScopeConstraints{
			Forbidden: true,
		},
	},

	"identity.name": {
		Key:         "identity.name",
		Type:        "string",
		Default:     "",
		Description: "Full name prefilled on the identity screen",
		Recommended: scopePtr(ScopeUser),
	},

	"identity.email": {
		Key:         "identity.email",
		Type:        "string",
		Default:     "",
		Description: "Email prefilled on the identity screen",
		Pattern:     emailPattern,
		Recommended: scopePtr(ScopeUser),
	},

	"identity.github": {
		Key:         "identity.github",
		Type:        "string",
		Default:     "",
		Description: "GitHub username prefilled on the identity screen",
		Pattern:     githubPattern,
		Recommended: scopePtr(ScopeUser),
	},

	"install.kill-on-abort": {
		Key:         "install.kill-on-abort",
		Type:        "bool",
		Default:     false,
		Description: "Kill the running installer when an install is aborted",
	},

	"install.brew-bootstrap": {
		Key:         "install.brew-bootstrap",
		Type:        "bool",
		Default:     true,
		Description: "Install Homebrew when it is missing",
	},

	"install.tick-interval": {
		Key:         "install.tick-interval",
		Type:        "int",
		Default:     50,
		Description: "Milliseconds between install progress refreshes",
		Min:         MinTickInterval,
		Max:         MaxTickInterval,
	},

	"setup.generate-configs": {
		Key:         "setup.generate-configs",
		Type:        "bool",
		Default:     true,
		Description: "Write starter configs (starship, tmux, shell init) after installing",
	},

	"signing.generate-key": {
		Key:         "signing.generate-key",
		Type:        "bool",
		Default:     false,
		Description: "Generate an OpenPGP signing key when git signing is enabled and none exists",
		Recommended: scopePtr(ScopeUser),
	},

	"history.enabled": {
		Key:         "history.enabled",
		Type:        "bool",
		Default:     true,
		Description: "Record install runs in the history database",
	},

	"update.check": {
		Key:         "update.check",
		Type:        "bool",
		Default:     true,
		Description: "Allow 'version --check' to query GitHub releases",
	},
}

// GetKeyDefinition returns the definition for a key, or nil if not found.
func GetKeyDefinition(key string) *ConfigKeyDefinition {
	if def, ok := ConfigRegistry[key]; ok {
		return &def
	}
	return nil
}

func (d *ConfigKeyDefinition) constraints(scope ConfigScope) *ScopeConstraints {
	if scope == ScopeUser {
		return d.UserConstraints
	}
	return d.LocalConstraints
}

// ValidateKeyScope checks that key may be set in scope.
func ValidateKeyScope(key string, scope ConfigScope) error {
	def := GetKeyDefinition(key)
	if def == nil {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	c := def.constraints(scope)
	if c == nil || !c.Forbidden {
		return nil
	}
	if scope == ScopeUser {
		return fmt.Errorf(
			"key '%s' cannot be set in user config\n\n"+
				"Hint: Remove --global flag:\n"+
				"  loadstar config set %s <value>",
			key, key,
		)
	}
	return fmt.Errorf(
		"key '%s' cannot be set in local config (sensitive setting)\n\n"+
			"Hint: Use --global flag:\n"+
			"  loadstar config set --global %s <value>\n\n"+
			"User config: %s\n"+
			"This setting must NOT be committed to a dotfiles repository.",
		key, key, displayConfigPath(ScopeUser),
	)
}

// ValidateValue checks value against the rules for key in scope.
func ValidateValue(key string, value interface{}, scope ConfigScope) error {
	def := GetKeyDefinition(key)
	if def == nil {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	c := def.constraints(scope)

	switch def.Type {
	case "bool":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("key '%s' must be a boolean", key)
		}

	case "int":
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("key '%s' must be an integer", key)
		}
		if def.Max > 0 && (n < def.Min || n > def.Max) {
			return fmt.Errorf("key '%s' must be between %d and %d (got %d)", key, def.Min, def.Max, n)
		}

	case "string":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("key '%s' must be a string", key)
		}
		pattern := def.Pattern
		if c != nil && c.Pattern != "" {
			pattern = c.Pattern
		}
		// Empty clears a key back to its default.
		if pattern == "" || str == "" {
			return nil
		}
		matched, err := regexp.MatchString(pattern, str)
		if err != nil {
			return fmt.Errorf("pattern validation error: %w", err)
		}
		if !matched {
			return fmt.Errorf("key '%s' value '%s' does not match required format for %s scope",
				key, str, getScopeName(scope))
		}

	case "enum":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("key '%s' must be a string", key)
		}
		enumValues := def.EnumValues
		if c != nil && c.EnumValues != nil {
			enumValues = c.EnumValues
		}
		if !slices.Contains(enumValues, str) {
			return fmt.Errorf("key '%s' must be one of %v in %s scope (got '%s')",
				key, enumValues, getScopeName(scope), str)
		}
	}

	return nil
}
