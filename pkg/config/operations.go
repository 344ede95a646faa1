// SPDX-License-Identifier: Apache-2.0
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ConfigScope selects which config file an operation works on.
type ConfigScope int

const (
	ScopeLocal ConfigScope = iota // ./loadstar.yaml, e.g. kept in a dotfiles repo
	ScopeUser                     // ~/.config/loadstar/config.yaml
)

// ConfigValue is a key with its effective value and where it came from.
type ConfigValue struct {
	Key    string
	Value  interface{}
	Source string
}

// DisplayValue is Value with sensitive keys masked.
func (cv ConfigValue) DisplayValue() interface{} {
	if def := GetKeyDefinition(cv.Key); def != nil && def.Sensitive && cv.Value != "" {
		return "********"
	}
	return cv.Value
}

func getConfigPath(scope ConfigScope) string {
	return configPathFor(GlobalPaths.ConfigDir, scope)
}

func getScopeName(scope ConfigScope) string {
	if scope == ScopeUser {
		return "user"
	}
	return "local"
}

func displayConfigPath(scope ConfigScope) string {
	if scope == ScopeUser {
		return "~/.config/loadstar/" + ConfigFileName + DefaultConfigExt
	}
	return "./" + LocalConfigFile + DefaultConfigExt
}

// DisplayConfigPath is the path shown to users for a scope's config file.
func DisplayConfigPath(scope ConfigScope) string { return displayConfigPath(scope) }

// Keys lists every registered key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(ConfigRegistry))
	for k := range ConfigRegistry {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// readScopeFile loads a single config file into its own viper instance. A
// missing file yields an empty instance when allowMissing is set.
func readScopeFile(path string, allowMissing bool) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(ConfigType)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if allowMissing && (errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)) {
			return v, nil
		}
		return nil, err
	}
	return v, nil
}

// SetConfigValue validates and writes key in the scope's config file.
func SetConfigValue(key, valueStr string, scope ConfigScope) error {
	if err := ValidateKeyScope(key, scope); err != nil {
		return err
	}
	value := parseValueFor(key, valueStr)
	if err := ValidateValue(key, value, scope); err != nil {
		return err
	}

	path := getConfigPath(scope)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v, err := readScopeFile(path, true)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", displayConfigPath(scope), err)
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigValue returns the effective value of key.
func GetConfigValue(key string) (*ConfigValue, error) {
	if GetKeyDefinition(key) == nil && !viper.IsSet(key) {
		return nil, fmt.Errorf("configuration key not found: %s", key)
	}
	return &ConfigValue{Key: key, Value: viper.Get(key), Source: getConfigSource(key)}, nil
}

// UnsetConfigValue removes key, or a whole section, from the scope's file.
func UnsetConfigValue(key string, scope ConfigScope) error {
	path := getConfigPath(scope)
	name := getScopeName(scope)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%s config file does not exist: %s", name, path)
	}
	v, err := readScopeFile(path, false)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if !v.IsSet(key) {
		return fmt.Errorf("key '%s' not found in %s config", key, name)
	}

	settings := v.AllSettings()
	if err := deleteNestedKey(settings, key); err != nil {
		return err
	}

	// viper cannot delete keys, so the remaining settings go into a fresh
	// instance that overwrites the file.
	out := viper.New()
	out.SetConfigType(ConfigType)
	for k, val := range settings {
		out.Set(k, val)
	}
	if err := out.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ListConfigValues returns every effective setting, sorted by key.
func ListConfigValues() ([]ConfigValue, error) {
	keys := flattenKeys(viper.AllSettings(), "")
	slices.Sort(keys)

	values := make([]ConfigValue, 0, len(keys))
	for _, key := range keys {
		values = append(values, ConfigValue{Key: key, Value: viper.Get(key), Source: getConfigSource(key)})
	}
	return values, nil
}

// parseValue turns command-line text into a bool, number or string.
func parseValue(s string) interface{} {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "enable", "enabled":
		return true
	case "false", "no", "off", "disable", "disabled":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// parseValueFor keeps string and enum keys verbatim, so "disabled" stays a
// log level and a numeric GitHub username stays a string.
func parseValueFor(key, s string) interface{} {
	if def := GetKeyDefinition(key); def != nil && (def.Type == "string" || def.Type == "enum") {
		return s
	}
	return parseValue(s)
}

func keyToEnvVar(key string) string {
	return strings.ToUpper(EnvPrefix + "_" + strings.NewReplacer("-", "_", ".", "_").Replace(key))
}

func getConfigSource(key string) string {
	if env := keyToEnvVar(key); os.Getenv(env) != "" {
		return "from ENV: " + env
	}
	for _, scope := range []ConfigScope{ScopeLocal, ScopeUser} {
		if fileHasKey(getConfigPath(scope), key) {
			return "from " + displayConfigPath(scope)
		}
	}
	return "default"
}

func fileHasKey(path, key string) bool {
	v, err := readScopeFile(path, false)
	return err == nil && v.IsSet(key)
}

// deleteNestedKey removes a dot-notation key from a nested map.
func deleteNestedKey(m map[string]interface{}, key string) error {
	parts := strings.Split(key, ".")
	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			return fmt.Errorf("key not found: %s", key)
		}
		current = next
	}
	last := parts[len(parts)-1]
	if _, ok := current[last]; !ok {
		return fmt.Errorf("key not found: %s", key)
	}
	delete(current, last)
	return nil
}

// flattenKeys flattens nested map keys into dot notation.
func flattenKeys(m map[string]interface{}, prefix string) []string {
	var keys []string
	for k, v := range m {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			keys = append(keys, flattenKeys(nested, full)...)
			continue
		}
		keys = append(keys, full)
	}
	return keys
}
