// SPDX-License-Identifier: Apache-2.0
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Bounds for install.tick-interval, in milliseconds.
const (
	MinTickInterval = 10
	MaxTickInterval = 1000
)

// InitViper registers defaults and environment binding.
// Precedence order: ENV > ./loadstar.yaml > user config > defaults
func InitViper() {
	viper.SetConfigType(ConfigType)

	for key, def := range ConfigRegistry {
		viper.SetDefault(key, def.Default)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// LoadConfig reads the user config, then merges ./loadstar.yaml over it.
// Each file found is validated against the registry for its scope.
func LoadConfig() error {
	sources := []struct {
		scope ConfigScope
		dir   string
		name  string
		read  func() error
	}{
		{ScopeUser, GlobalPaths.ConfigDir, ConfigFileName, viper.ReadInConfig},
		{ScopeLocal, ".", LocalConfigFile, viper.MergeInConfig},
	}

	for _, src := range sources {
		viper.SetConfigName(src.name)
		viper.AddConfigPath(src.dir)
		if err := src.read(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return fmt.Errorf("failed to read %s config file: %w", getScopeName(src.scope), err)
		}
		if err := validateConfigFile(src.dir, src.scope); err != nil {
			return err
		}
		warnMisplacedKeys(src.dir, src.scope)
	}
	return nil
}

func GetUseTUI() bool { return viper.GetBool("use-tui") }

func GetLogLevel() string { return viper.GetString("log-level") }

// GetIdentityName is the default full name offered by the wizard.
func GetIdentityName() string { return viper.GetString("identity.name") }

func GetIdentityEmail() string { return viper.GetString("identity.email") }

func GetIdentityGitHub() string { return viper.GetString("identity.github") }

// GetKillOnAbort reports whether aborting an install kills the running
// installer's process group instead of leaving it to finish.
func GetKillOnAbort() bool { return viper.GetBool("install.kill-on-abort") }

// GetBrewBootstrap reports whether a missing Homebrew is installed.
func GetBrewBootstrap() bool { return viper.GetBool("install.brew-bootstrap") }

// GetTickInterval is how often the wizard drains install events, clamped to
// [MinTickInterval, MaxTickInterval] milliseconds.
func GetTickInterval() time.Duration {
	ms := viper.GetInt("install.tick-interval")
	ms = max(MinTickInterval, min(ms, MaxTickInterval))
	return time.Duration(ms) * time.Millisecond
}

func GetGenerateConfigs() bool { return viper.GetBool("setup.generate-configs") }

func GetGenerateSigningKey() bool { return viper.GetBool("signing.generate-key") }

func GetHistoryEnabled() bool { return viper.GetBool("history.enabled") }

func GetUpdateCheck() bool { return viper.GetBool("update.check") }

func configPathFor(configDir string, scope ConfigScope) string {
	if scope == ScopeUser {
		return filepath.Join(configDir, ConfigFileName+DefaultConfigExt)
	}
	return filepath.Join(".", LocalConfigFile+DefaultConfigExt)
}

// validateConfigFile checks every key in one config file against the
// registry for scope.
func validateConfigFile(configDir string, scope ConfigScope) error {
	configPath := configPathFor(configDir, scope)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	v, err := readScopeFile(configPath, false)
	if err != nil {
		return fmt.Errorf("failed to read config file for validation: %w", err)
	}

	for _, key := range flattenKeys(v.AllSettings(), "") {
		if err := ValidateKeyScope(key, scope); err != nil {
			return fmt.Errorf("invalid key in config file %s: %w", configPath, err)
		}
		if err := ValidateValue(key, v.Get(key), scope); err != nil {
			return fmt.Errorf("invalid value in config file %s: %w", configPath, err)
		}
	}
	return nil
}

// warnMisplacedKeys logs, at debug level, keys that sit in a file other
// than the one they usually live in.
func warnMisplacedKeys(configDir string, scope ConfigScope) {
	configPath := configPathFor(configDir, scope)

	v, err := readScopeFile(configPath, false)
	if err != nil {
		return
	}

	for _, key := range flattenKeys(v.AllSettings(), "") {
		def := GetKeyDefinition(key)
		if def == nil || def.Recommended == nil || *def.Recommended == scope {
			continue
		}
		log.Debugf("Key '%s' in %s config (typically in %s config: %s)",
			key, getScopeName(scope), getScopeName(*def.Recommended), displayConfigPath(*def.Recommended))
	}
}

// BindFlags binds the persistent flags that mirror config keys.
func BindFlags(flags *pflag.FlagSet) error {
	for _, name := range []string{"use-tui", "log-level"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
