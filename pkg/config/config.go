// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// GitHub repository used for release checks
	GitHubRepo = "Work-Fort/Loadstar"
	GitHubAPI  = "https://api.github.com"

	// Configuration
	EnvPrefix        = "LOADSTAR"
	ConfigFileName   = "config"   // user config file name, without extension
	LocalConfigFile  = "loadstar" // config file name in the current directory, without extension
	ConfigType       = "yaml"
	DefaultConfigExt = ".yaml"
)

// Paths holds the XDG directories loadstar reads and writes.
type Paths struct {
	DataDir   string
	CacheDir  string
	ConfigDir string

	HistoryDB   string // sqlite database of past runs
	LogFile     string // rotated debug log
	ProfileFile string // last confirmed wizard profile
}

// GlobalPaths is the process-wide paths instance.
var GlobalPaths *Paths

func init() {
	GlobalPaths = GetPaths()
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get home directory: %v\n", err)
		os.Exit(1)
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// GetPaths resolves the XDG directories for loadstar.
func GetPaths() *Paths {
	dataDir := filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "loadstar")
	cacheDir := filepath.Join(xdgDir("XDG_CACHE_HOME", ".cache"), "loadstar")
	configDir := filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "loadstar")

	return &Paths{
		DataDir:     dataDir,
		CacheDir:    cacheDir,
		ConfigDir:   configDir,
		HistoryDB:   filepath.Join(dataDir, "history.db"),
		LogFile:     filepath.Join(dataDir, "debug.log"),
		ProfileFile: filepath.Join(configDir, "last-profile.yaml"),
	}
}

// IsLocalMode reports whether ./loadstar.yaml exists in the working directory.
func IsLocalMode() bool {
	_, err := os.Stat(filepath.Join(".", LocalConfigFile+DefaultConfigExt))
	return err == nil
}

// InitDirs creates the data, cache and config directories.
func InitDirs() error {
	for _, dir := range []string{GlobalPaths.ConfigDir, GlobalPaths.DataDir, GlobalPaths.CacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetGitHubToken returns the GitHub token.
// Priority: ENV:LOADSTAR_GITHUB_TOKEN > user config > defaults
func GetGitHubToken() string {
	return viper.GetString("github-token")
}
