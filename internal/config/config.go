// Package config loads draftkit configuration from file, environment
// and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Backend names accepted by storage.backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds the resolved runtime configuration.
type Config struct {
	// DataDir is where the persisted state lives.
	DataDir string

	// Backend selects the storage backend: file, sqlite or memory.
	Backend string

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string
}

// Load reads config.yaml from the user config directory, then applies
// DRAFTKIT_* environment overrides. A missing config file is fine;
// everything has a default.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "draftkit"))
	}

	v.SetEnvPrefix("DRAFTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("log.level", "warn")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		DataDir:  v.GetString("data_dir"),
		Backend:  v.GetString("storage.backend"),
		LogLevel: v.GetString("log.level"),
	}

	switch cfg.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	return cfg, nil
}

// StatePath returns the backend-specific location of the persisted
// state inside DataDir.
func (c *Config) StatePath() string {
	switch c.Backend {
	case BackendSQLite:
		return filepath.Join(c.DataDir, "draftkit.db")
	default:
		return filepath.Join(c.DataDir, "state.json")
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "draftkit")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".draftkit"
	}
	return filepath.Join(home, ".draftkit")
}
