// Package cli implements the draftkit command line interface. It is
// the UI-glue collaborator: every command goes through the store and
// engine interfaces, never around them.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/draftkit/draftkit/internal/config"
	"github.com/draftkit/draftkit/internal/store"
)

var (
	flagDataDir  string
	flagBackend  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "draftkit",
	Short:         "Manage and render local email templates",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: file, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// openStore builds the configured store. Callers must Close it.
func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	var backend store.Backend
	switch cfg.Backend {
	case config.BackendMemory:
		backend = store.NewMemoryBackend()
	case config.BackendSQLite:
		backend, err = store.NewSQLiteBackend(cfg.StatePath())
		if err != nil {
			return nil, err
		}
	default:
		backend = store.NewFileBackend(cfg.StatePath())
	}

	return store.New(backend, logger), nil
}
