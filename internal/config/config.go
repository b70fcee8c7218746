package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// FileHeader is written at the top of generated config files.
const FileHeader = "# Segue Configuration\n# https://github.com/tessro/segue\n\n"

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.seguerc, $XDG_CONFIG_HOME/segue/config.toml, ~/.config/segue/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath returns where a new config file is created: the XDG config
// location if ~/.seguerc does not already exist.
func DefaultPath() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".seguerc"
	}
	return filepath.Join(xdgConfigHome(home), "segue", "config.toml")
}

func xdgConfigHome(home string) string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(home, ".config")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".seguerc"),
		filepath.Join(xdgConfigHome(home), "segue", "config.toml"),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
// A .env file in the working directory is read first; variables already set
// in the environment win over it.
func applyEnvOverrides(cfg *Config) {
	_ = godotenv.Load()

	// Library
	if v := os.Getenv("SEGUE_LIBRARY_DIRS"); v != "" {
		cfg.Library.Dirs = filepath.SplitList(v)
	}
	if v := os.Getenv("SEGUE_LIBRARY_EXTENSIONS"); v != "" {
		cfg.Library.Extensions = strings.Split(v, ",")
	}
	if v := os.Getenv("SEGUE_LIBRARY_RECURSIVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Library.Recursive = b
		}
	}
	if v := os.Getenv("SEGUE_LIBRARY_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Library.Watch = b
		}
	}

	if v := os.Getenv("SEGUE_LIBRARY_WATCH_DEBOUNCE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Library.WatchDebounce = i
		}
	}

	// Sequencer
	sizes := map[string]*int{
		"SEGUE_SEQUENCER_LOOKAHEAD_CAPACITY": &cfg.Sequencer.LookaheadCapacity,
		"SEGUE_SEQUENCER_LOOKAHEAD_BATCH":    &cfg.Sequencer.LookaheadBatch,
		"SEGUE_SEQUENCER_PRIORITY_CAPACITY":  &cfg.Sequencer.PriorityCapacity,
		"SEGUE_SEQUENCER_HISTORY_CAPACITY":   &cfg.Sequencer.HistoryCapacity,
		"SEGUE_SEQUENCER_HISTORY_BATCH":      &cfg.Sequencer.HistoryBatch,
		"SEGUE_SEQUENCER_SHUFFLE_WINDOW":     &cfg.Sequencer.ShuffleWindow,
	}
	for name, dst := range sizes {
		if v := os.Getenv(name); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				*dst = i
			}
		}
	}

	// Defaults
	if v := os.Getenv("SEGUE_DEFAULTS_VOLUME"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.Volume = i
		}
	}
	if v := os.Getenv("SEGUE_DEFAULTS_MODE"); v != "" {
		cfg.Defaults.Mode = v
	}

	// Audio
	if v := os.Getenv("SEGUE_AUDIO_SAMPLE_RATE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Audio.SampleRate = i
		}
	}
	if v := os.Getenv("SEGUE_AUDIO_BUFFER_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Audio.BufferMS = i
		}
	}

	// TUI
	if v := os.Getenv("SEGUE_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("SEGUE_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("SEGUE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SEGUE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
