package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tessro/segue/internal/core"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Library.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("library: %w", err))
	}
	if err := c.Sequencer.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sequencer: %w", err))
	}
	if err := c.Defaults.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if err := c.Audio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks LibraryConfig for errors.
func (c *LibraryConfig) Validate() error {
	for _, ext := range c.Extensions {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			return fmt.Errorf("invalid extension: %q", ext)
		}
	}
	if c.WatchDebounce < 0 {
		return errors.New("watch_debounce must be non-negative")
	}
	return nil
}

// Validate checks SequencerConfig for errors.
func (c *SequencerConfig) Validate() error {
	var errs []error
	sizes := []struct {
		name  string
		value int
	}{
		{"lookahead_capacity", c.LookaheadCapacity},
		{"lookahead_batch", c.LookaheadBatch},
		{"priority_capacity", c.PriorityCapacity},
		{"history_capacity", c.HistoryCapacity},
		{"history_batch", c.HistoryBatch},
	}
	for _, s := range sizes {
		if s.value < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative", s.name))
		}
	}
	if c.LookaheadBatch > c.LookaheadCapacity && c.LookaheadCapacity > 0 {
		errs = append(errs, errors.New("lookahead_batch must not exceed lookahead_capacity"))
	}
	if c.HistoryBatch > c.HistoryCapacity && c.HistoryCapacity > 0 {
		errs = append(errs, errors.New("history_batch must not exceed history_capacity"))
	}
	return errors.Join(errs...)
}

// Validate checks DefaultsConfig for errors.
func (c *DefaultsConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	if _, err := core.ParseMode(c.Mode); err != nil {
		return err
	}
	return nil
}

// Validate checks AudioConfig for errors.
func (c *AudioConfig) Validate() error {
	if c.SampleRate < 0 {
		return errors.New("sample_rate must be positive")
	}
	if c.BufferMS < 0 {
		return errors.New("buffer_ms must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
