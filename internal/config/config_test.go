package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{
		Sequencer: SequencerConfig{HistoryCapacity: 50},
		Defaults:  DefaultsConfig{Mode: "shuffle"},
	}
	cfg.ApplyDefaults()

	if cfg.Sequencer.HistoryCapacity != 50 {
		t.Errorf("HistoryCapacity = %d, want 50", cfg.Sequencer.HistoryCapacity)
	}
	if cfg.Sequencer.LookaheadCapacity != 300 {
		t.Errorf("LookaheadCapacity = %d, want 300", cfg.Sequencer.LookaheadCapacity)
	}
	if cfg.Defaults.Mode != "shuffle" {
		t.Errorf("Mode = %q, want %q", cfg.Defaults.Mode, "shuffle")
	}
	if cfg.Defaults.Volume != 25 {
		t.Errorf("Volume = %d, want 25", cfg.Defaults.Volume)
	}
	if len(cfg.Library.Extensions) != 3 {
		t.Errorf("Extensions = %v, want 3 defaults", cfg.Library.Extensions)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad volume", func(c *Config) { c.Defaults.Volume = 101 }, "defaults: volume"},
		{"bad mode", func(c *Config) { c.Defaults.Mode = "loop" }, "invalid mode"},
		{"negative capacity", func(c *Config) { c.Sequencer.PriorityCapacity = -1 }, "priority_capacity must be non-negative"},
		{"negative batch", func(c *Config) { c.Sequencer.HistoryBatch = -1 }, "history_batch must be non-negative"},
		{"batch over capacity", func(c *Config) { c.Sequencer.LookaheadBatch = 400 }, "lookahead_batch must not exceed"},
		{"empty extension", func(c *Config) { c.Library.Extensions = []string{"."} }, "invalid extension"},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, "invalid theme"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"negative buffer", func(c *Config) { c.Audio.BufferMS = -5 }, "buffer_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateZeroSizes(t *testing.T) {
	cfg := Default()
	cfg.Sequencer.PriorityCapacity = 0
	cfg.Sequencer.HistoryBatch = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil for zero sizes", err)
	}
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
[library]
dirs = ["/music"]
recursive = true

[sequencer]
shuffle_window = 4

[defaults]
mode = "single"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if len(cfg.Library.Dirs) != 1 || cfg.Library.Dirs[0] != "/music" {
		t.Errorf("Dirs = %v, want [/music]", cfg.Library.Dirs)
	}
	if !cfg.Library.Recursive {
		t.Error("Recursive = false, want true")
	}
	if cfg.Sequencer.ShuffleWindow != 4 {
		t.Errorf("ShuffleWindow = %d, want 4", cfg.Sequencer.ShuffleWindow)
	}
	if cfg.Sequencer.HistoryBatch != 20 {
		t.Errorf("HistoryBatch = %d, want default 20", cfg.Sequencer.HistoryBatch)
	}
	if cfg.Defaults.Mode != "single" {
		t.Errorf("Mode = %q, want %q", cfg.Defaults.Mode, "single")
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[library\n")
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SEGUE_LIBRARY_DIRS", "/a"+string(os.PathListSeparator)+"/b")
	t.Setenv("SEGUE_LIBRARY_WATCH", "true")
	t.Setenv("SEGUE_DEFAULTS_VOLUME", "80")
	t.Setenv("SEGUE_DEFAULTS_MODE", "shuffle")
	t.Setenv("SEGUE_LOG_LEVEL", "debug")
	t.Setenv("SEGUE_AUDIO_SAMPLE_RATE", "not-a-number")
	t.Setenv("SEGUE_LIBRARY_WATCH_DEBOUNCE", "1500")
	t.Setenv("SEGUE_SEQUENCER_LOOKAHEAD_CAPACITY", "50")
	t.Setenv("SEGUE_SEQUENCER_LOOKAHEAD_BATCH", "5")
	t.Setenv("SEGUE_SEQUENCER_PRIORITY_CAPACITY", "8")
	t.Setenv("SEGUE_SEQUENCER_HISTORY_CAPACITY", "40")
	t.Setenv("SEGUE_SEQUENCER_HISTORY_BATCH", "4")
	t.Setenv("SEGUE_SEQUENCER_SHUFFLE_WINDOW", "6")

	cfg, err := LoadFrom(writeConfig(t, "[defaults]\nvolume = 10\n"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if len(cfg.Library.Dirs) != 2 || cfg.Library.Dirs[1] != "/b" {
		t.Errorf("Dirs = %v, want [/a /b]", cfg.Library.Dirs)
	}
	if !cfg.Library.Watch {
		t.Error("Watch = false, want true")
	}
	if cfg.Defaults.Volume != 80 {
		t.Errorf("Volume = %d, want 80", cfg.Defaults.Volume)
	}
	if cfg.Defaults.Mode != "shuffle" {
		t.Errorf("Mode = %q, want %q", cfg.Defaults.Mode, "shuffle")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100 when override is malformed", cfg.Audio.SampleRate)
	}
	if cfg.Library.WatchDebounce != 1500 {
		t.Errorf("WatchDebounce = %d, want 1500", cfg.Library.WatchDebounce)
	}

	seq := cfg.Sequencer
	want := SequencerConfig{
		LookaheadCapacity: 50,
		LookaheadBatch:    5,
		PriorityCapacity:  8,
		HistoryCapacity:   40,
		HistoryBatch:      4,
		ShuffleWindow:     6,
	}
	if seq != want {
		t.Errorf("Sequencer = %+v, want %+v", seq, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SEGUE_LOG_FILE=/tmp/segue.log\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	// Register cleanup, then unset so the .env value is picked up.
	t.Setenv("SEGUE_LOG_FILE", "")
	os.Unsetenv("SEGUE_LOG_FILE")

	cfg, err := LoadFrom(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Log.File != "/tmp/segue.log" {
		t.Errorf("File = %q, want %q", cfg.Log.File, "/tmp/segue.log")
	}
}
