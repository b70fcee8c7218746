package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Library: LibraryConfig{
			Extensions:    []string{".flac", ".mp3", ".wav"},
			WatchDebounce: 500,
		},
		Sequencer: SequencerConfig{
			LookaheadCapacity: 300,
			LookaheadBatch:    20,
			PriorityCapacity:  200,
			HistoryCapacity:   200,
			HistoryBatch:      20,
			ShuffleWindow:     10,
		},
		Defaults: DefaultsConfig{
			Volume: 25,
			Mode:   "order",
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			BufferMS:   100,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 250,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Library
	if len(c.Library.Extensions) == 0 {
		c.Library.Extensions = d.Library.Extensions
	}
	if c.Library.WatchDebounce == 0 {
		c.Library.WatchDebounce = d.Library.WatchDebounce
	}

	// Sequencer
	s := &c.Sequencer
	if s.LookaheadCapacity == 0 {
		s.LookaheadCapacity = d.Sequencer.LookaheadCapacity
	}
	if s.LookaheadBatch == 0 {
		s.LookaheadBatch = d.Sequencer.LookaheadBatch
	}
	if s.PriorityCapacity == 0 {
		s.PriorityCapacity = d.Sequencer.PriorityCapacity
	}
	if s.HistoryCapacity == 0 {
		s.HistoryCapacity = d.Sequencer.HistoryCapacity
	}
	if s.HistoryBatch == 0 {
		s.HistoryBatch = d.Sequencer.HistoryBatch
	}
	if s.ShuffleWindow == 0 {
		s.ShuffleWindow = d.Sequencer.ShuffleWindow
	}

	// Defaults
	if c.Defaults.Volume == 0 {
		c.Defaults.Volume = d.Defaults.Volume
	}
	if c.Defaults.Mode == "" {
		c.Defaults.Mode = d.Defaults.Mode
	}

	// Audio
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}
	if c.Audio.BufferMS == 0 {
		c.Audio.BufferMS = d.Audio.BufferMS
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
