package config

// Config is the root configuration structure.
type Config struct {
	Library   LibraryConfig   `toml:"library" json:"library"`
	Sequencer SequencerConfig `toml:"sequencer" json:"sequencer"`
	Defaults  DefaultsConfig  `toml:"defaults" json:"defaults"`
	Audio     AudioConfig     `toml:"audio" json:"audio"`
	TUI       TUIConfig       `toml:"tui" json:"tui"`
	Log       LogConfig       `toml:"log" json:"log"`
}

// LibraryConfig holds music library settings.
type LibraryConfig struct {
	Dirs       []string `toml:"dirs" json:"dirs"`
	Extensions []string `toml:"extensions" json:"extensions"`
	Recursive  bool     `toml:"recursive" json:"recursive"`
	Watch      bool     `toml:"watch" json:"watch"`
	// WatchDebounce is in milliseconds.
	WatchDebounce int `toml:"watch_debounce" json:"watch_debounce"`
}

// SequencerConfig sizes the playback queues.
type SequencerConfig struct {
	LookaheadCapacity int `toml:"lookahead_capacity" json:"lookahead_capacity"`
	LookaheadBatch    int `toml:"lookahead_batch" json:"lookahead_batch"`
	PriorityCapacity  int `toml:"priority_capacity" json:"priority_capacity"`
	HistoryCapacity   int `toml:"history_capacity" json:"history_capacity"`
	HistoryBatch      int `toml:"history_batch" json:"history_batch"`
	ShuffleWindow     int `toml:"shuffle_window" json:"shuffle_window"`
}

// DefaultsConfig holds default playback settings, used until a session
// has been saved.
type DefaultsConfig struct {
	Volume int    `toml:"volume" json:"volume"`
	Mode   string `toml:"mode" json:"mode"`
}

// AudioConfig holds output device settings.
type AudioConfig struct {
	SampleRate int `toml:"sample_rate" json:"sample_rate"`
	// BufferMS is the speaker buffer length in milliseconds.
	BufferMS int `toml:"buffer_ms" json:"buffer_ms"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme" json:"theme"`
	RefreshInterval int    `toml:"refresh_interval" json:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}
