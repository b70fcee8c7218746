package core

import "fmt"

// Mode is the playback ordering policy.
type Mode int

const (
	ModeOrder   Mode = iota // Walk the library in row order, wrapping at the end
	ModeSingle              // Repeat the current track
	ModeShuffle             // Pick a random track, avoiding recent ones
)

// String returns the config/CLI spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeShuffle:
		return "shuffle"
	default:
		return "order"
	}
}

// Next returns the mode that follows m when cycling through all modes.
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "order":
		return ModeOrder, nil
	case "single", "repeat":
		return ModeSingle, nil
	case "shuffle", "random":
		return ModeShuffle, nil
	default:
		return ModeOrder, fmt.Errorf("invalid mode: %s (must be order, single, or shuffle)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
