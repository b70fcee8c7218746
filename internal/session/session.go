// Package session persists the small amount of player state that should
// survive a restart.
package session

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tessro/segue/internal/core"
)

const (
	// DefaultFileName is the default name for the session file.
	DefaultFileName = "session.toml"

	// DefaultVolume is the volume used before anything has been saved.
	DefaultVolume = 25
)

// State is what gets remembered between runs.
type State struct {
	LastDir   string    `toml:"last_dir"`
	ImportDir string    `toml:"import_dir"`
	Volume    int       `toml:"volume"`
	Mode      core.Mode `toml:"mode"`
}

// Default returns the state of a first run.
func Default() State {
	return State{
		Volume: DefaultVolume,
		Mode:   core.ModeOrder,
	}
}

// Store reads and writes a State file.
type Store struct {
	path string
}

// NewStore creates a store at path.
// If path is empty, uses $XDG_STATE_HOME/segue/session.toml
// (~/.local/state/segue/session.toml when unset).
func NewStore(path string) (*Store, error) {
	if path == "" {
		stateDir := os.Getenv("XDG_STATE_HOME")
		if stateDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			stateDir = filepath.Join(home, ".local", "state")
		}
		path = filepath.Join(stateDir, "segue", DefaultFileName)
	}
	return &Store{path: path}, nil
}

// Load reads the saved state. A missing file yields Default.
func (s *Store) Load() (State, error) {
	state := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("failed to read session file: %w", err)
	}

	if _, err := toml.Decode(string(data), &state); err != nil {
		return Default(), fmt.Errorf("failed to parse session file: %w", err)
	}
	state.Volume = min(max(state.Volume, 0), 100)
	return state, nil
}

// Save writes state to disk, readable by the owner only.
func (s *Store) Save(state State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(state); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Exists reports whether a session has been saved before.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the session file.
func (s *Store) Path() string {
	return s.path
}
