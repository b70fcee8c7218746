package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tessro/segue/internal/config"
	serrors "github.com/tessro/segue/internal/errors"
)

func TestWriteConfigFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segue", "config.toml")

	c := config.Default()
	c.Library.Dirs = []string{"/music"}
	if err := writeConfigFile(path, c); err != nil {
		t.Fatalf("writeConfigFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), config.FileHeader) {
		t.Errorf("config file does not start with header:\n%s", data)
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if len(loaded.Library.Dirs) != 1 || loaded.Library.Dirs[0] != "/music" {
		t.Errorf("Library.Dirs = %v, want [/music]", loaded.Library.Dirs)
	}
}

func TestSetConfigValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[defaults]\nvolume = 40\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := setConfigValue(path, "defaults.mode", "random"); err != nil {
		t.Fatalf("setConfigValue(defaults.mode) error = %v", err)
	}
	if err := setConfigValue(path, "library.recursive", "true"); err != nil {
		t.Fatalf("setConfigValue(library.recursive) error = %v", err)
	}
	if err := setConfigValue(path, "library.dirs", "/a"+string(os.PathListSeparator)+"/b"); err != nil {
		t.Fatalf("setConfigValue(library.dirs) error = %v", err)
	}

	c, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if c.Defaults.Mode != "shuffle" {
		t.Errorf("Defaults.Mode = %q, want %q", c.Defaults.Mode, "shuffle")
	}
	if c.Defaults.Volume != 40 {
		t.Errorf("Defaults.Volume = %d, want 40", c.Defaults.Volume)
	}
	if !c.Library.Recursive {
		t.Error("Library.Recursive = false, want true")
	}
	if len(c.Library.Dirs) != 2 {
		t.Errorf("Library.Dirs = %v, want 2 entries", c.Library.Dirs)
	}
}

func TestSetConfigValueRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	original := []byte("[defaults]\nvolume = 40\n")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		key     string
		value   string
		invalid bool
	}{
		{"unknown key", "audio.device", "x", false},
		{"not a number", "defaults.volume", "loud", false},
		{"bad mode", "defaults.mode", "loop", false},
		{"out of range", "defaults.volume", "150", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setConfigValue(path, tt.key, tt.value)
			if err == nil {
				t.Fatalf("setConfigValue(%s, %s) should fail", tt.key, tt.value)
			}
			if tt.invalid && !errors.Is(err, serrors.ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}

	data, _ := os.ReadFile(path)
	if string(data) != string(original) {
		t.Errorf("config file changed after failed sets:\n%s", data)
	}
}
