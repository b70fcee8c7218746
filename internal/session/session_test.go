package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tessro/segue/internal/core"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.toml")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state != Default() {
		t.Errorf("Load() on missing file = %+v, want defaults", state)
	}
	if store.Exists() {
		t.Error("Exists() = true before Save")
	}

	want := State{
		LastDir:   "/music/jazz",
		ImportDir: "/music/inbox",
		Volume:    70,
		Mode:      core.ModeShuffle,
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !store.Exists() {
		t.Error("Exists() = false after Save")
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("File permissions = %o, want 0600", perm)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("mode = \"single\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	store, _ := NewStore(path)
	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.Volume != DefaultVolume {
		t.Errorf("Volume = %d, want %d", state.Volume, DefaultVolume)
	}
	if state.Mode != core.ModeSingle {
		t.Errorf("Mode = %v, want single", state.Mode)
	}
}

func TestLoadClampsVolume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("volume = 400\n"), 0600); err != nil {
		t.Fatal(err)
	}

	store, _ := NewStore(path)
	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.Volume != 100 {
		t.Errorf("Volume = %d, want 100", state.Volume)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("mode = \"sideways\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	store, _ := NewStore(path)
	state, err := store.Load()
	if err == nil {
		t.Fatal("Load() should fail on an invalid mode")
	}
	if state != Default() {
		t.Errorf("Load() on error = %+v, want defaults", state)
	}
}

func TestDefaultPathUsesStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	want := filepath.Join(dir, "segue", DefaultFileName)
	if store.Path() != want {
		t.Errorf("Path() = %q, want %q", store.Path(), want)
	}
}
