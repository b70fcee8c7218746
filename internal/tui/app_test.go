package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/segue/internal/core"
	"github.com/tessro/segue/internal/library"
	"github.com/tessro/segue/internal/player"
)

type silentOutput struct {
	mu     sync.Mutex
	played []string
	seeks  []time.Duration
}

func (o *silentOutput) Play(t core.Track, _ func()) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.played = append(o.played, t.Title)
	return nil
}
func (o *silentOutput) Pause()        {}
func (o *silentOutput) Resume()       {}
func (o *silentOutput) Stop()         {}
func (o *silentOutput) SetVolume(int) {}
func (o *silentOutput) Seek(pos time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seeks = append(o.seeks, pos)
	return nil
}
func (o *silentOutput) Position() time.Duration { return 0 }
func (o *silentOutput) Duration() time.Duration { return 0 }

func newTestModel(t *testing.T, n int) (Model, *player.Player, *silentOutput) {
	t.Helper()
	lib := library.New()
	for i := range n {
		lib.Add(core.NewTrack(fmt.Sprintf("/music/Album/song%02d.mp3", i), 1))
	}
	out := &silentOutput{}
	p := player.New(lib, out, player.Options{
		Volume: 50,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return NewModel(p, time.Second), p, out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs any resulting command to completion.
func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(key(s))
	m = next.(Model)
	if cmd != nil {
		if msg, ok := cmd().(actionMsg); ok {
			next, _ = m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func TestModel_EnterPlaysCursorRow(t *testing.T) {
	m, _, out := newTestModel(t, 5)

	m = press(t, m, "j")
	m = press(t, m, "j")
	m = press(t, m, "enter")

	if len(out.played) != 1 || out.played[0] != "song02" {
		t.Fatalf("played = %v, want [song02]", out.played)
	}
	if m.state.Row != 2 {
		t.Errorf("state.Row = %d, want 2", m.state.Row)
	}
}

func TestModel_SelectAndQueue(t *testing.T) {
	m, p, out := newTestModel(t, 5)

	m = press(t, m, " ")
	m = press(t, m, "G")
	m = press(t, m, "x")
	m = press(t, m, "a")
	if m.state.Queue.Queued != 1 {
		t.Fatalf("Queued = %d, want 1", m.state.Queue.Queued)
	}

	m = press(t, m, "n")
	if got := out.played; len(got) != 2 || got[1] != "song04" {
		t.Errorf("played = %v, want [song00 song04]", got)
	}
	if len(p.Library().Selected()) != 0 {
		t.Error("selection should be cleared after queueing")
	}
}

func TestModel_QueueWithoutSelectionShowsError(t *testing.T) {
	m, _, _ := newTestModel(t, 2)

	m = press(t, m, "a")
	if m.lastError == nil || !strings.Contains(m.lastError.Error(), "nothing queued") {
		t.Errorf("lastError = %v, want nothing queued", m.lastError)
	}
}

func TestModel_ModeAndVolume(t *testing.T) {
	m, p, _ := newTestModel(t, 2)

	m = press(t, m, "m")
	if p.State().Mode != core.ModeSingle {
		t.Errorf("Mode = %v, want single", p.State().Mode)
	}

	m = press(t, m, "+")
	if m.state.Volume != 55 {
		t.Errorf("Volume = %d, want 55", m.state.Volume)
	}

	m = press(t, m, "M")
	if !m.state.Muted {
		t.Error("Muted = false after M, want true")
	}
}

func TestModel_Find(t *testing.T) {
	m, _, out := newTestModel(t, 12)

	m = press(t, m, "/")
	if !m.showFind {
		t.Fatal("showFind = false after /")
	}
	// Typed keys go straight to the text input; its blink commands are not run.
	for _, r := range "song1" {
		next, _ := m.Update(key(string(r)))
		m = next.(Model)
	}
	if len(m.findResults) != 2 {
		t.Fatalf("findResults = %v, want 2 matches", m.findResults)
	}

	m = press(t, m, "down")
	m = press(t, m, "enter")

	if m.showFind {
		t.Error("find overlay should close after enter")
	}
	if len(out.played) != 1 || out.played[0] != "song11" {
		t.Errorf("played = %v, want [song11]", out.played)
	}
	if m.libraryView.Cursor() != 11 {
		t.Errorf("Cursor() = %d, want 11", m.libraryView.Cursor())
	}
}

func TestModel_Seek(t *testing.T) {
	m, _, out := newTestModel(t, 2)

	m = press(t, m, "right")
	if len(out.seeks) != 0 {
		t.Errorf("seeks while stopped = %v, want none", out.seeks)
	}

	m = press(t, m, " ")
	m = press(t, m, "right")
	m = press(t, m, "left")

	want := []time.Duration{seekStep, 0}
	if len(out.seeks) != len(want) {
		t.Fatalf("seeks = %v, want %v", out.seeks, want)
	}
	for i := range want {
		if out.seeks[i] != want[i] {
			t.Errorf("seeks[%d] = %v, want %v", i, out.seeks[i], want[i])
		}
	}
}

func TestModel_ClearLibrary(t *testing.T) {
	m, p, _ := newTestModel(t, 3)

	m = press(t, m, " ")
	m = press(t, m, "C")

	if n := p.Library().Len(); n != 0 {
		t.Errorf("Library().Len() = %d, want 0", n)
	}
	if m.state.State != core.StateStopped {
		t.Errorf("state = %v, want stopped", m.state.State)
	}
	if len(m.tracks) != 0 {
		t.Errorf("tracks = %d, want 0 after refresh", len(m.tracks))
	}
}

func TestModel_TabCyclesPanels(t *testing.T) {
	m, _, _ := newTestModel(t, 1)

	for range panelCount {
		m = press(t, m, "tab")
	}
	if m.focusedPanel != PanelLibrary {
		t.Errorf("focusedPanel = %d, want library after a full cycle", m.focusedPanel)
	}
}

func TestModel_View(t *testing.T) {
	m, _, _ := newTestModel(t, 3)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"Library (3)", "Now Playing", "Up Next", "History"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
