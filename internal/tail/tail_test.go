package tail

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tessro/segue/internal/core"
)

func playing(id, title string, progress, length time.Duration) *core.PlaybackState {
	return &core.PlaybackState{
		Track:    &core.Track{ID: core.TrackID(id), Title: title, Album: "Album"},
		State:    core.StatePlaying,
		Volume:   25,
		Progress: progress,
		Length:   length,
	}
}

func types(events []Event) []EventType {
	var out []EventType
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func equalTypes(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDiffStates(t *testing.T) {
	now := time.Now()

	paused := playing("a", "A", time.Second, time.Minute)
	paused.State = core.StatePaused

	louder := playing("a", "A", time.Second, time.Minute)
	louder.Volume = 50

	shuffled := playing("a", "A", time.Second, time.Minute)
	shuffled.Mode = core.ModeShuffle

	stopped := playing("a", "A", 0, time.Minute)
	stopped.State = core.StateStopped

	ending := playing("a", "A", 58*time.Second, time.Minute)
	ending.Starts = 1
	repeated := playing("a", "A", time.Second, time.Minute)
	repeated.Starts = 2
	cutShort := playing("a", "A", 10*time.Second, time.Minute)
	cutShort.Starts = 1

	stoppedOnce := playing("a", "A", 0, time.Minute)
	stoppedOnce.State = core.StateStopped
	stoppedOnce.Starts = 1

	tests := []struct {
		name string
		prev *core.PlaybackState
		curr *core.PlaybackState
		want []EventType
	}{
		{"first poll playing", nil, playing("a", "A", 0, time.Minute), []EventType{EventTrackChange}},
		{"first poll stopped", nil, stopped, nil},
		{"unchanged", playing("a", "A", time.Second, time.Minute), playing("a", "A", 2*time.Second, time.Minute), nil},
		{"skip", playing("a", "A", 10*time.Second, time.Minute), playing("b", "B", 0, time.Minute), []EventType{EventTrackSkip, EventTrackChange}},
		{"complete", playing("a", "A", 59*time.Second, time.Minute), playing("b", "B", 0, time.Minute), []EventType{EventTrackComplete, EventTrackChange}},
		{"pause", playing("a", "A", time.Second, time.Minute), paused, []EventType{EventPause}},
		{"resume", paused, playing("a", "A", time.Second, time.Minute), []EventType{EventResume}},
		{"stop", playing("a", "A", time.Second, time.Minute), stopped, []EventType{EventStop}},
		{"restart after stop", stopped, playing("a", "A", 0, time.Minute), []EventType{EventTrackChange}},
		{"single repeat", ending, repeated, []EventType{EventTrackComplete, EventTrackChange}},
		{"replay same track", cutShort, repeated, []EventType{EventTrackSkip, EventTrackChange}},
		{"replay after stop", stoppedOnce, repeated, []EventType{EventTrackChange}},
		{"same start", repeated, repeated, nil},
		{"volume", playing("a", "A", time.Second, time.Minute), louder, []EventType{EventVolumeChange}},
		{"mode", playing("a", "A", time.Second, time.Minute), shuffled, []EventType{EventModeChange}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(diffStates(tt.prev, tt.curr, now))
			if !equalTypes(got, tt.want) {
				t.Errorf("diffStates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatter(t *testing.T) {
	prev := playing("a", "So What", 10*time.Second, time.Minute)
	curr := playing("b", "Freddie Freeloader", 0, time.Minute)
	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		opts  []FormatterOption
		event Event
		want  string
	}{
		{
			name:  "now playing",
			opts:  []FormatterOption{WithEmoji(false)},
			event: Event{Type: EventTrackChange, Previous: prev, Current: curr},
			want:  "Now playing: Album - Freddie Freeloader",
		},
		{
			name:  "skip names the departing track",
			opts:  []FormatterOption{WithEmoji(false)},
			event: Event{Type: EventTrackSkip, Previous: prev, Current: curr},
			want:  "Skipped: Album - So What",
		},
		{
			name:  "timestamp",
			opts:  []FormatterOption{WithEmoji(false), WithTimestamp(true)},
			event: Event{Type: EventPause, Timestamp: ts, Current: curr},
			want:  "15:04:05 Paused",
		},
		{
			name:  "emoji",
			event: Event{Type: EventResume, Current: curr},
			want:  "▶️ Resumed",
		},
		{
			name:  "template",
			opts:  []FormatterOption{WithTemplate("{{.Type}} {{.Title}} {{.Mode}} {{.Volume}}")},
			event: Event{Type: EventTrackChange, Current: curr},
			want:  "track_change Freddie Freeloader order 25",
		},
		{
			name:  "invalid template falls back",
			opts:  []FormatterOption{WithEmoji(false), WithTemplate("{{.Nope")},
			event: Event{Type: EventStop, Current: curr},
			want:  "Stopped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFormatter(tt.opts...).Format(tt.event)
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatterTemplateProgress(t *testing.T) {
	curr := playing("a", "A", 61500*time.Millisecond, 3*time.Minute)
	f := NewFormatter(WithTemplate("{{.Progress}}/{{.Length}}"))

	got := f.Format(Event{Type: EventTrackChange, Current: curr})
	if got != "1m2s/3m0s" {
		t.Errorf("Format() = %q, want %q", got, "1m2s/3m0s")
	}
}

func TestFormatterMuted(t *testing.T) {
	curr := playing("a", "A", 0, time.Minute)
	curr.Muted = true

	got := NewFormatter(WithEmoji(false)).Format(Event{Type: EventVolumeChange, Current: curr})
	if got != "Muted" {
		t.Errorf("Format() = %q, want %q", got, "Muted")
	}
}

type fakeSource struct {
	mu    sync.Mutex
	state core.PlaybackState
}

func (f *fakeSource) State() core.PlaybackState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSource) set(s core.PlaybackState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}

func TestWatcherRun(t *testing.T) {
	src := &fakeSource{state: *playing("a", "A", 0, time.Minute)}
	w := NewWatcher(src, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := <-w.Events()
	if first.Type != EventTrackChange {
		t.Fatalf("first event = %v, want EventTrackChange", first.Type)
	}

	paused := *playing("a", "A", 0, time.Minute)
	paused.State = core.StatePaused
	src.set(paused)

	select {
	case e := <-w.Events():
		if e.Type != EventPause {
			t.Errorf("event = %v, want EventPause", e.Type)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for pause event")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	for range w.Events() {
	}
}

func TestEventTypeNames(t *testing.T) {
	for et := EventTrackChange; et <= EventModeChange; et++ {
		if et.String() == "unknown" {
			t.Errorf("EventType(%d).String() = unknown", et)
		}
		if strings.TrimSpace(eventEmoji(et)) == "❓" {
			t.Errorf("eventEmoji(%d) has no emoji", et)
		}
	}
}
