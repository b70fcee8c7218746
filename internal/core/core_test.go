package core

import (
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeOrder, false},
		{"order", ModeOrder, false},
		{"single", ModeSingle, false},
		{"repeat", ModeSingle, false},
		{"shuffle", ModeShuffle, false},
		{"random", ModeShuffle, false},
		{"loop", ModeOrder, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModeNextCycles(t *testing.T) {
	m := ModeOrder
	seen := []Mode{m}
	for range 3 {
		m = m.Next()
		seen = append(seen, m)
	}
	want := []Mode{ModeOrder, ModeSingle, ModeShuffle, ModeOrder}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("cycle[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestModeText(t *testing.T) {
	var m Mode
	if err := m.UnmarshalText([]byte("shuffle")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	text, _ := m.MarshalText()
	if string(text) != "shuffle" {
		t.Errorf("MarshalText() = %q, want %q", text, "shuffle")
	}
	if err := m.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText(bogus) should fail")
	}
}

func TestNewTrack(t *testing.T) {
	tr := NewTrack("/music/Kind of Blue/So What.FLAC", 1024)

	if tr.ID == "" {
		t.Error("NewTrack() should assign an ID")
	}
	if tr.Title != "So What" {
		t.Errorf("Title = %q, want %q", tr.Title, "So What")
	}
	if tr.Album != "Kind of Blue" {
		t.Errorf("Album = %q, want %q", tr.Album, "Kind of Blue")
	}
	if tr.Format != FormatFLAC {
		t.Errorf("Format = %q, want %q", tr.Format, FormatFLAC)
	}
	if tr.FileName() != "So What.FLAC" {
		t.Errorf("FileName() = %q, want %q", tr.FileName(), "So What.FLAC")
	}
	if NewTrack("/a.ogg", 0).Format != FormatUnknown {
		t.Error("unknown extension should map to FormatUnknown")
	}
}

func TestQueue(t *testing.T) {
	var nilQueue *Queue
	if !nilQueue.IsEmpty() {
		t.Error("nil queue should be empty")
	}

	q := &Queue{Tracks: []Track{{Title: "a"}, {Title: "b"}, {Title: "c"}}, Queued: 1}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
	if !q.IsQueued(0) || q.IsQueued(1) || q.IsQueued(-1) {
		t.Error("only the first track should report as queued")
	}
}

func TestProgressPercent(t *testing.T) {
	s := &PlaybackState{
		Track:    &Track{Title: "x"},
		Progress: 30 * time.Second,
		Length:   2 * time.Minute,
	}
	if got := s.ProgressPercent(); got != 25 {
		t.Errorf("ProgressPercent() = %v, want 25", got)
	}

	s.Length = 0
	if got := s.ProgressPercent(); got != 0 {
		t.Errorf("ProgressPercent() with no length = %v, want 0", got)
	}
}
