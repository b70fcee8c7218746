package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/tessro/segue/internal/core"
	"github.com/tessro/segue/internal/library"
	"github.com/tessro/segue/internal/sequencer"
)

func fiveTrackLibrary() *library.Library {
	lib := library.New()
	for i := range 5 {
		lib.Add(core.Track{
			ID:    core.TrackID(fmt.Sprintf("id-%d", i)),
			Path:  fmt.Sprintf("/music/t%02d.mp3", i),
			Title: fmt.Sprintf("t%02d", i),
		})
	}
	return lib
}

func TestScheduleGolden(t *testing.T) {
	lib := fiveTrackLibrary()
	engine := sequencer.New(lib, sequencer.Options{
		LookaheadBatch: 3,
		HistoryBatch:   2,
	})

	ops, err := parseOps([]string{
		"next", "next", "select:4", "select:1", "enqueue",
		"next", "next", "next",
		"prev", "prev", "prev",
		"jump:0", "play:3",
		"mode:single", "next", "mode:order",
		"reset", "prev", "next",
		"select:9",
	})
	if err != nil {
		t.Fatalf("parseOps() error = %v", err)
	}

	var buf bytes.Buffer
	renderSchedule(&buf, simulate(lib, engine, ops))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "schedule_order", buf.Bytes())
}

func TestScheduleEnqueueClearsSelection(t *testing.T) {
	lib := fiveTrackLibrary()
	engine := sequencer.New(lib, sequencer.Options{})

	ops, _ := parseOps([]string{"select:2", "enqueue"})
	simulate(lib, engine, ops)

	if n := len(lib.Selected()); n != 0 {
		t.Errorf("Selected() after enqueue has %d tracks, want 0", n)
	}
	if q := engine.Stats().Priority; q != 1 {
		t.Errorf("Priority = %d, want 1", q)
	}
}

func TestParseOps(t *testing.T) {
	tests := []struct {
		spec    string
		want    string
		wantErr bool
	}{
		{"next", "next", false},
		{" Previous ", "prev", false},
		{"jump:12", "jump:12", false},
		{"play:0", "play:0", false},
		{"select:3", "select:3", false},
		{"mode:random", "mode:shuffle", false},
		{"enqueue", "enqueue", false},
		{"reset", "reset", false},
		{"jump", "", true},
		{"jump:-1", "", true},
		{"play:x", "", true},
		{"mode:loop", "", true},
		{"next:2", "", true},
		{"rewind", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			ops, err := parseOps([]string{tt.spec})
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOps(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(ops) != 1 || ops[0].String() != tt.want {
				t.Errorf("parseOps(%q) = %v, want %s", tt.spec, ops, tt.want)
			}
		})
	}
}

func TestParseOpsSkipsBlanks(t *testing.T) {
	ops, err := parseOps([]string{"", "  ", "next"})
	if err != nil {
		t.Fatalf("parseOps() error = %v", err)
	}
	if len(ops) != 1 {
		t.Errorf("len(ops) = %d, want 1", len(ops))
	}
}
