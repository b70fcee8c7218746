// Package tail turns successive playback snapshots into a stream of events
// for line-oriented output.
package tail

import (
	"context"
	"time"

	"github.com/tessro/segue/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventStop
	EventVolumeChange
	EventModeChange
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
}

// StateSource is anything that can report a playback snapshot.
type StateSource interface {
	State() core.PlaybackState
}

// Watcher polls a player for state changes and emits events.
type Watcher struct {
	player   StateSource
	interval time.Duration
	events   chan Event
}

// NewWatcher creates a new state watcher.
func NewWatcher(player StateSource, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		player:   player,
		interval: interval,
		events:   make(chan Event, 16),
	}
}

// Events returns the channel of playback events. It is closed when Run
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var prev *core.PlaybackState

	for {
		curr := w.player.State()
		for _, e := range diffStates(prev, &curr, time.Now()) {
			select {
			case w.events <- e:
			default:
				// Drop event if channel is full
			}
		}
		prev = &curr

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// diffStates compares two states and returns detected events.
func diffStates(prev, curr *core.PlaybackState, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	event := func(t EventType) Event {
		return Event{Type: t, Timestamp: now, Previous: prev, Current: curr}
	}

	// First poll - no previous state
	if prev == nil {
		if curr.HasTrack() && curr.State != core.StateStopped {
			return []Event{event(EventTrackChange)}
		}
		return nil
	}

	var events []Event

	if trackChanged(prev, curr) {
		if prev.HasTrack() && prev.State != core.StateStopped {
			if wasCompleted(prev) {
				events = append(events, event(EventTrackComplete))
			} else {
				events = append(events, event(EventTrackSkip))
			}
		}
		if curr.HasTrack() {
			events = append(events, event(EventTrackChange))
		}
	}

	switch {
	case prev.State == curr.State:
	case curr.State == core.StatePaused:
		events = append(events, event(EventPause))
	case curr.State == core.StateStopped:
		events = append(events, event(EventStop))
	case prev.State == core.StatePaused && curr.State == core.StatePlaying:
		events = append(events, event(EventResume))
	case prev.State == core.StateStopped && !trackChanged(prev, curr):
		events = append(events, event(EventTrackChange))
	}

	if prev.Volume != curr.Volume || prev.Muted != curr.Muted {
		events = append(events, event(EventVolumeChange))
	}

	if prev.Mode != curr.Mode {
		events = append(events, event(EventModeChange))
	}

	return events
}

// trackChanged returns true if a different track started, or the same one
// started again (a repeat in single mode, or a replay after stop).
func trackChanged(prev, curr *core.PlaybackState) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.ID != curr.Track.ID || prev.Starts != curr.Starts
}

// completionThreshold is how far into a track playback must be for a
// track change to count as a completion rather than a skip.
const completionThreshold = 0.95

// wasCompleted returns true if the track likely played to the end. The
// last poll lands up to one interval before the end, hence the threshold.
func wasCompleted(state *core.PlaybackState) bool {
	if state.Length == 0 {
		return false
	}
	return float64(state.Progress) >= float64(state.Length)*completionThreshold
}
