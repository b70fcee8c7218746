// Package library holds the ordered track collection that playback is
// sequenced over, and keeps it in step with directories on disk.
package library

import (
	"slices"
	"strings"
	"sync"

	"github.com/tessro/segue/internal/core"
)

// Library is an ordered, mutable list of tracks with a selection.
//
// Every insertion or removal bumps the generation counter, which is how a
// sequencer notices its queued references went stale. Selection changes do
// not count as structural.
//
// Library is safe for concurrent use.
type Library struct {
	mu         sync.RWMutex
	tracks     []core.Track
	index      map[core.TrackID]int
	paths      map[string]core.TrackID
	selected   map[core.TrackID]struct{}
	generation uint64
}

// New returns an empty Library.
func New() *Library {
	return &Library{
		index:    make(map[core.TrackID]int),
		paths:    make(map[string]core.TrackID),
		selected: make(map[core.TrackID]struct{}),
	}
}

// Len returns the number of tracks.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tracks)
}

// At returns the track at row.
func (l *Library) At(row int) (core.Track, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if row < 0 || row >= len(l.tracks) {
		return core.Track{}, false
	}
	return l.tracks[row], true
}

// IndexOf returns the row of id, or -1.
func (l *Library) IndexOf(id core.TrackID) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if row, ok := l.index[id]; ok {
		return row
	}
	return -1
}

// Generation returns the structural change counter.
func (l *Library) Generation() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.generation
}

// Tracks returns a copy of all tracks in row order.
func (l *Library) Tracks() []core.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.tracks)
}

// Contains reports whether a track with the given path is present.
func (l *Library) Contains(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.paths[path]
	return ok
}

// Add appends tracks, skipping any whose path is already present.
// It returns how many were added.
func (l *Library) Add(tracks ...core.Track) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, t := range tracks {
		if _, dup := l.paths[t.Path]; dup {
			continue
		}
		if t.ID == "" {
			t.ID = core.NewTrackID()
		}
		l.index[t.ID] = len(l.tracks)
		l.paths[t.Path] = t.ID
		l.tracks = append(l.tracks, t)
		added++
	}
	if added > 0 {
		l.generation++
	}
	return added
}

// Remove deletes the tracks with the given IDs and returns how many were
// removed. Unknown IDs are ignored.
func (l *Library) Remove(ids ...core.TrackID) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	drop := make(map[core.TrackID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := l.index[id]; ok {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}

	kept := l.tracks[:0]
	for _, t := range l.tracks {
		if _, ok := drop[t.ID]; ok {
			delete(l.paths, t.Path)
			delete(l.selected, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	clear(l.tracks[len(kept):])
	l.tracks = kept
	l.reindex()
	l.generation++
	return len(drop)
}

// Clear removes every track.
func (l *Library) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tracks) == 0 {
		return
	}
	l.tracks = nil
	clear(l.index)
	clear(l.paths)
	clear(l.selected)
	l.generation++
}

func (l *Library) reindex() {
	clear(l.index)
	for i, t := range l.tracks {
		l.index[t.ID] = i
	}
}

// Select marks the track at row as selected.
func (l *Library) Select(row int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if row < 0 || row >= len(l.tracks) {
		return false
	}
	l.selected[l.tracks[row].ID] = struct{}{}
	return true
}

// ToggleSelect flips the selection of the track at row and reports whether
// it is selected afterwards.
func (l *Library) ToggleSelect(row int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if row < 0 || row >= len(l.tracks) {
		return false
	}
	id := l.tracks[row].ID
	if _, ok := l.selected[id]; ok {
		delete(l.selected, id)
		return false
	}
	l.selected[id] = struct{}{}
	return true
}

// ClearSelection deselects everything.
func (l *Library) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.selected)
}

// IsSelected reports whether id is selected.
func (l *Library) IsSelected(id core.TrackID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.selected[id]
	return ok
}

// Selected returns the selected track IDs in row order.
func (l *Library) Selected() []core.TrackID {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var ids []core.TrackID
	for _, t := range l.tracks {
		if _, ok := l.selected[t.ID]; ok {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Find returns the rows whose title, artist, album or file name contain
// query, case-insensitively. An empty query matches nothing.
func (l *Library) Find(query string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var rows []int
	for i, t := range l.tracks {
		for _, field := range []string{t.Title, t.Artist, t.Album, t.FileName()} {
			if strings.Contains(strings.ToLower(field), query) {
				rows = append(rows, i)
				break
			}
		}
	}
	return rows
}
