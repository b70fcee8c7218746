// Package player ties the track library, the sequencing engine and an audio
// output together behind a single lock.
package player

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tessro/segue/internal/core"
	serrors "github.com/tessro/segue/internal/errors"
	"github.com/tessro/segue/internal/library"
	"github.com/tessro/segue/internal/sequencer"
)

// Output is an audio sink that plays one track at a time.
type Output interface {
	// Play replaces the current track. onFinish runs on its own goroutine
	// when the track ends by itself.
	Play(track core.Track, onFinish func()) error
	Pause()
	Resume()
	Stop()
	// Seek moves the current track to pos, clamped to its length.
	Seek(pos time.Duration) error
	SetVolume(percent int)
	Position() time.Duration
	Duration() time.Duration
}

// Default view sizes for State.
const (
	DefaultUpcomingLimit = 50
	DefaultRecentLimit   = 50
)

// Options configures a Player.
type Options struct {
	Sequencer sequencer.Options
	Scan      library.ScanOptions
	Mode      core.Mode
	Volume    int

	UpcomingLimit int
	RecentLimit   int

	Logger *slog.Logger
}

// Player is a local music player. It is safe for concurrent use.
type Player struct {
	mu     sync.Mutex
	lib    *library.Library
	engine *sequencer.Engine
	out    Output
	logger *slog.Logger
	opts   Options

	state   core.PlayState
	current *core.Track
	volume  int
	muted   bool

	// token identifies the most recent Output.Play call so that finish
	// callbacks from replaced tracks can be told apart.
	token uint64
	// starts counts successful track starts, repeats included.
	starts uint64
}

var _ core.Player = (*Player)(nil)

// New creates a stopped Player over lib.
func New(lib *library.Library, out Output, opts Options) *Player {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Sequencer.Logger == nil {
		opts.Sequencer.Logger = opts.Logger
	}
	if opts.UpcomingLimit <= 0 {
		opts.UpcomingLimit = DefaultUpcomingLimit
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}

	engine := sequencer.New(lib, opts.Sequencer)
	engine.SetMode(opts.Mode)

	p := &Player{
		lib:    lib,
		engine: engine,
		out:    out,
		logger: opts.Logger,
		opts:   opts,
		state:  core.StateStopped,
		volume: clampVolume(opts.Volume),
	}
	out.SetVolume(p.volume)
	return p
}

// Library returns the collection the player sequences over.
func (p *Player) Library() *library.Library {
	return p.lib
}

// Play resumes a paused track, or starts the track at the current position
// when stopped.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playLocked()
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

// Toggle switches between playing and paused.
func (p *Player) Toggle() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == core.StatePlaying {
		p.pauseLocked()
		return nil
	}
	return p.playLocked()
}

// Stop ends playback. The position is kept.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Next skips to the next track.
func (p *Player) Next() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.engine.Next()
	if !ok {
		return serrors.ErrNoTracks
	}
	return p.startLocked(t)
}

// Previous goes back to the previously played track.
func (p *Player) Previous() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.engine.Previous()
	if !ok {
		return serrors.ErrNoTracks
	}
	return p.startLocked(t)
}

// PlayAt plays the track at row right away.
func (p *Player) PlayAt(row int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.engine.JumpTo(row, true)
	if !ok {
		if p.lib.Len() == 0 {
			return serrors.ErrNoTracks
		}
		return fmt.Errorf("row %d out of range (library has %d tracks)", row, p.lib.Len())
	}
	return p.startLocked(t)
}

// EnqueueSelected queues the selected tracks to play next and clears the
// selection. It returns how many tracks were queued.
func (p *Player) EnqueueSelected() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.engine.EnqueueSelected()
	p.lib.ClearSelection()
	p.logger.Debug("enqueued selection", "count", n)
	return n
}

// Seek moves playback of the current track to pos. It does nothing while
// stopped.
func (p *Player) Seek(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == core.StateStopped || p.current == nil {
		return nil
	}
	if err := p.out.Seek(max(pos, 0)); err != nil {
		return fmt.Errorf("seek %s: %w", p.current.FileName(), err)
	}
	return nil
}

// ClearLibrary stops playback and empties the library.
func (p *Player) ClearLibrary() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.current = nil
	n := p.lib.Len()
	p.lib.Clear()
	p.engine.Reset()
	p.logger.Info("library cleared", "removed", n)
}

// Select adds the track at row to the selection.
func (p *Player) Select(row int) bool {
	return p.lib.Select(row)
}

// ToggleSelect flips the selection of the track at row.
func (p *Player) ToggleSelect(row int) bool {
	return p.lib.ToggleSelect(row)
}

// Mode returns the playback mode.
func (p *Player) Mode() core.Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.Mode()
}

// SetMode sets the playback mode.
func (p *Player) SetMode(mode core.Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.SetMode(mode)
}

// CycleMode switches to the next playback mode and returns it.
func (p *Player) CycleMode() core.Mode {
	p.mu.Lock()
	defer p.mu.Unlock()

	mode := p.engine.Mode().Next()
	p.engine.SetMode(mode)
	return mode
}

// Volume returns the volume percentage, ignoring mute.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets the volume percentage and unmutes.
func (p *Player) SetVolume(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clampVolume(percent)
	p.muted = false
	p.out.SetVolume(p.volume)
}

// ToggleMute silences the output, or restores the volume from before it
// was muted.
func (p *Player) ToggleMute() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.muted = !p.muted
	if p.muted {
		p.out.SetVolume(0)
	} else {
		p.out.SetVolume(p.volume)
	}
}

// Import adds the audio files in dirs to the library.
func (p *Player) Import(dirs ...string) serrors.PartialResult[library.Changes] {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := p.lib.Import(p.opts.Scan, dirs...)
	p.reanchorLocked(result.Data)
	return result
}

// ImportFiles adds individual audio files to the library.
func (p *Player) ImportFiles(paths ...string) serrors.PartialResult[library.Changes] {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := p.lib.ImportFiles(p.opts.Scan, paths...)
	p.reanchorLocked(result.Data)
	return result
}

// Sync reconciles the library with dirs on disk.
func (p *Player) Sync(dirs ...string) serrors.PartialResult[library.Changes] {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := p.lib.Sync(p.opts.Scan, dirs...)
	p.reanchorLocked(result.Data)
	return result
}

// State returns a snapshot of the playback state.
func (p *Player) State() core.PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := core.PlaybackState{
		Row:    -1,
		State:  p.state,
		Mode:   p.engine.Mode(),
		Volume: p.volume,
		Muted:  p.muted,
		Starts: p.starts,
		Queue:  p.engine.Upcoming(p.opts.UpcomingLimit),
		Recent: p.engine.Recent(p.opts.RecentLimit),
	}
	if p.current != nil {
		t := *p.current
		s.Track = &t
		s.Row = p.lib.IndexOf(t.ID)
		s.Length = t.Duration
		if p.state != core.StateStopped {
			s.Progress = p.out.Position()
			if d := p.out.Duration(); d > 0 {
				s.Length = d
			}
		}
	}
	return s
}

// Close stops playback.
func (p *Player) Close() {
	p.Stop()
}

func (p *Player) playLocked() error {
	switch p.state {
	case core.StatePaused:
		p.out.Resume()
		p.state = core.StatePlaying
		return nil
	case core.StatePlaying:
		return nil
	}

	t, ok := p.engine.Current()
	if !ok {
		return serrors.ErrNoTracks
	}
	return p.startLocked(t)
}

func (p *Player) pauseLocked() {
	if p.state == core.StatePlaying {
		p.out.Pause()
		p.state = core.StatePaused
	}
}

func (p *Player) startLocked(t core.Track) error {
	p.token++
	token := p.token

	if err := p.out.Play(t, func() { p.finished(token) }); err != nil {
		// The output may still be playing the previous track.
		p.out.Stop()
		p.state = core.StateStopped
		p.current = nil
		return fmt.Errorf("play %s: %w", t.FileName(), err)
	}

	p.current = &t
	p.starts++
	p.state = core.StatePlaying
	p.logger.Debug("track started", "title", t.Title, "path", t.Path)
	return nil
}

func (p *Player) stopLocked() {
	p.token++
	p.out.Stop()
	p.state = core.StateStopped
}

// finished advances to the next track when the one started under token
// ends by itself.
func (p *Player) finished(token uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.token || p.state != core.StatePlaying {
		return
	}

	t, ok := p.engine.Next()
	if !ok {
		p.stopLocked()
		return
	}
	if err := p.startLocked(t); err != nil {
		p.logger.Warn("auto-advance failed", "error", err)
	}
}

// reanchorLocked points the engine back at the playing track after the
// library changed underneath it.
func (p *Player) reanchorLocked(changes library.Changes) {
	if changes.Added == 0 && changes.Removed == 0 {
		return
	}
	p.logger.Info("library updated", "added", changes.Added, "removed", changes.Removed, "tracks", p.lib.Len())

	if p.current == nil {
		p.engine.Reset()
		return
	}
	if row := p.lib.IndexOf(p.current.ID); row >= 0 {
		p.engine.JumpTo(row, false)
		return
	}
	p.engine.Reset()
}

func clampVolume(percent int) int {
	return min(max(percent, 0), 100)
}
