// Package sequencer decides which track plays next or previous over an
// ordered, mutable track collection.
//
// An Engine keeps a current row plus three bounded containers: a lookahead
// queue refilled in batches from the collection, a user priority queue fed by
// EnqueueSelected, and a history stack consumed by Previous. The containers
// hold track IDs; any structural change to the collection (detected through its
// generation counter) discards them all.
//
// Engines are not safe for concurrent use.
package sequencer

import (
	"log/slog"
	"math/rand/v2"

	"github.com/tessro/segue/internal/core"
)

// Collection is the ordered track list an Engine sequences over.
// The engine only reads from it.
type Collection interface {
	Len() int
	At(row int) (core.Track, bool)
	// IndexOf returns the row of id, or -1 if it is not in the collection.
	IndexOf(id core.TrackID) int
	// Selected returns the currently selected tracks in row order.
	Selected() []core.TrackID
	// Generation increases on every insertion or removal.
	Generation() uint64
}

// Stats describes the engine's internal state.
type Stats struct {
	Row        int       `json:"row"`
	Mode       core.Mode `json:"mode"`
	Lookahead  int       `json:"lookahead"`
	Priority   int       `json:"priority"`
	History    int       `json:"history"`
	Generation uint64    `json:"generation"`
}

// Engine sequences playback over a Collection.
type Engine struct {
	tracks Collection
	opts   Options
	rng    *rand.Rand
	logger *slog.Logger

	mode       core.Mode
	row        int
	generation uint64

	lookahead *boundedList[core.TrackID]
	priority  *boundedList[core.TrackID]
	history   *boundedList[core.TrackID]
}

// New creates an Engine positioned at row 0 of tracks.
func New(tracks Collection, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		tracks:     tracks,
		opts:       opts,
		rng:        opts.Rand,
		logger:     opts.Logger,
		mode:       core.ModeOrder,
		generation: tracks.Generation(),
		lookahead:  newBoundedList[core.TrackID](opts.LookaheadCapacity, dropOldest),
		priority:   newBoundedList[core.TrackID](opts.PriorityCapacity, rejectNew),
		history:    newBoundedList[core.TrackID](opts.HistoryCapacity, dropOldest),
	}
}

// Mode returns the active playback mode.
func (e *Engine) Mode() core.Mode {
	return e.mode
}

// SetMode changes the playback mode. The queues are left as they are.
func (e *Engine) SetMode(mode core.Mode) {
	if mode == e.mode {
		return
	}
	e.logger.Debug("sequencer mode changed", "from", e.mode, "to", mode)
	e.mode = mode
}

// Current returns the track at the current position.
// It reports false when the collection is empty.
func (e *Engine) Current() (core.Track, bool) {
	n := e.tracks.Len()
	if n == 0 {
		return core.Track{}, false
	}
	return e.tracks.At(e.currentRow(n))
}

// Next advances to the following track and returns it. User-queued tracks
// come first, then the lookahead queue (order mode) or a random pick
// (shuffle mode). Single mode returns the current track again.
func (e *Engine) Next() (core.Track, bool) {
	n := e.tracks.Len()
	if n == 0 {
		return core.Track{}, false
	}
	e.sync(n)

	if e.mode == core.ModeSingle {
		return e.tracks.At(e.row)
	}

	next, row, ok := e.dequeue(e.priority)
	if !ok {
		if e.mode == core.ModeShuffle {
			row = e.pickShuffle(n)
			next, ok = e.tracks.At(row)
		} else {
			if e.lookahead.len() == 0 {
				e.refillLookahead(n)
			}
			next, row, ok = e.dequeue(e.lookahead)
		}
	}
	if !ok {
		return core.Track{}, false
	}

	e.advanceTo(row)
	return next, true
}

// Previous steps back to the most recently visited track and returns it.
// When the history is exhausted it is backfilled with the tracks preceding
// the current row. Single mode returns the current track again.
func (e *Engine) Previous() (core.Track, bool) {
	n := e.tracks.Len()
	if n == 0 {
		return core.Track{}, false
	}
	e.sync(n)

	if e.mode == core.ModeSingle {
		return e.tracks.At(e.row)
	}

	e.dropSelfReference()
	if e.history.len() == 0 {
		e.backfillHistory(n)
		e.dropSelfReference()
	}

	for {
		id, ok := e.history.popBack()
		if !ok {
			return core.Track{}, false
		}
		row := e.tracks.IndexOf(id)
		if row < 0 {
			continue
		}
		if t, ok := e.tracks.At(row); ok {
			e.row = row
			return t, true
		}
	}
}

// JumpTo moves the current position to row and restarts the lookahead from
// there. History and user-queued tracks are kept.
//
// With playNow the jump counts as a transition in its own right: the track
// being left is pushed to history, exactly as Next does in order mode, no
// matter which mode is active. The mode itself is not changed.
//
// JumpTo reports false, and changes nothing, if row is out of range.
func (e *Engine) JumpTo(row int, playNow bool) (core.Track, bool) {
	n := e.tracks.Len()
	if row < 0 || row >= n {
		return core.Track{}, false
	}
	e.sync(n)

	t, ok := e.tracks.At(row)
	if !ok {
		return core.Track{}, false
	}

	if playNow {
		e.advanceTo(row)
	} else {
		e.row = row
	}
	e.lookahead.clear()

	e.logger.Debug("sequencer jumped", "row", row, "play", playNow)
	return t, true
}

// EnqueueSelected appends the collection's selection to the user queue.
// Once the queue is full further tracks are refused, not evicted.
// It returns how many tracks were added.
func (e *Engine) EnqueueSelected() int {
	e.sync(e.tracks.Len())

	added := 0
	for _, id := range e.tracks.Selected() {
		if !e.priority.pushBack(id) {
			e.logger.Debug("user queue full, dropping selection", "capacity", e.opts.PriorityCapacity)
			break
		}
		added++
	}
	return added
}

// Reset empties all containers and moves back to row 0.
// It must follow any structural change to the collection; the engine also
// does this on its own when it sees the collection's generation change.
func (e *Engine) Reset() {
	e.lookahead.clear()
	e.priority.clear()
	e.history.clear()
	e.row = 0
	e.generation = e.tracks.Generation()
}

// Upcoming returns up to limit tracks in the order Next would return them:
// user-queued tracks first, then, in order mode, the lookahead queue (or the
// batch a refill would produce while it is empty). Shuffle mode only lists
// user-queued tracks and single mode lists nothing.
// A limit of zero or less returns everything.
func (e *Engine) Upcoming(limit int) core.Queue {
	var q core.Queue
	n := e.tracks.Len()
	if n == 0 || e.stale() || e.mode == core.ModeSingle {
		return q
	}

	add := func(t core.Track) bool {
		if limit > 0 && len(q.Tracks) >= limit {
			return false
		}
		q.Tracks = append(q.Tracks, t)
		return true
	}

	last := e.row
	for _, id := range e.priority.items {
		row := e.tracks.IndexOf(id)
		if t, ok := e.tracks.At(row); ok {
			if !add(t) {
				return q
			}
			q.Queued++
			last = row
		}
	}
	if e.mode == core.ModeShuffle {
		return q
	}

	// An empty lookahead is refilled from wherever the user queue leaves off.
	if e.lookahead.len() == 0 {
		start := last + 1
		for i := 0; i < e.opts.LookaheadBatch; i++ {
			if t, ok := e.tracks.At((start + i) % n); ok && !add(t) {
				return q
			}
		}
		return q
	}
	for _, id := range e.lookahead.items {
		if t, ok := e.resolve(id); ok && !add(t) {
			return q
		}
	}
	return q
}

// Recent returns up to limit history entries, most recent first.
// A limit of zero or less returns everything.
func (e *Engine) Recent(limit int) []core.Track {
	if e.stale() {
		return nil
	}

	var recent []core.Track
	for i := len(e.history.items) - 1; i >= 0; i-- {
		if limit > 0 && len(recent) >= limit {
			break
		}
		if t, ok := e.resolve(e.history.items[i]); ok {
			recent = append(recent, t)
		}
	}
	return recent
}

// Stats returns a snapshot of the engine's internal state.
func (e *Engine) Stats() Stats {
	return Stats{
		Row:        e.row,
		Mode:       e.mode,
		Lookahead:  e.lookahead.len(),
		Priority:   e.priority.len(),
		History:    e.history.len(),
		Generation: e.generation,
	}
}

func (e *Engine) stale() bool {
	return e.tracks.Generation() != e.generation
}

// sync performs the implicit reset after a structural change and keeps row
// inside the collection.
func (e *Engine) sync(n int) {
	if e.stale() {
		e.logger.Debug("collection changed, resetting sequencer",
			"generation", e.tracks.Generation(),
			"previous", e.generation)
		e.Reset()
	}
	e.row = e.currentRow(n)
}

func (e *Engine) currentRow(n int) int {
	if e.stale() || e.row < 0 || e.row >= n {
		return 0
	}
	return e.row
}

func (e *Engine) resolve(id core.TrackID) (core.Track, bool) {
	row := e.tracks.IndexOf(id)
	if row < 0 {
		return core.Track{}, false
	}
	return e.tracks.At(row)
}

// dequeue pops from the front of q until an entry resolves to a row.
func (e *Engine) dequeue(q *boundedList[core.TrackID]) (core.Track, int, bool) {
	for {
		id, ok := q.popFront()
		if !ok {
			return core.Track{}, -1, false
		}
		row := e.tracks.IndexOf(id)
		if row < 0 {
			continue
		}
		if t, ok := e.tracks.At(row); ok {
			return t, row, true
		}
	}
}

// advanceTo records the departing track in history and moves to row.
func (e *Engine) advanceTo(row int) {
	if cur, ok := e.tracks.At(e.row); ok {
		e.history.pushBack(cur.ID)
	}
	e.row = row
}

// refillLookahead queues the next batch of rows after the current one,
// wrapping past the end. Short collections repeat within one batch.
func (e *Engine) refillLookahead(n int) {
	start := e.row + 1
	for i := 0; i < e.opts.LookaheadBatch; i++ {
		if t, ok := e.tracks.At((start + i) % n); ok {
			e.lookahead.pushBack(t.ID)
		}
	}
	e.generation = e.tracks.Generation()

	e.logger.Debug("lookahead refilled", "from", start%n, "size", e.lookahead.len())
}

// backfillHistory pushes the batch of rows preceding the current one, in
// increasing row order, so the row just before the current one ends on top.
func (e *Engine) backfillHistory(n int) {
	start := ((e.row-e.opts.HistoryBatch)%n + n) % n
	for i := 0; i < e.opts.HistoryBatch; i++ {
		if t, ok := e.tracks.At((start + i) % n); ok {
			e.history.pushBack(t.ID)
		}
	}
	e.generation = e.tracks.Generation()

	e.logger.Debug("history backfilled", "from", start, "size", e.history.len())
}

// dropSelfReference discards the top of history if it is the current track.
func (e *Engine) dropSelfReference() {
	id, ok := e.history.back()
	if ok && e.tracks.IndexOf(id) == e.row {
		e.history.popBack()
	}
}
