package core

// Queue is a snapshot of what the sequencer will play next.
// The first Queued tracks were requested by the user; the rest come
// from the automatic lookahead.
type Queue struct {
	Tracks []Track `json:"tracks"`
	Queued int     `json:"queued"`
}

// IsQueued reports whether the track at i was explicitly queued by the user.
func (q *Queue) IsQueued(i int) bool {
	return q != nil && i >= 0 && i < q.Queued && i < len(q.Tracks)
}

// Len returns the total number of tracks in the queue.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}
