package sequencer

// pickShuffle chooses a row uniformly at random among the tracks that are
// neither current nor within the last ShuffleWindow history entries. If every
// track was played recently it only avoids the current one.
func (e *Engine) pickShuffle(n int) int {
	if n == 1 {
		return 0
	}

	excluded := make(map[int]struct{}, e.opts.ShuffleWindow+1)
	excluded[e.row] = struct{}{}

	items := e.history.items
	for i := len(items) - 1; i >= 0 && len(items)-i <= e.opts.ShuffleWindow; i-- {
		if row := e.tracks.IndexOf(items[i]); row >= 0 {
			excluded[row] = struct{}{}
		}
	}

	candidates := n - len(excluded)
	if candidates <= 0 {
		k := e.rng.IntN(n - 1)
		if k >= e.row {
			k++
		}
		return k
	}

	k := e.rng.IntN(candidates)
	for row := 0; row < n; row++ {
		if _, skip := excluded[row]; skip {
			continue
		}
		if k == 0 {
			return row
		}
		k--
	}
	return e.row
}
