package sequencer

import (
	"log/slog"
	"math/rand/v2"
)

// Default container sizes.
const (
	DefaultLookaheadCapacity = 300
	DefaultLookaheadBatch    = 20
	DefaultPriorityCapacity  = 200
	DefaultHistoryCapacity   = 200
	DefaultHistoryBatch      = 20
	DefaultShuffleWindow     = 10
)

// Options configures an Engine. Zero values fall back to the defaults.
type Options struct {
	LookaheadCapacity int
	LookaheadBatch    int
	PriorityCapacity  int
	HistoryCapacity   int
	HistoryBatch      int

	// ShuffleWindow is how many of the most recent history entries
	// shuffle mode avoids repeating. Negative disables the window.
	ShuffleWindow int

	Rand   *rand.Rand
	Logger *slog.Logger
}

// DefaultOptions returns Options populated with the default sizes.
func DefaultOptions() Options {
	return Options{
		LookaheadCapacity: DefaultLookaheadCapacity,
		LookaheadBatch:    DefaultLookaheadBatch,
		PriorityCapacity:  DefaultPriorityCapacity,
		HistoryCapacity:   DefaultHistoryCapacity,
		HistoryBatch:      DefaultHistoryBatch,
		ShuffleWindow:     DefaultShuffleWindow,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LookaheadCapacity <= 0 {
		o.LookaheadCapacity = d.LookaheadCapacity
	}
	if o.LookaheadBatch <= 0 {
		o.LookaheadBatch = d.LookaheadBatch
	}
	if o.PriorityCapacity <= 0 {
		o.PriorityCapacity = d.PriorityCapacity
	}
	if o.HistoryCapacity <= 0 {
		o.HistoryCapacity = d.HistoryCapacity
	}
	if o.HistoryBatch <= 0 {
		o.HistoryBatch = d.HistoryBatch
	}
	switch {
	case o.ShuffleWindow == 0:
		o.ShuffleWindow = d.ShuffleWindow
	case o.ShuffleWindow < 0:
		o.ShuffleWindow = 0
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
