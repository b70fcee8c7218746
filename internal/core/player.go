package core

import "time"

// Player defines the interface for local music playback control.
type Player interface {
	// Playback control
	Play() error
	Pause()
	Toggle() error
	Stop()
	Next() error
	Previous() error
	PlayAt(row int) error
	Seek(pos time.Duration) error

	// Sequencing
	EnqueueSelected() int
	SetMode(mode Mode)
	CycleMode() Mode

	// Volume control
	SetVolume(percent int)
	ToggleMute()

	// State queries
	State() PlaybackState
}
