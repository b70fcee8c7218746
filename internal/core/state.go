package core

import "time"

// PlayState is the transport state of the player.
type PlayState string

const (
	StateStopped PlayState = "stopped"
	StatePlaying PlayState = "playing"
	StatePaused  PlayState = "paused"
)

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Track  *Track    `json:"track"`
	Row    int       `json:"row"`
	State  PlayState `json:"state"`
	Mode   Mode      `json:"mode"`
	Volume int       `json:"volume"`
	Muted  bool      `json:"muted"`
	// Starts counts tracks started so far, so a repeat of the same track
	// can be told apart from it still playing.
	Starts   uint64        `json:"starts"`
	Progress time.Duration `json:"progress"`
	Length   time.Duration `json:"length"`
	Queue    Queue         `json:"queue"`
	Recent   []Track       `json:"recent"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// IsPlaying returns true while audio is being produced.
func (s *PlaybackState) IsPlaying() bool {
	return s != nil && s.State == StatePlaying
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Track == nil || s.Length == 0 {
		return 0
	}
	return float64(s.Progress) / float64(s.Length) * 100
}
