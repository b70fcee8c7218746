package core

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TrackID is a stable, opaque identifier for a track in the library.
type TrackID string

// NewTrackID returns a fresh random TrackID.
func NewTrackID() TrackID {
	return TrackID(uuid.NewString())
}

// Format indicates the audio container of a track.
type Format string

const (
	FormatFLAC    Format = "flac"
	FormatMP3     Format = "mp3"
	FormatWAV     Format = "wav"
	FormatUnknown Format = "unknown"
)

// FormatFromPath derives the Format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return FormatFLAC
	case ".mp3":
		return FormatMP3
	case ".wav":
		return FormatWAV
	default:
		return FormatUnknown
	}
}

// Track represents a playable audio file.
type Track struct {
	ID       TrackID       `json:"id"`
	Path     string        `json:"path"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist,omitempty"`
	Album    string        `json:"album,omitempty"`
	Format   Format        `json:"format"`
	Size     int64         `json:"size"`
	Duration time.Duration `json:"duration,omitempty"`
}

// NewTrack builds a Track for the file at path, titled after its base name.
func NewTrack(path string, size int64) Track {
	base := filepath.Base(path)
	return Track{
		ID:     NewTrackID(),
		Path:   path,
		Title:  strings.TrimSuffix(base, filepath.Ext(base)),
		Album:  filepath.Base(filepath.Dir(path)),
		Format: FormatFromPath(path),
		Size:   size,
	}
}

// FileName returns the base name of the track's file.
func (t Track) FileName() string {
	return filepath.Base(t.Path)
}
