package audio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"github.com/tessro/segue/internal/core"
	serrors "github.com/tessro/segue/internal/errors"
)

// Default output settings.
const (
	DefaultSampleRate = 44100
	DefaultBuffer     = 100 * time.Millisecond
)

// resampleQuality trades CPU for fidelity when a file's rate differs from
// the device rate.
const resampleQuality = 4

// SpeakerOptions configures the output device.
type SpeakerOptions struct {
	SampleRate int
	Buffer     time.Duration
	Logger     *slog.Logger
}

// Speaker plays one track at a time on the default output device.
//
// Only one Speaker may exist per process since it owns the global beep
// speaker.
type Speaker struct {
	sampleRate beep.SampleRate
	logger     *slog.Logger

	// Guarded by speaker.Lock.
	mixer  *beep.Mixer
	volume *effects.Volume
	ctrl   *beep.Ctrl
	stream beep.StreamSeekCloser
	format beep.Format
}

// NewSpeaker opens the output device.
func NewSpeaker(opts SpeakerOptions) (*Speaker, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultBuffer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sr := beep.SampleRate(opts.SampleRate)
	if err := speaker.Init(sr, sr.N(opts.Buffer)); err != nil {
		return nil, fmt.Errorf("%w: %v", serrors.ErrAudioDevice, err)
	}

	mixer := &beep.Mixer{}
	vol := &effects.Volume{
		Streamer: mixer,
		Base:     2,
	}
	speaker.Play(vol)

	logger.Debug("audio output opened", "sample_rate", opts.SampleRate, "buffer", opts.Buffer)
	return &Speaker{
		sampleRate: sr,
		logger:     logger,
		mixer:      mixer,
		volume:     vol,
	}, nil
}

// Play stops whatever is playing and starts track. onFinish is called from
// a new goroutine once the track has played to the end; it is not called
// if the track is stopped or replaced first.
func (s *Speaker) Play(track core.Track, onFinish func()) error {
	stream, format, err := Decode(track.Path)
	if err != nil {
		return err
	}

	var out beep.Streamer = stream
	if format.SampleRate != s.sampleRate {
		out = beep.Resample(resampleQuality, format.SampleRate, s.sampleRate, stream)
	}
	ctrl := &beep.Ctrl{Streamer: out}

	speaker.Lock()
	s.closeLocked()
	s.ctrl = ctrl
	s.stream = stream
	s.format = format
	s.mixer.Add(beep.Seq(ctrl, beep.Callback(func() {
		if onFinish != nil {
			go onFinish()
		}
	})))
	speaker.Unlock()

	s.logger.Debug("playing track", "path", track.Path, "sample_rate", int(format.SampleRate))
	return nil
}

// Pause holds the current track in place.
func (s *Speaker) Pause() {
	speaker.Lock()
	defer speaker.Unlock()
	if s.ctrl != nil {
		s.ctrl.Paused = true
	}
}

// Resume continues a paused track.
func (s *Speaker) Resume() {
	speaker.Lock()
	defer speaker.Unlock()
	if s.ctrl != nil {
		s.ctrl.Paused = false
	}
}

// Stop ends playback and releases the current file.
func (s *Speaker) Stop() {
	speaker.Lock()
	defer speaker.Unlock()
	s.closeLocked()
}

// Seek moves the current track to pos, clamped to the track's length.
func (s *Speaker) Seek(pos time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	if s.stream == nil {
		return nil
	}
	n := min(max(s.format.SampleRate.N(pos), 0), max(s.stream.Len()-1, 0))
	if err := s.stream.Seek(n); err != nil {
		return fmt.Errorf("seek to %s: %w", pos, err)
	}
	return nil
}

// SetVolume sets the output level as a 0-100 percentage.
func (s *Speaker) SetVolume(percent int) {
	level, silent := volumeLevel(percent)

	speaker.Lock()
	defer speaker.Unlock()
	s.volume.Volume = level
	s.volume.Silent = silent
}

// Position returns how far into the current track playback is.
func (s *Speaker) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if s.stream == nil {
		return 0
	}
	return s.format.SampleRate.D(s.stream.Position())
}

// Duration returns the length of the current track.
func (s *Speaker) Duration() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if s.stream == nil {
		return 0
	}
	return s.format.SampleRate.D(s.stream.Len())
}

// Close stops playback and releases the output device.
func (s *Speaker) Close() error {
	s.Stop()
	speaker.Close()
	return nil
}

func (s *Speaker) closeLocked() {
	s.mixer.Clear()
	if s.stream != nil {
		if err := s.stream.Close(); err != nil {
			s.logger.Warn("failed to close stream", "error", err)
		}
	}
	s.ctrl = nil
	s.stream = nil
	s.format = beep.Format{}
}
