package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/segue/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a single line: [time] [emoji] description.
func (f *Formatter) formatLine(e Event) string {
	var b strings.Builder
	if f.showTimestamp {
		b.WriteString(e.Timestamp.Format("15:04:05"))
		b.WriteByte(' ')
	}
	if f.showEmoji {
		b.WriteString(eventEmoji(e.Type))
		b.WriteByte(' ')
	}
	b.WriteString(f.eventDescription(e))
	return b.String()
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if t := subject(e); t != nil {
		data.Title = t.Title
		data.Album = t.Album
		data.Path = t.Path
	}

	if e.Current != nil {
		data.Mode = e.Current.Mode.String()
		data.Volume = e.Current.Volume
		data.Muted = e.Current.Muted
		data.Row = e.Current.Row
		data.Progress = e.Current.Progress.Round(time.Second)
		data.Length = e.Current.Length.Round(time.Second)
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Album     string
	Path      string
	Mode      string
	Volume    int
	Muted     bool
	Row       int
	Progress  time.Duration
	Length    time.Duration
}

// subject returns the track an event is about: the finished one for
// completions and skips, the current one otherwise.
func subject(e Event) *core.Track {
	switch e.Type {
	case EventTrackComplete, EventTrackSkip:
		if e.Previous != nil {
			return e.Previous.Track
		}
		return nil
	}
	if e.Current != nil {
		return e.Current.Track
	}
	return nil
}

func describe(t *core.Track) string {
	if t.Album == "" {
		return t.Title
	}
	return t.Album + " - " + t.Title
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	t := subject(e)

	switch e.Type {
	case EventTrackChange:
		if t != nil {
			return "Now playing: " + describe(t)
		}
		return "Track changed"

	case EventTrackComplete:
		if t != nil {
			return "Finished: " + describe(t)
		}
		return "Track completed"

	case EventTrackSkip:
		if t != nil {
			return "Skipped: " + describe(t)
		}
		return "Track skipped"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventStop:
		return "Stopped"

	case EventVolumeChange:
		if e.Current != nil && e.Current.Muted {
			return "Muted"
		}
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", e.Current.Volume)
		}
		return "Volume changed"

	case EventModeChange:
		if e.Current != nil {
			return "Mode: " + e.Current.Mode.String()
		}
		return "Mode changed"

	default:
		return "Unknown event"
	}
}

var eventInfo = map[EventType]struct {
	name  string
	emoji string
}{
	EventTrackChange:   {"track_change", "🎵"},
	EventTrackComplete: {"track_complete", "✅"},
	EventTrackSkip:     {"track_skip", "⏭️"},
	EventPause:         {"pause", "⏸️"},
	EventResume:        {"resume", "▶️"},
	EventStop:          {"stop", "⏹️"},
	EventVolumeChange:  {"volume_change", "🔊"},
	EventModeChange:    {"mode_change", "🔀"},
}

// String returns the snake_case name used in templates.
func (t EventType) String() string {
	if info, ok := eventInfo[t]; ok {
		return info.name
	}
	return "unknown"
}

func eventEmoji(t EventType) string {
	if info, ok := eventInfo[t]; ok {
		return info.emoji
	}
	return "❓"
}
