package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/segue/internal/core"
	"github.com/tessro/segue/internal/tui/styles"
)

// NowPlaying displays the currently playing track
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(state *core.PlaybackState, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if !state.HasTrack() {
		content = styles.Muted.Render("Nothing playing. Press enter on a track or space to start.")
		if state != nil {
			content = lipgloss.JoinVertical(lipgloss.Left, content, "", n.renderStatus(state))
		}
	} else {
		content = n.renderTrack(state, width-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (n *NowPlaying) renderTrack(state *core.PlaybackState, width int) string {
	track := state.Track

	icon := styles.StatusIcon(state.IsPlaying())
	title := styles.Title.Width(max(width-4, 1)).Render(truncate(track.Title, width-4))

	album := styles.Subtitle.Render(track.Album)
	file := styles.Dim.Render(track.FileName())

	// Progress bar, with times on either side
	progressWidth := max(width-14, 10)
	progressBar := styles.ProgressBar(state.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		formatDuration(state.Progress),
		progressBar,
		formatDuration(state.Length))

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+album,
		"  "+file,
		"",
		progress,
		"",
		n.renderStatus(state),
	)
}

func (n *NowPlaying) renderStatus(state *core.PlaybackState) string {
	vol := fmt.Sprintf("%s %d%%", styles.VolumeIcon(state.Volume, state.Muted), state.Volume)
	if state.Muted {
		vol += " (muted)"
	}

	return styles.Muted.Render(fmt.Sprintf("%s  %s  %s", modeLabel(state.Mode), vol, state.State))
}

func modeLabel(mode core.Mode) string {
	switch mode {
	case core.ModeSingle:
		return "🔂 single"
	case core.ModeShuffle:
		return "🔀 shuffle"
	default:
		return "➡ order"
	}
}
