package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/segue/internal/core"
	"github.com/tessro/segue/internal/tui/styles"
)

// History displays recently played tracks, most recent first. The top
// entry is what Previous goes back to.
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Render renders the history panel
func (h *History) Render(recent []core.Track, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(recent) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(recent, width-4, height-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (h *History) renderHistory(recent []core.Track, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	// icon (2) + " — " (3) + room for the duration
	const overhead = 12

	for i, track := range recent {
		if i >= maxLines {
			break
		}

		dur := ""
		if track.Duration > 0 {
			dur = formatDuration(track.Duration)
		}

		available := width - overhead
		album := truncate(track.Album, available/3)
		name := truncate(track.Title, available-len([]rune(album)))

		icon := "✓"
		if i == 0 {
			icon = "⏮"
		}

		info := fmt.Sprintf("%s — %s", name, album)
		padding := max(width-2-lipgloss.Width(info)-len(dur), 1)

		lines = append(lines, fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render(icon),
			info,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(dur)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
