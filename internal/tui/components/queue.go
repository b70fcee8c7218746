package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/segue/internal/core"
	"github.com/tessro/segue/internal/tui/styles"
)

// Queue displays what plays next
type Queue struct {
	offset int
}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{}
}

// ScrollDown scrolls the queue down
func (q *Queue) ScrollDown() {
	q.offset++
}

// ScrollUp scrolls the queue up
func (q *Queue) ScrollUp() {
	if q.offset > 0 {
		q.offset--
	}
}

// Render renders the queue panel
func (q *Queue) Render(queue *core.Queue, mode core.Mode, width, height int, focused bool) string {
	title := styles.PanelTitle("Up Next", focused)

	var content string
	switch {
	case queue != nil && !queue.IsEmpty():
		content = q.renderQueue(queue, width-4, height-4)
	case mode == core.ModeSingle:
		content = styles.Muted.Render("Repeating the current track")
	case mode == core.ModeShuffle:
		content = styles.Muted.Render("Shuffling")
	default:
		content = styles.Muted.Render("Queue is empty")
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (q *Queue) renderQueue(queue *core.Queue, width, maxLines int) string {
	tracks := queue.Tracks

	if q.offset >= len(tracks) {
		q.offset = 0
	}

	visibleCount := max(maxLines-1, 1) // Leave room for "more" indicator
	start := q.offset
	end := min(start+visibleCount, len(tracks))

	// "XX. " (4) + marker (2) + " — " (3)
	const overhead = 9

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		track := tracks[i]
		num := fmt.Sprintf("%2d.", i+1)

		available := width - overhead
		album := truncate(track.Album, available/3)
		title := truncate(track.Title, available-len([]rune(album)))

		var line string
		if queue.IsQueued(i) {
			line = styles.Queued.Render(fmt.Sprintf("%s ● %s — %s", num, title, album))
		} else {
			line = fmt.Sprintf("%s   %s — %s",
				styles.Dim.Render(num),
				title,
				styles.Muted.Render(album))
		}
		lines = append(lines, line)
	}

	if end < len(tracks) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
