package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/segue/internal/core"
	"github.com/tessro/segue/internal/tui/styles"
)

// LibraryRow is one track as shown in the library panel.
type LibraryRow struct {
	Track    core.Track
	Selected bool
	Playing  bool
}

// Library displays the track list with a movable cursor.
type Library struct {
	offset int
	cursor int
}

// NewLibrary creates a new Library component
func NewLibrary() *Library {
	return &Library{}
}

// Cursor returns the row under the cursor.
func (l *Library) Cursor() int {
	return l.cursor
}

// MoveTo puts the cursor on row, clamped to n rows.
func (l *Library) MoveTo(row, n int) {
	l.cursor = min(max(row, 0), max(n-1, 0))
}

// Down moves the cursor down one row.
func (l *Library) Down(n int) {
	l.MoveTo(l.cursor+1, n)
}

// Up moves the cursor up one row.
func (l *Library) Up(n int) {
	l.MoveTo(l.cursor-1, n)
}

// Render renders the library panel
func (l *Library) Render(rows []LibraryRow, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("Library (%d)", len(rows)), focused)

	var content string
	if len(rows) == 0 {
		content = styles.Muted.Render("No tracks. Run with a music directory to import one.")
	} else {
		content = l.renderRows(rows, width-4, height-4, focused)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (l *Library) renderRows(rows []LibraryRow, width, maxLines int, focused bool) string {
	l.cursor = min(l.cursor, len(rows)-1)
	start, end := window(l.offset, l.cursor, len(rows), maxLines)
	l.offset = start

	// "▶ ● " markers plus the " — " separator
	const overhead = 7

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := rows[i]

		marker := "  "
		if row.Playing {
			marker = styles.Playing.Render("▶ ")
		}
		sel := "  "
		if row.Selected {
			sel = styles.Queued.Render("● ")
		}

		available := width - overhead
		album := truncate(row.Track.Album, available/3)
		name := truncate(row.Track.Title, available-len([]rune(album)))

		line := marker + sel + name + styles.Muted.Render(" — "+album)
		if focused && i == l.cursor {
			line = styles.Cursor.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
