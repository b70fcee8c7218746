package components

import (
	"fmt"
	"time"
)

// truncate shortens s to max runes, ending with "..." when cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// window returns the [start, end) range of n items to show in height lines
// so that cursor stays visible, starting from offset.
func window(offset, cursor, n, height int) (int, int) {
	height = max(height, 1)
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	offset = max(min(offset, n-height), 0)
	return offset, min(offset+height, n)
}
