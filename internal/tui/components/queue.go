package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/cue/internal/core"
	"github.com/tessro/cue/internal/tui/styles"
)

// Queue displays the smart queue with a movable cursor.
type Queue struct {
	offset   int
	selected int
}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{}
}

// Selected returns the selected index
func (q *Queue) Selected() int {
	return q.selected
}

// Select moves the cursor to i, clamped to a queue of length n.
func (q *Queue) Select(i, n int) {
	if n == 0 {
		q.selected = 0
		return
	}
	q.selected = min(max(i, 0), n-1)
}

// SelectNext moves the cursor down within a queue of length n.
func (q *Queue) SelectNext(n int) {
	q.Select(q.selected+1, n)
}

// SelectPrev moves the cursor up.
func (q *Queue) SelectPrev(n int) {
	q.Select(q.selected-1, n)
}

// Render renders the queue panel. pending reports tracks flagged for removal.
func (q *Queue) Render(tracks []core.Track, pending func(id string) bool, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("Up Next (%d)", len(tracks)), focused)

	var content string
	if len(tracks) == 0 {
		content = styles.Muted.Render("Queue is empty. Press / to search.")
	} else {
		q.Select(q.selected, len(tracks))
		content = q.renderQueue(tracks, pending, width-4, height-4, focused)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

// window returns the visible range that keeps the cursor on screen.
func (q *Queue) window(total, visible int) (start, end int) {
	if visible < 1 {
		visible = 1
	}
	if q.selected < q.offset {
		q.offset = q.selected
	}
	if q.selected >= q.offset+visible {
		q.offset = q.selected - visible + 1
	}
	if q.offset > total-visible {
		q.offset = max(total-visible, 0)
	}
	return q.offset, min(q.offset+visible, total)
}

func (q *Queue) renderQueue(tracks []core.Track, pending func(string) bool, width, maxLines int, focused bool) string {
	start, end := q.window(len(tracks), maxLines-1)
	lines := make([]string, 0, end-start+1)

	// "XX. " (4) + marker (2) + " — " (3)
	const overhead = 9

	for i := start; i < end; i++ {
		track := tracks[i]
		num := fmt.Sprintf("%2d.", i+1)
		title, artist := fit(track.Title, track.ArtistLine(), width-overhead)

		marker := "  "
		isPending := pending != nil && pending(track.ID)
		if isPending {
			marker = "✗ "
		}

		var line string
		if isPending {
			line = styles.Pending.Render(fmt.Sprintf("%s %s%s — %s", num, marker, title, artist))
		} else {
			line = fmt.Sprintf("%s %s%s — %s",
				styles.Dim.Render(num),
				marker,
				title,
				styles.Muted.Render(artist))
		}
		if focused && i == q.selected {
			line = styles.Selected.Render(line)
		}

		lines = append(lines, line)
	}

	if end < len(tracks) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// fit truncates title and artist to share available columns, giving the
// artist at least a third.
func fit(title, artist string, available int) (string, string) {
	titleLen := len([]rune(title))
	artistLen := len([]rune(artist))
	if titleLen+artistLen <= available {
		return title, artist
	}

	minArtist := available / 3
	if minArtist < 10 {
		minArtist = 10
	}
	if minArtist > available-10 {
		minArtist = available - 10
	}

	artistSpace := minArtist
	if artistLen < artistSpace {
		artistSpace = artistLen
	}
	titleSpace := available - artistSpace

	return truncate(title, titleSpace), truncate(artist, artistSpace)
}

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
