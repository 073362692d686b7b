package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/cue/internal/core"
	"github.com/tessro/cue/internal/tui/styles"
)

// History displays recently played tracks, newest first.
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Render renders the history panel. history is oldest first, as the engine
// keeps it; the top line is what skip-previous returns to.
func (h *History) Render(history []core.Track, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(history) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(history, width-4, height-4)
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

func (h *History) renderHistory(history []core.Track, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	// icon (2) + " — " (3)
	const overhead = 5

	for i := len(history) - 1; i >= 0 && len(lines) < maxLines; i-- {
		track := history[i]
		title, artist := fit(track.Title, track.ArtistLine(), width-overhead)

		icon := "✓"
		if i == len(history)-1 {
			icon = "↶"
		}

		lines = append(lines, fmt.Sprintf("%s %s — %s",
			styles.Dim.Render(icon),
			title,
			styles.Muted.Render(artist)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
