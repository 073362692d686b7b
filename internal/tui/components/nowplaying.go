package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/cue/internal/core"
	"github.com/tessro/cue/internal/tui/styles"
)

// NowPlaying displays the currently playing track
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel. state is the engine state name,
// shown while an enforcement is in flight.
func (n *NowPlaying) Render(snap *core.PlaybackSnapshot, state string, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if !snap.HasTrack() {
		content = styles.Muted.Render("Nothing playing")
	} else {
		content = n.renderTrack(snap, width-4)
	}

	if state != "" && state != "idle" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", styles.Paused.Render("⟳ "+state))
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

func (n *NowPlaying) renderTrack(snap *core.PlaybackSnapshot, width int) string {
	track := snap.Track

	icon := styles.StatusIcon(snap.IsPlaying)
	titleStyle := styles.Title.Width(max(width-4, 1))
	title := titleStyle.Render(track.Title)

	artist := styles.Subtitle.Render(track.ArtistLine())
	album := styles.Dim.Render(track.Album)

	lines := []string{
		icon + " " + title,
		"  " + artist,
		"  " + album,
	}

	if snap.HasProgress && track.Duration > 0 {
		progressWidth := width - 14
		if progressWidth < 10 {
			progressWidth = 10
		}
		bar := styles.ProgressBar(snap.ProgressPercent(), progressWidth)
		lines = append(lines, "", fmt.Sprintf("%s %s %s",
			formatDuration(snap.Progress), bar, formatDuration(track.Duration)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
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
