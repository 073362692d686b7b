package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is a set of colors for one theme.
type Palette struct {
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color
	Selection lipgloss.Color
}

// Dark is the default palette.
var Dark = Palette{
	Primary:   lipgloss.Color("#7C3AED"), // Purple
	Accent:    lipgloss.Color("#1DB954"), // Spotify green
	Warning:   lipgloss.Color("#F59E0B"), // Amber
	Error:     lipgloss.Color("#EF4444"), // Red
	Border:    lipgloss.Color("#4B5563"),
	Text:      lipgloss.Color("#F9FAFB"),
	TextMuted: lipgloss.Color("#9CA3AF"),
	TextDim:   lipgloss.Color("#6B7280"),
	Selection: lipgloss.Color("#374151"),
}

// Light suits light terminal backgrounds.
var Light = Palette{
	Primary:   lipgloss.Color("#6D28D9"),
	Accent:    lipgloss.Color("#15803D"),
	Warning:   lipgloss.Color("#B45309"),
	Error:     lipgloss.Color("#B91C1C"),
	Border:    lipgloss.Color("#D1D5DB"),
	Text:      lipgloss.Color("#111827"),
	TextMuted: lipgloss.Color("#4B5563"),
	TextDim:   lipgloss.Color("#9CA3AF"),
	Selection: lipgloss.Color("#E5E7EB"),
}

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	Pending   lipgloss.Style
	Error     lipgloss.Style
	Selected  lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

var current Palette

func init() {
	Use(Dark)
}

// SetTheme selects a palette by config name: "dark", "light" or "auto".
func SetTheme(name string) {
	switch name {
	case "light":
		Use(Light)
	case "dark":
		Use(Dark)
	default:
		if lipgloss.HasDarkBackground() {
			Use(Dark)
		} else {
			Use(Light)
		}
	}
}

// Use rebuilds every style from p.
func Use(p Palette) {
	current = p

	Title = lipgloss.NewStyle().Bold(true).Foreground(p.Text)
	Subtitle = lipgloss.NewStyle().Foreground(p.TextMuted)
	Label = lipgloss.NewStyle().Foreground(p.TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Muted = lipgloss.NewStyle().Foreground(p.TextMuted)
	Dim = lipgloss.NewStyle().Foreground(p.TextDim)
	Playing = lipgloss.NewStyle().Foreground(p.Accent)
	Paused = lipgloss.NewStyle().Foreground(p.Warning)
	Pending = lipgloss.NewStyle().Strikethrough(true).Foreground(p.TextDim)
	Error = lipgloss.NewStyle().Foreground(p.Error)
	Selected = lipgloss.NewStyle().Background(p.Selection)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary)
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(current.Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(current.Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}
