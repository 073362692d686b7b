// Package events renders engine events for terminal output.
package events

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/cue/internal/engine"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	showSnapshots bool
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

// WithSnapshots includes every polled snapshot in the output.
func WithSnapshots(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showSnapshots = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is an error
// here rather than a silent fallback.
func WithTemplate(tmpl string) (FormatterOption, error) {
	if tmpl == "" {
		return func(*Formatter) {}, nil
	}
	t, err := template.New("format").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("invalid format template: %w", err)
	}
	return func(f *Formatter) {
		f.template = t
	}, nil
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string. The second return value is false for
// events the formatter is configured to hide.
func (f *Formatter) Format(e engine.Event) (string, bool) {
	if e.Type == engine.EventSnapshot && !f.showSnapshots {
		return "", false
	}
	if f.template != nil {
		return f.formatTemplate(e), true
	}
	return f.formatLine(e), true
}

func (f *Formatter) formatLine(e engine.Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, describe(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e engine.Event) string {
	var buf bytes.Buffer
	if err := f.template.Execute(&buf, NewRecord(e)); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

// Record is the flat form of an event used by templates and JSON output.
type Record struct {
	Type      string    `json:"type"`
	Emoji     string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"-"`
	State     string    `json:"state"`
	TrackID   string    `json:"track_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Artist    string    `json:"artist,omitempty"`
	Album     string    `json:"album,omitempty"`
	Trigger   string    `json:"trigger,omitempty"`
	Played    bool      `json:"played,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// NewRecord flattens an event.
func NewRecord(e engine.Event) Record {
	r := Record{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		State:     e.State.String(),
		Played:    e.Played,
		Attempts:  e.Attempts,
	}

	track := e.Track
	if track == nil && e.Snapshot != nil {
		track = e.Snapshot.Track
	}
	if track != nil {
		r.TrackID = track.ID
		r.Title = track.Title
		r.Artist = track.ArtistLine()
		r.Album = track.Album
	}
	if e.Type == engine.EventTrackEnded {
		r.Trigger = e.Trigger.String()
	}
	if e.Err != nil {
		r.Error = e.Err.Error()
	}
	return r
}

func trackLabel(e engine.Event) string {
	if e.Track == nil {
		return ""
	}
	if artist := e.Track.ArtistLine(); artist != "" {
		return fmt.Sprintf("%s - %s", artist, e.Track.Title)
	}
	return e.Track.Title
}

// describe returns a human-readable description of the event.
func describe(e engine.Event) string {
	label := trackLabel(e)

	switch e.Type {
	case engine.EventSnapshot:
		if e.Snapshot == nil || e.Snapshot.Track == nil {
			return "Nothing playing"
		}
		t := e.Snapshot.Track
		status := "Playing"
		if !e.Snapshot.IsPlaying {
			status = "Paused"
		}
		return fmt.Sprintf("%s: %s - %s", status, t.ArtistLine(), t.Title)

	case engine.EventTrackEnded:
		if label == "" {
			return fmt.Sprintf("Track ended (%s)", e.Trigger)
		}
		return fmt.Sprintf("Finished: %s (%s)", label, e.Trigger)

	case engine.EventEnforced:
		if !e.Played {
			return fmt.Sprintf("Already playing: %s", orUnknown(label))
		}
		if label == "" {
			return "Advanced"
		}
		return fmt.Sprintf("Now playing: %s", label)

	case engine.EventEnforcementFailed:
		msg := fmt.Sprintf("Could not play %s after %d attempts", orUnknown(label), e.Attempts)
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg

	case engine.EventStateChanged:
		return fmt.Sprintf("State: %s", e.State)

	case engine.EventQueueChanged:
		return "Queue updated"

	case engine.EventPendingChanged:
		return "Pending removals updated"

	case engine.EventMirrorFailed:
		if e.Err != nil {
			return fmt.Sprintf("Mirror playlist out of sync: %v", e.Err)
		}
		return "Mirror playlist out of sync"

	default:
		return "Unknown event"
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "track"
	}
	return s
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t engine.EventType) string {
	switch t {
	case engine.EventSnapshot:
		return "📡"
	case engine.EventTrackEnded:
		return "✅"
	case engine.EventEnforced:
		return "🎵"
	case engine.EventEnforcementFailed:
		return "⚠️"
	case engine.EventStateChanged:
		return "🔁"
	case engine.EventQueueChanged:
		return "📝"
	case engine.EventPendingChanged:
		return "🗑️"
	case engine.EventMirrorFailed:
		return "🪞"
	default:
		return "❓"
	}
}
