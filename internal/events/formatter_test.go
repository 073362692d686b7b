package events

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tessro/cue/internal/core"
	"github.com/tessro/cue/internal/engine"
	"github.com/tessro/cue/internal/playback"
)

var at = time.Date(2026, 3, 4, 12, 30, 45, 0, time.UTC)

func track() *core.Track {
	return &core.Track{ID: "b", Title: "Blue", Artists: []string{"Joni Mitchell"}, Album: "Blue"}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name  string
		event engine.Event
		want  string
	}{
		{
			name:  "enforced",
			event: engine.Event{Type: engine.EventEnforced, Track: track(), Played: true},
			want:  "🎵 Now playing: Joni Mitchell - Blue",
		},
		{
			name:  "already positioned",
			event: engine.Event{Type: engine.EventEnforced, Track: track()},
			want:  "🎵 Already playing: Joni Mitchell - Blue",
		},
		{
			name:  "track ended",
			event: engine.Event{Type: engine.EventTrackEnded, Track: track(), Trigger: playback.TriggerProgressExhausted},
			want:  "✅ Finished: Joni Mitchell - Blue (" + playback.TriggerProgressExhausted.String() + ")",
		},
		{
			name: "enforcement failed",
			event: engine.Event{
				Type: engine.EventEnforcementFailed, Track: track(), Attempts: 2, Err: errors.New("boom"),
			},
			want: "⚠️ Could not play Joni Mitchell - Blue after 2 attempts: boom",
		},
		{
			name:  "state",
			event: engine.Event{Type: engine.EventStateChanged, State: engine.Advancing},
			want:  "🔁 State: " + engine.Advancing.String(),
		},
		{
			name:  "paused snapshot",
			event: engine.Event{Type: engine.EventSnapshot, Snapshot: &core.PlaybackSnapshot{Track: track()}},
			want:  "📡 Paused: Joni Mitchell - Blue",
		},
		{
			name:  "empty snapshot",
			event: engine.Event{Type: engine.EventSnapshot, Snapshot: &core.PlaybackSnapshot{}},
			want:  "📡 Nothing playing",
		},
	}

	f := NewFormatter(WithSnapshots(true))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := f.Format(tt.event)
			if !ok {
				t.Fatal("Format() hid the event")
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSnapshotsHiddenByDefault(t *testing.T) {
	f := NewFormatter()
	if _, ok := f.Format(engine.Event{Type: engine.EventSnapshot}); ok {
		t.Error("snapshot events should be hidden unless enabled")
	}
}

func TestTimestampAndNoEmoji(t *testing.T) {
	f := NewFormatter(WithEmoji(false), WithTimestamp(true))
	got, _ := f.Format(engine.Event{Type: engine.EventQueueChanged, Timestamp: at})
	if got != "12:30:45 Queue updated" {
		t.Errorf("Format() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	opt, err := WithTemplate("{{.Type}}|{{.Artist}}|{{.Title}}|{{.Time}}")
	if err != nil {
		t.Fatalf("WithTemplate() error = %v", err)
	}
	f := NewFormatter(opt)

	got, _ := f.Format(engine.Event{Type: engine.EventEnforced, Track: track(), Timestamp: at})
	if got != "enforced|Joni Mitchell|Blue|12:30:45" {
		t.Errorf("Format() = %q", got)
	}
}

func TestInvalidTemplate(t *testing.T) {
	if _, err := WithTemplate("{{.Type"); err == nil {
		t.Error("WithTemplate() accepted a malformed template")
	}
}

func TestNewRecordUsesSnapshotTrack(t *testing.T) {
	r := NewRecord(engine.Event{
		Type:     engine.EventSnapshot,
		Snapshot: &core.PlaybackSnapshot{Track: track(), IsPlaying: true},
	})
	if r.TrackID != "b" || r.Title != "Blue" {
		t.Errorf("record = %+v", r)
	}
	if r.Trigger != "" {
		t.Errorf("Trigger = %q, want empty for snapshots", r.Trigger)
	}
}

func TestNewRecordError(t *testing.T) {
	r := NewRecord(engine.Event{Type: engine.EventMirrorFailed, Err: errors.New("gone")})
	if r.Error != "gone" || !strings.Contains(describe(engine.Event{Type: engine.EventMirrorFailed, Err: errors.New("gone")}), "gone") {
		t.Errorf("record = %+v", r)
	}
}
