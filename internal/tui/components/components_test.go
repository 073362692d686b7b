package components

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/cue/internal/core"
)

func tracks(ids ...string) []core.Track {
	out := make([]core.Track, len(ids))
	for i, id := range ids {
		out[i] = core.Track{ID: id, Title: "Song " + id, Artists: []string{"Artist " + id}}
	}
	return out
}

func TestQueueSelectClamps(t *testing.T) {
	q := NewQueue()

	q.SelectPrev(3)
	if q.Selected() != 0 {
		t.Errorf("Selected() = %d, want 0", q.Selected())
	}
	q.SelectNext(3)
	q.SelectNext(3)
	q.SelectNext(3)
	if q.Selected() != 2 {
		t.Errorf("Selected() = %d, want 2", q.Selected())
	}
	q.Select(10, 0)
	if q.Selected() != 0 {
		t.Errorf("Selected() on empty queue = %d, want 0", q.Selected())
	}
}

func TestQueueWindowFollowsCursor(t *testing.T) {
	tests := []struct {
		name      string
		offset    int
		selected  int
		total     int
		visible   int
		wantStart int
		wantEnd   int
	}{
		{"fits", 0, 0, 3, 5, 0, 3},
		{"cursor below", 0, 7, 10, 4, 4, 8},
		{"cursor above", 6, 2, 10, 4, 2, 6},
		{"shrunk queue", 8, 1, 3, 4, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Queue{offset: tt.offset, selected: tt.selected}
			start, end := q.window(tt.total, tt.visible)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("window() = [%d,%d), want [%d,%d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestQueueRenderMarksPending(t *testing.T) {
	q := NewQueue()
	out := q.Render(tracks("a", "b"), func(id string) bool { return id == "b" }, 60, 12, false)

	var lineA, lineB string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Song a") {
			lineA = line
		}
		if strings.Contains(line, "Song b") {
			lineB = line
		}
	}
	if !strings.Contains(lineB, "✗") {
		t.Errorf("pending track not marked: %q", lineB)
	}
	if strings.Contains(lineA, "✗") {
		t.Errorf("non-pending track marked: %q", lineA)
	}
	if !strings.Contains(out, "Up Next (2)") {
		t.Errorf("missing count in title:\n%s", out)
	}
}

func TestQueueRenderEmpty(t *testing.T) {
	out := NewQueue().Render(nil, nil, 40, 8, true)
	if !strings.Contains(out, "Queue is empty") {
		t.Errorf("Render() = %q", out)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	out := NewHistory().Render(tracks("old", "new"), 60, 10, false)
	iNew := strings.Index(out, "Song new")
	iOld := strings.Index(out, "Song old")
	if iNew < 0 || iOld < 0 || iNew > iOld {
		t.Errorf("history order wrong:\n%s", out)
	}
}

func TestNowPlaying(t *testing.T) {
	n := NewNowPlaying()

	if out := n.Render(nil, "idle", 50, 10, false); !strings.Contains(out, "Nothing playing") {
		t.Errorf("empty render = %q", out)
	}

	snap := &core.PlaybackSnapshot{
		Track:       &core.Track{ID: "a", Title: "Teardrop", Artists: []string{"Massive Attack"}, Duration: 5 * time.Minute},
		IsPlaying:   true,
		Progress:    90 * time.Second,
		HasProgress: true,
	}
	out := n.Render(snap, "advancing", 60, 12, false)
	for _, want := range []string{"Teardrop", "Massive Attack", "1:30", "5:00", "advancing"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestFit(t *testing.T) {
	title, artist := fit("Short", "Band", 40)
	if title != "Short" || artist != "Band" {
		t.Errorf("fit() changed text that fits: %q %q", title, artist)
	}

	title, artist = fit(strings.Repeat("t", 50), strings.Repeat("a", 50), 30)
	if n := len(title) + len(artist); n > 30 {
		t.Errorf("fit() = %d columns, want <= 30", n)
	}
	if !strings.HasSuffix(title, "...") || !strings.HasSuffix(artist, "...") {
		t.Errorf("fit() = %q %q, want both truncated", title, artist)
	}
}
