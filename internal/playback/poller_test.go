package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tessro/cue/internal/core"
)

type scriptedSource struct {
	mu    sync.Mutex
	steps []func() (*core.PlaybackSnapshot, error)
	calls int
}

func (s *scriptedSource) Snapshot(ctx context.Context) (*core.PlaybackSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}
	return s.steps[i]()
}

func ok(id string) func() (*core.PlaybackSnapshot, error) {
	return func() (*core.PlaybackSnapshot, error) {
		return &core.PlaybackSnapshot{Track: &core.Track{ID: id}}, nil
	}
}

func fail() (*core.PlaybackSnapshot, error) {
	return nil, errors.New("boom")
}

func TestPollerKeepsLastGoodSnapshot(t *testing.T) {
	src := &scriptedSource{steps: []func() (*core.PlaybackSnapshot, error){ok("a"), fail}}
	p := NewPoller(src, time.Hour)

	p.poll(context.Background())
	p.poll(context.Background())

	latest, fetched := p.Latest()
	if !fetched {
		t.Fatal("Latest() reports no successful fetch")
	}
	if latest.TrackID() != "a" {
		t.Errorf("Latest() = %q, want a", latest.TrackID())
	}
}

func TestPollerLatestBeforeFetch(t *testing.T) {
	src := &scriptedSource{steps: []func() (*core.PlaybackSnapshot, error){fail}}
	p := NewPoller(src, time.Hour)

	p.poll(context.Background())

	if _, fetched := p.Latest(); fetched {
		t.Error("Latest() reports a fetch after only failures")
	}
	select {
	case s := <-p.Snapshots():
		t.Errorf("failed fetch published %+v", s)
	default:
	}
}

func TestPollerPublishesNewest(t *testing.T) {
	src := &scriptedSource{steps: []func() (*core.PlaybackSnapshot, error){ok("a"), ok("b"), ok("c")}}
	p := NewPoller(src, time.Hour)

	for i := 0; i < 3; i++ {
		p.poll(context.Background())
	}

	select {
	case s := <-p.Snapshots():
		if s.TrackID() != "c" {
			t.Errorf("published %q, want newest c", s.TrackID())
		}
	default:
		t.Fatal("nothing published")
	}
}

func TestPollerRunStopsAndCloses(t *testing.T) {
	src := &scriptedSource{steps: []func() (*core.PlaybackSnapshot, error){ok("a")}}
	p := NewPoller(src, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case s := <-p.Snapshots():
		if s.TrackID() != "a" {
			t.Errorf("first snapshot = %q, want a", s.TrackID())
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop")
	}

	for range p.Snapshots() {
	}
}
