package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tessro/cue/internal/core"
)

// fakeRemote records every call made to it.
type fakeRemote struct {
	mu sync.Mutex

	queue    *core.Queue
	headErrs []error
	playErrs []error
	skipErrs []error

	plays     []string
	playLists [][]string
	skips     int
	previous  int
	pauses    int
	resumes   int
}

func (f *fakeRemote) Snapshot(ctx context.Context) (*core.PlaybackSnapshot, error) {
	return nil, nil
}

func (f *fakeRemote) RemoteQueue(ctx context.Context) (*core.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queue == nil {
		return &core.Queue{}, nil
	}
	return f.queue, nil
}

func (f *fakeRemote) QueueHead(ctx context.Context) (*core.Track, error) {
	f.mu.Lock()
	err := pop(&f.headErrs)
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	q, _ := f.RemoteQueue(ctx)
	return q.Head(), nil
}

func (f *fakeRemote) PlayTrack(ctx context.Context, uri string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays = append(f.plays, uri)
	return pop(&f.playErrs)
}

func (f *fakeRemote) PlayList(ctx context.Context, uris []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playLists = append(f.playLists, uris)
	return pop(&f.playErrs)
}

func (f *fakeRemote) Pause(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
	return nil
}

func (f *fakeRemote) Resume(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
	return nil
}

func (f *fakeRemote) SkipNext(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skips++
	return pop(&f.skipErrs)
}

func (f *fakeRemote) SkipPrevious(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.previous++
	return nil
}

func (f *fakeRemote) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plays)
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

// fakeMirror records mutations forwarded by the engine.
type fakeMirror struct {
	mu       sync.Mutex
	appended []string
	moves    [][2]int
	removed  []string
	advanced int
	rewound  int
	err      error
}

func (m *fakeMirror) Append(ctx context.Context, tracks []core.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended = append(m.appended, core.URIs(tracks)...)
	return m.err
}

func (m *fakeMirror) Move(ctx context.Context, from, to int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves = append(m.moves, [2]int{from, to})
	return m.err
}

func (m *fakeMirror) Remove(ctx context.Context, uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, uri)
	return m.err
}

func (m *fakeMirror) Advanced() { m.advanced++ }
func (m *fakeMirror) Rewound()  { m.rewound++ }

// testClock is a manually advanced clock.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type harness struct {
	engine  *Engine
	remote  *fakeRemote
	clock   *testClock
	sleeps  []time.Duration
	guardCh chan time.Time
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		remote:  &fakeRemote{},
		clock:   &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
		guardCh: make(chan time.Time),
	}
	h.engine = New(h.remote, opts...)
	h.engine.now = h.clock.Now
	h.engine.after = func(time.Duration) <-chan time.Time { return h.guardCh }
	h.engine.sleep = func(ctx context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		return nil
	}
	return h
}

func tr(id string) core.Track {
	return core.Track{ID: id, URI: "spotify:track:" + id, Duration: time.Minute}
}

func tracks(ids ...string) []core.Track {
	out := make([]core.Track, len(ids))
	for i, id := range ids {
		out[i] = tr(id)
	}
	return out
}

func playing(id string, progress time.Duration) *core.PlaybackSnapshot {
	t := tr(id)
	return &core.PlaybackSnapshot{Track: &t, IsPlaying: true, Progress: progress, HasProgress: true}
}

func nearEnd(id string) *core.PlaybackSnapshot {
	return playing(id, time.Minute-500*time.Millisecond)
}

func upcomingIDs(e *Engine) []string {
	var ids []string
	for _, t := range e.store.Upcoming() {
		ids = append(ids, t.ID)
	}
	return ids
}
