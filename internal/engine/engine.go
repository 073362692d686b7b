// Package engine keeps the local smart queue and the remote player in step.
//
// All queue state is owned by a single event loop (Run). Snapshots from the
// poller and user commands are processed one at a time on that loop, so the
// queue store, pending set and detector need no locks. Remote calls made by
// the loop block it; nothing else runs concurrently with enforcement.
package engine

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tessro/cue/internal/core"
	"github.com/tessro/cue/internal/playback"
	"github.com/tessro/cue/internal/queue"
)

// ErrStopped is returned by commands submitted after Run has returned.
var ErrStopped = errors.New("engine stopped")

// Config holds the engine's timing parameters.
type Config struct {
	NearEndThreshold time.Duration
	RetryBackoff     time.Duration
	// GuardDelay is how long the detector stays suppressed after a
	// successful enforcement.
	GuardDelay time.Duration
	// ImportOnStart seeds the local queue from the remote queue when Run
	// starts.
	ImportOnStart bool
}

// DefaultConfig returns the default timing parameters.
func DefaultConfig() Config {
	return Config{
		NearEndThreshold: playback.DefaultNearEndThreshold,
		RetryBackoff:     500 * time.Millisecond,
		GuardDelay:       2 * time.Second,
		ImportOnStart:    true,
	}
}

// Mirror receives local queue mutations so a remote playlist can follow
// them. Indices are local queue indices.
type Mirror interface {
	Append(ctx context.Context, tracks []core.Track) error
	Move(ctx context.Context, from, to int) error
	Remove(ctx context.Context, uri string) error
	// Advanced and Rewound report that the queue head was consumed or put
	// back. They make no remote calls.
	Advanced()
	Rewound()
}

// Engine is the enforcement engine.
type Engine struct {
	remote   core.Remote
	mirror   Mirror
	cfg      Config
	logger   *log.Logger
	store    *queue.Store
	pending  *queue.PendingSet
	detector *playback.Detector

	// Owned by the event loop.
	state      State
	guardUntil time.Time
	guardC     <-chan time.Time
	last       *core.PlaybackSnapshot
	followups  []func(context.Context)

	commands chan command
	done     chan struct{}
	stopOnce sync.Once

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
	sleep func(context.Context, time.Duration) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the timing parameters.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMirror attaches a mirror playlist.
func WithMirror(m Mirror) Option {
	return func(e *Engine) {
		e.mirror = m
	}
}

// New creates an engine driving remote.
func New(remote core.Remote, opts ...Option) *Engine {
	e := &Engine{
		remote:   remote,
		cfg:      DefaultConfig(),
		logger:   log.New(io.Discard),
		store:    queue.NewStore(),
		pending:  queue.NewPendingSet(),
		commands: make(chan command),
		done:     make(chan struct{}),
		subs:     make(map[int]chan Event),
		now:      time.Now,
		after:    time.After,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.detector = playback.NewDetector(e.cfg.NearEndThreshold)
	return e
}

// Run processes snapshots and commands until ctx is done. Subscriber
// channels are closed when it returns.
func (e *Engine) Run(ctx context.Context, snapshots <-chan *core.PlaybackSnapshot) error {
	defer e.stop()

	if e.cfg.ImportOnStart {
		if err := e.importRemote(ctx); err != nil {
			e.logger.Warn("could not import remote queue", "err", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case snap, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			e.handleSnapshot(ctx, snap)

		case cmd := <-e.commands:
			cmd.reply <- cmd.fn(ctx)
			e.runFollowups(ctx)

		case <-e.guardC:
			e.guardC = nil
			e.expireGuard()
		}
	}
}

func (e *Engine) stop() {
	e.stopOnce.Do(func() {
		close(e.done)
		e.closeSubscribers()
	})
}

type command struct {
	fn    func(context.Context) error
	reply chan error
}

// submit runs fn on the event loop and waits for its result.
func (e *Engine) submit(ctx context.Context, fn func(context.Context) error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}

	select {
	case e.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrStopped
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// deferRemote queues a remote call to run after the current command has replied.
func (e *Engine) deferRemote(fn func(context.Context)) {
	e.followups = append(e.followups, fn)
}

func (e *Engine) runFollowups(ctx context.Context) {
	for len(e.followups) > 0 {
		fn := e.followups[0]
		e.followups = e.followups[1:]
		fn(ctx)
	}
}

// importRemote seeds the local queue from the remote queue.
func (e *Engine) importRemote(ctx context.Context) error {
	q, err := e.remote.RemoteQueue(ctx)
	if err != nil {
		return err
	}
	e.store.Seed(q.Current, q.Upcoming)
	e.logger.Info("imported remote queue", "tracks", len(q.Upcoming))
	e.publish(Event{Type: EventQueueChanged})
	return nil
}

func (e *Engine) handleSnapshot(ctx context.Context, snap *core.PlaybackSnapshot) {
	e.expireGuard()
	e.last = snap
	e.publish(Event{Type: EventSnapshot, Snapshot: snap})

	if ev := e.detector.Observe(snap, e.guarded()); ev != nil {
		e.logger.Debug("track ended", "track", ev.Track.ID, "trigger", ev.Trigger)
		ended := ev.Track
		e.publish(Event{Type: EventTrackEnded, Track: &ended, Trigger: ev.Trigger})
		_ = e.advance(ctx, false)
		return
	}

	if e.guarded() || !snap.HasTrack() {
		return
	}
	changed, consumed := e.store.Observe(snap.Track)
	if consumed && e.mirror != nil {
		e.mirror.Advanced()
	}
	if changed {
		e.publish(Event{Type: EventQueueChanged})
	}

	// Pending tracks are skipped when reached. On failure the flag stays and
	// the next snapshot tries again.
	if id := snap.TrackID(); e.pending.Has(id) {
		e.logger.Info("skipping pending track", "track", id)
		_ = e.advance(ctx, true)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
