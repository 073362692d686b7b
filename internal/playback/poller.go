// Package playback turns polled remote playback state into a value stream and
// derives discrete track-end events from it.
package playback

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tessro/cue/internal/core"
)

// DefaultInterval is the poll period used when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Poller fetches a snapshot on a fixed interval and publishes it. It is the
// only writer of the latest snapshot.
type Poller struct {
	source   core.SnapshotSource
	interval time.Duration
	logger   *log.Logger

	latest  atomic.Pointer[core.PlaybackSnapshot]
	fetched atomic.Bool
	out     chan *core.PlaybackSnapshot
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *log.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPoller creates a poller over source.
func NewPoller(source core.SnapshotSource, interval time.Duration, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		source:   source,
		interval: interval,
		logger:   log.New(io.Discard),
		out:      make(chan *core.PlaybackSnapshot, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshots returns the stream of fetched snapshots. A slow reader only ever
// sees the newest value; older unread snapshots are dropped. The channel is
// closed when Run returns.
func (p *Poller) Snapshots() <-chan *core.PlaybackSnapshot {
	return p.out
}

// Latest returns the most recent successfully fetched snapshot. The second
// value is false until the first fetch succeeds.
func (p *Poller) Latest() (*core.PlaybackSnapshot, bool) {
	return p.latest.Load(), p.fetched.Load()
}

// Run polls until ctx is done. Fetch failures are logged and the previous
// snapshot is kept.
func (p *Poller) Run(ctx context.Context) error {
	defer close(p.out)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snap, err := p.source.Snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Debug("snapshot fetch failed", "err", err)
		}
		return
	}

	p.latest.Store(snap)
	p.fetched.Store(true)
	p.publish(snap)
}

func (p *Poller) publish(snap *core.PlaybackSnapshot) {
	select {
	case p.out <- snap:
		return
	default:
	}
	// Replace the unread value with the newer one.
	select {
	case <-p.out:
	default:
	}
	select {
	case p.out <- snap:
	default:
	}
}
