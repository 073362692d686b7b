package engine

import (
	"context"

	"github.com/tessro/cue/internal/core"
	cueerrors "github.com/tessro/cue/internal/errors"
)

func (e *Engine) guarded() bool {
	return e.state != Idle
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	e.logger.Debug("state change", "from", e.state, "to", s)
	e.state = s
	e.publish(Event{Type: EventStateChanged})
}

// settle ends an enforcement. Success keeps the detector suppressed for the
// guard delay so the transition the engine caused is not reported as a track
// end; failure returns to Idle at once.
func (e *Engine) settle(success bool) {
	if !success || e.cfg.GuardDelay <= 0 {
		e.guardUntil = e.now()
		e.guardC = nil
		e.setState(Idle)
		return
	}
	e.guardUntil = e.now().Add(e.cfg.GuardDelay)
	e.guardC = e.after(e.cfg.GuardDelay)
}

func (e *Engine) expireGuard() {
	if e.state != Idle && !e.now().Before(e.guardUntil) {
		e.setState(Idle)
	}
}

// withRetry calls fn, retrying once after the backoff when the failure is
// retryable. It returns the number of attempts made.
func (e *Engine) withRetry(ctx context.Context, op string, fn func(context.Context) error) (int, error) {
	err := fn(ctx)
	if err == nil || !cueerrors.Retryable(err) {
		return 1, err
	}

	e.logger.Warn("remote call failed, retrying", "op", op, "err", err, "backoff", e.cfg.RetryBackoff)
	if err := e.sleep(ctx, e.cfg.RetryBackoff); err != nil {
		return 1, err
	}
	return 2, fn(ctx)
}

// advance moves playback to the local queue head. Unless force is set, no
// play call is made when the remote is already headed there.
func (e *Engine) advance(ctx context.Context, force bool) error {
	e.setState(Advancing)

	prev := e.store.Current()
	cp := e.store.Checkpoint()

	next, ok := e.store.PopHead()
	if !ok {
		if !force {
			// Nothing queued locally; the remote continues with its own queue.
			e.settle(false)
			return nil
		}
		attempts, err := e.withRetry(ctx, "skip next", e.remote.SkipNext)
		return e.finishAdvance(prev, nil, true, attempts, err)
	}

	play := force || e.needsPlay(ctx, next)
	var attempts int
	var err error
	if play {
		attempts, err = e.withRetry(ctx, "play "+next.ID, func(ctx context.Context) error {
			return e.remote.PlayTrack(ctx, next.URI)
		})
	}
	if err != nil {
		e.store.Restore(cp)
	} else if e.mirror != nil {
		e.mirror.Advanced()
	}
	return e.finishAdvance(prev, &next, play, attempts, err)
}

func (e *Engine) finishAdvance(prev, next *core.Track, played bool, attempts int, err error) error {
	if err != nil {
		e.logger.Error("enforcement abandoned", "track", trackID(next), "attempts", attempts, "err", err)
		e.settle(false)
		e.publish(Event{Type: EventEnforcementFailed, Track: next, Attempts: attempts, Err: err})
		return err
	}

	e.settle(true)
	e.publish(Event{Type: EventEnforced, Track: next, Played: played, Attempts: attempts})
	e.publish(Event{Type: EventQueueChanged})

	if prev != nil && e.pending.Has(prev.ID) {
		e.pending.Remove(prev.ID)
		e.publish(Event{Type: EventPendingChanged})
	}
	return nil
}

// needsPlay reports whether the remote must be told to play next.
func (e *Engine) needsPlay(ctx context.Context, next core.Track) bool {
	if e.last.TrackID() == next.ID {
		return false
	}
	remoteNext, err := e.remote.QueueHead(ctx)
	if err != nil {
		e.logger.Debug("could not read remote queue head", "err", err)
		return true
	}
	return remoteNext == nil || remoteNext.ID != next.ID
}

// reverse moves playback back to the most recent history entry. It is a
// no-op when the history is empty.
func (e *Engine) reverse(ctx context.Context) error {
	e.setState(Reversing)

	cp := e.store.Checkpoint()
	prev, requeued, ok := e.store.PopHistoryTop()
	if !ok {
		e.settle(false)
		return nil
	}

	attempts, err := e.withRetry(ctx, "play "+prev.ID, func(ctx context.Context) error {
		return e.remote.PlayTrack(ctx, prev.URI)
	})
	if err != nil {
		e.store.Restore(cp)
		e.logger.Error("enforcement abandoned", "track", prev.ID, "attempts", attempts, "err", err)
		e.settle(false)
		e.publish(Event{Type: EventEnforcementFailed, Track: &prev, Attempts: attempts, Err: err})
		return err
	}

	if requeued && e.mirror != nil {
		e.mirror.Rewound()
	}
	e.settle(true)
	e.publish(Event{Type: EventEnforced, Track: &prev, Played: true, Attempts: attempts})
	e.publish(Event{Type: EventQueueChanged})
	return nil
}

func trackID(t *core.Track) string {
	if t == nil {
		return ""
	}
	return t.ID
}
