package engine

import (
	"context"
	"errors"

	"github.com/tessro/cue/internal/core"
)

// ErrEmptyQueue is returned by PlayQueue when nothing is queued.
var ErrEmptyQueue = errors.New("queue is empty")

// View is a copy of the engine's state for display.
type View struct {
	State    State
	Current  *core.Track
	Upcoming []core.Track
	History  []core.Track
	Pending  []string
	Snapshot *core.PlaybackSnapshot
}

// IsPending reports whether id is flagged for removal.
func (v View) IsPending(id string) bool {
	for _, p := range v.Pending {
		if p == id {
			return true
		}
	}
	return false
}

// View returns a copy of the current engine state.
func (e *Engine) View(ctx context.Context) (View, error) {
	var v View
	err := e.submit(ctx, func(context.Context) error {
		v = e.view()
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return v, nil
}

func (e *Engine) view() View {
	return View{
		State:    e.state,
		Current:  e.store.Current(),
		Upcoming: e.store.Upcoming(),
		History:  e.store.History(),
		Pending:  e.pending.IDs(),
		Snapshot: e.last,
	}
}

// SkipNext forces playback to the local queue head. With an empty local
// queue the remote skips within its own queue.
func (e *Engine) SkipNext(ctx context.Context) error {
	return e.submit(ctx, func(ctx context.Context) error {
		return e.advance(ctx, true)
	})
}

// SkipPrevious returns playback to the most recently played track.
func (e *Engine) SkipPrevious(ctx context.Context) error {
	return e.submit(ctx, e.reverse)
}

// Add appends tracks to the queue and returns the new length. The mirror
// playlist is updated after Add returns.
func (e *Engine) Add(ctx context.Context, tracks ...core.Track) (int, error) {
	var n int
	err := e.submit(ctx, func(context.Context) error {
		n = e.add(tracks)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (e *Engine) add(tracks []core.Track) int {
	n := e.store.Len()
	for _, t := range tracks {
		n = e.store.Add(t)
	}
	if len(tracks) == 0 {
		return n
	}
	e.publish(Event{Type: EventQueueChanged})

	if e.mirror != nil {
		added := append([]core.Track(nil), tracks...)
		e.deferRemote(func(ctx context.Context) {
			e.mirrorCall(e.mirror.Append(ctx, added))
		})
	}
	return n
}

// Remove drops every queued track with id and reports whether any were
// queued.
func (e *Engine) Remove(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := e.submit(ctx, func(context.Context) error {
		removed = e.remove(id)
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (e *Engine) remove(id string) bool {
	i := e.store.IndexOf(id)
	if i < 0 {
		return false
	}
	uri := e.store.Upcoming()[i].URI
	e.store.Remove(id)
	e.publish(Event{Type: EventQueueChanged})

	if e.mirror != nil {
		e.deferRemote(func(ctx context.Context) {
			e.mirrorCall(e.mirror.Remove(ctx, uri))
		})
	}
	return true
}

// Move reorders the queue. It reports false when the move was a no-op.
func (e *Engine) Move(ctx context.Context, from, to int) (bool, error) {
	var moved bool
	err := e.submit(ctx, func(context.Context) error {
		moved = e.move(from, to)
		return nil
	})
	if err != nil {
		return false, err
	}
	return moved, nil
}

func (e *Engine) move(from, to int) bool {
	if !e.store.Move(from, to) {
		return false
	}
	e.publish(Event{Type: EventQueueChanged})

	if e.mirror != nil {
		e.deferRemote(func(ctx context.Context) {
			e.mirrorCall(e.mirror.Move(ctx, from, to))
		})
	}
	return true
}

// TogglePending flags or unflags a track for skipping and reports whether it
// is now flagged.
func (e *Engine) TogglePending(ctx context.Context, id string) (bool, error) {
	var flagged bool
	err := e.submit(ctx, func(context.Context) error {
		flagged = e.pending.Toggle(id)
		e.publish(Event{Type: EventPendingChanged})
		return nil
	})
	if err != nil {
		return false, err
	}
	return flagged, nil
}

// TogglePlay pauses when the last snapshot shows playback, and resumes
// otherwise.
func (e *Engine) TogglePlay(ctx context.Context) error {
	return e.submit(ctx, func(ctx context.Context) error {
		if e.last != nil && e.last.IsPlaying {
			return e.remote.Pause(ctx)
		}
		return e.remote.Resume(ctx)
	})
}

// PlayQueue starts the remote on the local queue: the head becomes current
// and the rest follows it.
func (e *Engine) PlayQueue(ctx context.Context) error {
	return e.submit(ctx, e.playQueue)
}

func (e *Engine) playQueue(ctx context.Context) error {
	if e.store.Len() == 0 {
		return ErrEmptyQueue
	}
	e.setState(Advancing)

	cp := e.store.Checkpoint()
	uris := core.URIs(e.store.Upcoming())
	head, _ := e.store.PopHead()

	attempts, err := e.withRetry(ctx, "play queue", func(ctx context.Context) error {
		return e.remote.PlayList(ctx, uris)
	})
	if err != nil {
		e.store.Restore(cp)
	} else if e.mirror != nil {
		e.mirror.Advanced()
	}
	return e.finishAdvance(nil, &head, true, attempts, err)
}

func (e *Engine) mirrorCall(err error) {
	if err == nil {
		return
	}
	e.logger.Warn("mirror playlist update failed", "err", err)
	e.publish(Event{Type: EventMirrorFailed, Err: err})
}
