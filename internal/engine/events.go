package engine

import (
	"time"

	"github.com/tessro/cue/internal/core"
	"github.com/tessro/cue/internal/playback"
)

// EventType identifies an engine event.
type EventType int

const (
	EventSnapshot EventType = iota
	EventTrackEnded
	EventEnforced
	EventEnforcementFailed
	EventStateChanged
	EventQueueChanged
	EventPendingChanged
	EventMirrorFailed
)

func (t EventType) String() string {
	switch t {
	case EventSnapshot:
		return "snapshot"
	case EventTrackEnded:
		return "track_ended"
	case EventEnforced:
		return "enforced"
	case EventEnforcementFailed:
		return "enforcement_failed"
	case EventStateChanged:
		return "state_changed"
	case EventQueueChanged:
		return "queue_changed"
	case EventPendingChanged:
		return "pending_changed"
	case EventMirrorFailed:
		return "mirror_failed"
	default:
		return "unknown"
	}
}

// Event is published to subscribers as the engine works. Only the fields
// relevant to Type are set.
type Event struct {
	Type      EventType
	Timestamp time.Time
	State     State
	Track     *core.Track
	Snapshot  *core.PlaybackSnapshot
	Trigger   playback.Trigger
	// Played is false when an advance found the remote already positioned.
	Played   bool
	Attempts int
	Err      error
}

// Subscribe returns a channel of engine events and a function that cancels
// the subscription. Events are dropped for subscribers that fall behind.
func (e *Engine) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Event, buffer)

	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	e.subMu.Unlock()

	cancel := func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (e *Engine) publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = e.now()
	}
	ev.State = e.state

	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
			// Drop event if channel is full
		}
	}
}

func (e *Engine) closeSubscribers() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
}
