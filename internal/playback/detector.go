package playback

import (
	"time"

	"github.com/tessro/cue/internal/core"
)

// DefaultNearEndThreshold is how close to the end of a track the progress
// trigger fires.
const DefaultNearEndThreshold = time.Second

// Trigger names the heuristic that produced an end event.
type Trigger int

const (
	// TriggerIdentityChange fires when the playing track id changes.
	TriggerIdentityChange Trigger = iota
	// TriggerProgressExhausted fires when a playing track is about to end.
	TriggerProgressExhausted
)

func (t Trigger) String() string {
	switch t {
	case TriggerIdentityChange:
		return "identity_change"
	case TriggerProgressExhausted:
		return "progress_exhausted"
	default:
		return "unknown"
	}
}

// EndEvent reports that Track has ended, or is about to.
type EndEvent struct {
	Track   core.Track
	Trigger Trigger
	At      time.Time
}

// Detector derives end events from consecutive snapshots. Each end is
// signaled at most once.
type Detector struct {
	threshold time.Duration

	prev     *core.Track
	signaled string
}

// NewDetector creates a detector. A non-positive threshold uses
// DefaultNearEndThreshold.
func NewDetector(threshold time.Duration) *Detector {
	if threshold <= 0 {
		threshold = DefaultNearEndThreshold
	}
	return &Detector{threshold: threshold}
}

// Observe consumes the next snapshot. When suppressed is true no event fires,
// but the detector still advances its view of the playing track so that an
// engine-caused transition is not reported later.
//
// Snapshots with nothing playing carry no identity and leave the previous
// track in place.
func (d *Detector) Observe(snap *core.PlaybackSnapshot, suppressed bool) *EndEvent {
	if !snap.HasTrack() {
		return nil
	}
	cur := *snap.Track

	if d.prev != nil && d.prev.ID != cur.ID {
		ended := *d.prev
		alreadySignaled := d.signaled == ended.ID
		d.prev = &cur
		d.signaled = ""
		if suppressed || alreadySignaled {
			return nil
		}
		return &EndEvent{Track: ended, Trigger: TriggerIdentityChange, At: snap.ObservedAt}
	}
	d.prev = &cur

	remaining, ok := snap.Remaining()
	if !ok {
		return nil
	}
	if remaining > d.threshold {
		// Seeked back or restarted: this track may end again.
		if d.signaled == cur.ID {
			d.signaled = ""
		}
		return nil
	}
	if !snap.IsPlaying || suppressed || d.signaled == cur.ID {
		return nil
	}

	d.signaled = cur.ID
	return &EndEvent{Track: cur, Trigger: TriggerProgressExhausted, At: snap.ObservedAt}
}

// Signaled reports whether the end of the track with id has already fired.
func (d *Detector) Signaled(id string) bool {
	return id != "" && d.signaled == id
}

// Reset forgets all history.
func (d *Detector) Reset() {
	d.prev = nil
	d.signaled = ""
}
