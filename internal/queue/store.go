// Package queue holds the locally owned smart queue: the ordered list of
// upcoming tracks, the history of played tracks and the set of tracks flagged
// for removal.
//
// None of the types here are safe for concurrent use. The engine's event loop
// is their only owner.
package queue

import "github.com/tessro/cue/internal/core"

// Store is the local queue. Upcoming is in play order with the head at index
// 0; History is a stack with the most recently played track last.
type Store struct {
	current  *core.Track
	upcoming []core.Track
	history  []core.Track
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Seed replaces the store's contents. History is cleared.
func (s *Store) Seed(current *core.Track, upcoming []core.Track) {
	s.current = cloneTrack(current)
	s.upcoming = append([]core.Track(nil), upcoming...)
	s.history = nil
}

// Current returns the track the store believes is playing, or nil.
func (s *Store) Current() *core.Track {
	return cloneTrack(s.current)
}

// Upcoming returns a copy of the upcoming tracks.
func (s *Store) Upcoming() []core.Track {
	return append([]core.Track(nil), s.upcoming...)
}

// History returns a copy of the history, oldest first.
func (s *Store) History() []core.Track {
	return append([]core.Track(nil), s.history...)
}

// Len returns the number of upcoming tracks.
func (s *Store) Len() int {
	return len(s.upcoming)
}

// Head returns the next track to play, or nil.
func (s *Store) Head() *core.Track {
	if len(s.upcoming) == 0 {
		return nil
	}
	return cloneTrack(&s.upcoming[0])
}

// IndexOf returns the index of the first upcoming track with id, or -1.
func (s *Store) IndexOf(id string) int {
	for i := range s.upcoming {
		if s.upcoming[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends t to the tail and returns the new length.
func (s *Store) Add(t core.Track) int {
	s.upcoming = append(s.upcoming, t)
	return len(s.upcoming)
}

// Remove drops every upcoming track with id and returns how many were
// removed.
func (s *Store) Remove(id string) int {
	kept := s.upcoming[:0]
	removed := 0
	for _, t := range s.upcoming {
		if t.ID == id {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	if removed == 0 {
		return 0
	}
	// Clear the tail so dropped tracks are not retained by the backing array.
	clear(s.upcoming[len(kept):])
	s.upcoming = kept
	return removed
}

// Move extracts the track at from and reinserts it so that it ends up at
// index to. It reports false, leaving the queue untouched, when from equals
// to or either index is out of range.
func (s *Store) Move(from, to int) bool {
	n := len(s.upcoming)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return false
	}

	t := s.upcoming[from]
	if from < to {
		copy(s.upcoming[from:to], s.upcoming[from+1:to+1])
	} else {
		copy(s.upcoming[to+1:from+1], s.upcoming[to:from])
	}
	s.upcoming[to] = t
	return true
}

// PopHead removes and returns the head, making it the current track. The
// previously current track is pushed onto the history.
func (s *Store) PopHead() (core.Track, bool) {
	if len(s.upcoming) == 0 {
		return core.Track{}, false
	}

	head := s.upcoming[0]
	s.upcoming[0] = core.Track{}
	s.upcoming = s.upcoming[1:]

	if s.current != nil {
		s.history = append(s.history, *s.current)
	}
	s.current = &head
	return head, true
}

// PushHead inserts t at the head.
func (s *Store) PushHead(t core.Track) {
	s.upcoming = append([]core.Track{t}, s.upcoming...)
}

// PopHistoryTop removes and returns the most recent history entry, making it
// the current track. The current track goes back to the head unless the head
// already is that track; requeued reports whether it did.
func (s *Store) PopHistoryTop() (prev core.Track, requeued, ok bool) {
	n := len(s.history)
	if n == 0 {
		return core.Track{}, false, false
	}

	prev = s.history[n-1]
	s.history = s.history[:n-1]

	if s.current != nil && !s.current.SameAs(s.Head()) {
		s.PushHead(*s.current)
		requeued = true
	}
	s.current = &prev
	return prev, requeued, true
}

// Observe records that the remote is playing t. When t differs from the
// current track the old one moves to history; when t is the queue head it is
// consumed as if popped. It reports whether anything changed and whether the
// head was consumed.
func (s *Store) Observe(t *core.Track) (changed, consumed bool) {
	if t == nil || t.SameAs(s.current) {
		return false, false
	}
	if len(s.upcoming) > 0 && s.upcoming[0].ID == t.ID {
		s.PopHead()
		return true, true
	}
	if s.current != nil {
		s.history = append(s.history, *s.current)
	}
	s.current = cloneTrack(t)
	return true, false
}

// Checkpoint captures the store's state so a failed enforcement can be undone.
type Checkpoint struct {
	current  *core.Track
	upcoming []core.Track
	history  []core.Track
}

// Checkpoint returns a copy of the current state.
func (s *Store) Checkpoint() Checkpoint {
	return Checkpoint{
		current:  cloneTrack(s.current),
		upcoming: s.Upcoming(),
		history:  s.History(),
	}
}

// Restore resets the store to cp.
func (s *Store) Restore(cp Checkpoint) {
	s.current = cloneTrack(cp.current)
	s.upcoming = append([]core.Track(nil), cp.upcoming...)
	s.history = append([]core.Track(nil), cp.history...)
}

func cloneTrack(t *core.Track) *core.Track {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
