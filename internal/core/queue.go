package core

// Queue is the remote service's view of what is playing and what it will
// play next. It is read-only: the remote queue cannot be reordered.
type Queue struct {
	Current  *Track  `json:"current"`
	Upcoming []Track `json:"upcoming"`
}

// Head returns the next track the remote will play, or nil.
func (q *Queue) Head() *Track {
	if q == nil || len(q.Upcoming) == 0 {
		return nil
	}
	return &q.Upcoming[0]
}

// Tracks returns the current track followed by the upcoming ones.
func (q *Queue) Tracks() []Track {
	if q == nil {
		return nil
	}
	tracks := make([]Track, 0, len(q.Upcoming)+1)
	if q.Current != nil {
		tracks = append(tracks, *q.Current)
	}
	return append(tracks, q.Upcoming...)
}

// Len returns the number of upcoming tracks.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Upcoming)
}

// IsEmpty returns true if nothing is queued.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}
