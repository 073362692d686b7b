package core

import "time"

// PlaybackSnapshot is one polled observation of remote playback. Snapshots
// are replaced wholesale on every poll, never merged.
type PlaybackSnapshot struct {
	Track       *Track        `json:"track"`
	IsPlaying   bool          `json:"is_playing"`
	Progress    time.Duration `json:"progress"`
	HasProgress bool          `json:"has_progress"`
	ObservedAt  time.Time     `json:"observed_at"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackSnapshot) HasTrack() bool {
	return s != nil && s.Track != nil
}

// TrackID returns the current track id, or "" when nothing is playing.
func (s *PlaybackSnapshot) TrackID() string {
	if !s.HasTrack() {
		return ""
	}
	return s.Track.ID
}

// Remaining returns the time left in the current track. The second return
// value is false when remaining time cannot be derived.
func (s *PlaybackSnapshot) Remaining() (time.Duration, bool) {
	if !s.HasTrack() || !s.HasProgress || s.Track.Duration == 0 {
		return 0, false
	}
	return s.Track.Duration - s.Progress, true
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackSnapshot) ProgressPercent() float64 {
	if !s.HasTrack() || s.Track.Duration == 0 {
		return 0
	}
	return float64(s.Progress) / float64(s.Track.Duration) * 100
}
