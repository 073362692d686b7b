package core

import (
	"strings"
	"time"
)

// Track represents a playable audio track. Tracks are values sourced from
// remote responses and never mutated locally.
type Track struct {
	ID          string        `json:"id"`
	URI         string        `json:"uri"`
	Title       string        `json:"title"`
	Artists     []string      `json:"artists"`
	Album       string        `json:"album"`
	AlbumArtURL string        `json:"album_art_url,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Artist returns the primary artist, or an empty string.
func (t Track) Artist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// ArtistLine joins all artist names for display.
func (t Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// SameAs reports whether two tracks share an identity.
func (t *Track) SameAs(other *Track) bool {
	if t == nil || other == nil {
		return false
	}
	return t.ID == other.ID
}

// URIs returns the play handles of the given tracks, in order.
func URIs(tracks []Track) []string {
	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	return uris
}
