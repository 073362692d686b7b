// Package gateway adapts the Spotify Web API client to the playback and
// playlist surfaces the engine consumes.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/tessro/cue/internal/core"
	"github.com/tessro/cue/internal/spotify/client"
)

// DefaultSearchLimit is used when Search is called with a non-positive limit.
const DefaultSearchLimit = 10

// Gateway implements core.Gateway for Spotify.
type Gateway struct {
	client   *client.Client
	deviceID string // Optional: target device ID
	now      func() time.Time
}

// New creates a new Spotify gateway.
func New(c *client.Client) *Gateway {
	return &Gateway{client: c, now: time.Now}
}

// SetDevice sets the target device for playback commands.
func (g *Gateway) SetDevice(deviceID string) {
	g.deviceID = deviceID
}

// Snapshot returns the current playback snapshot, or nil when nothing is
// playing. Non-track items (episodes, ads) are reported without a track.
func (g *Gateway) Snapshot(ctx context.Context) (*core.PlaybackSnapshot, error) {
	state, err := g.client.GetPlaybackState(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}

	snap := &core.PlaybackSnapshot{
		IsPlaying:  state.IsPlaying,
		ObservedAt: g.now(),
	}
	if state.ProgressMS != nil {
		snap.HasProgress = true
		snap.Progress = time.Duration(*state.ProgressMS) * time.Millisecond
	}
	if state.CurrentlyPlayingType == "" || state.CurrentlyPlayingType == "track" {
		snap.Track = convertTrack(state.Item)
	}
	return snap, nil
}

// RemoteQueue returns the remote playback queue.
func (g *Gateway) RemoteQueue(ctx context.Context) (*core.Queue, error) {
	queue, err := g.client.GetQueue(ctx)
	if err != nil {
		return nil, err
	}

	coreQueue := &core.Queue{
		Current:  convertTrack(queue.CurrentlyPlaying),
		Upcoming: make([]core.Track, 0, len(queue.Queue)),
	}
	for i := range queue.Queue {
		coreQueue.Upcoming = append(coreQueue.Upcoming, *convertTrack(&queue.Queue[i]))
	}
	return coreQueue, nil
}

// QueueHead returns the next track the remote will play, or nil.
func (g *Gateway) QueueHead(ctx context.Context) (*core.Track, error) {
	queue, err := g.RemoteQueue(ctx)
	if err != nil {
		return nil, err
	}
	return queue.Head(), nil
}

// PlayTrack starts playback of a single track URI.
func (g *Gateway) PlayTrack(ctx context.Context, uri string) error {
	return g.client.Play(ctx, g.deviceID, &client.PlayOptions{URIs: []string{uri}})
}

// PlayList starts playback of the given URIs in order.
func (g *Gateway) PlayList(ctx context.Context, uris []string) error {
	if len(uris) == 0 {
		return fmt.Errorf("no tracks to play")
	}
	return g.client.Play(ctx, g.deviceID, &client.PlayOptions{URIs: uris})
}

// Pause pauses playback.
func (g *Gateway) Pause(ctx context.Context) error {
	return g.client.Pause(ctx, g.deviceID)
}

// Resume resumes playback.
func (g *Gateway) Resume(ctx context.Context) error {
	return g.client.Play(ctx, g.deviceID, nil)
}

// SkipNext skips to the next track.
func (g *Gateway) SkipNext(ctx context.Context) error {
	return g.client.Next(ctx, g.deviceID)
}

// SkipPrevious skips to the previous track.
func (g *Gateway) SkipPrevious(ctx context.Context) error {
	return g.client.Previous(ctx, g.deviceID)
}

// Search returns tracks matching query.
func (g *Gateway) Search(ctx context.Context, query string, limit int) ([]core.Track, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	results, err := g.client.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	tracks := make([]core.Track, 0, len(results.Items))
	for i := range results.Items {
		tracks = append(tracks, *convertTrack(&results.Items[i]))
	}
	return tracks, nil
}

// convertTrack converts a Spotify track to a core track.
func convertTrack(t *client.Track) *core.Track {
	if t == nil {
		return nil
	}

	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	var art string
	if len(t.Album.Images) > 0 {
		art = t.Album.Images[0].URL
	}

	return &core.Track{
		ID:          t.ID,
		URI:         t.URI,
		Title:       t.Name,
		Artists:     artists,
		Album:       t.Album.Name,
		AlbumArtURL: art,
		Duration:    time.Duration(t.DurationMS) * time.Millisecond,
	}
}

// Ensure Gateway implements core.Gateway
var _ core.Gateway = (*Gateway)(nil)
