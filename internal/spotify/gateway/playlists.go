package gateway

import (
	"context"
	"fmt"

	"github.com/tessro/cue/internal/spotify/client"
)

// CurrentUserID returns the authenticated user's id.
func (g *Gateway) CurrentUserID(ctx context.Context) (string, error) {
	user, err := g.client.GetCurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// CreatePlaylist creates a playlist owned by userID and returns its id.
func (g *Gateway) CreatePlaylist(ctx context.Context, userID, name string, public bool) (string, error) {
	pl, err := g.client.CreatePlaylist(ctx, userID, client.CreatePlaylistRequest{
		Name:        name,
		Public:      public,
		Description: "Temporary queue mirror. Safe to delete.",
	})
	if err != nil {
		return "", err
	}
	return pl.ID, nil
}

// AddToPlaylist appends uris, one request per batch of
// client.MaxPlaylistItemsPerRequest, issued sequentially.
func (g *Gateway) AddToPlaylist(ctx context.Context, playlistID string, uris []string) error {
	for start := 0; start < len(uris); start += client.MaxPlaylistItemsPerRequest {
		end := min(start+client.MaxPlaylistItemsPerRequest, len(uris))
		if _, err := g.client.AddPlaylistItems(ctx, playlistID, uris[start:end]); err != nil {
			return fmt.Errorf("add items %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// PlaylistSnapshotToken returns the playlist's current concurrency token.
func (g *Gateway) PlaylistSnapshotToken(ctx context.Context, playlistID string) (string, error) {
	return g.client.GetPlaylistSnapshotID(ctx, playlistID)
}

// MovePlaylistItem moves the single item at from so that it ends up at index
// to. A stale token fails with a conflict.
func (g *Gateway) MovePlaylistItem(ctx context.Context, playlistID string, from, to int, token string) error {
	if from == to {
		return nil
	}
	_, err := g.client.ReorderPlaylistItems(ctx, playlistID, client.ReorderRequest{
		RangeStart:   from,
		InsertBefore: insertBefore(from, to),
		RangeLength:  1,
		SnapshotID:   token,
	})
	return err
}

// insertBefore converts a destination index into Spotify's insert_before,
// which counts positions in the list before the item is extracted.
func insertBefore(from, to int) int {
	if to > from {
		return to + 1
	}
	return to
}

// RemoveFromPlaylist removes every occurrence of uris.
func (g *Gateway) RemoveFromPlaylist(ctx context.Context, playlistID string, uris []string, token string) error {
	for start := 0; start < len(uris); start += client.MaxPlaylistItemsPerRequest {
		end := min(start+client.MaxPlaylistItemsPerRequest, len(uris))
		next, err := g.client.RemovePlaylistItems(ctx, playlistID, uris[start:end], token)
		if err != nil {
			return err
		}
		token = next
	}
	return nil
}

// DeletePlaylist removes the playlist from the user's library.
func (g *Gateway) DeletePlaylist(ctx context.Context, playlistID string) error {
	return g.client.UnfollowPlaylist(ctx, playlistID)
}
