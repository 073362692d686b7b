package client

import (
	"context"
	"fmt"
	"net/url"
)

// MaxPlaylistItemsPerRequest is the most URIs a single add or remove call
// may carry.
const MaxPlaylistItemsPerRequest = 100

// CreatePlaylistRequest is the body of a create-playlist call.
type CreatePlaylistRequest struct {
	Name          string `json:"name"`
	Public        bool   `json:"public"`
	Collaborative bool   `json:"collaborative"`
	Description   string `json:"description,omitempty"`
}

// ReorderRequest moves RangeLength items starting at RangeStart so that they
// land before the item currently at InsertBefore.
type ReorderRequest struct {
	RangeStart   int    `json:"range_start"`
	InsertBefore int    `json:"insert_before"`
	RangeLength  int    `json:"range_length"`
	SnapshotID   string `json:"snapshot_id,omitempty"`
}

type playlistURIs struct {
	URIs []string `json:"uris"`
}

type trackRef struct {
	URI string `json:"uri"`
}

type removeRequest struct {
	Tracks     []trackRef `json:"tracks"`
	SnapshotID string     `json:"snapshot_id,omitempty"`
}

func playlistPath(id string, suffix string) string {
	return "/playlists/" + url.PathEscape(id) + suffix
}

// CreatePlaylist creates a playlist owned by userID.
func (c *Client) CreatePlaylist(ctx context.Context, userID string, req CreatePlaylistRequest) (*Playlist, error) {
	var pl Playlist
	path := "/users/" + url.PathEscape(userID) + "/playlists"
	if err := c.Post(ctx, path, req, &pl); err != nil {
		return nil, err
	}
	return &pl, nil
}

// AddPlaylistItems appends up to MaxPlaylistItemsPerRequest URIs.
func (c *Client) AddPlaylistItems(ctx context.Context, playlistID string, uris []string) (string, error) {
	if len(uris) > MaxPlaylistItemsPerRequest {
		return "", fmt.Errorf("too many items in one request: %d > %d", len(uris), MaxPlaylistItemsPerRequest)
	}
	var resp SnapshotResponse
	if err := c.Post(ctx, playlistPath(playlistID, "/tracks"), playlistURIs{URIs: uris}, &resp); err != nil {
		return "", err
	}
	return resp.SnapshotID, nil
}

// GetPlaylistSnapshotID returns the playlist's current snapshot id.
func (c *Client) GetPlaylistSnapshotID(ctx context.Context, playlistID string) (string, error) {
	var resp SnapshotResponse
	path := BuildURL(playlistPath(playlistID, ""), map[string]string{"fields": "snapshot_id"})
	if err := c.Get(ctx, path, &resp); err != nil {
		return "", err
	}
	return resp.SnapshotID, nil
}

// ReorderPlaylistItems moves a range of items guarded by a snapshot id.
func (c *Client) ReorderPlaylistItems(ctx context.Context, playlistID string, req ReorderRequest) (string, error) {
	var resp SnapshotResponse
	if err := c.Put(ctx, playlistPath(playlistID, "/tracks"), req, &resp); err != nil {
		return "", err
	}
	return resp.SnapshotID, nil
}

// RemovePlaylistItems removes every occurrence of the given URIs.
func (c *Client) RemovePlaylistItems(ctx context.Context, playlistID string, uris []string, snapshotID string) (string, error) {
	if len(uris) > MaxPlaylistItemsPerRequest {
		return "", fmt.Errorf("too many items in one request: %d > %d", len(uris), MaxPlaylistItemsPerRequest)
	}
	body := removeRequest{SnapshotID: snapshotID}
	for _, u := range uris {
		body.Tracks = append(body.Tracks, trackRef{URI: u})
	}
	var resp SnapshotResponse
	if err := c.Delete(ctx, playlistPath(playlistID, "/tracks"), body, &resp); err != nil {
		return "", err
	}
	return resp.SnapshotID, nil
}

// UnfollowPlaylist removes the playlist from the user's library. This is the
// Web API's only form of playlist deletion.
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	return c.Delete(ctx, playlistPath(playlistID, "/followers"), nil, nil)
}
