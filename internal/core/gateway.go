package core

import "context"

// SnapshotSource fetches the current playback snapshot. A nil snapshot with a
// nil error means nothing is playing.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*PlaybackSnapshot, error)
}

// Remote is the playback surface the enforcement engine drives.
type Remote interface {
	SnapshotSource

	QueueHead(ctx context.Context) (*Track, error)
	RemoteQueue(ctx context.Context) (*Queue, error)

	PlayTrack(ctx context.Context, uri string) error
	PlayList(ctx context.Context, uris []string) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	SkipNext(ctx context.Context) error
	SkipPrevious(ctx context.Context) error
}

// PlaylistGateway is the playlist surface used for the mirror playlist.
type PlaylistGateway interface {
	CurrentUserID(ctx context.Context) (string, error)
	CreatePlaylist(ctx context.Context, userID, name string, public bool) (string, error)
	AddToPlaylist(ctx context.Context, playlistID string, uris []string) error
	PlaylistSnapshotToken(ctx context.Context, playlistID string) (string, error)
	MovePlaylistItem(ctx context.Context, playlistID string, from, to int, token string) error
	RemoveFromPlaylist(ctx context.Context, playlistID string, uris []string, token string) error
	DeletePlaylist(ctx context.Context, playlistID string) error
}

// Searcher finds tracks by free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Track, error)
}

// Gateway is the complete remote playback gateway.
type Gateway interface {
	Remote
	PlaylistGateway
	Searcher
}
