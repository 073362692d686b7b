// Package mirror maintains a disposable remote playlist that follows the
// local queue. Unlike the remote play queue, a playlist can be reordered.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tessro/cue/internal/core"
	cueerrors "github.com/tessro/cue/internal/errors"
	"github.com/tessro/cue/internal/session"
)

// DefaultName is the name given to new mirror playlists.
const DefaultName = "cue smart queue"

// BatchSize is the most URIs sent in one add request.
const BatchSize = 100

// Gateway is the remote surface the manager needs.
type Gateway interface {
	core.PlaylistGateway
	RemoteQueue(ctx context.Context) (*core.Queue, error)
}

// Recorder persists created playlists so they can be cleaned up after an
// abrupt exit. *session.Store implements it.
type Recorder interface {
	RecordCreated(ctx context.Context, playlistID, name string) error
	MarkDeleted(ctx context.Context, playlistID string) error
	Orphans(ctx context.Context) ([]session.Record, error)
}

// Manager owns one mirror playlist. It keeps its own copy of the playlist's
// items so local queue indices can be translated to playlist positions.
type Manager struct {
	gw       Gateway
	recorder Recorder
	logger   *log.Logger
	name     string

	mu         sync.Mutex
	playlistID string
	items      []string
	// offset is the playlist index of the local queue head. Items before it
	// have already been played.
	offset int
}

// Option configures a Manager.
type Option func(*Manager)

// WithRecorder records created and deleted playlists.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		m.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithName sets the playlist name.
func WithName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// New creates a manager. No playlist exists until CreateFor is called.
func New(gw Gateway, opts ...Option) *Manager {
	m := &Manager{
		gw:     gw,
		logger: log.New(io.Discard),
		name:   DefaultName,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PlaylistID returns the mirror playlist id, or "" if none exists.
func (m *Manager) PlaylistID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playlistID
}

// CreateFor creates a private playlist owned by userID, seeded with what the
// remote is playing now followed by the remote queue. If seeding fails the
// playlist still exists and is removed by Teardown.
func (m *Manager) CreateFor(ctx context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playlistID != "" {
		return m.playlistID, nil
	}

	var seed []string
	offset := 0
	q, err := m.gw.RemoteQueue(ctx)
	if err != nil {
		m.logger.Warn("could not read remote queue for seeding", "err", err)
	} else if q != nil {
		if q.Current != nil {
			seed = append(seed, q.Current.URI)
			offset = 1
		}
		seed = append(seed, core.URIs(q.Upcoming)...)
	}

	id, err := m.gw.CreatePlaylist(ctx, userID, m.name, false)
	if err != nil {
		return "", fmt.Errorf("create mirror playlist: %w", err)
	}
	m.playlistID = id
	m.logger.Info("created mirror playlist", "playlist", id, "tracks", len(seed))

	if m.recorder != nil {
		if err := m.recorder.RecordCreated(ctx, id, m.name); err != nil {
			m.logger.Warn("could not record mirror playlist", "playlist", id, "err", err)
		}
	}

	if err := m.addTracks(ctx, id, seed); err != nil {
		return id, err
	}
	m.items = seed
	m.offset = offset
	return id, nil
}

// AddTracks appends uris to playlistID in sequential batches of BatchSize.
func (m *Manager) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	return m.addTracks(ctx, playlistID, uris)
}

func (m *Manager) addTracks(ctx context.Context, playlistID string, uris []string) error {
	for start := 0; start < len(uris); start += BatchSize {
		end := min(start+BatchSize, len(uris))
		if err := m.gw.AddToPlaylist(ctx, playlistID, uris[start:end]); err != nil {
			return fmt.Errorf("add tracks to mirror: %w", err)
		}
	}
	return nil
}

// MoveItem moves the item at playlist index from to index to. The snapshot
// token is fetched immediately before the move. A conflict is returned to the
// caller rather than retried.
func (m *Manager) MoveItem(ctx context.Context, playlistID string, from, to int) error {
	token, err := m.gw.PlaylistSnapshotToken(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("fetch snapshot token: %w", err)
	}
	if err := m.gw.MovePlaylistItem(ctx, playlistID, from, to, token); err != nil {
		return fmt.Errorf("move mirror item %d to %d: %w", from, to, err)
	}
	return nil
}

// Append adds tracks to the end of the mirror.
func (m *Manager) Append(ctx context.Context, tracks []core.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playlistID == "" || len(tracks) == 0 {
		return nil
	}
	uris := core.URIs(tracks)
	if err := m.addTracks(ctx, m.playlistID, uris); err != nil {
		return err
	}
	m.items = append(m.items, uris...)
	return nil
}

// Move mirrors a local queue move. from and to are local queue indices.
func (m *Manager) Move(ctx context.Context, from, to int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playlistID == "" || from == to {
		return nil
	}
	pf, pt := m.offset+from, m.offset+to
	if from < 0 || to < 0 || pf >= len(m.items) || pt >= len(m.items) {
		return fmt.Errorf("mirror out of sync: move %d to %d with %d upcoming items",
			from, to, len(m.items)-m.offset)
	}

	if err := m.MoveItem(ctx, m.playlistID, pf, pt); err != nil {
		return err
	}
	uri := m.items[pf]
	m.items = slices.Delete(m.items, pf, pf+1)
	m.items = slices.Insert(m.items, pt, uri)
	return nil
}

// Remove deletes every occurrence of uri from the mirror.
func (m *Manager) Remove(ctx context.Context, uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playlistID == "" {
		return nil
	}
	token, err := m.gw.PlaylistSnapshotToken(ctx, m.playlistID)
	if err != nil {
		return fmt.Errorf("fetch snapshot token: %w", err)
	}
	if err := m.gw.RemoveFromPlaylist(ctx, m.playlistID, []string{uri}, token); err != nil {
		return fmt.Errorf("remove from mirror: %w", err)
	}

	kept := m.items[:0]
	offset := m.offset
	for i, item := range m.items {
		if item == uri {
			if i < m.offset {
				offset--
			}
			continue
		}
		kept = append(kept, item)
	}
	m.items = kept
	m.offset = offset
	return nil
}

// Advanced records that the local queue head was played.
func (m *Manager) Advanced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offset < len(m.items) {
		m.offset++
	}
}

// Rewound records that the last played track went back to the queue head.
func (m *Manager) Rewound() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offset > 0 {
		m.offset--
	}
}

// Teardown deletes the mirror playlist. It makes one attempt; failures are
// logged and returned, and the playlist stays recorded for later cleanup.
func (m *Manager) Teardown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playlistID == "" {
		return nil
	}
	id := m.playlistID
	if err := m.deletePlaylist(ctx, id); err != nil {
		m.logger.Error("could not delete mirror playlist", "playlist", id, "err", err)
		return err
	}
	m.logger.Info("deleted mirror playlist", "playlist", id)
	m.playlistID = ""
	m.items = nil
	m.offset = 0
	return nil
}

// RecoverOrphans deletes playlists recorded by earlier sessions that were
// never torn down. It returns how many were cleared.
func (m *Manager) RecoverOrphans(ctx context.Context) (int, error) {
	if m.recorder == nil {
		return 0, nil
	}
	orphans, err := m.recorder.Orphans(ctx)
	if err != nil {
		return 0, err
	}

	var errs []error
	cleared := 0
	for _, o := range orphans {
		if err := m.deletePlaylist(ctx, o.PlaylistID); err != nil {
			errs = append(errs, fmt.Errorf("playlist %s: %w", o.PlaylistID, err))
			continue
		}
		m.logger.Info("deleted orphaned mirror playlist", "playlist", o.PlaylistID, "created", o.CreatedAt)
		cleared++
	}
	return cleared, errors.Join(errs...)
}

// deletePlaylist deletes id remotely and marks it deleted. A playlist that
// no longer exists counts as deleted.
func (m *Manager) deletePlaylist(ctx context.Context, id string) error {
	if err := m.gw.DeletePlaylist(ctx, id); err != nil && !cueerrors.Is(err, cueerrors.ErrNotFound) {
		return err
	}
	if m.recorder != nil {
		if err := m.recorder.MarkDeleted(ctx, id); err != nil {
			m.logger.Warn("could not mark mirror playlist deleted", "playlist", id, "err", err)
		}
	}
	return nil
}
