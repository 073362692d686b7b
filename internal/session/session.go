// Package session records the mirror playlists cue creates, so playlists left
// behind by an abrupt exit can be found and deleted later.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Record is one mirror playlist created by cue.
type Record struct {
	ID         string
	SessionID  string
	PlaylistID string
	Name       string
	CreatedAt  time.Time
	DeletedAt  *time.Time
}

// Store is a SQLite-backed record of mirror playlists. Each Store is one
// session with its own id.
type Store struct {
	db        *sql.DB
	sessionID string
	now       func() time.Time
}

// DefaultPath returns the default database location.
func DefaultPath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "cue", "cue.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "cue.db"
	}
	return filepath.Join(home, ".local", "share", "cue", "cue.db")
}

// Open opens (creating if needed) the database at path and applies pending
// migrations. The path ":memory:" opens an in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:        db,
		sessionID: uuid.New().String(),
		now:       time.Now,
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reset rolls every migration back and reapplies them, leaving an empty
// schema at the current version. All records are lost.
func (s *Store) Reset(ctx context.Context) error {
	for {
		version, err := rollbackMigration(s.db)
		if err != nil {
			return err
		}
		if version == 0 {
			break
		}
	}
	return runMigrations(s.db)
}

// SessionID returns this session's id.
func (s *Store) SessionID() string {
	return s.sessionID
}

// RecordCreated notes that playlistID was created in this session.
func (s *Store) RecordCreated(ctx context.Context, playlistID, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mirror_playlists (id, session_id, playlist_id, name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), s.sessionID, playlistID, name, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record playlist %s: %w", playlistID, err)
	}
	return nil
}

// MarkDeleted notes that playlistID no longer exists remotely. Marking an
// unknown or already deleted playlist is a no-op.
func (s *Store) MarkDeleted(ctx context.Context, playlistID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE mirror_playlists SET deleted_at = ?
		WHERE playlist_id = ? AND deleted_at IS NULL
	`, s.now().UTC(), playlistID)
	if err != nil {
		return fmt.Errorf("failed to mark playlist %s deleted: %w", playlistID, err)
	}
	return nil
}

// Orphans returns playlists from other sessions that were never marked
// deleted, oldest first.
func (s *Store) Orphans(ctx context.Context) ([]Record, error) {
	return s.query(ctx, `
		SELECT id, session_id, playlist_id, name, created_at, deleted_at
		FROM mirror_playlists
		WHERE deleted_at IS NULL AND session_id != ?
		ORDER BY created_at
	`, s.sessionID)
}

// History returns every recorded playlist, newest first, up to limit.
func (s *Store) History(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(ctx, `
		SELECT id, session_id, playlist_id, name, created_at, deleted_at
		FROM mirror_playlists
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		var deleted sql.NullTime
		if err := rows.Scan(&r.ID, &r.SessionID, &r.PlaylistID, &r.Name, &r.CreatedAt, &deleted); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		if deleted.Valid {
			t := deleted.Time
			r.DeletedAt = &t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
