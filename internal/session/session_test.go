package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected at least one migration")
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version <= migrations[i-1].Version {
			t.Errorf("migrations not sorted: %d after %d", migrations[i].Version, migrations[i-1].Version)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- header\nCREATE TABLE a (x INT);\n\n-- trailing\nDROP TABLE b; ;")
	if len(got) != 2 {
		t.Fatalf("splitStatements() = %q, want 2 statements", got)
	}
	if got[0] != "CREATE TABLE a (x INT)" {
		t.Errorf("first statement = %q", got[0])
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cue.db")

	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}
}

func TestOrphansComeFromOtherSessions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cue.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.RecordCreated(ctx, "pl-live", "cue smart queue"); err != nil {
		t.Fatalf("RecordCreated() error = %v", err)
	}
	if err := first.RecordCreated(ctx, "pl-gone", "cue smart queue"); err != nil {
		t.Fatalf("RecordCreated() error = %v", err)
	}
	if err := first.MarkDeleted(ctx, "pl-gone"); err != nil {
		t.Fatalf("MarkDeleted() error = %v", err)
	}

	own, err := first.Orphans(ctx)
	if err != nil {
		t.Fatalf("Orphans() error = %v", err)
	}
	if len(own) != 0 {
		t.Errorf("own session reported %d orphans, want 0", len(own))
	}
	_ = first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = second.Close() }()

	if second.SessionID() == first.SessionID() {
		t.Fatal("sessions share an id")
	}

	orphans, err := second.Orphans(ctx)
	if err != nil {
		t.Fatalf("Orphans() error = %v", err)
	}
	if len(orphans) != 1 || orphans[0].PlaylistID != "pl-live" {
		t.Fatalf("Orphans() = %+v, want only pl-live", orphans)
	}
	if orphans[0].SessionID != first.SessionID() {
		t.Errorf("SessionID = %q, want %q", orphans[0].SessionID, first.SessionID())
	}

	if err := second.MarkDeleted(ctx, "pl-live"); err != nil {
		t.Fatalf("MarkDeleted() error = %v", err)
	}
	orphans, _ = second.Orphans(ctx)
	if len(orphans) != 0 {
		t.Errorf("Orphans() after delete = %+v, want none", orphans)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		s.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if err := s.RecordCreated(ctx, id, "mirror"); err != nil {
			t.Fatalf("RecordCreated(%s) error = %v", id, err)
		}
	}
	if err := s.MarkDeleted(ctx, "b"); err != nil {
		t.Fatalf("MarkDeleted() error = %v", err)
	}

	records, err := s.History(ctx, 2)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("History() returned %d records, want 2", len(records))
	}
	if records[0].PlaylistID != "c" || records[1].PlaylistID != "b" {
		t.Errorf("History() order = %s, %s; want c, b", records[0].PlaylistID, records[1].PlaylistID)
	}
	if records[1].DeletedAt == nil {
		t.Error("b should be marked deleted")
	}
	if !records[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v, want %v", records[0].CreatedAt, base.Add(2*time.Minute))
	}
}

func TestRecordCreatedRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.RecordCreated(ctx, "pl", "mirror"); err != nil {
		t.Fatalf("RecordCreated() error = %v", err)
	}
	if err := s.RecordCreated(ctx, "pl", "mirror"); err == nil {
		t.Error("RecordCreated() accepted a duplicate playlist id")
	}
}

func TestRollbackMigration(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	latest := migrations[len(migrations)-1].Version

	version, err := rollbackMigration(s.db)
	if err != nil {
		t.Fatalf("rollbackMigration() error = %v", err)
	}
	if version != latest {
		t.Errorf("rolled back version %d, want %d", version, latest)
	}

	for version != 0 {
		if version, err = rollbackMigration(s.db); err != nil {
			t.Fatalf("rollbackMigration() error = %v", err)
		}
	}

	var tables int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'mirror_playlists'",
	).Scan(&tables); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if tables != 0 {
		t.Error("mirror_playlists still exists after rolling everything back")
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.RecordCreated(ctx, "pl", "mirror"); err != nil {
		t.Fatalf("RecordCreated() error = %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	records, err := s.History(ctx, 10)
	if err != nil {
		t.Fatalf("History() after Reset error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("History() after Reset = %d records, want 0", len(records))
	}
	if err := s.RecordCreated(ctx, "pl", "mirror"); err != nil {
		t.Errorf("RecordCreated() after Reset error = %v", err)
	}
}
