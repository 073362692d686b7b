package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/cue/internal/logging"
	"github.com/tessro/cue/internal/mirror"
	"github.com/tessro/cue/internal/session"
)

var (
	cleanupList  bool
	cleanupLimit int
	cleanupReset bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete mirror playlists left behind by earlier sessions",
	Long: `Delete mirror playlists that earlier sessions created but never removed,
for example after a crash or a killed terminal.

Cue also does this every time a session starts.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVarP(&cleanupList, "list", "l", false, "list recorded playlists without deleting")
	cleanupCmd.Flags().IntVarP(&cleanupLimit, "limit", "n", 20, "number of playlists to list")
	cleanupCmd.Flags().BoolVar(&cleanupReset, "reset", false, "forget every recorded playlist without deleting any")
	rootCmd.AddCommand(cleanupCmd)
}

type playlistRecord struct {
	PlaylistID string     `json:"playlist_id"`
	Name       string     `json:"name"`
	SessionID  string     `json:"session_id"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := session.Open(cfg.Mirror.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if cleanupList {
		return listPlaylists(ctx, store)
	}
	if cleanupReset {
		if err := store.Reset(ctx); err != nil {
			return err
		}
		if JSONOutput() {
			return printJSON(map[string]string{"status": "reset"})
		}
		fmt.Println("Forgot all recorded mirror playlists.")
		return nil
	}

	logger, closer, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	gw, err := newGateway(ctx, logger)
	if err != nil {
		return err
	}

	m := mirror.New(gw, mirror.WithRecorder(store), mirror.WithLogger(logging.With(logger, "mirror")))
	cleared, err := m.RecoverOrphans(ctx)

	if JSONOutput() {
		out := map[string]interface{}{"deleted": cleared}
		if err != nil {
			out["error"] = err.Error()
		}
		_ = printJSON(out)
		return err
	}

	switch cleared {
	case 0:
		fmt.Println("No orphaned playlists found.")
	case 1:
		fmt.Println("Deleted 1 orphaned playlist.")
	default:
		fmt.Printf("Deleted %d orphaned playlists.\n", cleared)
	}
	return err
}

func listPlaylists(ctx context.Context, store *session.Store) error {
	records, err := store.History(ctx, cleanupLimit)
	if err != nil {
		return err
	}

	if JSONOutput() {
		out := make([]playlistRecord, len(records))
		for i, r := range records {
			out[i] = playlistRecord{
				PlaylistID: r.PlaylistID,
				Name:       r.Name,
				SessionID:  r.SessionID,
				CreatedAt:  r.CreatedAt,
				DeletedAt:  r.DeletedAt,
			}
		}
		return printJSON(out)
	}

	if len(records) == 0 {
		fmt.Println("No mirror playlists recorded.")
		return nil
	}

	table := NewTable("PLAYLIST", "NAME", "CREATED", "STATUS")
	for _, r := range records {
		status := "live"
		if r.DeletedAt != nil {
			status = "deleted " + humanize.Time(*r.DeletedAt)
		}
		table.Row(r.PlaylistID, TruncateString(r.Name, 30), humanize.Time(r.CreatedAt), status)
	}
	table.Flush()
	return nil
}
