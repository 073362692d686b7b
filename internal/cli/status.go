package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/cue/internal/core"
)

var statusQueue bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long: `Show what Spotify is playing right now.

With --queue, also list Spotify's own upcoming queue. This is the remote
queue, not cue's smart queue.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusQueue, "queue", "q", false, "also show the remote queue")
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	Playing  bool                   `json:"playing"`
	Snapshot *core.PlaybackSnapshot `json:"snapshot,omitempty"`
	Queue    []core.Track           `json:"queue,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	gw, done, err := quickGateway(ctx)
	if err != nil {
		return err
	}
	defer done()

	snap, err := gw.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to get playback state: %w", err)
	}

	var queue *core.Queue
	if statusQueue {
		if queue, err = gw.RemoteQueue(ctx); err != nil {
			return fmt.Errorf("failed to get queue: %w", err)
		}
	}

	if JSONOutput() {
		out := statusOutput{Playing: snap.HasTrack() && snap.IsPlaying, Snapshot: snap}
		if queue != nil {
			out.Queue = queue.Upcoming
		}
		return printJSON(out)
	}

	if !snap.HasTrack() {
		fmt.Println("No active playback")
	} else {
		printSnapshot(snap)
	}

	if queue != nil {
		fmt.Println()
		if len(queue.Upcoming) == 0 {
			fmt.Println("Remote queue is empty")
			return nil
		}
		fmt.Println("Up next on Spotify:")
		trackRows(os.Stdout, queue.Upcoming)
	}
	return nil
}

func printSnapshot(snap *core.PlaybackSnapshot) {
	t := snap.Track
	icon := "⏸"
	if snap.IsPlaying {
		icon = "▶"
	}

	fmt.Printf("%s %s\n", icon, t.Title)
	fmt.Printf("  %s", t.ArtistLine())
	if t.Album != "" {
		fmt.Printf(" · %s", t.Album)
	}
	fmt.Println()

	if snap.HasProgress && t.Duration > 0 {
		fmt.Printf("  %s %s / %s\n",
			FormatProgress(snap.Progress, t.Duration, 30),
			FormatDuration(snap.Progress),
			FormatDuration(t.Duration))
	}
}
