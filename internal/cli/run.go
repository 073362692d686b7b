package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/cue/internal/engine"
	"github.com/tessro/cue/internal/events"
)

var (
	runNoEmoji   bool
	runTimestamp bool
	runFormat    string
	runSnapshots bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the smart queue without the dashboard",
	Long: `Run the queue engine in the foreground and print what it does.

Cue imports Spotify's current queue, watches playback and enforces the
local queue order. Stop with Ctrl+C; the mirror playlist is deleted on exit.

Format templates receive: .Type .Emoji .Time .Timestamp .State .TrackID
.Title .Artist .Album .Trigger .Played .Attempts .Error

Examples:
  cue run
  cue run --timestamp --no-emoji
  cue run --format '{{.Time}} {{.Type}} {{.Title}}'`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runNoEmoji, "no-emoji", false, "disable emoji output")
	runCmd.Flags().BoolVarP(&runTimestamp, "timestamp", "t", false, "show timestamps")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "", "custom format template")
	runCmd.Flags().BoolVar(&runSnapshots, "snapshots", false, "print every polled snapshot")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	tmpl, err := events.WithTemplate(runFormat)
	if err != nil {
		return err
	}
	formatter := events.NewFormatter(
		events.WithEmoji(!runNoEmoji),
		events.WithTimestamp(runTimestamp),
		events.WithSnapshots(runSnapshots),
		tmpl,
	)

	logger, closer, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	live, err := openSession(ctx, logger)
	if err != nil {
		return err
	}
	defer live.teardown()

	sub, unsubscribe := live.engine.Subscribe(0)
	defer unsubscribe()

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		enc := json.NewEncoder(os.Stdout)
		for ev := range sub {
			if JSONOutput() {
				if ev.Type == engine.EventSnapshot && !runSnapshots {
					continue
				}
				_ = enc.Encode(events.NewRecord(ev))
				continue
			}
			if line, ok := formatter.Format(ev); ok {
				fmt.Println(line)
			}
		}
	}()

	if !JSONOutput() {
		fmt.Fprintln(os.Stderr, "Watching playback. Press Ctrl+C to stop.")
	}
	err = live.run(ctx)
	<-printed
	return err
}
