package cli

import (
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/cue/internal/tui"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch the smart queue dashboard",
	Long: `Launch the interactive smart queue dashboard.

The dashboard shows:
  • Now Playing - current track, progress and engine state
  • Up Next - the smart queue, reorderable
  • History - what skip-previous goes back to

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search and add tracks
  Space        Play/Pause
  n / p        Next / previous
  J / K        Move selected track down / up
  x            Toggle pending removal
  d            Remove selected track
  Tab          Switch panel

Logs go to log.file when set and are discarded otherwise.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "view refresh interval in milliseconds (default: tui.refresh_interval)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The dashboard owns the terminal, so logs never go to stderr.
	logger, closer, err := newLogger(io.Discard)
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

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := live.run(ctx); err != nil {
			logger.Error("engine stopped", "err", err)
		}
	}()

	refresh := tuiRefresh
	if refresh <= 0 {
		refresh = cfg.TUI.RefreshInterval
	}

	err = tui.Run(ctx, live.engine, live.gw, tui.Options{
		Refresh: time.Duration(refresh) * time.Millisecond,
		Theme:   cfg.TUI.Theme,
	})

	cancel()
	wg.Wait()
	return err
}

