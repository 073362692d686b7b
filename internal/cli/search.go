package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/cue/internal/spotify/gateway"
)

var (
	searchLimit int
	searchPlay  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Spotify for tracks",
	Long: `Search the Spotify catalog for tracks.

To add results to the smart queue, search from the dashboard ('cue ui', then /).

Examples:
  cue search "windowlicker"
  cue search --limit 5 "artist:burial"
  cue search --play "archangel"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", gateway.DefaultSearchLimit, "maximum results")
	searchCmd.Flags().BoolVar(&searchPlay, "play", false, "play the first result now")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	gw, done, err := quickGateway(ctx)
	if err != nil {
		return err
	}
	defer done()

	query := strings.Join(args, " ")
	tracks, err := gw.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(tracks) == 0 {
		if JSONOutput() {
			return printJSON([]interface{}{})
		}
		fmt.Printf("No tracks found for %q\n", query)
		return nil
	}

	if searchPlay {
		if err := gw.PlayTrack(ctx, tracks[0].URI); err != nil {
			return fmt.Errorf("failed to play: %w", err)
		}
	}

	if JSONOutput() {
		return printJSON(tracks)
	}

	if searchPlay {
		fmt.Printf("▶ %s - %s\n\n", tracks[0].ArtistLine(), tracks[0].Title)
	}
	trackRows(os.Stdout, tracks)
	return nil
}
