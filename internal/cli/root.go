package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/cue/internal/config"
	cueerrors "github.com/tessro/cue/internal/errors"
)

var (
	cfgFile  string
	jsonOut  bool
	verbose  bool
	logLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cue",
	Short: "A reorderable smart queue for Spotify",
	Long: `Cue keeps a local, reorderable queue of tracks and makes Spotify play it.

Spotify's own queue is append-only. Cue watches playback, notices when a
track ends and tells Spotify exactly what to play next.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.cuerc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
		if os.IsNotExist(err) {
			return cueerrors.WithSuggestion(
				fmt.Errorf("%w: %s", cueerrors.ErrConfigNotFound, cfgFile),
				"Run 'cue config init' or drop the --config flag",
			)
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", cueerrors.ErrInvalidConfig, err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cueerrors.Format(err))
		os.Exit(1)
	}
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
