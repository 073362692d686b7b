package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/cue/internal/spotify/gateway"
)

var controlDevice string

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	Long:  `Pause the current playback.`,
	RunE:  controlRunner("paused", "⏸ Paused", (*gateway.Gateway).Pause),
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume playback",
	Long:  `Resume paused playback.`,
	RunE:  controlRunner("playing", "▶ Resumed", (*gateway.Gateway).Resume),
}

func init() {
	pauseCmd.Flags().StringVarP(&controlDevice, "device", "d", "", "Target device ID")
	resumeCmd.Flags().StringVarP(&controlDevice, "device", "d", "", "Target device ID")

	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
}

// controlRunner builds a one-shot playback command around op.
func controlRunner(status, message string, op func(*gateway.Gateway, context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		gw, done, err := quickGateway(ctx)
		if err != nil {
			return err
		}
		defer done()

		if controlDevice != "" {
			gw.SetDevice(controlDevice)
		}

		if err := op(gw, ctx); err != nil {
			return fmt.Errorf("failed to %s: %w", cmd.Name(), err)
		}

		if JSONOutput() {
			return printJSON(map[string]string{"status": status})
		}
		fmt.Println(message)
		return nil
	}
}
