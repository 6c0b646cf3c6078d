package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root retrace command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "retrace",
		Short: "Record and replay wayfinding trajectories",
		Long: `Retrace records where a player walked during a navigation session and
plays it back for review. Positions are sampled at a fixed interval of
session time, key presses are logged with the time and place they happened,
and a saved session can be replayed headless or in the browser.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRecordCmd(),
		newReplayCmd(),
		newServeCmd(),
		newListCmd(),
		newGenerateCmd(),
	)

	return root
}
