package cmd

import (
	"github.com/spf13/cobra"

	"github.com/iburimskiy/backdrop/internal/game"
)

func runCmd() *cobra.Command {
	var overlay bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the animated background in a window",
		Long: `Open the animated background in a resizable window.

  backdrop run                  # adaptive tier
  backdrop run --tier medium    # never above the morph renderer
  backdrop run --overlay        # show tier and frame rate

Move the mouse to drive the highlighted node, click for a shockwave,
scroll to morph the blobs. Press o to toggle the overlay, q to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return game.NewHost(cfg, overlay).Run()
		},
	}
	cmd.Flags().BoolVar(&overlay, "overlay", false, "Show tier and frame rate")
	return cmd
}
