package cmd

import (
	"fmt"
	"time"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/backdrop/internal/game"
	"github.com/iburimskiy/backdrop/internal/graph"
	"github.com/iburimskiy/backdrop/internal/logx"
	"github.com/iburimskiy/backdrop/internal/ui"
)

func snapshotCmd() *cobra.Command {
	var (
		out  string
		seed int64
		fps  int
		sdf  bool
		opts = game.DefaultHeadlessOptions()
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the background offscreen to a PNG",
		Long: `Run the engine on a simulated clock and save the last frame as PNG.

  backdrop snapshot -o bg.png
  backdrop snapshot --fps 15 -o low.png       # watch the tier degrade
  backdrop snapshot --width 1920 --height 1080 --dpr 2 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if fps <= 0 {
				return fmt.Errorf("--fps must be positive")
			}
			opts.FrameInterval = time.Second / time.Duration(fps)

			if sdf {
				if err := gg.RegisterAccelerator(&gg.SDFAccelerator{}); err != nil {
					logx.Logger().Warn("snapshot: sdf accelerator", "err", err)
				}
			}

			var engineOpts []game.EngineOption
			if cmd.Flags().Changed("seed") {
				engineOpts = append(engineOpts, game.WithSeed(seed))
			}
			e, raster, err := game.Headless(cfg, opts, engineOpts...)
			if err != nil {
				return err
			}
			defer raster.Close()
			defer e.Dispose()

			if err := raster.SavePNG(out); err != nil {
				return fmt.Errorf("save %s: %w", out, err)
			}

			w := cmd.OutOrStdout()
			ui.Banner(w, "snapshot")
			b, _ := e.Binding()
			v := e.Viewport()
			rows := [][2]string{
				{"file", out},
				{"size", fmt.Sprintf("%dx%d px (dpr %.2g)", v.BackingWidth, v.BackingHeight, v.DPR)},
				{"tier", e.Tier().String()},
				{"renderer", fmt.Sprintf("%s (%s)", b.Kind, b.Variant)},
				{"frames", fmt.Sprintf("%d", e.Frames())},
				{"fps windows", fmt.Sprint(e.Monitor().Recent(8))},
			}
			if sim, ok := e.Renderer().(*graph.Simulation); ok {
				st := sim.Stats()
				rows = append(rows,
					[2]string{"nodes", fmt.Sprintf("%d (%d active)", st.Nodes, st.Active)},
					[2]string{"edges", fmt.Sprintf("%d (max %d per node)", st.Edges, st.MaxConnections)},
				)
			}
			ui.KeyValues(w, rows)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "output", "o", "backdrop.png", "PNG file to write")
	f.IntVar(&opts.Width, "width", opts.Width, "Surface width in points")
	f.IntVar(&opts.Height, "height", opts.Height, "Surface height in points")
	f.Float64Var(&opts.DPR, "dpr", opts.DPR, "Device pixel ratio")
	f.IntVar(&opts.Frames, "frames", opts.Frames, "Frames to simulate")
	f.IntVar(&fps, "fps", 60, "Simulated frame rate")
	f.Int64Var(&seed, "seed", 0, "Seed the layout for a reproducible image")
	f.BoolVar(&sdf, "sdf", false, "Rasterise circles with gg's SDF accelerator")
	return cmd
}
