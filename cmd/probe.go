package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/backdrop/internal/game"
	"github.com/iburimskiy/backdrop/internal/ui"
)

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show the device capability score and the tier it selects",
		Long: `Probe the device the way the engine does at start and print the result.

The GPU check here only sees accelerators registered with gg; the window
host asks ebiten for its live graphics backend instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			e := game.NewEngine(cfg, game.NewFrameScheduler(), nil)
			e.Start()
			defer e.Dispose()
			score, _ := e.Score()
			b, _ := e.Binding()

			connection := string(score.Connection)
			if connection == "" {
				connection = ui.Subtle.Sprint("unknown")
			}

			w := cmd.OutOrStdout()
			ui.Banner(w, "device probe")
			ui.KeyValues(w, [][2]string{
				{"gpu context", ui.Check(score.HasGPUContext)},
				{"memory", gauge(fmt.Sprintf("%g GB", score.MemoryGB), score.MemoryGB < 4)},
				{"cores", gauge(fmt.Sprintf("%d", score.Cores), score.Cores < 4)},
				{"mobile", ui.Check(score.Mobile)},
				{"connection", connection},
				{"constrained", ui.Check(score.Constrained())},
			})
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %s %s → %s (%s)\n",
				ui.Brand.Sprint("tier"), e.Tier(), b.Kind, b.Variant)
			return nil
		},
	}
}

// gauge highlights signals that put the device on the reduced budget.
func gauge(v string, low bool) string {
	if low {
		return ui.Warn.Sprint(v)
	}
	return v
}
