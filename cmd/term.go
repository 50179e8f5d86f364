package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/backdrop/internal/game"
)

func termCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Draw the animated background in the terminal",
		Long: `Draw the animated background in the terminal using half-block cells.

Requires a true-colour terminal. Mouse motion and clicks work where the
terminal reports them. Press q or Esc to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}

			var opts []game.EngineOption
			if cmd.Flags().Changed("seed") {
				opts = append(opts, game.WithSeed(seed))
			}
			host, err := game.NewTerminalHost(screen, cfg, opts...)
			if err != nil {
				screen.Fini()
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return host.Run(ctx)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed the layout for a reproducible start")
	return cmd
}
