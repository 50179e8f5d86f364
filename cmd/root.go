// Package cmd implements the backdrop command line.
package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/logx"
	"github.com/iburimskiy/backdrop/internal/ui"
)

var version = "0.3.0"

var (
	cfgPath       string
	verbose       bool
	theme         string
	reducedMotion bool
	forceTier     string
)

var rootCmd = &cobra.Command{
	Use:   "backdrop",
	Short: "backdrop - adaptive animated network background",
	Long: ui.Brand.Sprint("backdrop") + " - a drifting node network that adapts to the device\n" +
		ui.Subtle.Sprint("Runs in a window, a terminal, or headless to a PNG"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.SetVersionTemplate("backdrop {{ .Version }}\n")
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", defaultConfigPath(), "Path to the TOML config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	pf.StringVar(&theme, "theme", "", "Colour theme: dark or light")
	pf.BoolVar(&reducedMotion, "reduced-motion", false, "Slow and soften the animation")
	pf.StringVar(&forceTier, "tier", "", "Highest tier to use: high, medium or low")

	rootCmd.AddCommand(
		runCmd(),
		termCmd(),
		snapshotCmd(),
		probeCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "backdrop: %v\n", err)
	}
	return err
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "backdrop", "config.toml")
}

// loadConfig reads the config file, then the environment, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("reduced-motion") {
		cfg.ReducedMotion = reducedMotion
	}
	if flags.Changed("tier") {
		cfg.Tier.Force = forceTier
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
