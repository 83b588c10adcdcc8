package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pstagner/toruscope/pkg/config"
	"github.com/pstagner/toruscope/pkg/logger"
)

var (
	configPath string
	logLevel   string

	controllerMode string
	scaleOverride  float64
	gammaOverride  float64
	rampOverride   int
	targetFPS      int
)

var rootCmd = &cobra.Command{
	Use:           "toruscope",
	Short:         "Spinning ASCII torus with a self-tuning render loop",
	Long:          "toruscope renders a rotating torus as ASCII art and tunes its render parameters at runtime to balance frame rate against image quality.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDefault(logger.NewText(logLevel, os.Stderr))
	},
}

// loadConfig resolves the effective configuration: file (if given), then
// command-line overrides, then normalization.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if controllerMode != "" {
		cfg.Controller.Mode = controllerMode
	}
	if scaleOverride > 0 {
		cfg.Render.ResolutionScale = scaleOverride
	}
	if gammaOverride > 0 {
		cfg.Render.Gamma = gammaOverride
	}
	if rampOverride > 0 {
		cfg.Render.RampSize = rampOverride
	}
	if targetFPS > 0 {
		cfg.Render.TargetFPS = targetFPS
	}

	cfg.Normalize()
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&controllerMode, "controller", "", "controller mode: off, K, or KH (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&scaleOverride, "scale", 0, "resolution scale (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&gammaOverride, "gamma", 0, "gamma (overrides config)")
	rootCmd.PersistentFlags().IntVar(&rampOverride, "ramp", 0, "ramp size (overrides config)")
	rootCmd.PersistentFlags().IntVar(&targetFPS, "target-fps", 0, "target frame rate (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(synergyCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
