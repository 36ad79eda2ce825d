package cmd

import (
	"fmt"
	"os"

	"github.com/u759/AllanAI-sub001/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "allanai",
	Short: "Analyze table tennis match videos",
	Long: `allanai turns an uploaded match recording into a structured analysis:
detected shots, timestamped events, a running score, aggregate statistics,
and a curated highlight reel.

Analysis prefers an external inference process when one is configured and
falls back to an in-process motion heuristic when it is not available.

Example:
  allanai serve --config config/config.yaml
  allanai process --video match.mp4`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// A missing config file is fine; every knob has a default.
		cfg = config.Default()
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
