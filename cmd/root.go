package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/vgdash/internal/config"
	"github.com/KaramelBytes/vgdash/internal/logger"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	dataPath string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "vgdash",
	Short: "vgdash: video game sales dashboard",
	Long:  `vgdash loads a video game sales dataset, computes descriptive statistics and serves them as an interactive dashboard, a Markdown report or a set of chart images.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here since loadConfig reads rootCmd. Commands executed
	// without Execute (tests) have no initializer.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			loadConfig()
		}
		return nil
	}
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.vgdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "dataset file, CSV or XLSX (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	if rootCmd.PersistentFlags().Changed("data") && dataPath != "" {
		cfg.DataPath = dataPath
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Debug("configuration loaded", slog.String("data_path", cfg.DataPath), slog.String("policy", cfg.DistributionPolicy))
}
