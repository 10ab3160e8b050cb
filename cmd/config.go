package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/vgdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set vgdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		if cfg.IntroImage != "" {
			fmt.Fprintf(out, "intro_image: %s\n", cfg.IntroImage)
		}
		if cfg.MissingImage != "" {
			fmt.Fprintf(out, "missing_image: %s\n", cfg.MissingImage)
		}
		fmt.Fprintf(out, "cache_dataset: %t\n", cfg.CacheDataset)
		fmt.Fprintf(out, "distribution_policy: %s\n", cfg.DistributionPolicy)
		fmt.Fprintf(out, "top_n: %d\n", cfg.TopN)
		fmt.Fprintf(out, "sample_rows: %d\n", cfg.SampleRows)
		fmt.Fprintf(out, "chart_width: %d\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", cfg.ChartHeight)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "read_timeout_sec: %d\n", cfg.ReadTimeoutSec)
		fmt.Fprintf(out, "write_timeout_sec: %d\n", cfg.WriteTimeoutSec)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file so CLI overrides such as --debug are not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			c = cfgpkg.Defaults()
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "data_path":
		c.DataPath = val
	case "intro_image":
		c.IntroImage = val
	case "missing_image":
		c.MissingImage = val
	case "cache_dataset":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for cache_dataset: %v", val)
		}
		c.CacheDataset = b
	case "distribution_policy":
		c.DistributionPolicy = strings.ToLower(val)
	case "top_n":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.TopN = i
	case "sample_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for sample_rows: %v", val)
		}
		c.SampleRows = i
	case "chart_width":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.ChartWidth = i
	case "chart_height":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.ChartHeight = i
	case "listen_addr":
		c.ListenAddr = val
	case "read_timeout_sec":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.ReadTimeoutSec = i
	case "write_timeout_sec":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.WriteTimeoutSec = i
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func positiveInt(key, val string) (int, error) {
	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return 0, fmt.Errorf("invalid int for %s: %v", key, val)
	}
	return i, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
