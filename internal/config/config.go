package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/vgdash/internal/utils"
)

// Global configuration structure.
type Global struct {
	DataPath     string `mapstructure:"data_path" yaml:"data_path"`
	IntroImage   string `mapstructure:"intro_image" yaml:"intro_image"`
	MissingImage string `mapstructure:"missing_image" yaml:"missing_image"`
	// CacheDataset keeps the first successful load for the life of the process.
	CacheDataset bool `mapstructure:"cache_dataset" yaml:"cache_dataset"`

	// Analysis
	DistributionPolicy string `mapstructure:"distribution_policy" yaml:"distribution_policy"`
	TopN               int    `mapstructure:"top_n" yaml:"top_n"`
	SampleRows         int    `mapstructure:"sample_rows" yaml:"sample_rows"`

	// Charts
	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`

	// Server
	ListenAddr      string `mapstructure:"listen_addr" yaml:"listen_addr"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Validate rejects values the pipeline cannot work with.
func (c *Global) Validate() error {
	switch c.DistributionPolicy {
	case "frequency", "top10":
	default:
		return fmt.Errorf("invalid distribution_policy: %q (use frequency or top10)", c.DistributionPolicy)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("invalid top_n: %d", c.TopN)
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("invalid chart size: %dx%d", c.ChartWidth, c.ChartHeight)
	}
	return nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.vgdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

var defaults = map[string]interface{}{
	"data_path":           "vgsales.csv",
	"intro_image":         "",
	"missing_image":       "",
	"cache_dataset":       false,
	"distribution_policy": "frequency",
	"top_n":               10,
	"sample_rows":         5,
	"chart_width":         1000,
	"chart_height":        600,
	"listen_addr":         "127.0.0.1:8501",
	"read_timeout_sec":    15,
	"write_timeout_sec":   60,
	"log_level":           "info",
	"log_format":          "text",
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		DataPath:           defaults["data_path"].(string),
		DistributionPolicy: defaults["distribution_policy"].(string),
		TopN:               defaults["top_n"].(int),
		SampleRows:         defaults["sample_rows"].(int),
		ChartWidth:         defaults["chart_width"].(int),
		ChartHeight:        defaults["chart_height"].(int),
		ListenAddr:         defaults["listen_addr"].(string),
		ReadTimeoutSec:     defaults["read_timeout_sec"].(int),
		WriteTimeoutSec:    defaults["write_timeout_sec"].(int),
		LogLevel:           defaults["log_level"].(string),
		LogFormat:          defaults["log_format"].(string),
	}
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env (.env included) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("VGDASH")
	v.AutomaticEnv()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".vgdash"), nil
}
