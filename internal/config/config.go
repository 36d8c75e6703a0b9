package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukerupert/grocer/internal/report"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel          string `mapstructure:"log_level"`
	LogFormat         string `mapstructure:"log_format"`
	DataFile          string `mapstructure:"data_file"`
	SalesExport       string `mapstructure:"sales_export"`
	LowStockThreshold int    `mapstructure:"low_stock_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:          "warn",
		LogFormat:         "text",
		LowStockThreshold: 5,
	}
}

// Load reads grocer.yaml from the working directory or the user config
// directory, then applies GROCER_* environment overrides. A missing config
// file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("grocer")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "grocer"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "grocer"))
	}

	return load(v)
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	def := DefaultConfig()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("data_file", def.DataFile)
	v.SetDefault("sales_export", def.SalesExport)
	v.SetDefault("low_stock_threshold", def.LowStockThreshold)

	v.SetEnvPrefix("GROCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format %q must be text or json", c.LogFormat)
	}
	if c.SalesExport != "" && !report.SupportedExport(c.SalesExport) {
		return fmt.Errorf("config: sales_export %q must end in .csv or .xlsx", c.SalesExport)
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("config: low_stock_threshold must not be negative, got %d", c.LowStockThreshold)
	}
	return nil
}
