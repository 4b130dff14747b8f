// Package config loads and persists application settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/gamemods/modhub/internal/paginate"
)

// Config holds all application configuration
type Config struct {
	Feed    FeedConfig    `mapstructure:"feed"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Opener  OpenerConfig  `mapstructure:"opener"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// FeedConfig holds the remote catalogue endpoint configuration
type FeedConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RetryCount     int    `mapstructure:"retry_count"`
	Strict         bool   `mapstructure:"strict"` // drop feed records with no title and no downloads
}

// BrowseConfig holds list presentation settings
type BrowseConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// CacheConfig holds snapshot and asset cache settings
type CacheConfig struct {
	Dir     string `mapstructure:"dir"`
	Version string `mapstructure:"version"`
	Assets  bool   `mapstructure:"assets"` // precache preview images after a load
}

// OpenerConfig holds the external link opener configuration
type OpenerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			URL:            "",
			TimeoutSeconds: 15,
			RetryCount:     2,
		},
		Browse: BrowseConfig{
			PageSize: paginate.DefaultPageSize,
		},
		Cache: CacheConfig{
			Dir:     defaultCachePath(),
			Version: "v2",
			Assets:  true,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "modhub", "modhub.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "modhub", "modhub.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "modhub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "modhub")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "modhub", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "modhub", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("MODHUB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Browse.PageSize < 1 {
		cfg.Browse.PageSize = paginate.DefaultPageSize
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("feed.url", cfg.Feed.URL)
	viper.Set("feed.timeout_seconds", cfg.Feed.TimeoutSeconds)
	viper.Set("feed.retry_count", cfg.Feed.RetryCount)
	viper.Set("feed.strict", cfg.Feed.Strict)

	viper.Set("browse.page_size", cfg.Browse.PageSize)

	viper.Set("cache.dir", cfg.Cache.Dir)
	viper.Set("cache.version", cfg.Cache.Version)
	viper.Set("cache.assets", cfg.Cache.Assets)

	viper.Set("opener.command", cfg.Opener.Command)
	viper.Set("opener.args", cfg.Opener.Args)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if a feed URL is set
func (c *Config) IsConfigured() bool {
	return c.Feed.URL != ""
}
