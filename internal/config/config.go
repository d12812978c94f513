package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageDriver selects the durable storage backend
type StorageDriver string

const (
	StorageDriverBolt   StorageDriver = "bolt"
	StorageDriverSQLite StorageDriver = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds movie metadata API configuration
type CatalogConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"` // Home listings cache; 0 = never expires
}

// APIConfig holds companion API (accounts and reviews) configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds durable storage configuration
type StorageConfig struct {
	Driver    StorageDriver `mapstructure:"driver"`    // "bolt" or "sqlite"
	Path      string        `mapstructure:"path"`      // Empty = memory only
	Namespace string        `mapstructure:"namespace"` // Key prefix, lets profiles share one file
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultTab string `mapstructure:"default_tab"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Timeout:      30 * time.Second,
			CacheTTL:     6 * time.Hour,
		},
		API: APIConfig{
			BaseURL: "http://127.0.0.1:5000/api",
			Timeout: 15 * time.Second,
		},
		Storage: StorageConfig{
			Driver: StorageDriverBolt,
			Path:   filepath.Join(defaultDataPath(), "cinescope.db"),
		},
		UI: UIConfig{
			DefaultTab: "popular",
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "cinescope.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cinescope")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinescope")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinescope")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cinescope")
	}
}

// LoadConfig loads configuration from file and environment.
// configFile overrides the search path when non-empty.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigPath())
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.Path = ExpandHome(cfg.Storage.Path)
	cfg.Logging.File = ExpandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper builds a viper instance with defaults registered so that
// environment overrides apply to every key.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()

	v.SetDefault("catalog.base_url", cfg.Catalog.BaseURL)
	v.SetDefault("catalog.api_key", cfg.Catalog.APIKey)
	v.SetDefault("catalog.image_base_url", cfg.Catalog.ImageBaseURL)
	v.SetDefault("catalog.timeout", cfg.Catalog.Timeout)
	v.SetDefault("catalog.cache_ttl", cfg.Catalog.CacheTTL)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("storage.driver", string(cfg.Storage.Driver))
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.namespace", cfg.Storage.Namespace)
	v.SetDefault("ui.default_tab", cfg.UI.DefaultTab)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	// Environment variable overrides: CINESCOPE_CATALOG_API_KEY etc.
	v.SetEnvPrefix("CINESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Validate checks values that would otherwise fail later and less clearly
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverBolt, StorageDriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	return nil
}

// IsConfigured returns true if the catalog API key is set
func (c *Config) IsConfigured() bool {
	return c.Catalog.APIKey != ""
}

// SaveConfig writes the configuration to dir/config.yaml.
// dir defaults to DefaultConfigPath().
func SaveConfig(cfg *Config, dir string) error {
	if dir == "" {
		dir = DefaultConfigPath()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("catalog.base_url", cfg.Catalog.BaseURL)
	v.Set("catalog.api_key", cfg.Catalog.APIKey)
	v.Set("catalog.image_base_url", cfg.Catalog.ImageBaseURL)
	v.Set("catalog.timeout", cfg.Catalog.Timeout.String())
	v.Set("catalog.cache_ttl", cfg.Catalog.CacheTTL.String())

	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())

	v.Set("storage.driver", string(cfg.Storage.Driver))
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.namespace", cfg.Storage.Namespace)

	v.Set("ui.default_tab", cfg.UI.DefaultTab)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
