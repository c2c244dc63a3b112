package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the connection settings for the TaskFlow server.
type ServerConfig struct {
	// BaseURL is the root API URL (e.g., http://localhost:8080/api).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// WebSocketPath is the STOMP endpoint path appended to BaseURL.
	WebSocketPath string `mapstructure:"websocket_path" yaml:"websocket_path"`
}

// WebSocketURL derives the ws:// (or wss://) endpoint from the base URL.
func (s ServerConfig) WebSocketURL() string {
	url := strings.TrimRight(s.BaseURL, "/") + s.WebSocketPath
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	if strings.HasPrefix(url, "http://") {
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// StatusPollIntervalSec is how often the connectivity indicator is
	// refreshed from the realtime client.
	StatusPollIntervalSec int `mapstructure:"status_poll_interval_sec" yaml:"status_poll_interval_sec"`
}

// StatusPollInterval returns the configured poll cadence as a duration,
// falling back to the default for zero or negative values.
func (d DisplayConfig) StatusPollInterval() time.Duration {
	if d.StatusPollIntervalSec <= 0 {
		return 2 * time.Second
	}
	return time.Duration(d.StatusPollIntervalSec) * time.Second
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskflow/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskflow", "config.yaml")
}

// DefaultCachePath returns the default path for the local cache database,
// located at ~/.local/share/taskflow/cache.db.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "cache.db")
	}
	return filepath.Join(home, ".local", "share", "taskflow", "cache.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:       "http://localhost:8080/api",
			WebSocketPath: "/ws",
		},
		Display: DisplayConfig{
			StatusPollIntervalSec: 2,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", "http://localhost:8080/api")
	v.SetDefault("server.websocket_path", "/ws")
	v.SetDefault("display.status_poll_interval_sec", 2)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
