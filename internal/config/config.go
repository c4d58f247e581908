// Package config loads nodeboard settings from defaults, a config file, and
// NODEBOARD_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"nodeboard/internal/logger"
)

// Config holds all settings.
type Config struct {
	Server ServerConfig  `mapstructure:"server"`
	Node   string        `mapstructure:"node"` // default node id opened by the board
	Log    logger.Config `mapstructure:"log"`
	Cache  CacheConfig   `mapstructure:"cache"`
}

// ServerConfig holds the connection to the node server. Session and CSRF
// token come from an authenticated browser session; nodeboard only carries
// them.
type ServerConfig struct {
	BaseURL   string `mapstructure:"baseUrl"`
	Session   string `mapstructure:"session"`
	CSRFToken string `mapstructure:"csrfToken"`
	Timeout   int    `mapstructure:"timeout"` // seconds
}

// CacheConfig holds the local snapshot store settings.
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// TimeoutDuration returns the request timeout as a duration.
func (s ServerConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// DefaultCachePath returns the stock snapshot database location.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "nodeboard.db"
	}
	return filepath.Join(dir, "nodeboard", "nodeboard.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.baseUrl", "")
	v.SetDefault("server.session", "")
	v.SetDefault("server.csrfToken", "")
	v.SetDefault("server.timeout", 15)

	v.SetDefault("node", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.path", logger.DefaultPath())

	v.SetDefault("cache.path", DefaultCachePath())
}

// Load reads configuration from the default locations: the current directory
// and the user config dir.
func Load() (*Config, error) {
	return LoadWithPath("")
}

// LoadWithPath reads configuration, preferring a config.yaml under the given
// path when set. A missing config file is not an error; the defaults and
// environment carry a usable setup.
func LoadWithPath(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("NODEBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// camelCase keys need explicit bindings, AutomaticEnv only matches
	// exact replaced names.
	_ = v.BindEnv("server.baseUrl", "NODEBOARD_SERVER_BASE_URL")
	_ = v.BindEnv("server.csrfToken", "NODEBOARD_SERVER_CSRF_TOKEN")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "nodeboard"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %d", cfg.Server.Timeout)
	}
	if cfg.Server.BaseURL != "" &&
		!strings.HasPrefix(cfg.Server.BaseURL, "http://") &&
		!strings.HasPrefix(cfg.Server.BaseURL, "https://") {
		return fmt.Errorf("server.baseUrl must be an http(s) url, got %q", cfg.Server.BaseURL)
	}
	return nil
}
