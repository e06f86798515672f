// Package config loads configuration from an optional YAML file and
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all browser and dev-server configuration.
type Config struct {
	// Client
	BaseURL       string        // serving origin, e.g. http://localhost:6419
	BasePath      string        // default tree base path, e.g. resources/source
	CacheTTL      time.Duration // derived-result TTL
	HTTPTimeout   time.Duration
	RetryAttempts int

	// Logging
	LogLevel  string
	LogFormat string

	// Dev server
	ListenAddr string
	ServeRoot  string // directory published as the resource root
}

// DefaultConfigPaths returns the locations searched for pycontw.yaml.
func DefaultConfigPaths() []string {
	paths := []string{".", "./configs"}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "pycontw2025"))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".pycontw2025"))
	}
	return paths
}

// Load reads configuration. A missing config file is not an error; every
// key has a default and can be overridden with a PYCONTW_* environment
// variable (e.g. PYCONTW_BASE_URL).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("base_url", "http://localhost:6419")
	v.SetDefault("base_path", "resources/source")
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("retry_attempts", 2)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("listen_addr", ":6419")
	v.SetDefault("serve_root", "./public/resources")

	v.SetEnvPrefix("PYCONTW")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pycontw")
		v.SetConfigType("yaml")
		for _, p := range DefaultConfigPaths() {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found falls back to defaults; anything else is real.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Config{
		BaseURL:       v.GetString("base_url"),
		BasePath:      v.GetString("base_path"),
		CacheTTL:      v.GetDuration("cache_ttl"),
		HTTPTimeout:   v.GetDuration("http_timeout"),
		RetryAttempts: v.GetInt("retry_attempts"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		ListenAddr:    v.GetString("listen_addr"),
		ServeRoot:     v.GetString("serve_root"),
	}, nil
}
