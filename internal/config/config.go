package config

import (
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	AniList AniListConfig `yaml:"anilist"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	HTTPPort    int `yaml:"http_port"`
	MetricsPort int `yaml:"metrics_port"` // 0 disables the metrics server
}

type AniListConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	PerPage        int    `yaml:"per_page"`
	UserAgent      string `yaml:"user_agent"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:    4445,
			MetricsPort: 0,
		},
		AniList: AniListConfig{
			Endpoint:       "https://graphql.anilist.co",
			TimeoutSeconds: 25,
			PerPage:        40,
			UserAgent:      "anireleases/1.0",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogLevel maps the configured level name to a slog level. Unrecognized
// names fall back to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
