package config

import (
	"fmt"
	"strings"

	"cloudsync/music"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// NavidromeSettings holds the Navidrome existence-check backend settings.
type NavidromeSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Validate validates NavidromeSettings.
func (n *NavidromeSettings) Validate() error {
	if !n.Enabled {
		return nil
	}
	n.Host = strings.TrimRight(strings.TrimSpace(n.Host), "/")
	if n.Host == "" {
		return &ConfigError{Message: "navidrome.host is required when navidrome.enabled is true"}
	}
	if n.Username == "" || n.Password == "" {
		return &ConfigError{Message: "navidrome.username and navidrome.password are required when navidrome.enabled is true"}
	}
	return nil
}

// DatabaseSettings holds the relational existence-check backend settings.
type DatabaseSettings struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// Validate validates DatabaseSettings.
func (d *DatabaseSettings) Validate() error {
	if !d.Enabled {
		return nil
	}
	if strings.TrimSpace(d.DSN) == "" {
		return &ConfigError{Message: "database.dsn is required when database.enabled is true"}
	}
	return nil
}

// Config is the main configuration model.
type Config struct {
	UID             int64  `yaml:"uid"`
	Cookie          string `yaml:"cookie"`
	QualityLevel    string `yaml:"quality_level"`
	BarkAPI         string `yaml:"bark_api"`
	LogLevel        string `yaml:"log_level"`
	DownloadDir     string `yaml:"download_dir"`
	Schedule        string `yaml:"schedule"`
	UndesiredFormat string `yaml:"undesired_format"`

	Navidrome NavidromeSettings `yaml:"navidrome"`
	Database  DatabaseSettings  `yaml:"database"`
}

// SetDefaults sets default values for Config.
func (c *Config) SetDefaults() {
	if c.QualityLevel == "" {
		c.QualityLevel = string(music.QualityLossless)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Schedule == "" {
		c.Schedule = "0 18 * * *"
	}
	if c.UndesiredFormat == "" {
		c.UndesiredFormat = string(music.FormatMP3)
	}
}

// Validate validates Config.
func (c *Config) Validate() error {
	if c.UID <= 0 {
		return &ConfigError{Message: "uid is required and must be a positive account id"}
	}
	if strings.TrimSpace(c.Cookie) == "" {
		return &ConfigError{Message: "cookie is required; copy the MUSIC_U cookie from a logged-in browser session"}
	}
	if _, err := music.ParseQuality(c.QualityLevel); err != nil {
		return &ConfigError{Message: fmt.Sprintf("invalid quality_level: %v", err)}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Message: fmt.Sprintf("invalid log_level: %s. Must be one of: debug, info, warn, error", c.LogLevel)}
	}
	if music.FormatFromSuffix(c.UndesiredFormat) == music.FormatUnknown {
		return &ConfigError{Message: fmt.Sprintf("invalid undesired_format: %s", c.UndesiredFormat)}
	}
	if err := c.Navidrome.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return nil
}

// Quality returns the validated quality tier. Call after Validate.
func (c *Config) Quality() music.Quality {
	return music.Quality(c.QualityLevel)
}

// Undesired returns the format that should never satisfy an existence check.
func (c *Config) Undesired() music.Format {
	return music.FormatFromSuffix(c.UndesiredFormat)
}
