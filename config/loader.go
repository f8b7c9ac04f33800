package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads and validates configuration from a YAML file.
// Environment variables override file values for the credential fields
// so deployments can keep secrets out of the config file.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Configuration file not found: %s", path),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Error reading configuration file: %v", err),
		}
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Error parsing YAML file: %v", err),
		}
	}

	applyEnvOverrides(&config)
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("CLOUDSYNC_UID"); v != "" {
		if uid, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.UID = uid
		}
	}
	if v := os.Getenv("CLOUDSYNC_COOKIE"); v != "" {
		c.Cookie = v
	}
	if v := os.Getenv("CLOUDSYNC_BARK_API"); v != "" {
		c.BarkAPI = v
	}
	if v := os.Getenv("CLOUDSYNC_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("CLOUDSYNC_NAVIDROME_PASSWORD"); v != "" {
		c.Navidrome.Password = v
	}
}
