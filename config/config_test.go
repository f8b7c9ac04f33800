package config

import (
	"os"
	"path/filepath"
	"testing"

	"cloudsync/music"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

func TestLoadConfig(t *testing.T) {
	configPath := writeConfig(t, `uid: 12345678
cookie: "MUSIC_U=abcdef;"
quality_level: "hires"
bark_api: "https://api.day.app/devkey"
download_dir: "/music"
navidrome:
  enabled: true
  host: "https://navidrome.local/"
  username: "admin"
  password: "secret"
`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.UID != 12345678 {
		t.Errorf("Expected uid 12345678, got %d", config.UID)
	}
	if config.Quality() != music.QualityHiRes {
		t.Errorf("Expected quality hires, got %s", config.Quality())
	}
	if config.Navidrome.Host != "https://navidrome.local" {
		t.Errorf("Expected trailing slash trimmed from host, got %q", config.Navidrome.Host)
	}

	// Defaults
	if config.LogLevel != "info" {
		t.Errorf("Expected default log_level info, got %s", config.LogLevel)
	}
	if config.Schedule != "0 18 * * *" {
		t.Errorf("Expected default schedule, got %s", config.Schedule)
	}
	if config.Undesired() != music.FormatMP3 {
		t.Errorf("Expected default undesired format mp3, got %s", config.Undesired())
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Error("LoadConfig() should fail with non-existent file")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("Expected ConfigError, got %T", err)
	}
}

func TestLoadConfig_MissingCookie(t *testing.T) {
	configPath := writeConfig(t, `uid: 12345678
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("LoadConfig() should fail with missing cookie")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("Expected ConfigError, got %T", err)
	}
}

func TestLoadConfig_InvalidQuality(t *testing.T) {
	configPath := writeConfig(t, `uid: 12345678
cookie: "MUSIC_U=abcdef;"
quality_level: "ultra"
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("LoadConfig() should fail with invalid quality_level")
	}
}

func TestLoadConfig_NavidromeRequiresHost(t *testing.T) {
	configPath := writeConfig(t, `uid: 12345678
cookie: "MUSIC_U=abcdef;"
navidrome:
  enabled: true
  username: "admin"
  password: "secret"
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("LoadConfig() should fail when navidrome is enabled without a host")
	}
}

func TestLoadConfig_DatabaseRequiresDSN(t *testing.T) {
	configPath := writeConfig(t, `uid: 12345678
cookie: "MUSIC_U=abcdef;"
database:
  enabled: true
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("LoadConfig() should fail when database is enabled without a dsn")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	configPath := writeConfig(t, `uid: 12345678
cookie: "from-file"
`)

	t.Setenv("CLOUDSYNC_COOKIE", "MUSIC_U=from-env;")
	t.Setenv("CLOUDSYNC_UID", "87654321")

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Cookie != "MUSIC_U=from-env;" {
		t.Errorf("Expected cookie from environment, got %q", config.Cookie)
	}
	if config.UID != 87654321 {
		t.Errorf("Expected uid from environment, got %d", config.UID)
	}
}
