// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice  PracticeConfig  `toml:"practice"`
	Generator GeneratorConfig `toml:"generator"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Server    ServerConfig    `toml:"server"`
}

// PracticeConfig maps practice-screen settings.
type PracticeConfig struct {
	NarrowWidth *int `toml:"narrow-width"`
}

// GeneratorConfig maps generation service settings. The API key is read from
// GEMINI_API_KEY only.
type GeneratorConfig struct {
	Model          *string `toml:"model"`
	BaseURL        *string `toml:"base-url"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// CatalogConfig maps catalog backend settings.
type CatalogConfig struct {
	Backend   *string `toml:"backend"`
	Dir       *string `toml:"dir"`
	DBPath    *string `toml:"db-path"`
	RedisAddr *string `toml:"redis-addr"`
	RedisDB   *int    `toml:"redis-db"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr           *string  `toml:"addr"`
	LogMode        *string  `toml:"log-mode"`
	AllowedOrigins []string `toml:"allowed-origins"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
