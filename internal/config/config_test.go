package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.NarrowWidth != nil || cfg.Catalog.Backend != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `[practice]
narrow-width = 90

[generator]
model = "gemini-2.0-flash"
timeout-seconds = 30

[catalog]
backend = "sqlite"
db-path = "/tmp/catalog.db"
redis-db = 2

[server]
addr = ":9090"
allowed-origins = ["http://localhost:3000"]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.NarrowWidth == nil || *cfg.Practice.NarrowWidth != 90 {
		t.Fatalf("unexpected narrow width: %v", cfg.Practice.NarrowWidth)
	}
	if cfg.Generator.Model == nil || *cfg.Generator.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected model: %v", cfg.Generator.Model)
	}
	if cfg.Generator.BaseURL != nil {
		t.Fatalf("expected unset base url")
	}
	if cfg.Catalog.Backend == nil || *cfg.Catalog.Backend != "sqlite" || *cfg.Catalog.RedisDB != 2 {
		t.Fatalf("unexpected catalog config: %+v", cfg.Catalog)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || *cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.lang") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tuitoeic", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultCatalogDir(); got != filepath.Join("/data", "tuitoeic", "exercises") {
		t.Fatalf("unexpected catalog dir %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tuitoeic", "catalog.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/data", "tuitoeic", "tuitoeic.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
