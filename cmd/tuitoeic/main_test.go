package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuitoeic/internal/config"
	"github.com/verte-zerg/tuitoeic/internal/model"
)

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Practice.NarrowWidth != nil || cfg.Catalog.Backend != nil {
		t.Fatalf("expected commented template to set nothing: %+v", cfg)
	}
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var width int
	cmd.Flags().IntVar(&width, "narrow-width", 100, "")

	fileWidth := 80
	applyIntConfig(cmd, "narrow-width", &width, &fileWidth)
	if width != 80 {
		t.Fatalf("expected file value 80, got %d", width)
	}

	if err := cmd.Flags().Set("narrow-width", "120"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	applyIntConfig(cmd, "narrow-width", &width, &fileWidth)
	if width != 120 {
		t.Fatalf("expected flag value 120, got %d", width)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(model.Config{NarrowWidth: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateConfig(model.Config{NarrowWidth: 0}); err == nil {
		t.Fatalf("expected error for zero narrow width")
	}
	if err := validateConfig(model.Config{NarrowWidth: 100, Key: "../etc/passwd"}); err == nil {
		t.Fatalf("expected error for key with path separators")
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"demo", "part5", "generate", "list", "show", "serve", "config"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("expected subcommand %q", name)
		}
	}
}
