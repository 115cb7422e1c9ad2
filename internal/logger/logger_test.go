package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSecretKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.Info("generate", "api_key", "abc123", "key", "part7-2026", "Authorization", "Bearer x")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["api_key"] != "[REDACTED]" {
		t.Fatalf("expected api_key redacted, got %v", fields["api_key"])
	}
	if fields["Authorization"] != "[REDACTED]" {
		t.Fatalf("expected authorization redacted, got %v", fields["Authorization"])
	}
	if fields["key"] != "part7-2026" {
		t.Fatalf("expected catalog key kept, got %v", fields["key"])
	}
}

func TestWithKeepsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("component", "generator")
	log.Warn("slow response", "elapsed_ms", 1200)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["component"] != "generator" {
		t.Fatalf("expected component field, got %v", entries[0].ContextMap())
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := t.TempDir() + "/logs/app.log"
	log, err := New("dev", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("hello")
	log.Sync()
}
