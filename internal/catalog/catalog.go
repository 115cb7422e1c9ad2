// Package catalog persists generated exercises under timestamp-derived keys.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

// Backends.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// KeyPrefix starts every key produced by NewKey.
const KeyPrefix = "part7-"

// ErrNotFound is returned by Get for absent keys, malformed keys and stored
// documents that no longer decode.
var ErrNotFound = errors.New("exercise not found")

// Store saves, lists and retrieves exercises.
type Store interface {
	// Save stores ex under a fresh key. Overwriting an existing key succeeds.
	Save(ctx context.Context, ex model.Exercise) (string, error)
	// List returns keys most-recent-first.
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) (model.Exercise, error)
	Close() error
}

// NewKey derives a key from t: the UTC ISO-8601 timestamp with ':' and '.'
// replaced by '-', e.g. part7-2026-10-14T09-30-12-345Z.
func NewKey(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return KeyPrefix + strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
}

// ValidKey reports whether key can name a stored exercise.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, ".") {
		return false
	}
	return !strings.ContainsAny(key, `/\`)
}

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg model.CatalogConfig) (Store, error) {
	switch cfg.Backend {
	case "", BackendFS:
		return NewFSStore(cfg.Dir)
	case BackendSQLite:
		return OpenSQLite(cfg.DBPath)
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}

func encode(ex model.Exercise) ([]byte, error) {
	data, err := json.MarshalIndent(ex, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode exercise: %w", err)
	}
	return data, nil
}

func decode(data []byte) (model.Exercise, error) {
	var ex model.Exercise
	if err := json.Unmarshal(data, &ex); err != nil {
		return model.Exercise{}, fmt.Errorf("%w: corrupt exercise: %w", ErrNotFound, err)
	}
	return ex, nil
}
