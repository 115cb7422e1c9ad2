package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

const fileExt = ".json"

// FSStore keeps one <key>.json file per exercise in a directory.
type FSStore struct {
	dir string
	now func() time.Time
}

// NewFSStore creates dir if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("catalog directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog dir: %w", err)
	}
	return &FSStore{dir: dir, now: time.Now}, nil
}

// Dir returns the catalog directory.
func (s *FSStore) Dir() string {
	return s.dir
}

// Save writes the exercise through a temp file and rename.
func (s *FSStore) Save(ctx context.Context, ex model.Exercise) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := encode(ex)
	if err != nil {
		return "", err
	}
	key := NewKey(s.now())
	tmpFile, err := os.CreateTemp(s.dir, "exercise-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp exercise: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("failed to write exercise: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close exercise: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, key+fileExt)); err != nil {
		return "", fmt.Errorf("failed to write exercise: %w", err)
	}
	return key, nil
}

// List returns the keys of all .json files, most recent first.
func (s *FSStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog dir: %w", err)
	}
	keys := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		key := strings.TrimSuffix(name, fileExt)
		if ValidKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

// Get reads one exercise.
func (s *FSStore) Get(ctx context.Context, key string) (model.Exercise, error) {
	if err := ctx.Err(); err != nil {
		return model.Exercise{}, err
	}
	if !ValidKey(key) {
		return model.Exercise{}, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, key+fileExt))
	if errors.Is(err, os.ErrNotExist) {
		return model.Exercise{}, ErrNotFound
	}
	if err != nil {
		return model.Exercise{}, fmt.Errorf("failed to read exercise: %w", err)
	}
	return decode(data)
}

// Close implements Store.
func (s *FSStore) Close() error {
	return nil
}
