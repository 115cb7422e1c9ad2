package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/tuitoeic/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps exercises as JSON documents in a SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog db: %w", err)
	}
	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate catalog db: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exercises (
			exercise_key TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			title TEXT NOT NULL,
			question_count INTEGER NOT NULL,
			body TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_created_at ON exercises(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save inserts the exercise, replacing any row with the same key.
func (s *SQLiteStore) Save(ctx context.Context, ex model.Exercise) (string, error) {
	data, err := encode(ex)
	if err != nil {
		return "", err
	}
	now := s.now()
	key := NewKey(now)
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO exercises (exercise_key, created_at, title, question_count, body)
		 VALUES (?, ?, ?, ?, ?)`,
		key,
		now.UTC().Format(time.RFC3339Nano),
		ex.Passage.Title,
		len(ex.Questions),
		string(data),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert exercise: %w", err)
	}
	return key, nil
}

// List returns keys ordered by creation time, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT exercise_key FROM exercises ORDER BY created_at DESC, exercise_key DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Get loads one exercise by key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (model.Exercise, error) {
	if !ValidKey(key) {
		return model.Exercise{}, ErrNotFound
	}
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM exercises WHERE exercise_key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Exercise{}, ErrNotFound
	}
	if err != nil {
		return model.Exercise{}, fmt.Errorf("failed to load exercise: %w", err)
	}
	return decode([]byte(body))
}
