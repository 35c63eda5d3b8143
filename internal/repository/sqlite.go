package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mr1hm/go-crisis-alerts/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteDB keeps the encoded alert collection in a single key/value row.
type SQLiteDB struct {
	db  *sql.DB
	key string
}

func NewSQLiteDB(path, key string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	if key == "" {
		key = DefaultKey
	}
	s := &SQLiteDB{
		db:  db,
		key: key,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Load(ctx context.Context) ([]models.Alert, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: error reading %s: %w", ErrStorage, s.key, err)
	}

	return DecodeAlerts([]byte(value))
}

func (s *SQLiteDB) Save(ctx context.Context, alerts []models.Alert) error {
	data, err := EncodeAlerts(alerts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: error starting transaction: %w", ErrStorage, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.key, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: error writing %s: %w", ErrStorage, s.key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: error committing %s: %w", ErrStorage, s.key, err)
	}
	return nil
}

// Delete removes the stored collection so the next store load seeds defaults.
func (s *SQLiteDB) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("%w: error deleting %s: %w", ErrStorage, s.key, err)
	}
	return nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
