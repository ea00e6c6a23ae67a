package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mbolis/quick-form/database"
)

type sqliteBlobs struct {
	db *sql.DB
}

func OpenSQLite(path string) (Blobs, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	return &sqliteBlobs{db}, nil
}

func (s *sqliteBlobs) Get(ctx context.Context, key string) (value []byte, err error) {
	err = s.db.
		QueryRowContext(ctx, "SELECT value FROM blob WHERE key = ?", key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return
}

func (s *sqliteBlobs) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blob (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key,
		value,
		time.Now(),
	)
	return err
}

func (s *sqliteBlobs) Close() error {
	return s.db.Close()
}
