package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/hecms/internal/entity"
)

type dialect struct {
	name   string
	load   string
	save   string
	schema string
}

var postgresDialect = dialect{
	name: "postgres",
	load: `SELECT value FROM kv_blobs WHERE key = $1`,
	save: `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`,
	schema: `
		CREATE TABLE IF NOT EXISTS kv_blobs (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`,
}

var sqliteDialect = dialect{
	name: "sqlite",
	load: `SELECT value FROM kv_blobs WHERE key = ?`,
	save: `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key)
		DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`,
	schema: `
		CREATE TABLE IF NOT EXISTS kv_blobs (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`,
}

// SQLBlobStore keeps each blob as one row of kv_blobs.
type SQLBlobStore struct {
	DB      *sql.DB
	dialect dialect
}

func NewPostgresBlobStore(db *sql.DB) *SQLBlobStore {
	return &SQLBlobStore{DB: db, dialect: postgresDialect}
}

func NewSQLiteBlobStore(db *sql.DB) *SQLBlobStore {
	return &SQLBlobStore{DB: db, dialect: sqliteDialect}
}

// EnsureSchema creates kv_blobs if it does not exist.
func (s *SQLBlobStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("create kv_blobs (%s): %w", s.dialect.name, err)
	}
	return nil
}

func (s *SQLBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, s.dialect.load, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQLBlobStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.DB.ExecContext(ctx, s.dialect.save, key, string(data))
	return err
}

func (s *SQLBlobStore) Close() error {
	return s.DB.Close()
}
