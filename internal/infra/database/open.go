package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xavierca1/hecms/internal/config"
	"github.com/xavierca1/hecms/internal/entity"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the blob store selected by cfg.StoreDriver. The returned
// closer releases any database pool.
func Open(ctx context.Context, cfg *config.Config) (entity.BlobStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemoryBlobStore(), nopCloser{}, nil

	case config.DriverFile:
		s, err := NewFileBlobStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("data dir: %w", err)
		}
		return s, nopCloser{}, nil

	case config.DriverPostgres:
		db, err := NewDBConnection("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		s := NewPostgresBlobStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, s, nil

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, nil, err
		}
		db, err := NewDBConnection("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		s := NewSQLiteBlobStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
