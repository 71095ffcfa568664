package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/hecms/internal/config"
	"github.com/xavierca1/hecms/internal/entity"
)

// exerciseBlobStore runs the contract every backend must meet.
func exerciseBlobStore(t *testing.T, s entity.BlobStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, entity.KeyLeads)
	assert.ErrorIs(t, err, entity.ErrBlobNotFound)

	require.NoError(t, s.Save(ctx, entity.KeyLeads, []byte(`[{"id":"1"}]`)))
	got, err := s.Load(ctx, entity.KeyLeads)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, s.Save(ctx, entity.KeyLeads, []byte(`[]`)))
	got, err = s.Load(ctx, entity.KeyLeads)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	_, err = s.Load(ctx, entity.KeyEvents)
	assert.ErrorIs(t, err, entity.ErrBlobNotFound)
}

func TestMemoryBlobStore(t *testing.T) {
	exerciseBlobStore(t, NewMemoryBlobStore())
}

func TestMemoryBlobStoreCopiesData(t *testing.T) {
	s := NewMemoryBlobStore()
	data := []byte("abc")
	require.NoError(t, s.Save(context.Background(), "k", data))
	data[0] = 'x'

	got, err := s.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileBlobStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileBlobStore(filepath.Join(dir, "nested"))
	require.NoError(t, err)

	exerciseBlobStore(t, s)

	_, err = os.Stat(filepath.Join(dir, "nested", entity.KeyLeads+".json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "nested", entity.KeyLeads+".json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileBlobStoreRejectsPathKeys(t *testing.T) {
	s, err := NewFileBlobStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Save(context.Background(), "../escape", []byte("x")))
	_, err = s.Load(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestSQLiteBlobStore(t *testing.T) {
	db, err := NewDBConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	s := NewSQLiteBlobStore(db)
	defer s.Close()

	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.EnsureSchema(context.Background()), "schema creation is idempotent")

	exerciseBlobStore(t, s)
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	s, closer, err := Open(ctx, &config.Config{StoreDriver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBlobStore{}, s)
	assert.NoError(t, closer.Close())

	dir := t.TempDir()
	s, closer, err = Open(ctx, &config.Config{StoreDriver: config.DriverFile, DataDir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileBlobStore{}, s)
	assert.NoError(t, closer.Close())

	s, closer, err = Open(ctx, &config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(dir, "db", "hecms.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLBlobStore{}, s)
	exerciseBlobStore(t, s)
	assert.NoError(t, closer.Close())

	_, _, err = Open(ctx, &config.Config{StoreDriver: "mongo"})
	assert.Error(t, err)
}
