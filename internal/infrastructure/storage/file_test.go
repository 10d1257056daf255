package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-storefront/internal/config"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFileStore(path)

	_, err := s.Get(ctx, "storefront:session")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "storefront:session", []byte(`{"id":"u1"}`)))
	require.NoError(t, s.Set(ctx, "other", []byte("x")))

	value, err := s.Get(ctx, "storefront:session")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(value))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Delete(ctx, "storefront:session"))
	_, err = s.Get(ctx, "storefront:session")
	assert.ErrorIs(t, err, ErrNotFound)

	value, err = s.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "x", string(value))
}

func TestFileStore_DeleteMissingKey(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	assert.NoError(t, s.Delete(context.Background(), "nothing"))
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewFileStore(path)
	_, err := s.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	// writes recover from corruption
	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))
}

func TestOpen(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Store: "file", FilePath: filepath.Join(t.TempDir(), "s.json")}}
	s, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	assert.NoError(t, s.Close())

	cfg.Session.Store = "etcd"
	_, err = Open(cfg)
	assert.Error(t, err)
}
