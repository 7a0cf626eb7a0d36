package recordstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreLoadMissingCollection(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	data, err := store.Load(context.Background(), CollectionReports)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(data))
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte(`[{"id":"r1"},{"id":"r2"}]`)
	require.NoError(t, store.Save(context.Background(), CollectionReports, payload))

	data, err := store.Load(context.Background(), CollectionReports)
	require.NoError(t, err)
	require.JSONEq(t, string(payload), string(data))

	// The snapshot lands in a file named after the collection.
	_, err = os.Stat(filepath.Join(store.Dir(), "reports.json"))
	require.NoError(t, err)
}

func TestFileStoreSaveReplacesWholeCollection(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, CollectionUsers, []byte(`[{"id":"u1"},{"id":"u2"}]`)))
	require.NoError(t, store.Save(ctx, CollectionUsers, []byte(`[{"id":"u3"}]`)))

	data, err := store.Load(ctx, CollectionUsers)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"u3"}]`, string(data))
}

func TestFileStoreEmptyFileLoadsAsEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notifications.json"), nil, 0o644))

	data, err := store.Load(context.Background(), CollectionNotifications)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(data))
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	_, err := NewFileStore("  ")
	require.Error(t, err)
}
