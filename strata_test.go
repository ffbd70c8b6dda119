package strata_test

import (
	"context"
	"testing"

	"github.com/stratadb/strata"
	"github.com/stratadb/strata/pkg/errors"
	"github.com/stratadb/strata/pkg/options"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, dir string) *strata.Store {
	t.Helper()
	store, err := strata.Open(context.Background(), "strata-test", options.WithDataDir(dir))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSetGetRemove(t *testing.T) {
	store := openStore(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "name", "strata"))

	value, ok, err := store.Get(ctx, "name")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "strata", value)

	require.NoError(t, store.Remove(ctx, "name"))

	_, ok, err = store.Get(ctx, "name")
	require.NoError(t, err)
	require.False(t, ok)

	require.True(t, errors.IsKeyNotFound(store.Remove(ctx, "name")))
}

func TestStoreSatisfiesEngineInterface(t *testing.T) {
	var _ strata.Engine = (*strata.Store)(nil)
}

func TestReopenAfterClose(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store1, err := strata.Open(ctx, "strata-test", options.WithDataDir(dir))
	require.NoError(t, err)
	require.NoError(t, store1.Set(ctx, "k", "v"))
	require.NoError(t, store1.Close())

	store2, err := strata.Open(ctx, "strata-test", options.WithDataDir(dir))
	require.NoError(t, err)
	defer store2.Close()

	value, ok, err := store2.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)
}
