package compaction_test

import (
	"context"
	"testing"

	"github.com/stratadb/strata/internal/codec"
	"github.com/stratadb/strata/internal/compaction"
	"github.com/stratadb/strata/internal/index"
	"github.com/stratadb/strata/internal/storage"
	"github.com/stratadb/strata/pkg/logger"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*index.Index, *storage.Storage) {
	t.Helper()
	dir := t.TempDir()

	idx, err := index.New(context.Background(), &index.Config{DataDir: dir, Logger: logger.Nop()})
	require.NoError(t, err)

	st, err := storage.New(context.Background(), &storage.Config{DataDir: dir, Logger: logger.Nop()})
	require.NoError(t, err)

	return idx, st
}

func appendSet(t *testing.T, idx *index.Index, st *storage.Storage, key, value string) {
	t.Helper()
	encoded, err := codec.Encode(codec.NewSet(key, value))
	require.NoError(t, err)
	gen, offset, err := st.Append(encoded)
	require.NoError(t, err)
	prev, existed := idx.Set(key, index.Pointer{Generation: gen, Offset: offset, Length: int64(len(encoded))})
	if existed {
		idx.AddUncompacted(prev.Length)
	}
}

func appendRemove(t *testing.T, idx *index.Index, st *storage.Storage, key string) {
	t.Helper()
	encoded, err := codec.Encode(codec.NewRemove(key))
	require.NoError(t, err)
	_, _, err = st.Append(encoded)
	require.NoError(t, err)
	prev, existed := idx.Remove(key)
	if existed {
		idx.AddUncompacted(prev.Length)
	}
	idx.AddUncompacted(int64(len(encoded)))
}

func TestCompactionPreservesLiveValues(t *testing.T) {
	idx, st := setup(t)

	appendSet(t, idx, st, "a", "1")
	appendSet(t, idx, st, "b", "2")
	appendSet(t, idx, st, "a", "3")
	appendRemove(t, idx, st, "b")

	comp := compaction.New(&compaction.Config{Logger: logger.Nop()})
	result, err := comp.Run(context.Background(), idx, st)
	require.NoError(t, err)
	require.Equal(t, 1, result.RecordsRewritten)

	ptr, ok := idx.Get("a")
	require.True(t, ok)

	raw, err := st.Read(ptr.Generation, ptr.Offset, ptr.Length)
	require.NoError(t, err)
	rec, err := codec.DecodeOne(raw)
	require.NoError(t, err)
	require.Equal(t, "3", rec.Value)

	_, ok = idx.Get("b")
	require.False(t, ok)
}

func TestCompactionBoundsSegmentCount(t *testing.T) {
	idx, st := setup(t)

	for i := 0; i < 5; i++ {
		appendSet(t, idx, st, "k", "v")
	}

	comp := compaction.New(&compaction.Config{Logger: logger.Nop()})
	_, err := comp.Run(context.Background(), idx, st)
	require.NoError(t, err)

	require.LessOrEqual(t, len(st.Generations()), 2)
}

func TestCompactionResetsUncompactedCounter(t *testing.T) {
	idx, st := setup(t)

	appendSet(t, idx, st, "a", "1")
	appendSet(t, idx, st, "a", "2")
	require.Greater(t, idx.Uncompacted(), int64(0))

	comp := compaction.New(&compaction.Config{Logger: logger.Nop()})
	_, err := comp.Run(context.Background(), idx, st)
	require.NoError(t, err)

	require.Equal(t, int64(0), idx.Uncompacted())
}
