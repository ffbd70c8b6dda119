package index_test

import (
	"context"
	"testing"

	"github.com/stratadb/strata/internal/index"
	"github.com/stratadb/strata/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.New(context.Background(), &index.Config{
		DataDir: t.TempDir(),
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)
	return idx
}

func TestSetAndGet(t *testing.T) {
	idx := newIndex(t)

	_, existed := idx.Set("a", index.Pointer{Generation: 1, Offset: 0, Length: 10})
	require.False(t, existed)

	ptr, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, index.Pointer{Generation: 1, Offset: 0, Length: 10}, ptr)
}

func TestSetReturnsSupersededPointer(t *testing.T) {
	idx := newIndex(t)
	idx.Set("a", index.Pointer{Generation: 1, Offset: 0, Length: 10})

	prev, existed := idx.Set("a", index.Pointer{Generation: 1, Offset: 10, Length: 12})
	require.True(t, existed)
	require.Equal(t, index.Pointer{Generation: 1, Offset: 0, Length: 10}, prev)
}

func TestRemoveHidesKey(t *testing.T) {
	idx := newIndex(t)
	idx.Set("a", index.Pointer{Generation: 1, Offset: 0, Length: 10})

	prev, existed := idx.Remove("a")
	require.True(t, existed)
	require.Equal(t, int64(10), prev.Length)

	_, ok := idx.Get("a")
	require.False(t, ok)
}

func TestRewriteDoesNotTouchUncompactedCounter(t *testing.T) {
	idx := newIndex(t)
	idx.Set("a", index.Pointer{Generation: 1, Offset: 0, Length: 10})
	idx.AddUncompacted(100)

	idx.Rewrite("a", index.Pointer{Generation: 2, Offset: 0, Length: 10})

	require.Equal(t, int64(100), idx.Uncompacted())
	ptr, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, uint64(2), ptr.Generation)
}

func TestUncompactedAccumulatesAndResets(t *testing.T) {
	idx := newIndex(t)
	idx.AddUncompacted(5)
	idx.AddUncompacted(7)
	require.Equal(t, int64(12), idx.Uncompacted())

	idx.ResetUncompacted()
	require.Equal(t, int64(0), idx.Uncompacted())
}

func TestAddUncompactedIgnoresNonPositive(t *testing.T) {
	idx := newIndex(t)
	idx.AddUncompacted(0)
	idx.AddUncompacted(-5)
	require.Equal(t, int64(0), idx.Uncompacted())
}

func TestKeysReturnsSortedLiveKeys(t *testing.T) {
	idx := newIndex(t)
	idx.Set("banana", index.Pointer{Generation: 1})
	idx.Set("apple", index.Pointer{Generation: 1})
	idx.Set("cherry", index.Pointer{Generation: 1})
	idx.Remove("banana")

	require.Equal(t, []string{"apple", "cherry"}, idx.Keys())
	require.Equal(t, 2, idx.Len())
}

func TestCloseRejectsFurtherCloseCalls(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Close())
	require.ErrorIs(t, idx.Close(), index.ErrIndexClosed)
}
