package storage_test

import (
	"context"
	"io"
	"testing"

	"github.com/stratadb/strata/internal/storage"
	"github.com/stratadb/strata/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T, dir string) *storage.Storage {
	t.Helper()
	st, err := storage.New(context.Background(), &storage.Config{
		DataDir: dir,
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)
	return st
}

func TestNewBootstrapsGenerationOne(t *testing.T) {
	st := newStorage(t, t.TempDir())
	require.Equal(t, uint64(1), st.ActiveGeneration())
	require.Equal(t, []uint64{1}, st.Generations())
}

func TestAppendAndReadRoundTrip(t *testing.T) {
	st := newStorage(t, t.TempDir())

	gen, offset, err := st.Append([]byte("hello-"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), gen)
	require.Equal(t, int64(0), offset)

	gen2, offset2, err := st.Append([]byte("world!"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), gen2)
	require.Equal(t, int64(6), offset2)

	b, err := st.Read(gen, offset, 6)
	require.NoError(t, err)
	require.Equal(t, "hello-", string(b))

	b, err = st.Read(gen2, offset2, 6)
	require.NoError(t, err)
	require.Equal(t, "world!", string(b))
}

func TestReopenStartsFreshActiveSegment(t *testing.T) {
	dir := t.TempDir()

	st := newStorage(t, dir)
	_, _, err := st.Append([]byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st2 := newStorage(t, dir)
	require.Equal(t, uint64(2), st2.ActiveGeneration())
	require.Equal(t, []uint64{1, 2}, st2.Generations())

	b, err := st2.Read(1, 0, int64(len("persisted")))
	require.NoError(t, err)
	require.Equal(t, "persisted", string(b))
}

func TestCreateSegmentSwitchesActive(t *testing.T) {
	st := newStorage(t, t.TempDir())
	require.NoError(t, st.CreateSegment(2))
	require.Equal(t, uint64(2), st.ActiveGeneration())
	require.ElementsMatch(t, []uint64{1, 2}, st.Generations())
}

func TestDropSegmentsBelowRetiresOldGenerations(t *testing.T) {
	st := newStorage(t, t.TempDir())
	require.NoError(t, st.CreateSegment(2))
	require.NoError(t, st.CreateSegment(3))

	require.NoError(t, st.DropSegmentsBelow(3))
	require.Equal(t, []uint64{3}, st.Generations())

	_, err := st.Read(1, 0, 1)
	require.Error(t, err)
}

func TestReaderAtStreamsFromStart(t *testing.T) {
	st := newStorage(t, t.TempDir())
	_, _, err := st.Append([]byte("abc"))
	require.NoError(t, err)
	_, _, err = st.Append([]byte("def"))
	require.NoError(t, err)

	r, err := st.ReaderAt(1)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 6)
	_, err = io.ReadFull(r, buf)
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(buf))
}
