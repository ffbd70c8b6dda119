package posio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stratadb/strata/internal/posio"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "0.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriterTracksOffsetAcrossWrites(t *testing.T) {
	f := openTemp(t)
	w, err := posio.NewWriter(f)
	require.NoError(t, err)

	require.Equal(t, int64(0), w.Offset())

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, int64(5), w.Offset())

	n, err = w.Write([]byte("world!"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, int64(11), w.Offset())

	require.NoError(t, w.Flush())
}

func TestWriterResumesAtExistingSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte("0123456789"))
	require.NoError(t, err)
	f.Close()

	f2, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0644)
	require.NoError(t, err)
	t.Cleanup(func() { f2.Close() })

	w, err := posio.NewWriter(f2)
	require.NoError(t, err)
	require.Equal(t, int64(10), w.Offset())
}

func TestReaderSeekAndTake(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.log")
	require.NoError(t, os.WriteFile(path, []byte("abcdefghij"), 0644))

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	r, err := posio.NewReader(f)
	require.NoError(t, err)

	require.NoError(t, r.Seek(3))
	b, err := r.Take(4)
	require.NoError(t, err)
	require.Equal(t, "defg", string(b))
	require.Equal(t, int64(7), r.Offset())

	require.NoError(t, r.Seek(0))
	b, err = r.Take(2)
	require.NoError(t, err)
	require.Equal(t, "ab", string(b))
}

func TestReaderSequentialRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.log")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	r, err := posio.NewReader(f)
	require.NoError(t, err)

	buf := make([]byte, 5)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "01234", string(buf))
	require.Equal(t, int64(5), r.Offset())
}
