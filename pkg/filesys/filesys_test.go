package filesys_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stratadb/strata/pkg/filesys"
	"github.com/stretchr/testify/require"
)

func TestCreateDirCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	require.NoError(t, filesys.CreateDir(dir, 0755, true))

	exists, err := filesys.Exists(dir)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestCreateDirRejectsExistingFileWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "afile")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	err := filesys.CreateDir(path, 0755, false)
	require.Error(t, err)
}

func TestReadDirMatchesGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.log"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.log"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), nil, 0644))

	matches, err := filesys.ReadDir(filepath.Join(dir, "*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
}

func TestDeleteFileRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.log")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	require.NoError(t, filesys.DeleteFile(path))

	exists, err := filesys.Exists(path)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestExistsReportsFalseForMissingPath(t *testing.T) {
	exists, err := filesys.Exists(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.False(t, exists)
}
