package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	data := []byte(`[{"cca2":"ZA"}]`)

	n, err := fs.Store("run-1", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	path := filepath.Join(fs.basePath, "run-1", "payload.json")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, content)
	assert.Equal(t, path, fs.Path("run-1"))
}

func TestStoreLeavesNoTempFiles(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	_, err := fs.Store("run-1", bytes.NewReader([]byte(`[]`)))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(fs.basePath, "run-1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "payload.json", entries[0].Name())
}

func TestRetrieve(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	data := []byte(`[{"cca2":"FR"}]`)

	_, err := fs.Store("run-2", bytes.NewReader(data))
	require.NoError(t, err)

	rc, err := fs.Retrieve("run-2")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestRetrieveNotFound(t *testing.T) {
	fs := NewFileSystem(t.TempDir())

	rc, err := fs.Retrieve("no-run")
	assert.Nil(t, rc)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDelete(t *testing.T) {
	fs := NewFileSystem(t.TempDir())

	_, err := fs.Store("run-3", bytes.NewReader([]byte(`[]`)))
	require.NoError(t, err)

	require.NoError(t, fs.Delete("run-3"))

	_, err = os.Stat(filepath.Join(fs.basePath, "run-3"))
	assert.True(t, os.IsNotExist(err), "expected directory to be removed")

	// Deleting again is a no-op.
	assert.NoError(t, fs.Delete("run-3"))
}

func TestExists(t *testing.T) {
	fs := NewFileSystem(t.TempDir())

	exists, err := fs.Exists("run-4")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = fs.Store("run-4", bytes.NewReader([]byte(`[]`)))
	require.NoError(t, err)

	exists, err = fs.Exists("run-4")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInvalidRunIDs(t *testing.T) {
	fs := NewFileSystem(t.TempDir())

	for _, id := range []string{"", ".", "..", "../escape", `a\b`} {
		_, err := fs.Store(id, bytes.NewReader(nil))
		assert.Error(t, err, "store %q", id)
		_, err = fs.Retrieve(id)
		assert.Error(t, err, "retrieve %q", id)
		assert.Error(t, fs.Delete(id), "delete %q", id)
	}
}

func TestLatest(t *testing.T) {
	fs := NewFileSystem(t.TempDir())

	_, err := fs.Latest()
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = fs.Store("older", bytes.NewReader([]byte(`[]`)))
	require.NoError(t, err)
	_, err = fs.Store("newer", bytes.NewReader([]byte(`[]`)))
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(fs.Path("older"), past, past))

	latest, err := fs.Latest()
	require.NoError(t, err)
	assert.Equal(t, "newer", latest)
}

func TestLatestMissingBase(t *testing.T) {
	fs := NewFileSystem(filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := fs.Latest()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}
