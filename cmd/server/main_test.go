package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leca/dt-restcountries/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedPath(t *testing.T) {
	store := storage.NewFileSystem(t.TempDir())
	_, err := store.Store("run-a", strings.NewReader(`[]`))
	require.NoError(t, err)

	got, err := seedPath(store, "latest")
	require.NoError(t, err)
	assert.Equal(t, store.Path("run-a"), got)

	got, err = seedPath(store, "run-a")
	require.NoError(t, err)
	assert.Equal(t, store.Path("run-a"), got)

	file := filepath.Join(t.TempDir(), "countries.json")
	require.NoError(t, os.WriteFile(file, []byte(`[]`), 0o644))
	got, err = seedPath(store, file)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	_, err = seedPath(store, "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}
