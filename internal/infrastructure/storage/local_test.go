package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("receipts/2026/r-001.pdf", strings.NewReader("receipt body")))

	exists, err := store.Exists("receipts/2026/r-001.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := store.Open("receipts/2026/r-001.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "receipt body", string(data))

	require.NoError(t, store.Delete("receipts/2026/r-001.pdf"))

	exists, err = store.Exists("receipts/2026/r-001.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageDeleteMissingKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete("never/stored.txt"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Save("../outside.txt", strings.NewReader("x"))
	// Cleaning the key keeps it inside the base directory
	require.NoError(t, err)

	exists, err := store.Exists("outside.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorageEmptyKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Save("", strings.NewReader("x")))
	_, err = store.Open("")
	assert.Error(t, err)
}
