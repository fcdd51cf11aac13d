package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_AbsentKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	values, ok, err := store.GetList("tasks")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, values)
}

func TestFileStore_SetThenGet(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	want := []string{"one", "two", "three"}
	require.NoError(t, store.SetList("tasks", want))

	got, ok, err := store.GetList("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SetList("tasks", []string{"persisted"}))
	require.NoError(t, store.SetList("other", []string{"x", "y"}))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	got, ok, err := reopened.GetList("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"persisted"}, got)

	got, ok, err = reopened.GetList("other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, got)
}

func TestFileStore_EmptyListIsPresent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.SetList("tasks", nil))

	got, ok, err := store.GetList("tasks")
	require.NoError(t, err)
	assert.True(t, ok, "a written empty list is present, not absent")
	assert.Empty(t, got)
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	input := []string{"a"}
	require.NoError(t, store.SetList("tasks", input))
	input[0] = "mutated after set"

	got, _, err := store.GetList("tasks")
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, got)

	got[0] = "mutated after get"
	again, _, err := store.GetList("tasks")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again)
}

func TestFileStore_CorruptDocumentFailsOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "storage.json"), []byte("{nope"), 0o644))

	_, err := NewFileStore(dir)
	assert.Error(t, err)
}

func TestMemoryStore_Basics(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.GetList("tasks")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetList("tasks", []string{"a", "b"}))
	got, ok, err := store.GetList("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}
