package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Email string `json:"email"`
	N     int    `json:"n"`
}

func TestLoad_MissingFile(t *testing.T) {
	var d doc
	found, err := Load(filepath.Join(t.TempDir(), "nope.json"), &d)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "state.json")
	require.NoError(t, Save(path, doc{Email: "a@b.c", N: 3}))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	var d doc
	found, err := Load(path, &d)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, doc{Email: "a@b.c", N: 3}, d)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	var d doc
	_, err := Load(path, &d)
	require.Error(t, err)
}

func TestRemove_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	require.NoError(t, Save(path, doc{}))
	require.NoError(t, Remove(path))
	require.NoError(t, Remove(path))
}
