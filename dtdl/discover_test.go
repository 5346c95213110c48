package dtdl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.json"))
	touch(t, filepath.Join(dir, "nested", "a.JSON"))
	touch(t, filepath.Join(dir, "nested", "notes.txt"))
	touch(t, filepath.Join(dir, ".git", "config.json"))
	touch(t, filepath.Join(dir, "extra.jsonld"))

	files, err := Discover([]string{dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "nested", "a.JSON"),
	}, files)

	files, err = Discover([]string{dir}, []string{".json", ".jsonld"})
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestDiscoverExplicitFileAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.txt")
	touch(t, file)
	touch(t, filepath.Join(dir, "x.json"))

	files, err := Discover([]string{file, dir, dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{file, filepath.Join(dir, "x.json")}, files)
}

func TestDiscoverMissingPath(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "absent")}, nil)
	assert.Error(t, err)
}
