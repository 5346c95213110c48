package markdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestCompareDirectories(t *testing.T) {
	generated := t.TempDir()
	existing := t.TempDir()

	writeFile(t, generated, "Space/Space.md", "same")
	writeFile(t, existing, "Space/Space.md", "same")
	writeFile(t, generated, "Space/Room.md", "new")
	writeFile(t, existing, "Space/Room.md", "old")
	writeFile(t, generated, "Asset.md", "asset")
	writeFile(t, existing, "Gone.md", "gone")
	writeFile(t, existing, "notes.txt", "ignored")

	result, err := CompareDirectories(generated, existing)
	require.NoError(t, err)

	assert.False(t, result.UpToDate())
	assert.Equal(t, []string{"Space/Room.md"}, result.Differs)
	assert.Equal(t, []string{"Asset.md"}, result.Missing)
	assert.Equal(t, []string{"Gone.md"}, result.Stale)
}

func TestCompareDirectoriesUpToDate(t *testing.T) {
	generated := t.TempDir()
	existing := t.TempDir()
	writeFile(t, generated, "A.md", "a")
	writeFile(t, existing, "A.md", "a")

	result, err := CompareDirectories(generated, existing)
	require.NoError(t, err)
	assert.True(t, result.UpToDate())
}

func TestCompareDirectoriesMissingExisting(t *testing.T) {
	generated := t.TempDir()
	writeFile(t, generated, "A.md", "a")

	result, err := CompareDirectories(generated, filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A.md"}, result.Missing)
}
