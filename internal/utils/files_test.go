package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.json")
	require.NoError(t, SafeWriteFile(p, []byte("one")))
	require.NoError(t, SafeWriteFile(p, []byte("two")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
	assert.NoFileExists(t, p+".tmp")

	err = SafeWriteFile(filepath.Join(dir, "missing", "x"), []byte("x"))
	assert.ErrorContains(t, err, "write temp file")
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(b))

	_, err = PrettyJSON(func() {})
	assert.Error(t, err)
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, EnsureDir(nested))
	require.NoError(t, os.WriteFile(filepath.Join(root, "workspace.json"), []byte("{}"), 0o644))
	file := filepath.Join(nested, "data.csv")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	got, err := FindRoot(nested, "workspace.json")
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = FindRoot(file, "workspace.json")
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = FindRoot(nested, "nothing-here.json")
	assert.ErrorIs(t, err, ErrRootNotFound)
}
