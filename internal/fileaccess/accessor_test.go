package fileaccess

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordworks/xcodemcp/internal/pathbound"
)

func newTestAccessor(t *testing.T) (*Accessor, string) {
	t.Helper()
	dir := t.TempDir()
	b, err := pathbound.New(dir)
	require.NoError(t, err)
	b.SetProjectsBaseDir(dir)
	return New(b, nil), dir
}

func TestReadFile(t *testing.T) {
	a, dir := newTestAccessor(t)

	path := filepath.Join(dir, "main.swift")
	require.NoError(t, os.WriteFile(path, []byte("print(\"hi\")\n"), 0o644))

	fc, err := a.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "print(\"hi\")\n", fc.Content)
	assert.Equal(t, "text/x-swift", fc.MimeType)
}

func TestReadFileUnknownExtension(t *testing.T) {
	a, dir := newTestAccessor(t)

	path := filepath.Join(dir, "data.weird")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	fc, err := a.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", fc.MimeType)
}

func TestReadFileMissing(t *testing.T) {
	a, dir := newTestAccessor(t)

	_, err := a.ReadFile(filepath.Join(dir, "nope.txt"))
	require.Error(t, err)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "read", opErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadFileOutsideBoundary(t *testing.T) {
	a, _ := newTestAccessor(t)

	_, err := a.ReadFile("/etc/passwd")
	require.ErrorIs(t, err, pathbound.ErrAccessDenied)
}

func TestWriteFileMissingWithoutCreate(t *testing.T) {
	a, dir := newTestAccessor(t)

	err := a.WriteFile(filepath.Join(dir, "new.txt"), "content", false)
	require.Error(t, err)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "write", opErr.Op)
	require.ErrorIs(t, err, ErrMissingFile)
}

func TestWriteFileCreate(t *testing.T) {
	a, dir := newTestAccessor(t)

	path := filepath.Join(dir, "nested", "deep", "new.txt")
	require.NoError(t, a.WriteFile(path, "content", true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestWriteFileOverwrite(t *testing.T) {
	a, dir := newTestAccessor(t)

	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer"), 0o644))

	require.NoError(t, a.WriteFile(path, "new", false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data), "write must fully replace, not append")
}

func TestWriteFileOutsideBoundary(t *testing.T) {
	a, _ := newTestAccessor(t)

	err := a.WriteFile("/tmp/outside-boundary.txt", "x", true)
	require.ErrorIs(t, err, pathbound.ErrAccessDenied)
}

func TestListDirectory(t *testing.T) {
	a, dir := newTestAccessor(t)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "Sources"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644))

	entries, err := a.ListDirectory(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"f " + filepath.Join(dir, "README.md"),
		"d " + filepath.Join(dir, "Sources"),
	}, entries)
}

func TestListDirectoryOnFile(t *testing.T) {
	a, dir := newTestAccessor(t)

	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := a.ListDirectory(path)
	require.ErrorIs(t, err, ErrNotDirectory)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "list", opErr.Op)
}

func TestListDirectoryMissing(t *testing.T) {
	a, dir := newTestAccessor(t)

	_, err := a.ListDirectory(filepath.Join(dir, "absent"))
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "list", opErr.Op)
}
