package csvio_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/csvio"
)

func TestReaderHeaderAndOverflow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pets.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,type\n1,cat,extra\n2,dog\n"), 0o644))

	r, err := csvio.Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"id", "type"}, r.Schema().Names())

	row, err := r.Next()
	require.NoError(t, err)
	require.Len(t, row, 3)
	require.Equal(t, "extra", row[2].CanonicalText())
	require.Equal(t, []string{"id", "type", "C$"}, r.Schema().Names())

	row, err = r.Next()
	require.NoError(t, err)
	require.Len(t, row, 3)
	require.True(t, row[2].IsEmpty(), "short row pads missing trailing cells with Empty")

	_, err = r.Next()
	require.Equal(t, io.EOF, err)
}

func TestReaderDuplicateHeaderNamesAreSuffixed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dup.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,id,name\n1,2,rex\n"), 0o644))

	r, err := csvio.Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"id", "id$1", "name"}, r.Schema().Names())

	row, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "1", row[0].CanonicalText())
	require.Equal(t, "2", row[1].CanonicalText())
}

func TestReaderHeaderless(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2\n3,4\n"), 0o644))

	r, err := csvio.Open(path, true)
	require.NoError(t, err)
	defer r.Close()
	r.SetWidth(2)

	require.Equal(t, []string{"A$", "B$"}, r.Schema().Names())

	row, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "1", row[0].CanonicalText())
}

func TestWriterAtomicRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	w, err := csvio.Create(path, []string{"id"}, true)
	require.NoError(t, err)

	r, err := csvio.Open(path, false)
	require.Error(t, err, "temp file must not be visible at the final path before Commit")
	_ = r

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the temp file should exist pre-commit")

	require.NoError(t, w.Commit())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "id\n", string(got))
}

func TestWriterAbortRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	w, err := csvio.Create(path, []string{"id"}, true)
	require.NoError(t, err)
	require.NoError(t, w.Abort())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
