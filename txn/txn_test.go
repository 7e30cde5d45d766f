package txn_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/txn"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestWritePathSeedsStagingCopy(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "t.csv"), "id\n1\n")

	tx, err := txn.Begin(home, t.TempDir())
	require.NoError(t, err)

	staged, err := tx.WritePath("t.csv")
	require.NoError(t, err)

	got, err := os.ReadFile(staged)
	require.NoError(t, err)
	require.Equal(t, "id\n1\n", string(got))
}

func TestCommitPromotesStagedFiles(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "t.csv"), "id\n1\n")

	tx, err := txn.Begin(home, t.TempDir())
	require.NoError(t, err)

	staged, err := tx.WritePath("t.csv")
	require.NoError(t, err)
	writeFile(t, staged, "id\n1\n2\n")

	require.NoError(t, tx.Commit())

	got, err := os.ReadFile(filepath.Join(home, "t.csv"))
	require.NoError(t, err)
	require.Equal(t, "id\n1\n2\n", string(got))
}

func TestCommitDetectsConflict(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "t.csv"), "id\n1\n")

	tx, err := txn.Begin(home, t.TempDir())
	require.NoError(t, err)

	_, err = tx.ReadPath("t.csv") // records the baseline hash
	require.NoError(t, err)

	writeFile(t, filepath.Join(home, "t.csv"), "id\n1\n2\n") // another process mutates it

	err = tx.Commit()
	require.Error(t, err)
	require.Contains(t, err.Error(), "conflict")
}

func TestDeletePathRemovesOnCommit(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "t.csv")
	writeFile(t, path, "id\n1\n")

	tx, err := txn.Begin(home, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, tx.DeletePath("t.csv"))
	require.True(t, tx.IsDeleted("t.csv"))
	require.NoError(t, tx.Commit())

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestRollbackLeavesRealFileUntouched(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "t.csv")
	writeFile(t, path, "id\n1\n")

	tx, err := txn.Begin(home, t.TempDir())
	require.NoError(t, err)

	staged, err := tx.WritePath("t.csv")
	require.NoError(t, err)
	writeFile(t, staged, "id\n1\n2\n")

	require.NoError(t, tx.Rollback())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "id\n1\n", string(got))
}
