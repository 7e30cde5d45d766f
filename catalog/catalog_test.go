package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/catalog"
)

func TestResolveFindsPersistentTable(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "tests", "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "tests", "data", "pets.csv"), []byte("id\n1\n"), 0o644))

	cat, err := catalog.New(home, t.TempDir(), false)
	require.NoError(t, err)
	defer cat.Close()

	rt, err := cat.Resolve("tests.data.pets")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "tests", "data", "pets.csv"), rt.Path)
}

func TestResolveMissingTableIsError(t *testing.T) {
	home := t.TempDir()
	cat, err := catalog.New(home, t.TempDir(), false)
	require.NoError(t, err)
	defer cat.Close()

	_, err = cat.Resolve("nope")
	require.Error(t, err)
}

func TestUseNoOpAtHome(t *testing.T) {
	home := t.TempDir()
	cat, err := catalog.New(home, t.TempDir(), false)
	require.NoError(t, err)
	defer cat.Close()

	require.NoError(t, cat.Use("$"))
	require.Equal(t, home, cat.CurrentDir)
}

func TestUseDescendsAndReturns(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "sub"), 0o755))

	cat, err := catalog.New(home, t.TempDir(), false)
	require.NoError(t, err)
	defer cat.Close()

	require.NoError(t, cat.Use("sub"))
	require.Equal(t, filepath.Join(home, "sub"), cat.CurrentDir)

	require.NoError(t, cat.Use("$"))
	require.Equal(t, home, cat.CurrentDir)
}

func TestTempTableLifecycle(t *testing.T) {
	home := t.TempDir()
	cat, err := catalog.New(home, t.TempDir(), false)
	require.NoError(t, err)
	defer cat.Close()

	path, err := cat.CreateTempTable("scratch")
	require.NoError(t, err)
	require.FileExists(t, path)

	_, err = cat.CreateTempTable("scratch")
	require.Error(t, err, "creating an existing temp table name is an error")

	require.NoError(t, cat.DropTempTable("scratch"))
	require.NoFileExists(t, path)
}

func TestTransactionCommitThroughCatalog(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "t.csv"), []byte("id\n1\n"), 0o644))

	cat, err := catalog.New(home, t.TempDir(), true)
	require.NoError(t, err)
	defer cat.Close()

	require.NoError(t, cat.BeginTx())

	rt, err := cat.ResolveForWrite("t")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(rt.Path, []byte("id\n1\n2\n"), 0o644))

	require.NoError(t, cat.Commit())

	got, err := os.ReadFile(filepath.Join(home, "t.csv"))
	require.NoError(t, err)
	require.Equal(t, "id\n1\n2\n", string(got))
}
