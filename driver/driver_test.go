// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package driver_test

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/dolthub/csvsql/driver"
)

func openDB(t *testing.T, dir string, write bool) *sql.DB {
	t.Helper()
	dsn := dir
	if write {
		dsn = fmt.Sprintf("%s?write=1", dir)
	}
	db, err := sql.Open("csvsql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestQuerySelectsRows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name,age\nrex,3\nmeow,2\n"), 0o644))

	db := openDB(t, dir, false)

	rows, err := db.Query("SELECT name FROM pets WHERE age > 2")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{"rex"}, names)
}

func TestExecReturnsRowsAffected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	db := openDB(t, dir, true)

	res, err := db.Exec("INSERT INTO pets VALUES ('meow')")
	require.NoError(t, err)

	n, err := res.RowsAffected()
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = res.LastInsertId()
	require.Error(t, err)
}

func TestExecRejectsWriteModeOff(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	db := openDB(t, dir, false)

	_, err := db.Exec("INSERT INTO pets VALUES ('meow')")
	require.Error(t, err)
}

func TestTransactionCommit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	db := openDB(t, dir, true)

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = tx.Exec("INSERT INTO pets VALUES ('meow')")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "pets.csv"))
	require.NoError(t, err)
	require.Equal(t, "name\nrex\n", string(content), "write must stay staged before commit")

	require.NoError(t, tx.Commit())

	content, err = os.ReadFile(filepath.Join(dir, "pets.csv"))
	require.NoError(t, err)
	require.Equal(t, "name\nrex\nmeow\n", string(content))
}

func TestTransactionRollback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	db := openDB(t, dir, true)

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = tx.Exec("INSERT INTO pets VALUES ('meow')")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	content, err := os.ReadFile(filepath.Join(dir, "pets.csv"))
	require.NoError(t, err)
	require.Equal(t, "name\nrex\n", string(content))
}

func TestQueryRejectsBindArguments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	db := openDB(t, dir, false)

	_, err := db.Query("SELECT name FROM pets WHERE name = ?", "rex")
	require.Error(t, err)
}

func TestPrepareReusesParsedStatement(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\nmeow\n"), 0o644))

	db := openDB(t, dir, false)

	stmt, err := db.Prepare("SELECT name FROM pets")
	require.NoError(t, err)
	defer stmt.Close()

	for i := 0; i < 2; i++ {
		rows, err := stmt.Query()
		require.NoError(t, err)
		var count int
		for rows.Next() {
			count++
		}
		require.NoError(t, rows.Err())
		rows.Close()
		require.Equal(t, 2, count)
	}
}
