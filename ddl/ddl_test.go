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

package ddl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/catalog"
	"github.com/dolthub/csvsql/ddl"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/parse/parser"
	"github.com/dolthub/csvsql/sql"
)

func newCatalog(t *testing.T, dir string, writeMode bool) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(dir, t.TempDir(), writeMode)
	require.NoError(t, err)
	return cat
}

func parseOne(t *testing.T, sqlText string) ast.Statement {
	t.Helper()
	stmts, err := parser.ParseStatements(sqlText)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func run(t *testing.T, cat *catalog.Catalog, sqlText string) (ddl.Result, error) {
	t.Helper()
	stmt := parseOne(t, sqlText)
	ctx := sql.NewContext(context.Background(), sqlText, 1)
	return ddl.Execute(ctx, cat, stmt)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestCreateTableAndInsert(t *testing.T) {
	dir := t.TempDir()
	cat := newCatalog(t, dir, true)

	_, err := run(t, cat, "CREATE TABLE pets(name TEXT, age INT)")
	require.NoError(t, err)

	res, err := run(t, cat, "INSERT INTO pets VALUES ('rex', 3), ('meow', 2)")
	require.NoError(t, err)
	n, _ := res.Rows[0][0].Number()
	require.Equal(t, "2", n.String())

	content := readFile(t, filepath.Join(dir, "pets.csv"))
	require.Equal(t, "name,age\nrex,3\nmeow,2\n", content)
}

func TestCreateTableRequiresWriteMode(t *testing.T) {
	dir := t.TempDir()
	cat := newCatalog(t, dir, false)

	_, err := run(t, cat, "CREATE TABLE pets(name TEXT)")
	require.Error(t, err)
	require.True(t, sql.ErrMode.Is(err))
}

func TestCreateTemporaryTableWithoutWriteMode(t *testing.T) {
	dir := t.TempDir()
	cat := newCatalog(t, dir, false)

	_, err := run(t, cat, "CREATE TEMPORARY TABLE t(a INT)")
	require.NoError(t, err)

	_, err = run(t, cat, "INSERT INTO t VALUES(1),(2)")
	require.NoError(t, err)

	_, err = run(t, cat, "UPDATE t SET a=a*10 WHERE a>1")
	require.NoError(t, err)

	path := cat.TempTables["t"]
	require.Equal(t, "a\n1\n20\n", readFile(t, path))
}

func TestInsertWithColumnListFillsEmpty(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name,type,age\n"), 0o644)
	cat := newCatalog(t, dir, true)

	_, err := run(t, cat, "INSERT INTO pets (name) VALUES ('rex')")
	require.NoError(t, err)

	content := readFile(t, filepath.Join(dir, "pets.csv"))
	require.Equal(t, "name,type,age\nrex,,\n", content)
}

func TestInsertSelect(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "src.csv"), []byte("a,b\n1,2\n3,4\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "dst.csv"), []byte("a,b\n"), 0o644)
	cat := newCatalog(t, dir, true)

	res, err := run(t, cat, "INSERT INTO dst SELECT a, b FROM src WHERE a > 1")
	require.NoError(t, err)
	n, _ := res.Rows[0][0].Number()
	require.Equal(t, "1", n.String())

	require.Equal(t, "a,b\n3,4\n", readFile(t, filepath.Join(dir, "dst.csv")))
}

func TestUpdateRewritesMatchingRows(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name,age\nrex,3\nmeow,2\n"), 0o644)
	cat := newCatalog(t, dir, true)

	res, err := run(t, cat, "UPDATE pets SET age = age + 1 WHERE name = 'rex'")
	require.NoError(t, err)
	n, _ := res.Rows[0][0].Number()
	require.Equal(t, "1", n.String())

	require.Equal(t, "name,age\nrex,4\nmeow,2\n", readFile(t, filepath.Join(dir, "pets.csv")))
}

func TestDeleteKeepsNonMatchingRows(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name,age\nrex,3\nmeow,2\ntom,1\n"), 0o644)
	cat := newCatalog(t, dir, true)

	res, err := run(t, cat, "DELETE FROM pets WHERE age < 2")
	require.NoError(t, err)
	n, _ := res.Rows[0][0].Number()
	require.Equal(t, "1", n.String())

	require.Equal(t, "name,age\nrex,3\nmeow,2\n", readFile(t, filepath.Join(dir, "pets.csv")))
}

func TestAlterTableAddDropRenameColumn(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name,age\nrex,3\n"), 0o644)
	cat := newCatalog(t, dir, true)

	_, err := run(t, cat, "ALTER TABLE pets ADD COLUMN kind TEXT, DROP COLUMN age, RENAME COLUMN name TO pet_name")
	require.NoError(t, err)

	require.Equal(t, "pet_name,kind\nrex,\n", readFile(t, filepath.Join(dir, "pets.csv")))
}

func TestDropTableIfExists(t *testing.T) {
	dir := t.TempDir()
	cat := newCatalog(t, dir, true)

	_, err := run(t, cat, "DROP TABLE IF EXISTS ghost")
	require.NoError(t, err)

	os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644)
	_, err = run(t, cat, "DROP TABLE pets")
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(dir, "pets.csv"))
}

func TestCreateTableCloneCopiesData(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name,age\nrex,3\n"), 0o644)
	cat := newCatalog(t, dir, true)

	_, err := run(t, cat, "CREATE TABLE pets2 CLONE pets")
	require.NoError(t, err)
	require.Equal(t, "name,age\nrex,3\n", readFile(t, filepath.Join(dir, "pets2.csv")))
}

func TestCreateTableLikeCopiesSchemaOnly(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name,age\nrex,3\n"), 0o644)
	cat := newCatalog(t, dir, true)

	_, err := run(t, cat, "CREATE TABLE pets3 LIKE pets")
	require.NoError(t, err)
	require.Equal(t, "name,age\n", readFile(t, filepath.Join(dir, "pets3.csv")))
}
