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

package planner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/catalog"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/parse/parser"
	"github.com/dolthub/csvsql/planner"
	"github.com/dolthub/csvsql/sql"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestCatalog(t *testing.T, dir string) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(dir, t.TempDir(), false)
	require.NoError(t, err)
	return cat
}

func parseSelect(t *testing.T, sqlText string) ast.SelectStatement {
	t.Helper()
	stmts, err := parser.ParseStatements(sqlText)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	sel, ok := stmts[0].(ast.SelectStatement)
	require.True(t, ok)
	return sel
}

func build(t *testing.T, cat *catalog.Catalog, sqlText string) sql.Node {
	t.Helper()
	sel := parseSelect(t, sqlText)
	ctx := sql.NewContext(context.Background(), sqlText, 1)
	node, err := planner.Build(ctx, cat, sel)
	require.NoError(t, err)
	return node
}

func collectRows(t *testing.T, n sql.Node) []sql.Row {
	t.Helper()
	ctx := sql.NewContext(context.Background(), "", 1)
	iter, err := n.RowIter(ctx)
	require.NoError(t, err)
	defer iter.Close(ctx)
	var rows []sql.Row
	for {
		row, err := iter.Next(ctx)
		if err == sql.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func TestBuildSimpleFilterAndProject(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "pets.csv", "name,type,age\nrex,dog,3\nmeow,cat,2\nfido,dog,5\n")
	cat := newTestCatalog(t, dir)

	node := build(t, cat, "SELECT name FROM pets WHERE type = 'dog' ORDER BY age")
	rows := collectRows(t, node)
	require.Len(t, rows, 2)
	name0, _ := rows[0][0].Text()
	name1, _ := rows[1][0].Text()
	require.Equal(t, "rex", name0)
	require.Equal(t, "fido", name1)
}

func TestBuildGroupByHavingOrderBy(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "pets.csv", "name,type,age\nrex,dog,3\nmeow,cat,2\nfido,dog,5\ntom,cat,1\n")
	cat := newTestCatalog(t, dir)

	node := build(t, cat, "SELECT type, COUNT(*) FROM pets GROUP BY type HAVING COUNT(*) > 1 ORDER BY type")
	rows := collectRows(t, node)
	require.Len(t, rows, 2)
	typ0, _ := rows[0][0].Text()
	require.Equal(t, "cat", typ0)
	cnt0, _ := rows[0][1].Number()
	require.True(t, cnt0.Equal(decimal.NewFromInt(2)))
}

func TestBuildDistinct(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "pets.csv", "name,type,age\nrex,dog,3\nmeow,cat,2\nfido,dog,5\n")
	cat := newTestCatalog(t, dir)

	node := build(t, cat, "SELECT DISTINCT type FROM pets")
	rows := collectRows(t, node)
	require.Len(t, rows, 2)
}

func TestBuildHashJoinOnSingleEquality(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "owners.csv", "id,name\n1,ann\n2,bo\n")
	writeCSV(t, dir, "pets.csv", "owner_id,name\n1,rex\n2,meow\n3,ghost\n")
	cat := newTestCatalog(t, dir)

	node := build(t, cat, "SELECT owners.name, pets.name FROM owners JOIN pets ON owners.id = pets.owner_id")
	rows := collectRows(t, node)
	require.Len(t, rows, 2)
}

func TestBuildLeftJoinPadsUnmatched(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "owners.csv", "id,name\n1,ann\n2,bo\n")
	writeCSV(t, dir, "pets.csv", "owner_id,name\n1,rex\n")
	cat := newTestCatalog(t, dir)

	node := build(t, cat, "SELECT owners.name, pets.name FROM owners LEFT JOIN pets ON owners.id = pets.owner_id")
	rows := collectRows(t, node)
	require.Len(t, rows, 2)
}

func TestBuildLimitOffset(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "pets.csv", "name\na\nb\nc\nd\n")
	cat := newTestCatalog(t, dir)

	node := build(t, cat, "SELECT name FROM pets ORDER BY name LIMIT 2 OFFSET 1")
	rows := collectRows(t, node)
	require.Len(t, rows, 2)
	v0, _ := rows[0][0].Text()
	require.Equal(t, "b", v0)
}

func TestBuildUsingJoinProjectsSharedColumnOnce(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "id,x\n1,x1\n2,y1\n")
	writeCSV(t, dir, "b.csv", "id,p\n2,p1\n3,q1\n")
	cat := newTestCatalog(t, dir)

	node := build(t, cat, "SELECT * FROM a JOIN b USING(id)")
	require.Equal(t, []string{"id", "x", "p"}, node.Schema().Names())

	rows := collectRows(t, node)
	require.Len(t, rows, 1)
	id, _ := rows[0][0].Text()
	x, _ := rows[0][1].Text()
	p, _ := rows[0][2].Text()
	require.Equal(t, "2", id)
	require.Equal(t, "y1", x)
	require.Equal(t, "p1", p)
}

func TestBuildUsingJoinBareColumnIsUnambiguous(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "id,x\n1,x1\n2,y1\n")
	writeCSV(t, dir, "b.csv", "id,p\n2,p1\n3,q1\n")
	cat := newTestCatalog(t, dir)

	node := build(t, cat, "SELECT id FROM a JOIN b USING(id) WHERE id > 1")
	rows := collectRows(t, node)
	require.Len(t, rows, 1)
	id, _ := rows[0][0].Text()
	require.Equal(t, "2", id)
}

func TestBuildRejectsUngroupedColumn(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "pets.csv", "name,type\nrex,dog\n")
	cat := newTestCatalog(t, dir)

	sel := parseSelect(t, "SELECT name, COUNT(*) FROM pets GROUP BY type")
	ctx := sql.NewContext(context.Background(), "", 1)
	_, err := planner.Build(ctx, cat, sel)
	require.Error(t, err)
}
