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

package csvsql_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	csvsql "github.com/dolthub/csvsql"
	"github.com/dolthub/csvsql/sql"
)

func newSession(t *testing.T, writeMode bool) (*csvsql.Session, string) {
	t.Helper()
	dir := t.TempDir()
	e := csvsql.New(nil)
	sess, err := e.NewSession(dir, t.TempDir(), writeMode, false)
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess, dir
}

func execOne(t *testing.T, sess *csvsql.Session, sqlText string) (csvsql.Result, error) {
	t.Helper()
	stmts, err := csvsql.Parse(sqlText)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return sess.Execute(context.Background(), stmts[0], sqlText)
}

func drain(t *testing.T, res csvsql.Result) []sql.Row {
	t.Helper()
	var rows []sql.Row
	for {
		row, err := res.Iter.Next(sql.NewContext(context.Background(), "", 0))
		if err == sql.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.NoError(t, res.Iter.Close(sql.NewContext(context.Background(), "", 0)))
	return rows
}

func TestSelectStreamsRows(t *testing.T) {
	sess, dir := newSession(t, false)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name,age\nrex,3\nmeow,2\n"), 0o644))

	res, err := execOne(t, sess, "SELECT name FROM pets WHERE age > 2")
	require.NoError(t, err)
	require.Equal(t, []string{"name"}, res.Schema.Names())

	rows := drain(t, res)
	require.Len(t, rows, 1)
	text, _ := rows[0][0].Text()
	require.Equal(t, "rex", text)
}

func TestUseNavigatesCurrentDir(t *testing.T) {
	sess, dir := newSession(t, false)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "t.csv"), []byte("a\n1\n"), 0o644))

	_, err := execOne(t, sess, "USE sub")
	require.NoError(t, err)

	res, err := execOne(t, sess, "SELECT a FROM t")
	require.NoError(t, err)
	rows := drain(t, res)
	require.Len(t, rows, 1)
}

func TestTransactionCommitRequiresWriteMode(t *testing.T) {
	sess, _ := newSession(t, false)

	_, err := execOne(t, sess, "START TRANSACTION")
	require.NoError(t, err)

	_, err = execOne(t, sess, "COMMIT")
	require.Error(t, err)
	require.True(t, sql.ErrMode.Is(err))
}

func TestTransactionCommitAppliesStagedInsert(t *testing.T) {
	sess, dir := newSession(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	_, err := execOne(t, sess, "START TRANSACTION")
	require.NoError(t, err)

	_, err = execOne(t, sess, "INSERT INTO pets VALUES ('meow')")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "pets.csv"))
	require.NoError(t, err)
	require.Equal(t, "name\nrex\n", string(content), "write must stay staged before commit")

	_, err = execOne(t, sess, "COMMIT")
	require.NoError(t, err)

	content, err = os.ReadFile(filepath.Join(dir, "pets.csv"))
	require.NoError(t, err)
	require.Equal(t, "name\nrex\nmeow\n", string(content))
}

func TestTransactionRollbackDiscardsStagedWrite(t *testing.T) {
	sess, dir := newSession(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	_, err := execOne(t, sess, "START TRANSACTION")
	require.NoError(t, err)
	_, err = execOne(t, sess, "INSERT INTO pets VALUES ('meow')")
	require.NoError(t, err)
	_, err = execOne(t, sess, "ROLLBACK")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "pets.csv"))
	require.NoError(t, err)
	require.Equal(t, "name\nrex\n", string(content))
}

func TestCreateTableRequiresWriteMode(t *testing.T) {
	sess, _ := newSession(t, false)

	_, err := execOne(t, sess, "CREATE TABLE t(a INT)")
	require.Error(t, err)
	require.True(t, sql.ErrMode.Is(err))
}

func TestSessionCancelWithoutRunningQueryIsNoOp(t *testing.T) {
	sess, _ := newSession(t, false)
	sess.Cancel() // no statement running: must be a harmless no-op
}
