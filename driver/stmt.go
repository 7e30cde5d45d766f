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

package driver

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/dolthub/csvsql"
	"github.com/dolthub/csvsql/parse/ast"
	enginesql "github.com/dolthub/csvsql/sql"
)

// errNoParams is returned for any bind argument: the parser has no `?`/`:name`
// placeholder syntax (§4.2 names no such production), so a Stmt can only
// run the literal text it was prepared with.
var errNoParams = errors.New("csvsql: bind parameters are not supported")

func parseOne(query string) (ast.Statement, error) {
	stmts, err := csvsql.Parse(query)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, enginesql.ErrParse.New("database/sql statements must contain exactly one SQL statement")
	}
	return stmts[0], nil
}

// Stmt is query, already parsed once by Conn.Prepare/PrepareContext.
type Stmt struct {
	conn  *Conn
	query string
	stmt  ast.Statement
}

// Close is a no-op: the parsed ast.Statement holds no resources.
func (s *Stmt) Close() error { return nil }

// NumInput reports that no bind placeholders are supported.
func (s *Stmt) NumInput() int { return 0 }

// Exec runs a statement that does not stream rows back (INSERT/UPDATE/
// DELETE/DDL), returning its affected row count.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	if len(args) != 0 {
		return nil, errNoParams
	}
	return s.exec(context.Background())
}

// ExecContext is Exec with an explicit context.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	if len(args) != 0 {
		return nil, errNoParams
	}
	return s.exec(ctx)
}

// Query runs a statement that streams rows back (SELECT).
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	if len(args) != 0 {
		return nil, errNoParams
	}
	return s.query(context.Background())
}

// QueryContext is Query with an explicit context.
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if len(args) != 0 {
		return nil, errNoParams
	}
	return s.query(ctx)
}

func (s *Stmt) exec(ctx context.Context) (driver.Result, error) {
	res, err := s.conn.sess.Execute(ctx, s.stmt, s.query)
	if err != nil {
		return nil, err
	}
	n, err := drainRowsAffected(res)
	if err != nil {
		return nil, err
	}
	return &Result{rowsAffected: n}, nil
}

func (s *Stmt) query(ctx context.Context) (driver.Rows, error) {
	res, err := s.conn.sess.Execute(ctx, s.stmt, s.query)
	if err != nil {
		return nil, err
	}
	return &Rows{schema: res.Schema, iter: res.Iter}, nil
}
