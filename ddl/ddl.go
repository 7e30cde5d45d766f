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

// Package ddl executes the write-path statements of C9: CREATE/INSERT/
// UPDATE/DELETE/ALTER/DROP TABLE. Every mutating statement goes through
// the catalog's Resolve/ResolveForWrite so it is automatically subject to
// whatever transaction overlay (txn.Transaction) the session has open,
// without knowing that overlay exists.
package ddl

import (
	"github.com/shopspring/decimal"

	"github.com/dolthub/csvsql/catalog"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/sql"
)

// Result is what executing a DDL/DML statement produces for the
// dispatcher to render. Schema is nil for statements that report no rows
// (CREATE/DROP/ALTER TABLE); mutating statements report a single
// "rows_affected" row, in keeping with the engine's uniform (schema,
// rows) result shape described in §4.11.
type Result struct {
	Schema sql.Schema
	Rows   []sql.Row
}

func affected(n int) Result {
	return Result{
		Schema: sql.Schema{{Name: "rows_affected", Ordinal: 0}},
		Rows:   []sql.Row{{sql.NewNumber(decimal.NewFromInt(int64(n)))}},
	}
}

// Execute runs stmt, a DDL or DML statement, against cat.
func Execute(ctx *sql.Context, cat *catalog.Catalog, stmt ast.Statement) (Result, error) {
	switch s := stmt.(type) {
	case ast.InsertStatement:
		return executeInsert(ctx, cat, s)
	case ast.UpdateStatement:
		return executeUpdate(ctx, cat, s)
	case ast.DeleteStatement:
		return executeDelete(ctx, cat, s)
	case ast.CreateTableStatement:
		return executeCreateTable(ctx, cat, s)
	case ast.DropTableStatement:
		return executeDropTable(ctx, cat, s)
	case ast.AlterTableStatement:
		return executeAlterTable(ctx, cat, s)
	default:
		return Result{}, sql.ErrUnsupportedFeature.New("statement is not a DDL/DML statement")
	}
}

// requireWriteMode enforces §4.9's "persistent DDL requires write mode";
// temp tables are session-local scratch and exempt from the restriction.
func requireWriteMode(cat *catalog.Catalog, isTemp bool) error {
	if isTemp || cat.WriteMode {
		return nil
	}
	return sql.ErrMode.New("read-only: write mode is not enabled")
}

func isTempTable(cat *catalog.Catalog, name string) bool {
	_, ok := cat.TempTables[name]
	return ok
}
