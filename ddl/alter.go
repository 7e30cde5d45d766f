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

package ddl

import (
	"github.com/dolthub/csvsql/catalog"
	"github.com/dolthub/csvsql/csvio"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/sql"
)

// executeAlterTable implements ALTER TABLE's ADD COLUMN/DROP COLUMN/
// RENAME COLUMN clauses, applied left-to-right against an in-memory copy
// of the schema and rows, then written out as one full-file rewrite.
func executeAlterTable(ctx *sql.Context, cat *catalog.Catalog, stmt ast.AlterTableStatement) (Result, error) {
	isTemp := isTempTable(cat, stmt.Table)
	if err := requireWriteMode(cat, isTemp); err != nil {
		return Result{}, err
	}

	resolved, err := cat.Resolve(stmt.Table)
	if err != nil {
		if stmt.IfExists && sql.ErrTableNotFound.Is(err) {
			return Result{}, nil
		}
		return Result{}, err
	}

	schema, rows, err := readAllRows(resolved.Path, cat.HeaderlessMode)
	if err != nil {
		return Result{}, err
	}
	names := schema.Names()

	for _, clause := range stmt.Clauses {
		switch clause.Kind {
		case ast.AlterAddColumn:
			names = append(names, clause.Column.Name)
			for i, row := range rows {
				rows[i] = append(row, sql.NewEmpty())
			}

		case ast.AlterDropColumn:
			idx := indexOfName(names, clause.ColumnName)
			if idx < 0 {
				return Result{}, sql.ErrBinding.New("column not found: " + clause.ColumnName)
			}
			names = dropAt(names, idx)
			for i, row := range rows {
				rows[i] = dropRowAt(row, idx)
			}

		case ast.AlterRenameColumn:
			idx := indexOfName(names, clause.ColumnName)
			if idx < 0 {
				return Result{}, sql.ErrBinding.New("column not found: " + clause.ColumnName)
			}
			names[idx] = clause.NewName
		}
	}

	writeTarget, err := cat.ResolveForWrite(stmt.Table)
	if err != nil {
		return Result{}, err
	}
	w, err := csvio.Create(writeTarget.Path, names, !cat.HeaderlessMode)
	if err != nil {
		return Result{}, err
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			return Result{}, err
		}
	}
	if err := w.Commit(); err != nil {
		return Result{}, err
	}
	return Result{}, nil
}

func indexOfName(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func dropAt(names []string, idx int) []string {
	out := make([]string, 0, len(names)-1)
	out = append(out, names[:idx]...)
	return append(out, names[idx+1:]...)
}

func dropRowAt(row sql.Row, idx int) sql.Row {
	out := make(sql.Row, 0, len(row)-1)
	out = append(out, row[:idx]...)
	return append(out, row[idx+1:]...)
}
