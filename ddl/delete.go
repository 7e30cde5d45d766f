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
	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/planner"
	"github.com/dolthub/csvsql/sql"
)

// executeDelete implements `DELETE FROM t [WHERE pred]`: the file is
// rewritten keeping only rows where pred is not Bool-true (§4.9); with no
// WHERE, every row is deleted.
func executeDelete(ctx *sql.Context, cat *catalog.Catalog, stmt ast.DeleteStatement) (Result, error) {
	isTemp := isTempTable(cat, stmt.Table)
	if err := requireWriteMode(cat, isTemp); err != nil {
		return Result{}, err
	}

	resolved, err := cat.Resolve(stmt.Table)
	if err != nil {
		return Result{}, err
	}
	schema, rows, err := readAllRows(resolved.Path, cat.HeaderlessMode)
	if err != nil {
		return Result{}, err
	}

	var pred expression.Expression
	if stmt.Where != nil {
		pred, err = planner.Bind(schema, stmt.Where)
		if err != nil {
			return Result{}, err
		}
	}

	writeTarget, err := cat.ResolveForWrite(stmt.Table)
	if err != nil {
		return Result{}, err
	}
	w, err := csvio.Create(writeTarget.Path, schema.Names(), !cat.HeaderlessMode)
	if err != nil {
		return Result{}, err
	}

	deletedCount := 0
	for _, row := range rows {
		matched := true
		if pred != nil {
			v, err := pred.Eval(ctx, row)
			if err != nil {
				w.Abort()
				return Result{}, err
			}
			matched = v.IsTrue()
		}
		if matched {
			deletedCount++
			continue
		}
		if err := w.WriteRow(row); err != nil {
			return Result{}, err
		}
	}

	if err := w.Commit(); err != nil {
		return Result{}, err
	}
	return affected(deletedCount), nil
}
