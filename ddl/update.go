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
	"io"

	"github.com/dolthub/csvsql/catalog"
	"github.com/dolthub/csvsql/csvio"
	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/planner"
	"github.com/dolthub/csvsql/sql"
)

// readAllRows reads every row of path (and, along the way, its fully
// grown schema for a headerless file) into memory: the shared first step
// of UPDATE/DELETE/ALTER TABLE's full-file rewrite.
func readAllRows(path string, headerless bool) (sql.Schema, []sql.Row, error) {
	rd, err := csvio.Open(path, headerless)
	if err != nil {
		return nil, nil, err
	}
	defer rd.Close()

	var rows []sql.Row
	for {
		row, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}
	return rd.Schema(), rows, nil
}

// updateSet is one bound SET clause: the target column index and the
// expression to evaluate against the row being updated.
type updateSet struct {
	idx  int
	expr expression.Expression
}

// executeUpdate implements `UPDATE t SET c = expr, ... [WHERE pred]`: the
// whole file is read and rewritten (§4.9's "full-file rewrite via the
// staging file pattern"), rows matching pred get their SET expressions
// applied, every other row passes through unchanged.
func executeUpdate(ctx *sql.Context, cat *catalog.Catalog, stmt ast.UpdateStatement) (Result, error) {
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

	sets := make([]updateSet, len(stmt.Sets))
	for i, s := range stmt.Sets {
		idx := columnIndexByName(schema, s.Column)
		if idx < 0 {
			return Result{}, sql.ErrBinding.New("column not found: " + s.Column)
		}
		expr, err := planner.Bind(schema, s.Value)
		if err != nil {
			return Result{}, err
		}
		sets[i] = updateSet{idx: idx, expr: expr}
	}

	writeTarget, err := cat.ResolveForWrite(stmt.Table)
	if err != nil {
		return Result{}, err
	}
	w, err := csvio.Create(writeTarget.Path, schema.Names(), !cat.HeaderlessMode)
	if err != nil {
		return Result{}, err
	}

	affectedCount := 0
	for _, row := range rows {
		match := true
		if pred != nil {
			v, err := pred.Eval(ctx, row)
			if err != nil {
				w.Abort()
				return Result{}, err
			}
			match = v.IsTrue()
		}

		out := row
		if match {
			out = append(sql.Row{}, row...)
			for _, s := range sets {
				v, err := s.expr.Eval(ctx, row)
				if err != nil {
					w.Abort()
					return Result{}, err
				}
				out[s.idx] = v
			}
			affectedCount++
		}

		if err := w.WriteRow(out); err != nil {
			return Result{}, err
		}
	}

	if err := w.Commit(); err != nil {
		return Result{}, err
	}
	return affected(affectedCount), nil
}
