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
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/planner"
	"github.com/dolthub/csvsql/sql"
)

// executeInsert implements both `INSERT ... VALUES` and `INSERT ...
// SELECT`: resolve the target's existing schema, compute which column
// each supplied value lands in, then append the resulting rows directly
// to the target file (or its transaction staging copy).
func executeInsert(ctx *sql.Context, cat *catalog.Catalog, stmt ast.InsertStatement) (Result, error) {
	isTemp := isTempTable(cat, stmt.Table)
	if err := requireWriteMode(cat, isTemp); err != nil {
		return Result{}, err
	}

	resolved, err := cat.Resolve(stmt.Table)
	if err != nil {
		return Result{}, err
	}
	schema, err := readSchema(resolved.Path, cat.HeaderlessMode)
	if err != nil {
		return Result{}, err
	}

	positions, err := insertPositions(schema, stmt.Columns)
	if err != nil {
		return Result{}, err
	}

	var rows []sql.Row
	if stmt.Select != nil {
		rows, err = rowsFromSelect(ctx, cat, *stmt.Select)
	} else {
		rows, err = rowsFromValues(ctx, stmt.Values)
	}
	if err != nil {
		return Result{}, err
	}

	writeTarget, err := cat.ResolveForWrite(stmt.Table)
	if err != nil {
		return Result{}, err
	}
	w, err := csvio.OpenAppend(writeTarget.Path)
	if err != nil {
		return Result{}, err
	}
	for _, row := range rows {
		if len(row) > len(positions) {
			w.Close()
			return Result{}, sql.ErrSemantic.New("INSERT has more values than columns")
		}
		out := make(sql.Row, len(schema))
		for i := range out {
			out[i] = sql.NewEmpty()
		}
		for i, v := range row {
			out[positions[i]] = v
		}
		if err := w.WriteRow(out); err != nil {
			return Result{}, err
		}
	}
	if err := w.Close(); err != nil {
		return Result{}, err
	}
	return affected(len(rows)), nil
}

// readSchema opens path just far enough to learn its column schema: the
// header row for a headered file, or one peeked data row for a headerless
// one (Reader.Next grows the Excel-sequence schema to match the row it
// reads, the same trick plan.NewScan uses).
func readSchema(path string, headerless bool) (sql.Schema, error) {
	rd, err := csvio.Open(path, headerless)
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	if headerless {
		if _, err := rd.Next(); err != nil && err != io.EOF {
			return nil, err
		}
	}
	return rd.Schema(), nil
}

// insertPositions maps each supplied value's ordinal to the destination
// column index it targets: identity when no column list was given
// (positional), or the named column's index otherwise.
func insertPositions(schema sql.Schema, columns []string) ([]int, error) {
	if len(columns) == 0 {
		positions := make([]int, len(schema))
		for i := range schema {
			positions[i] = i
		}
		return positions, nil
	}
	positions := make([]int, len(columns))
	for i, name := range columns {
		idx := columnIndexByName(schema, name)
		if idx < 0 {
			return nil, sql.ErrBinding.New("column not found: " + name)
		}
		positions[i] = idx
	}
	return positions, nil
}

func columnIndexByName(schema sql.Schema, name string) int {
	for i, c := range schema {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// rowsFromValues evaluates each VALUES tuple; every expression is a
// constant (or constant-folding scalar function call) since there is no
// FROM clause to bind a column reference against.
func rowsFromValues(ctx *sql.Context, values [][]ast.Expr) ([]sql.Row, error) {
	rows := make([]sql.Row, len(values))
	for i, tuple := range values {
		row := make(sql.Row, len(tuple))
		for j, e := range tuple {
			expr, err := planner.Bind(sql.Schema{}, e)
			if err != nil {
				return nil, err
			}
			v, err := expr.Eval(ctx, sql.Row{})
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows, nil
}

// rowsFromSelect drains the planned SELECT's row iterator, for `INSERT
// ... SELECT`.
func rowsFromSelect(ctx *sql.Context, cat *catalog.Catalog, sel ast.SelectStatement) ([]sql.Row, error) {
	node, err := planner.Build(ctx, cat, sel)
	if err != nil {
		return nil, err
	}
	iter, err := node.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	defer iter.Close(ctx)

	var rows []sql.Row
	for {
		row, err := iter.Next(ctx)
		if err == sql.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
