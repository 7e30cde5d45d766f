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
	"github.com/dolthub/csvsql/sql"
)

// executeCreateTable implements CREATE [TEMPORARY] TABLE, including the
// CLONE (schema + data) and LIKE (schema only) source-copying variants.
// Column types are accepted syntactically and discarded (§4.9 — dynamic
// typing means there is nothing to enforce at create time).
func executeCreateTable(ctx *sql.Context, cat *catalog.Catalog, stmt ast.CreateTableStatement) (Result, error) {
	if err := requireWriteMode(cat, stmt.Temporary); err != nil {
		return Result{}, err
	}

	if stmt.Temporary {
		if isTempTable(cat, stmt.Table) {
			return Result{}, sql.ErrTableAlreadyExists.New(stmt.Table)
		}
	} else if cat.Exists(stmt.Table) {
		return Result{}, sql.ErrTableAlreadyExists.New(stmt.Table)
	}

	var path string
	if stmt.Temporary {
		p, err := cat.CreateTempTable(stmt.Table)
		if err != nil {
			return Result{}, err
		}
		path = p
	} else {
		resolved, err := cat.ResolveForWrite(stmt.Table)
		if err != nil {
			return Result{}, err
		}
		path = resolved.Path
	}

	var err error
	switch {
	case stmt.CloneFrom != "":
		err = copyTable(cat, stmt.CloneFrom, path, true)
	case stmt.LikeFrom != "":
		err = copyTable(cat, stmt.LikeFrom, path, false)
	default:
		err = writeEmptyTable(cat, stmt.Columns, path)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{}, nil
}

// writeEmptyTable creates path with a header row naming columns (unless
// the catalog is in headerless mode, §6 `-f`) and no data rows.
func writeEmptyTable(cat *catalog.Catalog, columns []ast.ColumnDef, path string) error {
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Name
	}
	w, err := csvio.Create(path, header, !cat.HeaderlessMode)
	if err != nil {
		return err
	}
	return w.Commit()
}

// copyTable reads source's schema (and, if withData, its rows) and writes
// them to destPath: the shared body of CREATE TABLE ... CLONE/LIKE.
func copyTable(cat *catalog.Catalog, source, destPath string, withData bool) error {
	resolved, err := cat.Resolve(source)
	if err != nil {
		return err
	}
	rd, err := csvio.Open(resolved.Path, cat.HeaderlessMode)
	if err != nil {
		return err
	}
	defer rd.Close()

	// In headerless mode the destination never gets a header line, so the
	// source's column names (not known until a row is read) don't matter;
	// rd.Schema().Names() is only meaningful, and only needed, for a
	// headered source.
	w, err := csvio.Create(destPath, rd.Schema().Names(), !cat.HeaderlessMode)
	if err != nil {
		return err
	}
	if !withData {
		return w.Commit()
	}

	for {
		row, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			w.Abort()
			return err
		}
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return w.Commit()
}
