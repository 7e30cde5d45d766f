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

// Package plan implements the operator tree of C8: every node is a
// sql.Node that streams sql.Rows from its children, lazily except for the
// materializing operators: Group and Sort buffer their whole input, the
// joins buffer one side, and Distinct streams but keeps every key it has
// already emitted.
package plan

import (
	"io"

	"github.com/dolthub/csvsql/csvio"
	"github.com/dolthub/csvsql/sql"
)

// Scan streams one table's rows from its backing CSV file.
type Scan struct {
	TableName  string
	Path       string
	Headerless bool
	schema     sql.Schema
}

// NewScan returns a Scan over path, with every column's Source set to
// alias so qualified references (alias.col) resolve against it.
func NewScan(tableName, alias, path string, headerless bool) (*Scan, error) {
	rd, err := csvio.Open(path, headerless)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	if headerless {
		// A headerless file carries no self-describing width; read one row
		// so the Excel-sequence names grow to match it (Reader.Next extends
		// the schema as it reads), then discard the row itself — RowIter
		// reopens the file fresh for actual iteration.
		if _, err := rd.Next(); err != nil && err != io.EOF {
			return nil, err
		}
	}

	schema := rd.Schema()
	bound := make(sql.Schema, len(schema))
	for i, c := range schema {
		bound[i] = &sql.Column{Name: c.Name, Ordinal: i, Source: alias}
	}
	return &Scan{TableName: tableName, Path: path, Headerless: headerless, schema: bound}, nil
}

func (s *Scan) Schema() sql.Schema { return s.schema }

func (s *Scan) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	rd, err := csvio.Open(s.Path, s.Headerless)
	if err != nil {
		return nil, err
	}
	if s.Headerless {
		rd.SetWidth(len(s.schema))
	}
	return &scanIter{rd: rd}, nil
}

type scanIter struct {
	rd *csvio.Reader
}

func (it *scanIter) Next(ctx *sql.Context) (sql.Row, error) {
	if ctx.Cancelled() {
		return nil, sql.ErrCancelled.New()
	}
	return it.rd.Next()
}

func (it *scanIter) Close(ctx *sql.Context) error { return it.rd.Close() }
