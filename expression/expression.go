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

// Package expression evaluates scalar SQL expressions against a bound Row
// (C3). The planner resolves every column reference down to a flat row
// index before building these nodes, so Eval never needs a live scope —
// it only ever reads Row by GetField's Index.
package expression

import (
	"github.com/dolthub/csvsql/sql"
)

// Expression is any node that can be evaluated against a row.
type Expression interface {
	// Eval evaluates the expression against row, returning its Value.
	Eval(ctx *sql.Context, row sql.Row) (sql.Value, error)
	// String renders the expression for diagnostics (EXPLAIN-style output,
	// error messages).
	String() string
}

// Literal wraps a constant Value.
type Literal struct {
	Value sql.Value
}

func NewLiteral(v sql.Value) *Literal { return &Literal{Value: v} }

func (l *Literal) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) { return l.Value, nil }
func (l *Literal) String() string                                       { return l.Value.String() }

// GetField reads one column of the row by its bound ordinal. Name is kept
// only for diagnostics; binding has already resolved it to Index.
type GetField struct {
	Index int
	Name  string
}

func NewGetField(index int, name string) *GetField { return &GetField{Index: index, Name: name} }

func (g *GetField) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	if g.Index < 0 || g.Index >= len(row) {
		return sql.NewEmpty(), sql.ErrBinding.New("column index out of range: " + g.Name)
	}
	return row[g.Index], nil
}

func (g *GetField) String() string { return g.Name }
