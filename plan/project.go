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

package plan

import (
	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/sql"
)

// ProjectColumn is one output column of a Project: an expression bound
// against the child's row, plus its output name. `*`/`t.*` expansion has
// already happened by the time a Project node exists — the planner turns
// each expanded column into its own GetField-backed ProjectColumn.
type ProjectColumn struct {
	Expr expression.Expression
	Name string
}

// Project evaluates its final expressions and names the output schema;
// it is always the last stage of the fixed operator order (§4.7 step 4).
type Project struct {
	Child   sql.Node
	Columns []ProjectColumn
}

func NewProject(child sql.Node, columns []ProjectColumn) *Project {
	return &Project{Child: child, Columns: columns}
}

func (p *Project) Schema() sql.Schema {
	schema := make(sql.Schema, len(p.Columns))
	for i, c := range p.Columns {
		schema[i] = &sql.Column{Name: c.Name, Ordinal: i}
	}
	return schema
}

func (p *Project) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	iter, err := p.Child.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	return &projectIter{child: iter, columns: p.Columns}, nil
}

type projectIter struct {
	child   sql.RowIter
	columns []ProjectColumn
}

func (it *projectIter) Next(ctx *sql.Context) (sql.Row, error) {
	if ctx.Cancelled() {
		return nil, sql.ErrCancelled.New()
	}
	row, err := it.child.Next(ctx)
	if err != nil {
		return nil, err
	}
	out := make(sql.Row, len(it.columns))
	for i, c := range it.columns {
		v, err := c.Expr.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (it *projectIter) Close(ctx *sql.Context) error { return it.child.Close(ctx) }
