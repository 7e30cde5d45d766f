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

// Filter drops every row whose predicate does not evaluate to Bool-true;
// Empty and Bool-false both drop (§4.8).
type Filter struct {
	Child     sql.Node
	Predicate expression.Expression
}

func NewFilter(child sql.Node, predicate expression.Expression) *Filter {
	return &Filter{Child: child, Predicate: predicate}
}

func (f *Filter) Schema() sql.Schema { return f.Child.Schema() }

func (f *Filter) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	child, err := f.Child.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	return &filterIter{child: child, predicate: f.Predicate}, nil
}

type filterIter struct {
	child     sql.RowIter
	predicate expression.Expression
}

func (it *filterIter) Next(ctx *sql.Context) (sql.Row, error) {
	for {
		if ctx.Cancelled() {
			return nil, sql.ErrCancelled.New()
		}
		row, err := it.child.Next(ctx)
		if err != nil {
			return nil, err
		}
		v, err := it.predicate.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		if v.IsTrue() {
			return row, nil
		}
	}
}

func (it *filterIter) Close(ctx *sql.Context) error { return it.child.Close(ctx) }
