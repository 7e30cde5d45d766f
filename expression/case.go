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

package expression

import "github.com/dolthub/csvsql/sql"

// WhenClause pairs a predicate with the expression to evaluate if it fires.
type WhenClause struct {
	Cond Expression
	Then Expression
}

// Case implements `CASE WHEN p1 THEN e1 [WHEN p2 THEN e2 ...] [ELSE e] END`.
// The first Bool-true predicate fires; with no match and no Else, Empty.
type Case struct {
	Whens []WhenClause
	Else  Expression
}

func NewCase(whens []WhenClause, els Expression) *Case { return &Case{Whens: whens, Else: els} }

func (c *Case) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	for _, w := range c.Whens {
		cond, err := w.Cond.Eval(ctx, row)
		if err != nil {
			return sql.Value{}, err
		}
		if cond.IsTrue() {
			return w.Then.Eval(ctx, row)
		}
	}
	if c.Else != nil {
		return c.Else.Eval(ctx, row)
	}
	return sql.NewEmpty(), nil
}

func (c *Case) String() string { return "CASE ... END" }
