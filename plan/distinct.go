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

import "github.com/dolthub/csvsql/sql"

// Distinct deduplicates rows by the canonical-text tuple of the row's own
// values (§4.8) — it sits after projection's expressions have already
// narrowed the row down to the SELECT list, per the fixed operator order.
type Distinct struct {
	Child sql.Node
}

func NewDistinct(child sql.Node) *Distinct { return &Distinct{Child: child} }

func (d *Distinct) Schema() sql.Schema { return d.Child.Schema() }

func (d *Distinct) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	iter, err := d.Child.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	return &distinctIter{child: iter, seen: map[string]bool{}}, nil
}

type distinctIter struct {
	child sql.RowIter
	seen  map[string]bool
}

func (it *distinctIter) Next(ctx *sql.Context) (sql.Row, error) {
	for {
		if ctx.Cancelled() {
			return nil, sql.ErrCancelled.New()
		}
		row, err := it.child.Next(ctx)
		if err != nil {
			return nil, err
		}
		key := rowKey(row)
		if it.seen[key] {
			continue
		}
		it.seen[key] = true
		return row, nil
	}
}

func (it *distinctIter) Close(ctx *sql.Context) error { return it.child.Close(ctx) }

func rowKey(row sql.Row) string {
	key := ""
	for _, v := range row {
		key += "\x1f" + v.CanonicalText()
	}
	return key
}
