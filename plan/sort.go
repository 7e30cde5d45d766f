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
	"sort"

	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/sql"
)

// SortField is one ORDER BY key.
type SortField struct {
	Expr expression.Expression
	Desc bool
}

// Sort materializes its child and produces a stably-sorted slice: multiple
// keys with independent ASC/DESC, Empty always first regardless of
// direction (§4.1, §4.8).
type Sort struct {
	Child  sql.Node
	Fields []SortField
}

func NewSort(child sql.Node, fields []SortField) *Sort { return &Sort{Child: child, Fields: fields} }

func (s *Sort) Schema() sql.Schema { return s.Child.Schema() }

func (s *Sort) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	rows, err := materialize(ctx, s.Child)
	if err != nil {
		return nil, err
	}

	keys := make([][]sql.Value, len(rows))
	for i, row := range rows {
		key := make([]sql.Value, len(s.Fields))
		for j, f := range s.Fields {
			v, err := f.Expr.Eval(ctx, row)
			if err != nil {
				return nil, err
			}
			key[j] = v
		}
		keys[i] = key
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		for j, f := range s.Fields {
			if sql.Equals(ka[j], kb[j]).IsTrue() {
				continue
			}
			return sql.Less(ka[j], kb[j], f.Desc)
		}
		return false
	})

	out := make([]sql.Row, len(rows))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return sql.NewSliceIter(out), nil
}
