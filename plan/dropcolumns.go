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

// DropColumns wraps child, physically removing the columns at the given
// ordinals from both its schema and every row it produces. USING(col)
// joins (§4.7 step 3) use this to coalesce the shared column into a
// single physical slot, rather than merely hiding the duplicate from `*`
// expansion: every surviving column keeps its original Name/Source, so
// qualified references against the columns that remain still resolve.
type DropColumns struct {
	Child   sql.Node
	Dropped map[int]bool
}

// NewDropColumns returns a DropColumns node removing the listed
// child-schema ordinals.
func NewDropColumns(child sql.Node, dropped []int) *DropColumns {
	set := make(map[int]bool, len(dropped))
	for _, i := range dropped {
		set[i] = true
	}
	return &DropColumns{Child: child, Dropped: set}
}

func (d *DropColumns) Schema() sql.Schema {
	full := d.Child.Schema()
	out := make(sql.Schema, 0, len(full)-len(d.Dropped))
	for _, c := range full {
		if d.Dropped[c.Ordinal] {
			continue
		}
		out = append(out, &sql.Column{Name: c.Name, Ordinal: len(out), Source: c.Source})
	}
	return out
}

func (d *DropColumns) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	iter, err := d.Child.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	return &dropColumnsIter{child: iter, dropped: d.Dropped}, nil
}

type dropColumnsIter struct {
	child   sql.RowIter
	dropped map[int]bool
}

func (it *dropColumnsIter) Next(ctx *sql.Context) (sql.Row, error) {
	row, err := it.child.Next(ctx)
	if err != nil {
		return nil, err
	}
	out := make(sql.Row, 0, len(row)-len(it.dropped))
	for i, v := range row {
		if it.dropped[i] {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (it *dropColumnsIter) Close(ctx *sql.Context) error { return it.child.Close(ctx) }
