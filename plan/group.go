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
	"github.com/dolthub/csvsql/expression/aggregation"
	"github.com/dolthub/csvsql/sql"
)

// Group buckets child rows by the canonical-text tuple of GroupBy
// expressions (Empty values collapsing into one bucket, §4.8) and
// produces one output row per group: the group-key values followed by
// each aggregate's finalized value, in that order. With no GroupBy
// expressions at all it still produces exactly one group, even over zero
// input rows, as long as at least one aggregate is present (§4.8).
type Group struct {
	Child      sql.Node
	GroupBy    []expression.Expression
	Aggregates []aggregation.Aggregation
	schema     sql.Schema
}

// NewGroup builds a Group node. names supplies the output column name for
// each GroupBy expression followed by each aggregate.
func NewGroup(child sql.Node, groupBy []expression.Expression, aggs []aggregation.Aggregation, names []string) *Group {
	schema := make(sql.Schema, 0, len(groupBy)+len(aggs))
	for i := range groupBy {
		schema = append(schema, &sql.Column{Name: names[i], Ordinal: len(schema)})
	}
	for i := range aggs {
		schema = append(schema, &sql.Column{Name: names[len(groupBy)+i], Ordinal: len(schema)})
	}
	return &Group{Child: child, GroupBy: groupBy, Aggregates: aggs, schema: schema}
}

func (g *Group) Schema() sql.Schema { return g.schema }

type groupBucket struct {
	keyRow  sql.Row
	buffers []aggregation.Buffer
}

func (g *Group) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	iter, err := g.Child.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	defer iter.Close(ctx)

	buckets := map[string]*groupBucket{}
	var order []string

	for {
		if ctx.Cancelled() {
			return nil, sql.ErrCancelled.New()
		}
		row, err := iter.Next(ctx)
		if err != nil {
			if err == sql.EOF {
				break
			}
			return nil, err
		}

		keyRow := make(sql.Row, len(g.GroupBy))
		keyText := ""
		for i, e := range g.GroupBy {
			v, err := e.Eval(ctx, row)
			if err != nil {
				return nil, err
			}
			keyRow[i] = v
			keyText += "\x1f" + v.CanonicalText()
		}

		bucket, ok := buckets[keyText]
		if !ok {
			bucket = &groupBucket{keyRow: keyRow, buffers: make([]aggregation.Buffer, len(g.Aggregates))}
			for i, agg := range g.Aggregates {
				bucket.buffers[i] = agg.NewBuffer()
			}
			buckets[keyText] = bucket
			order = append(order, keyText)
		}

		for i, agg := range g.Aggregates {
			// COUNT(*)'s Input() is a planner-supplied placeholder literal;
			// its Buffer ignores the value and counts the row regardless.
			v, err := agg.Input().Eval(ctx, row)
			if err != nil {
				return nil, err
			}
			if err := bucket.buffers[i].Accumulate(ctx, v); err != nil {
				return nil, err
			}
		}
	}

	if len(order) == 0 && len(g.GroupBy) == 0 && len(g.Aggregates) > 0 {
		// No GROUP BY and at least one aggregate: a single group over
		// zero rows still produces one output row (§4.8).
		bucket := &groupBucket{buffers: make([]aggregation.Buffer, len(g.Aggregates))}
		for i, agg := range g.Aggregates {
			bucket.buffers[i] = agg.NewBuffer()
		}
		buckets[""] = bucket
		order = append(order, "")
	}
	rows := make([]sql.Row, 0, len(order))
	for _, key := range order {
		bucket := buckets[key]
		out := make(sql.Row, 0, len(g.GroupBy)+len(g.Aggregates))
		out = append(out, bucket.keyRow...)
		for _, buf := range bucket.buffers {
			v, err := buf.Finalize()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		rows = append(rows, out)
	}
	return sql.NewSliceIter(rows), nil
}
