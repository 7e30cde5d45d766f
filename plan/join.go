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

// JoinType identifies which side(s) get Empty-padded for an unmatched row.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
)

// NestedLoopJoin evaluates On (or accepts every pair, for a cartesian
// product) by brute force; it is the fallback strategy whenever the join
// condition is not a single-column equality (§4.7 step 3).
type NestedLoopJoin struct {
	Left, Right sql.Node
	Type        JoinType
	On          expression.Expression // nil for a cartesian product
}

func NewNestedLoopJoin(left, right sql.Node, typ JoinType, on expression.Expression) *NestedLoopJoin {
	return &NestedLoopJoin{Left: left, Right: right, Type: typ, On: on}
}

func (j *NestedLoopJoin) Schema() sql.Schema {
	return j.Left.Schema().Append(j.Right.Schema())
}

func (j *NestedLoopJoin) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	leftIter, err := j.Left.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	rightRows, err := materialize(ctx, j.Right)
	if err != nil {
		leftIter.Close(ctx)
		return nil, err
	}
	return &nestedLoopIter{
		leftIter:   leftIter,
		rightRows:  rightRows,
		rightWidth: len(j.Right.Schema()),
		leftWidth:  len(j.Left.Schema()),
		typ:        j.Type,
		on:         j.On,
	}, nil
}

type nestedLoopIter struct {
	leftIter   sql.RowIter
	rightRows  []sql.Row
	rightWidth int
	leftWidth  int
	typ        JoinType

	on expression.Expression

	curLeft      sql.Row
	curLeftIdx   int // right-row cursor for the current left row
	leftMatched  bool
	rightMatched []bool // only populated for RIGHT/FULL
	done         bool
	rightPos     int // cursor for emitting unmatched right rows at the end
}

func (it *nestedLoopIter) ensureRightMatched() {
	if it.rightMatched == nil && (it.typ == JoinRight || it.typ == JoinFull) {
		it.rightMatched = make([]bool, len(it.rightRows))
	}
}

func (it *nestedLoopIter) Next(ctx *sql.Context) (sql.Row, error) {
	it.ensureRightMatched()
	for {
		if ctx.Cancelled() {
			return nil, sql.ErrCancelled.New()
		}
		if it.curLeft == nil {
			if it.done {
				return it.nextUnmatchedRight(ctx)
			}
			row, err := it.leftIter.Next(ctx)
			if err != nil {
				if err == sql.EOF {
					it.done = true
					return it.nextUnmatchedRight(ctx)
				}
				return nil, err
			}
			it.curLeft = row
			it.curLeftIdx = 0
			it.leftMatched = false
			continue
		}

		if it.curLeftIdx >= len(it.rightRows) {
			var out sql.Row
			if !it.leftMatched && (it.typ == JoinLeft || it.typ == JoinFull) {
				out = it.curLeft.Append(emptyRow(it.rightWidth))
			}
			it.curLeft = nil
			if out != nil {
				return out, nil
			}
			continue
		}

		right := it.rightRows[it.curLeftIdx]
		idx := it.curLeftIdx
		it.curLeftIdx++

		combined := it.curLeft.Append(right)
		matched := true
		if it.on != nil {
			v, err := it.on.Eval(ctx, combined)
			if err != nil {
				return nil, err
			}
			matched = v.IsTrue()
		}
		if !matched {
			continue
		}
		it.leftMatched = true
		if it.rightMatched != nil {
			it.rightMatched[idx] = true
		}
		return combined, nil
	}
}

func (it *nestedLoopIter) nextUnmatchedRight(ctx *sql.Context) (sql.Row, error) {
	if it.rightMatched == nil {
		return nil, sql.EOF
	}
	for it.rightPos < len(it.rightRows) {
		idx := it.rightPos
		it.rightPos++
		if !it.rightMatched[idx] {
			return emptyRow(it.leftWidth).Append(it.rightRows[idx]), nil
		}
	}
	return nil, sql.EOF
}

func (it *nestedLoopIter) Close(ctx *sql.Context) error {
	return it.leftIter.Close(ctx)
}

func materialize(ctx *sql.Context, n sql.Node) ([]sql.Row, error) {
	iter, err := n.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	defer iter.Close(ctx)
	var rows []sql.Row
	for {
		row, err := iter.Next(ctx)
		if err != nil {
			if err == sql.EOF {
				return rows, nil
			}
			return nil, err
		}
		rows = append(rows, row)
	}
}

func emptyRow(width int) sql.Row {
	row := make(sql.Row, width)
	for i := range row {
		row[i] = sql.NewEmpty()
	}
	return row
}
