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

// HashJoin handles the single-column equi-join case (§4.7 step 3): it
// builds a hash table keyed by canonical text over one side (BuildRight
// selects which child is built; the planner always builds over Right) and
// probes it with the other side. A USING(col) join wraps this in a
// DropColumns node to emit the shared column once.
type HashJoin struct {
	Left, Right sql.Node
	Type        JoinType
	LeftKey     expression.Expression // evaluated against Left's row
	RightKey    expression.Expression // evaluated against Right's row
	BuildRight  bool                  // true: hash table built over Right (the common case)
}

func NewHashJoin(left, right sql.Node, typ JoinType, leftKey, rightKey expression.Expression, buildRight bool) *HashJoin {
	return &HashJoin{Left: left, Right: right, Type: typ, LeftKey: leftKey, RightKey: rightKey, BuildRight: buildRight}
}

func (j *HashJoin) Schema() sql.Schema {
	return j.Left.Schema().Append(j.Right.Schema())
}

func (j *HashJoin) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	if j.BuildRight {
		return j.buildOver(ctx, j.Right, j.Left, j.RightKey, j.LeftKey, true)
	}
	return j.buildOver(ctx, j.Left, j.Right, j.LeftKey, j.RightKey, false)
}

// buildOver materializes buildSide into a hash table keyed by buildKey and
// streams probeSide against it. probeIsLeft tells the iterator which
// physical side of the output row the probe stream occupies, so LEFT/
// RIGHT/FULL padding lands on the correct side regardless of which side
// was chosen as the build side.
func (j *HashJoin) buildOver(ctx *sql.Context, buildSide, probeSide sql.Node, buildKey, probeKey expression.Expression, probeIsLeft bool) (sql.RowIter, error) {
	buildRows, err := materialize(ctx, buildSide)
	if err != nil {
		return nil, err
	}
	table := map[string][]int{}
	for i, row := range buildRows {
		v, err := buildKey.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		if v.IsEmpty() {
			continue // Empty never matches Empty under join equality (§4.1)
		}
		key := v.CanonicalText()
		table[key] = append(table[key], i)
	}

	probeIter, err := probeSide.RowIter(ctx)
	if err != nil {
		return nil, err
	}

	return &hashJoinIter{
		probeIter:    probeIter,
		probeKey:     probeKey,
		buildRows:    buildRows,
		table:        table,
		typ:          j.Type,
		probeIsLeft:  probeIsLeft,
		buildWidth:   len(buildSide.Schema()),
		probeWidth:   len(probeSide.Schema()),
		buildMatched: nil,
	}, nil
}

type hashJoinIter struct {
	probeIter   sql.RowIter
	probeKey    expression.Expression
	buildRows   []sql.Row
	table       map[string][]int
	typ         JoinType
	probeIsLeft bool
	buildWidth  int
	probeWidth  int

	buildMatched []bool

	curProbe    sql.Row
	curMatches  []int
	curMatchIdx int
	probeMatched bool
	probeDone   bool
	leftoverPos int
}

// probeSideIsOuter reports whether, given which physical side the probe
// stream occupies, unmatched probe rows must still be emitted Empty-padded.
func (it *hashJoinIter) probeSideIsOuter() bool {
	if it.probeIsLeft {
		return it.typ == JoinLeft || it.typ == JoinFull
	}
	return it.typ == JoinRight || it.typ == JoinFull
}

// buildSideIsOuter reports whether unmatched build-side rows must be
// emitted Empty-padded at the end.
func (it *hashJoinIter) buildSideIsOuter() bool {
	if it.probeIsLeft {
		return it.typ == JoinRight || it.typ == JoinFull
	}
	return it.typ == JoinLeft || it.typ == JoinFull
}

func (it *hashJoinIter) combine(probe, build sql.Row) sql.Row {
	if it.probeIsLeft {
		return probe.Append(build)
	}
	return build.Append(probe)
}

func (it *hashJoinIter) Next(ctx *sql.Context) (sql.Row, error) {
	if it.buildMatched == nil && it.buildSideIsOuter() {
		it.buildMatched = make([]bool, len(it.buildRows))
	}

	for {
		if ctx.Cancelled() {
			return nil, sql.ErrCancelled.New()
		}
		if it.curProbe == nil {
			if it.probeDone {
				return it.nextUnmatchedBuild(ctx)
			}
			row, err := it.probeIter.Next(ctx)
			if err != nil {
				if err == sql.EOF {
					it.probeDone = true
					return it.nextUnmatchedBuild(ctx)
				}
				return nil, err
			}
			it.curProbe = row
			it.probeMatched = false
			v, err := it.probeKey.Eval(ctx, row)
			if err != nil {
				return nil, err
			}
			if v.IsEmpty() {
				it.curMatches = nil
			} else {
				it.curMatches = it.table[v.CanonicalText()]
			}
			it.curMatchIdx = 0
			continue
		}

		if it.curMatchIdx >= len(it.curMatches) {
			var out sql.Row
			if !it.probeMatched && it.probeSideIsOuter() {
				out = it.combine(it.curProbe, emptyRow(it.buildWidth))
			}
			it.curProbe = nil
			if out != nil {
				return out, nil
			}
			continue
		}

		buildIdx := it.curMatches[it.curMatchIdx]
		it.curMatchIdx++
		it.probeMatched = true
		if it.buildMatched != nil {
			it.buildMatched[buildIdx] = true
		}
		return it.combine(it.curProbe, it.buildRows[buildIdx]), nil
	}
}

func (it *hashJoinIter) nextUnmatchedBuild(ctx *sql.Context) (sql.Row, error) {
	if it.buildMatched == nil {
		return nil, sql.EOF
	}
	for it.leftoverPos < len(it.buildRows) {
		idx := it.leftoverPos
		it.leftoverPos++
		if !it.buildMatched[idx] {
			return it.combine(emptyRow(it.probeWidth), it.buildRows[idx]), nil
		}
	}
	return nil, sql.EOF
}

func (it *hashJoinIter) Close(ctx *sql.Context) error {
	return it.probeIter.Close(ctx)
}
