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

// CompareOp identifies which comparison a Comparison node performs.
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
)

// Comparison implements =, <>, <, <=, >, >=, all in terms of sql.Equals and
// sql.Compare so every comparison shares §4.1's coercion rules.
type Comparison struct {
	Op          CompareOp
	Left, Right Expression
}

func NewComparison(op CompareOp, l, r Expression) *Comparison {
	return &Comparison{Op: op, Left: l, Right: r}
}

func (c *Comparison) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	lv, err := c.Left.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	rv, err := c.Right.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}

	switch c.Op {
	case OpEQ:
		return sql.Equals(lv, rv), nil
	case OpNE:
		eq := sql.Equals(lv, rv)
		if eq.IsEmpty() {
			return sql.NewEmpty(), nil
		}
		b, _ := eq.Bool()
		return sql.NewBool(!b), nil
	default:
		cmp, ok := sql.Compare(lv, rv)
		if !ok {
			return sql.NewEmpty(), nil
		}
		switch c.Op {
		case OpLT:
			return sql.NewBool(cmp < 0), nil
		case OpLE:
			return sql.NewBool(cmp <= 0), nil
		case OpGT:
			return sql.NewBool(cmp > 0), nil
		case OpGE:
			return sql.NewBool(cmp >= 0), nil
		}
	}
	return sql.NewEmpty(), nil
}

func (c *Comparison) String() string {
	ops := map[CompareOp]string{OpEQ: "=", OpNE: "<>", OpLT: "<", OpLE: "<=", OpGT: ">", OpGE: ">="}
	return c.Left.String() + " " + ops[c.Op] + " " + c.Right.String()
}

// Between implements `expr BETWEEN lo AND hi`, equivalent to
// `expr >= lo AND expr <= hi` under §4.1's comparison rules.
type Between struct {
	Operand, Lo, Hi Expression
}

func NewBetween(operand, lo, hi Expression) *Between { return &Between{operand, lo, hi} }

func (b *Between) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := b.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	lo, err := b.Lo.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	hi, err := b.Hi.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	cmpLo, ok1 := sql.Compare(v, lo)
	cmpHi, ok2 := sql.Compare(v, hi)
	if !ok1 || !ok2 {
		return sql.NewEmpty(), nil
	}
	return sql.NewBool(cmpLo >= 0 && cmpHi <= 0), nil
}

func (b *Between) String() string {
	return b.Operand.String() + " BETWEEN " + b.Lo.String() + " AND " + b.Hi.String()
}

// In implements `expr IN (e1, e2, ...)` as a disjunction of equalities.
type In struct {
	Operand Expression
	List    []Expression
	Negate  bool
}

func NewIn(operand Expression, list []Expression, negate bool) *In {
	return &In{Operand: operand, List: list, Negate: negate}
}

func (in *In) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := in.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}

	sawEmpty := false
	for _, e := range in.List {
		cv, err := e.Eval(ctx, row)
		if err != nil {
			return sql.Value{}, err
		}
		eq := sql.Equals(v, cv)
		if eq.IsEmpty() {
			sawEmpty = true
			continue
		}
		if b, _ := eq.Bool(); b {
			return sql.NewBool(!in.Negate), nil
		}
	}
	if sawEmpty {
		return sql.NewEmpty(), nil
	}
	return sql.NewBool(in.Negate), nil
}

func (in *In) String() string {
	s := in.Operand.String() + " IN (...)"
	if in.Negate {
		s = in.Operand.String() + " NOT IN (...)"
	}
	return s
}

// IsNull implements `expr IS NULL` / `expr IS NOT NULL` / `expr IS EMPTY`,
// all synonyms under the single Empty sentinel (§3).
type IsNull struct {
	Operand Expression
	Negate  bool
}

func NewIsNull(operand Expression, negate bool) *IsNull { return &IsNull{operand, negate} }

func (n *IsNull) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := n.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	return sql.NewBool(v.IsEmpty() != n.Negate), nil
}

func (n *IsNull) String() string {
	if n.Negate {
		return n.Operand.String() + " IS NOT NULL"
	}
	return n.Operand.String() + " IS NULL"
}
