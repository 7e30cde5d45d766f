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

// ArithOp identifies which operator an Arithmetic node performs.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpConcat
)

// Arithmetic implements +, -, *, / and || by delegating to sql's promotion
// rules. None of them returns an evaluation error: +, -, * and / give Empty
// on non-numeric input, and || formats both operands as canonical text.
type Arithmetic struct {
	Op          ArithOp
	Left, Right Expression
}

func NewArithmetic(op ArithOp, l, r Expression) *Arithmetic {
	return &Arithmetic{Op: op, Left: l, Right: r}
}

func (a *Arithmetic) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	lv, err := a.Left.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	rv, err := a.Right.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	switch a.Op {
	case OpAdd:
		return sql.Add(lv, rv), nil
	case OpSub:
		return sql.Sub(lv, rv), nil
	case OpMul:
		return sql.Mul(lv, rv), nil
	case OpDiv:
		return sql.Div(lv, rv), nil
	case OpConcat:
		return sql.Concat(lv, rv), nil
	}
	return sql.NewEmpty(), nil
}

func (a *Arithmetic) String() string {
	ops := map[ArithOp]string{OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpConcat: "||"}
	return a.Left.String() + " " + ops[a.Op] + " " + a.Right.String()
}

// Negate implements unary minus.
type Negate struct{ Operand Expression }

func NewNegate(e Expression) *Negate { return &Negate{e} }

func (n *Negate) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := n.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	num, ok := v.AsNumber()
	if !ok {
		return sql.NewEmpty(), nil
	}
	return sql.NewNumber(num.Neg()), nil
}

func (n *Negate) String() string { return "-" + n.Operand.String() }
