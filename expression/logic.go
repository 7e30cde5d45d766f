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

// And, Or, Xor and Not implement the three-valued truth tables of §4.1: any
// non-Bool operand yields Empty, never an error.
type And struct{ Left, Right Expression }
type Or struct{ Left, Right Expression }
type Xor struct{ Left, Right Expression }
type Not struct{ Operand Expression }

func NewAnd(l, r Expression) *And { return &And{l, r} }
func NewOr(l, r Expression) *Or   { return &Or{l, r} }
func NewXor(l, r Expression) *Xor { return &Xor{l, r} }
func NewNot(e Expression) *Not    { return &Not{e} }

func asBool(v sql.Value) (bool, bool) { return v.Bool() }

func (a *And) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	lv, err := a.Left.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	lb, ok := asBool(lv)
	if !ok {
		return sql.NewEmpty(), nil
	}
	if !lb {
		return sql.NewBool(false), nil // short-circuit: false AND anything = false
	}
	rv, err := a.Right.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	rb, ok := asBool(rv)
	if !ok {
		return sql.NewEmpty(), nil
	}
	return sql.NewBool(rb), nil
}
func (a *And) String() string { return a.Left.String() + " AND " + a.Right.String() }

func (o *Or) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	lv, err := o.Left.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	lb, ok := asBool(lv)
	if ok && lb {
		return sql.NewBool(true), nil // short-circuit: true OR anything = true
	}
	rv, err := o.Right.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	rb, rok := asBool(rv)
	if !rok {
		return sql.NewEmpty(), nil
	}
	if !ok {
		return sql.NewEmpty(), nil
	}
	return sql.NewBool(lb || rb), nil
}
func (o *Or) String() string { return o.Left.String() + " OR " + o.Right.String() }

func (x *Xor) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	lv, err := x.Left.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	rv, err := x.Right.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	lb, lok := asBool(lv)
	rb, rok := asBool(rv)
	if !lok || !rok {
		return sql.NewEmpty(), nil
	}
	return sql.NewBool(lb != rb), nil
}
func (x *Xor) String() string { return x.Left.String() + " XOR " + x.Right.String() }

func (n *Not) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := n.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	b, ok := asBool(v)
	if !ok {
		return sql.NewEmpty(), nil
	}
	return sql.NewBool(!b), nil
}
func (n *Not) String() string { return "NOT " + n.Operand.String() }
