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

// Package planner turns a parse/ast.Statement into a plan/sql.Node tree
// (C7): it resolves every table and column reference through the
// catalog and a schema scope, classifies SELECT/HAVING/ORDER expressions
// as scalar or aggregate, chooses a join strategy per pair, and assembles
// the fixed operator order of §4.7 step 4.
package planner

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/sql"
)

// binder resolves ast.Expr into expression.Expression against a fixed
// schema. In "grouped" mode (shortcuts != nil) every node is checked
// against a table of pre-bound replacements (aggregate calls and GROUP BY
// keys, keyed by their structural text) before any other handling; a
// leaf column reference that doesn't hit a shortcut is the §4.3 "every
// non-aggregate expression must equal a GROUP BY expression or appear
// inside an aggregate" violation.
type binder struct {
	schema    sql.Schema
	shortcuts map[string]expression.Expression
}

func newBinder(schema sql.Schema) *binder { return &binder{schema: schema} }

// exprKey renders e into a structural, whitespace-insensitive key used to
// detect when two expressions are "functionally equal" per §4.7 step 2.
func exprKey(e ast.Expr) string {
	switch n := e.(type) {
	case ast.NumberLit:
		return "Num(" + n.Value + ")"
	case ast.StringLit:
		return "Str(" + n.Value + ")"
	case ast.BoolLit:
		return fmt.Sprintf("Bool(%v)", n.Value)
	case ast.NullLit:
		return "Null"
	case ast.Ident:
		return "Ident(" + n.Name + ")"
	case ast.QualifiedIdent:
		return "QIdent(" + n.Table + "." + n.Name + ")"
	case ast.Star:
		return "Star(" + n.Table + ")"
	case ast.BinaryExpr:
		return "Bin(" + n.Op + "," + exprKey(n.Left) + "," + exprKey(n.Right) + ")"
	case ast.UnaryExpr:
		return "Un(" + n.Op + "," + exprKey(n.Operand) + ")"
	case ast.BetweenExpr:
		return "Between(" + exprKey(n.Operand) + "," + exprKey(n.Lo) + "," + exprKey(n.Hi) + ")"
	case ast.InExpr:
		parts := make([]string, len(n.List))
		for i, e := range n.List {
			parts[i] = exprKey(e)
		}
		return fmt.Sprintf("In(%v,%s,%v)", n.Negate, exprKey(n.Operand), strings.Join(parts, ","))
	case ast.IsNullExpr:
		return fmt.Sprintf("IsNull(%v,%s)", n.Negate, exprKey(n.Operand))
	case ast.LikeExpr:
		return fmt.Sprintf("Like(%v,%s,%s)", n.Negate, exprKey(n.Operand), exprKey(n.Pattern))
	case ast.RegexpLikeExpr:
		flags := "-"
		if n.Flags != nil {
			flags = exprKey(n.Flags)
		}
		return "Regexp(" + exprKey(n.Operand) + "," + exprKey(n.Pattern) + "," + flags + ")"
	case ast.CaseExpr:
		parts := make([]string, len(n.Whens))
		for i, w := range n.Whens {
			parts[i] = exprKey(w.Cond) + "=>" + exprKey(w.Then)
		}
		els := "-"
		if n.Else != nil {
			els = exprKey(n.Else)
		}
		return "Case(" + strings.Join(parts, ";") + ";" + els + ")"
	case ast.CastExpr:
		return fmt.Sprintf("Cast(%v,%s,%s)", n.TryCast, n.Type, exprKey(n.Operand))
	case ast.ExtractExpr:
		return "Extract(" + n.Part + "," + exprKey(n.Operand) + ")"
	case ast.FuncCall:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = exprKey(a)
		}
		return fmt.Sprintf("Func(%s,%v,%v,%s)", n.Name, n.Star, n.Distinct, strings.Join(parts, ","))
	}
	return fmt.Sprintf("%T", e)
}

func (b *binder) resolveColumn(table, name string) (expression.Expression, error) {
	idx := -1
	for i, c := range b.schema {
		if c.Name != name {
			continue
		}
		if table != "" && c.Source != table {
			continue
		}
		if idx >= 0 {
			return nil, sql.ErrSemantic.New("ambiguous column reference: " + name)
		}
		idx = i
	}
	if idx < 0 {
		full := name
		if table != "" {
			full = table + "." + name
		}
		return nil, sql.ErrBinding.New("column not found: " + full)
	}
	return expression.NewGetField(idx, b.schema[idx].Name), nil
}

func (b *binder) bind(e ast.Expr) (expression.Expression, error) {
	if b.shortcuts != nil {
		if x, ok := b.shortcuts[exprKey(e)]; ok {
			return x, nil
		}
	}

	switch n := e.(type) {
	case ast.NumberLit:
		d, err := decimal.NewFromString(n.Value)
		if err != nil {
			return nil, sql.ErrParse.New("invalid number literal: " + n.Value)
		}
		return expression.NewLiteral(sql.NewNumber(d)), nil
	case ast.StringLit:
		return expression.NewLiteral(sql.NewText(n.Value)), nil
	case ast.BoolLit:
		return expression.NewLiteral(sql.NewBool(n.Value)), nil
	case ast.NullLit:
		return expression.NewLiteral(sql.NewEmpty()), nil
	case ast.Ident:
		if b.shortcuts != nil {
			return nil, sql.ErrSemantic.New("column '" + n.Name + "' must appear in GROUP BY or be used inside an aggregate")
		}
		return b.resolveColumn("", n.Name)
	case ast.QualifiedIdent:
		if b.shortcuts != nil {
			return nil, sql.ErrSemantic.New("column '" + n.Table + "." + n.Name + "' must appear in GROUP BY or be used inside an aggregate")
		}
		return b.resolveColumn(n.Table, n.Name)
	case ast.BinaryExpr:
		return b.bindBinary(n)
	case ast.UnaryExpr:
		return b.bindUnary(n)
	case ast.BetweenExpr:
		operand, err := b.bind(n.Operand)
		if err != nil {
			return nil, err
		}
		lo, err := b.bind(n.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := b.bind(n.Hi)
		if err != nil {
			return nil, err
		}
		return expression.NewBetween(operand, lo, hi), nil
	case ast.InExpr:
		operand, err := b.bind(n.Operand)
		if err != nil {
			return nil, err
		}
		list := make([]expression.Expression, len(n.List))
		for i, item := range n.List {
			v, err := b.bind(item)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return expression.NewIn(operand, list, n.Negate), nil
	case ast.IsNullExpr:
		operand, err := b.bind(n.Operand)
		if err != nil {
			return nil, err
		}
		return expression.NewIsNull(operand, n.Negate), nil
	case ast.LikeExpr:
		operand, err := b.bind(n.Operand)
		if err != nil {
			return nil, err
		}
		pattern, err := b.bind(n.Pattern)
		if err != nil {
			return nil, err
		}
		return expression.NewLike(operand, pattern, n.Negate), nil
	case ast.RegexpLikeExpr:
		operand, err := b.bind(n.Operand)
		if err != nil {
			return nil, err
		}
		pattern, err := b.bind(n.Pattern)
		if err != nil {
			return nil, err
		}
		var flags expression.Expression
		if n.Flags != nil {
			flags, err = b.bind(n.Flags)
			if err != nil {
				return nil, err
			}
		} else {
			flags = expression.NewLiteral(sql.NewText(""))
		}
		return expression.NewRegexpLike(operand, pattern, flags), nil
	case ast.CaseExpr:
		whens := make([]expression.WhenClause, len(n.Whens))
		for i, w := range n.Whens {
			cond, err := b.bind(w.Cond)
			if err != nil {
				return nil, err
			}
			then, err := b.bind(w.Then)
			if err != nil {
				return nil, err
			}
			whens[i] = expression.WhenClause{Cond: cond, Then: then}
		}
		var els expression.Expression
		if n.Else != nil {
			var err error
			els, err = b.bind(n.Else)
			if err != nil {
				return nil, err
			}
		}
		return expression.NewCase(whens, els), nil
	case ast.CastExpr:
		operand, err := b.bind(n.Operand)
		if err != nil {
			return nil, err
		}
		target, ok := parseTargetType(n.Type)
		if !ok {
			return nil, sql.ErrUnsupportedFeature.New("cast target type: " + n.Type)
		}
		if n.TryCast {
			return expression.NewTryCast(operand, target), nil
		}
		return expression.NewCast(operand, target), nil
	case ast.ExtractExpr:
		operand, err := b.bind(n.Operand)
		if err != nil {
			return nil, err
		}
		part, ok := parseDatePart(n.Part)
		if !ok {
			return nil, sql.ErrUnsupportedFeature.New("extract part: " + n.Part)
		}
		return expression.NewExtract(part, operand), nil
	case ast.FuncCall:
		return b.bindFuncCall(n)
	case ast.Star:
		return nil, sql.ErrSemantic.New("'*' is only valid in the SELECT list")
	}
	return nil, sql.ErrUnsupportedFeature.New(fmt.Sprintf("expression type %T", e))
}

func (b *binder) bindBinary(n ast.BinaryExpr) (expression.Expression, error) {
	left, err := b.bind(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.bind(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "AND":
		return expression.NewAnd(left, right), nil
	case "OR":
		return expression.NewOr(left, right), nil
	case "XOR":
		return expression.NewXor(left, right), nil
	case "=":
		return expression.NewComparison(expression.OpEQ, left, right), nil
	case "<>":
		return expression.NewComparison(expression.OpNE, left, right), nil
	case "<":
		return expression.NewComparison(expression.OpLT, left, right), nil
	case "<=":
		return expression.NewComparison(expression.OpLE, left, right), nil
	case ">":
		return expression.NewComparison(expression.OpGT, left, right), nil
	case ">=":
		return expression.NewComparison(expression.OpGE, left, right), nil
	case "+":
		return expression.NewArithmetic(expression.OpAdd, left, right), nil
	case "-":
		return expression.NewArithmetic(expression.OpSub, left, right), nil
	case "*":
		return expression.NewArithmetic(expression.OpMul, left, right), nil
	case "/":
		return expression.NewArithmetic(expression.OpDiv, left, right), nil
	case "||":
		return expression.NewArithmetic(expression.OpConcat, left, right), nil
	case "%":
		return expression.NewFunction("MOD", []expression.Expression{left, right}), nil
	}
	return nil, sql.ErrUnsupportedFeature.New("operator: " + n.Op)
}

func (b *binder) bindUnary(n ast.UnaryExpr) (expression.Expression, error) {
	operand, err := b.bind(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "NOT":
		return expression.NewNot(operand), nil
	case "-":
		return expression.NewNegate(operand), nil
	}
	return nil, sql.ErrUnsupportedFeature.New("unary operator: " + n.Op)
}

func (b *binder) bindFuncCall(n ast.FuncCall) (expression.Expression, error) {
	if n.Distinct && !n.Star {
		return nil, sql.ErrSemantic.New("DISTINCT is not valid on " + n.Name)
	}
	if !expression.IsScalarFunction(n.Name) {
		return nil, sql.ErrSemantic.New("unknown function: " + n.Name)
	}
	args := make([]expression.Expression, len(n.Args))
	for i, a := range n.Args {
		v, err := b.bind(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return expression.NewFunction(n.Name, args), nil
}

func parseTargetType(name string) (expression.TargetType, bool) {
	switch strings.ToUpper(name) {
	case "TEXT", "VARCHAR", "CHAR", "STRING":
		return expression.TypeText, true
	case "NUMBER", "NUMERIC", "DECIMAL", "INT", "INTEGER", "FLOAT", "DOUBLE":
		return expression.TypeNumber, true
	case "BOOL", "BOOLEAN":
		return expression.TypeBool, true
	case "DATE":
		return expression.TypeDate, true
	case "TIMESTAMP", "DATETIME":
		return expression.TypeTimestamp, true
	}
	return 0, false
}

func parseDatePart(name string) (expression.DatePart, bool) {
	switch strings.ToUpper(name) {
	case "YEAR":
		return expression.PartYear, true
	case "MONTH":
		return expression.PartMonth, true
	case "DAY":
		return expression.PartDay, true
	case "HOUR":
		return expression.PartHour, true
	case "MINUTE":
		return expression.PartMinute, true
	case "SECOND":
		return expression.PartSecond, true
	case "QUARTER":
		return expression.PartQuarter, true
	case "WEEK":
		return expression.PartWeek, true
	}
	return 0, false
}
