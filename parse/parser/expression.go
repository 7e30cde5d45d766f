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

package parser

import (
	"strings"

	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/parse/token"
)

// parseExpr parses a full expression at the lowest precedence (OR).
func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.l.Peek().Kind == token.OR {
		p.l.Next()
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseXor() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.l.Peek().Kind == token.XOR {
		p.l.Next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "XOR", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.l.Peek().Kind == token.AND {
		p.l.Next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.l.Peek().Kind == token.NOT {
		p.l.Next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "NOT", Operand: operand}, nil
	}
	return p.parsePredicate()
}

// parsePredicate handles comparisons, BETWEEN, IN, LIKE, IS NULL — all of
// which bind tighter than boolean connectives but share the same operand
// (a concat-or-lower expression) on the left.
func (p *Parser) parsePredicate() (ast.Expr, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}

	for {
		negate := false
		if p.l.Peek().Kind == token.NOT {
			// Lookahead past NOT to see if it introduces BETWEEN/IN/LIKE;
			// otherwise NOT belongs to the enclosing parseNot and we stop.
			save := *p.l
			p.l.Next()
			nextKind := p.l.Peek().Kind
			if nextKind != token.BETWEEN && nextKind != token.IN && nextKind != token.LIKE {
				*p.l = save
				return left, nil
			}
			negate = true
		}

		switch p.l.Peek().Kind {
		case token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE:
			op := p.l.Next()
			right, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			left = ast.BinaryExpr{Op: op.Kind.String(), Left: left, Right: right}
		case token.BETWEEN:
			p.l.Next()
			lo, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.AND); err != nil {
				return nil, err
			}
			hi, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			b := ast.BetweenExpr{Operand: left, Lo: lo, Hi: hi}
			if negate {
				left = ast.UnaryExpr{Op: "NOT", Operand: b}
			} else {
				left = b
			}
		case token.IN:
			p.l.Next()
			list, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			left = ast.InExpr{Operand: left, List: list, Negate: negate}
		case token.LIKE:
			p.l.Next()
			pattern, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			left = ast.LikeExpr{Operand: left, Pattern: pattern, Negate: negate}
		case token.IS:
			p.l.Next()
			isNegate := false
			if p.l.Peek().Kind == token.NOT {
				p.l.Next()
				isNegate = true
			}
			switch p.l.Peek().Kind {
			case token.NULL, token.EMPTY:
				p.l.Next()
				left = ast.IsNullExpr{Operand: left, Negate: isNegate}
			default:
				return nil, p.errorf("expected NULL or EMPTY after IS")
			}
		default:
			if negate {
				return nil, p.errorf("expected BETWEEN, IN or LIKE after NOT")
			}
			return left, nil
		}
	}
}

func (p *Parser) parseConcat() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.l.Peek().Kind == token.CONCAT {
		p.l.Next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		switch p.l.Peek().Kind {
		case token.PLUS:
			p.l.Next()
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = ast.BinaryExpr{Op: "+", Left: left, Right: right}
		case token.MINUS:
			p.l.Next()
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = ast.BinaryExpr{Op: "-", Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.l.Peek().Kind {
		case token.STAR:
			p.l.Next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = ast.BinaryExpr{Op: "*", Left: left, Right: right}
		case token.SLASH:
			p.l.Next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = ast.BinaryExpr{Op: "/", Left: left, Right: right}
		case token.PERCENT:
			p.l.Next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = ast.BinaryExpr{Op: "%", Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.l.Peek().Kind == token.MINUS {
		p.l.Next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "-", Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parseExprList() ([]ast.Expr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var list []ast.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if p.l.Peek().Kind == token.COMMA {
			p.l.Next()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.l.Peek()
	switch tok.Kind {
	case token.NUMBER:
		p.l.Next()
		return ast.NumberLit{Value: tok.Literal}, nil
	case token.STRING:
		p.l.Next()
		return ast.StringLit{Value: tok.Literal}, nil
	case token.TRUE:
		p.l.Next()
		return ast.BoolLit{Value: true}, nil
	case token.FALSE:
		p.l.Next()
		return ast.BoolLit{Value: false}, nil
	case token.NULL, token.EMPTY:
		p.l.Next()
		return ast.NullLit{}, nil
	case token.LPAREN:
		p.l.Next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.CASE:
		return p.parseCase()
	case token.CAST:
		return p.parseCast(false)
	case token.TRYCAST:
		return p.parseCast(true)
	case token.EXTRACT:
		return p.parseExtract()
	case token.STAR:
		p.l.Next()
		return ast.Star{}, nil
	case token.IDENT:
		return p.parseIdentOrCall()
	}
	return nil, p.errorf("unexpected token in expression: %s", describeTok(tok))
}

func (p *Parser) parseCase() (ast.Expr, error) {
	p.l.Next() // CASE
	var whens []ast.WhenClause
	for p.l.Peek().Kind == token.WHEN {
		p.l.Next()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.THEN); err != nil {
			return nil, err
		}
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		whens = append(whens, ast.WhenClause{Cond: cond, Then: then})
	}
	if len(whens) == 0 {
		return nil, p.errorf("CASE requires at least one WHEN clause")
	}
	var els ast.Expr
	if p.l.Peek().Kind == token.ELSE {
		p.l.Next()
		var err error
		els, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.END); err != nil {
		return nil, err
	}
	return ast.CaseExpr{Whens: whens, Else: els}, nil
}

func (p *Parser) parseCast(tryCast bool) (ast.Expr, error) {
	p.l.Next() // CAST or TRY_CAST
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	operand, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AS); err != nil {
		return nil, err
	}
	typeTok := p.l.Next()
	if typeTok.Kind != token.IDENT {
		return nil, p.errorf("expected a type name after AS")
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return ast.CastExpr{Operand: operand, Type: strings.ToUpper(typeTok.Literal), TryCast: tryCast}, nil
}

func (p *Parser) parseExtract() (ast.Expr, error) {
	p.l.Next() // EXTRACT
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	partTok := p.l.Next()
	if partTok.Kind != token.IDENT {
		return nil, p.errorf("expected a date part name")
	}
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	operand, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return ast.ExtractExpr{Part: strings.ToUpper(partTok.Literal), Operand: operand}, nil
}

// parseIdentOrCall parses an unqualified/qualified identifier, `t.*`, or a
// function call (scalar or aggregate — the planner classifies which).
func (p *Parser) parseIdentOrCall() (ast.Expr, error) {
	name := p.l.Next().Literal

	if p.l.Peek().Kind == token.DOT {
		p.l.Next()
		if p.l.Peek().Kind == token.STAR {
			p.l.Next()
			return ast.Star{Table: name}, nil
		}
		colTok := p.l.Next()
		if colTok.Kind != token.IDENT {
			return nil, p.errorf("expected a column name after '%s.'", name)
		}
		return ast.QualifiedIdent{Table: name, Name: colTok.Literal}, nil
	}

	if p.l.Peek().Kind == token.LPAREN {
		return p.parseFuncCallArgs(name)
	}

	return ast.Ident{Name: name}, nil
}

func (p *Parser) parseFuncCallArgs(name string) (ast.Expr, error) {
	p.l.Next() // LPAREN

	call := ast.FuncCall{Name: strings.ToUpper(name)}

	if p.l.Peek().Kind == token.DISTINCT {
		p.l.Next()
		call.Distinct = true
	}

	if p.l.Peek().Kind == token.STAR {
		p.l.Next()
		call.Star = true
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return call, nil
	}

	if p.l.Peek().Kind != token.RPAREN {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.l.Peek().Kind == token.COMMA {
				p.l.Next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	if strings.EqualFold(call.Name, "REGEXP_LIKE") {
		if len(call.Args) < 2 || len(call.Args) > 3 {
			return nil, p.errorf("REGEXP_LIKE expects 2 or 3 arguments")
		}
		rl := ast.RegexpLikeExpr{Operand: call.Args[0], Pattern: call.Args[1]}
		if len(call.Args) == 3 {
			rl.Flags = call.Args[2]
		}
		return rl, nil
	}

	return call, nil
}
