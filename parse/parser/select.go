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
	"strconv"
	"strings"

	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/parse/token"
)

func (p *Parser) parseSelect() (ast.Statement, error) {
	p.l.Next() // SELECT

	if tok := p.l.Peek(); tok.Kind == token.IDENT && strings.EqualFold(tok.Literal, "TOP") {
		return nil, p.errorf("unsupported: SELECT TOP n")
	}

	stmt := ast.SelectStatement{}
	if p.l.Peek().Kind == token.DISTINCT {
		p.l.Next()
		stmt.Distinct = true
	}

	cols, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	stmt.Columns = cols

	if p.l.Peek().Kind == token.INTO {
		return nil, p.errorf("unsupported: SELECT INTO")
	}

	if p.l.Peek().Kind == token.FROM {
		p.l.Next()
		from, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		stmt.From = &from

		joins, err := p.parseJoins()
		if err != nil {
			return nil, err
		}
		stmt.Joins = joins
	}

	if p.l.Peek().Kind == token.WHERE {
		p.l.Next()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.l.Peek().Kind == token.GROUP {
		p.l.Next()
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		if p.groupByAllRejected() {
			return nil, p.errorf("unsupported: GROUP BY ALL")
		}
		exprs, err := p.parseExprCommaList()
		if err != nil {
			return nil, err
		}
		stmt.GroupBy = exprs
	}

	if p.l.Peek().Kind == token.HAVING {
		p.l.Next()
		having, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Having = having
	}

	if p.l.Peek().Kind == token.ORDER {
		p.l.Next()
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		items, err := p.parseOrderByList()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = items
	}

	if p.l.Peek().Kind == token.LIMIT {
		p.l.Next()
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Limit = &n
	}

	if p.l.Peek().Kind == token.OFFSET {
		p.l.Next()
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Offset = &n
	}

	if tok := p.l.Peek(); tok.Kind == token.IDENT {
		switch strings.ToUpper(tok.Literal) {
		case "FOR", "FETCH", "WINDOW", "QUALIFY":
			return nil, p.errorf("unsupported: %s clause", strings.ToUpper(tok.Literal))
		}
	}

	return stmt, nil
}

// groupByAllRejected peeks for the unsupported "GROUP BY ALL" shorthand
// (§4.2) without consuming anything if it isn't present.
func (p *Parser) groupByAllRejected() bool {
	tok := p.l.Peek()
	return tok.Kind == token.IDENT && strings.EqualFold(tok.Literal, "ALL")
}

func (p *Parser) parseSelectList() ([]ast.SelectItem, error) {
	var items []ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.l.Peek().Kind == token.COMMA {
			p.l.Next()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseSelectItem() (ast.SelectItem, error) {
	e, err := p.parseExpr()
	if err != nil {
		return ast.SelectItem{}, err
	}
	item := ast.SelectItem{Expr: e}

	if p.l.Peek().Kind == token.AS {
		p.l.Next()
		tok, err := p.expect(token.IDENT)
		if err != nil {
			return ast.SelectItem{}, err
		}
		item.Alias = tok.Literal
	} else if p.l.Peek().Kind == token.IDENT {
		item.Alias = p.l.Next().Literal
	}
	return item, nil
}

// parseTableRef parses a dotted table name (database-as-directory, §4.6)
// with an optional alias.
func (p *Parser) parseTableRef() (ast.TableRef, error) {
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return ast.TableRef{}, err
	}
	name := nameTok.Literal
	for p.l.Peek().Kind == token.DOT {
		p.l.Next()
		part, err := p.expect(token.IDENT)
		if err != nil {
			return ast.TableRef{}, err
		}
		name = name + "." + part.Literal
	}
	ref := ast.TableRef{Name: name}
	if p.l.Peek().Kind == token.AS {
		p.l.Next()
		tok, err := p.expect(token.IDENT)
		if err != nil {
			return ast.TableRef{}, err
		}
		ref.Alias = tok.Literal
	} else if tok := p.l.Peek(); tok.Kind == token.IDENT {
		switch strings.ToUpper(tok.Literal) {
		case "LATERAL":
			return ast.TableRef{}, p.errorf("unsupported: LATERAL")
		case "NATURAL", "CROSS", "FOR", "FETCH", "WINDOW", "QUALIFY":
			// a clause word the caller rejects by name, not an alias
		default:
			ref.Alias = p.l.Next().Literal
		}
	}
	return ref, nil
}

func (p *Parser) parseJoins() ([]ast.Join, error) {
	var joins []ast.Join
	for {
		var jt ast.JoinType
		switch p.l.Peek().Kind {
		case token.JOIN:
			p.l.Next()
			jt = ast.JoinInner
		case token.INNER:
			p.l.Next()
			if _, err := p.expect(token.JOIN); err != nil {
				return nil, err
			}
			jt = ast.JoinInner
		case token.LEFT:
			p.l.Next()
			if p.l.Peek().Kind == token.OUTER {
				p.l.Next()
			}
			if _, err := p.expect(token.JOIN); err != nil {
				return nil, err
			}
			jt = ast.JoinLeft
		case token.RIGHT:
			p.l.Next()
			if p.l.Peek().Kind == token.OUTER {
				p.l.Next()
			}
			if _, err := p.expect(token.JOIN); err != nil {
				return nil, err
			}
			jt = ast.JoinRight
		case token.FULL:
			p.l.Next()
			if p.l.Peek().Kind == token.OUTER {
				p.l.Next()
			}
			if _, err := p.expect(token.JOIN); err != nil {
				return nil, err
			}
			jt = ast.JoinFull
		case token.IDENT:
			if strings.EqualFold(p.l.Peek().Literal, "NATURAL") || strings.EqualFold(p.l.Peek().Literal, "CROSS") {
				return nil, p.errorf("unsupported: %s JOIN", strings.ToUpper(p.l.Peek().Literal))
			}
			return joins, nil
		default:
			return joins, nil
		}

		table, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		j := ast.Join{Type: jt, Table: table}

		switch p.l.Peek().Kind {
		case token.ON:
			p.l.Next()
			on, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			j.On = on
		case token.USING:
			p.l.Next()
			cols, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			j.Using = cols
		default:
			return nil, p.errorf("expected ON or USING after JOIN")
		}
		joins = append(joins, j)
	}
}

func (p *Parser) parseIdentList() ([]string, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var names []string
	for {
		tok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Literal)
		if p.l.Peek().Kind == token.COMMA {
			p.l.Next()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parseExprCommaList() ([]ast.Expr, error) {
	var exprs []ast.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if p.l.Peek().Kind == token.COMMA {
			p.l.Next()
			continue
		}
		break
	}
	return exprs, nil
}

func (p *Parser) parseOrderByList() ([]ast.OrderItem, error) {
	var items []ast.OrderItem
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		item := ast.OrderItem{Expr: e}
		switch p.l.Peek().Kind {
		case token.ASC:
			p.l.Next()
		case token.DESC:
			p.l.Next()
			item.Desc = true
		}
		items = append(items, item)
		if p.l.Peek().Kind == token.COMMA {
			p.l.Next()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseIntLiteral() (int64, error) {
	tok, err := p.expect(token.NUMBER)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return 0, p.errorf("invalid integer literal %q", tok.Literal)
	}
	return n, nil
}
