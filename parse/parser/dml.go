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

func (p *Parser) parseInsert() (ast.Statement, error) {
	p.l.Next() // INSERT
	if _, err := p.expect(token.INTO); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt := ast.InsertStatement{Table: nameTok.Literal}

	if p.l.Peek().Kind == token.LPAREN {
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	switch p.l.Peek().Kind {
	case token.VALUES:
		p.l.Next()
		for {
			row, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			stmt.Values = append(stmt.Values, row)
			if p.l.Peek().Kind == token.COMMA {
				p.l.Next()
				continue
			}
			break
		}
	case token.SELECT:
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		selStmt := sel.(ast.SelectStatement)
		stmt.Select = &selStmt
	default:
		return nil, p.errorf("expected VALUES or SELECT after INSERT INTO ... target")
	}

	return stmt, nil
}

func (p *Parser) parseUpdate() (ast.Statement, error) {
	p.l.Next() // UPDATE
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt := ast.UpdateStatement{Table: nameTok.Literal}

	if _, err := p.expect(token.SET); err != nil {
		return nil, err
	}
	for {
		colTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EQ); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Sets = append(stmt.Sets, ast.UpdateSet{Column: colTok.Literal, Value: val})
		if p.l.Peek().Kind == token.COMMA {
			p.l.Next()
			continue
		}
		break
	}

	if p.l.Peek().Kind == token.WHERE {
		p.l.Next()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if tok := p.l.Peek(); tok.Kind == token.ORDER || tok.Kind == token.LIMIT {
		return nil, p.errorf("unsupported: ORDER BY/LIMIT on UPDATE")
	}

	return stmt, nil
}

func (p *Parser) parseDelete() (ast.Statement, error) {
	p.l.Next() // DELETE
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt := ast.DeleteStatement{Table: nameTok.Literal}

	if p.l.Peek().Kind == token.WHERE {
		p.l.Next()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if tok := p.l.Peek(); tok.Kind == token.USING || tok.Kind == token.ORDER {
		return nil, p.errorf("unsupported: %s on DELETE", tok.Kind.String())
	}
	if tok := p.l.Peek(); tok.Kind == token.IDENT && strings.EqualFold(tok.Literal, "RETURNING") {
		return nil, p.errorf("unsupported: RETURNING on DELETE")
	}
	if p.l.Peek().Kind == token.COMMA {
		return nil, p.errorf("unsupported: multi-table DELETE")
	}

	return stmt, nil
}
