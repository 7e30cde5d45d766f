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

func (p *Parser) parseCreateTable() (ast.Statement, error) {
	p.l.Next() // CREATE

	if p.l.Peek().Kind == token.OR {
		return nil, p.errorf("unsupported: CREATE OR REPLACE")
	}
	if tok := p.l.Peek(); tok.Kind == token.IDENT &&
		(strings.EqualFold(tok.Literal, "GLOBAL") || strings.EqualFold(tok.Literal, "TRANSIENT")) {
		return nil, p.errorf("unsupported: CREATE %s TABLE", strings.ToUpper(tok.Literal))
	}

	stmt := ast.CreateTableStatement{}
	if p.l.Peek().Kind == token.TEMPORARY {
		p.l.Next()
		stmt.Temporary = true
	}
	if _, err := p.expect(token.TABLE); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Table = nameTok.Literal

	switch p.l.Peek().Kind {
	case token.CLONE:
		p.l.Next()
		src, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		stmt.CloneFrom = src.Literal
		return stmt, nil
	case token.LIKE:
		p.l.Next()
		src, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		stmt.LikeFrom = src.Literal
		return stmt, nil
	}

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	for {
		colTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		col := ast.ColumnDef{Name: colTok.Literal}
		if p.l.Peek().Kind == token.IDENT {
			col.Type = p.l.Next().Literal
		}
		stmt.Columns = append(stmt.Columns, col)
		if p.l.Peek().Kind == token.COMMA {
			p.l.Next()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	if p.l.Peek().Kind == token.ON {
		return nil, p.errorf("unsupported: ON COMMIT / ON CLUSTER clause")
	}

	return stmt, nil
}

func (p *Parser) parseDropTable() (ast.Statement, error) {
	p.l.Next() // DROP
	if _, err := p.expect(token.TABLE); err != nil {
		return nil, err
	}
	stmt := ast.DropTableStatement{}
	if p.l.Peek().Kind == token.IF {
		p.l.Next()
		if _, err := p.expect(token.EXISTS); err != nil {
			return nil, err
		}
		stmt.IfExists = true
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Table = nameTok.Literal
	return stmt, nil
}

func (p *Parser) parseAlterTable() (ast.Statement, error) {
	p.l.Next() // ALTER
	if _, err := p.expect(token.TABLE); err != nil {
		return nil, err
	}
	stmt := ast.AlterTableStatement{}
	if p.l.Peek().Kind == token.IF {
		p.l.Next()
		if _, err := p.expect(token.EXISTS); err != nil {
			return nil, err
		}
		stmt.IfExists = true
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Table = nameTok.Literal

	for {
		clause, err := p.parseAlterClause()
		if err != nil {
			return nil, err
		}
		stmt.Clauses = append(stmt.Clauses, clause)
		if p.l.Peek().Kind == token.COMMA {
			p.l.Next()
			continue
		}
		break
	}

	return stmt, nil
}

func (p *Parser) parseAlterClause() (ast.AlterClause, error) {
	switch p.l.Peek().Kind {
	case token.ADD:
		p.l.Next()
		if p.l.Peek().Kind == token.COLUMN {
			p.l.Next()
		}
		colTok, err := p.expect(token.IDENT)
		if err != nil {
			return ast.AlterClause{}, err
		}
		col := ast.ColumnDef{Name: colTok.Literal}
		if p.l.Peek().Kind == token.IDENT {
			col.Type = p.l.Next().Literal
		}
		return ast.AlterClause{Kind: ast.AlterAddColumn, Column: col}, nil
	case token.DROP:
		p.l.Next()
		if p.l.Peek().Kind == token.COLUMN {
			p.l.Next()
		}
		colTok, err := p.expect(token.IDENT)
		if err != nil {
			return ast.AlterClause{}, err
		}
		return ast.AlterClause{Kind: ast.AlterDropColumn, ColumnName: colTok.Literal}, nil
	case token.RENAME:
		p.l.Next()
		if p.l.Peek().Kind == token.COLUMN {
			p.l.Next()
		}
		fromTok, err := p.expect(token.IDENT)
		if err != nil {
			return ast.AlterClause{}, err
		}
		if _, err := p.expect(token.TO); err != nil {
			return ast.AlterClause{}, err
		}
		toTok, err := p.expect(token.IDENT)
		if err != nil {
			return ast.AlterClause{}, err
		}
		return ast.AlterClause{Kind: ast.AlterRenameColumn, ColumnName: fromTok.Literal, NewName: toTok.Literal}, nil
	}
	return ast.AlterClause{}, p.errorf("expected ADD, DROP or RENAME COLUMN")
}
