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

// Package parser turns SQL text into parse/ast statements (C2). It rejects,
// with a clear "unsupported" error, the dialect features named in §4.2 that
// have no semantics in this engine (NATURAL JOIN, LATERAL, WINDOW, TOP n,
// and the rest of that list) rather than silently mis-parsing them.
package parser

import (
	"fmt"
	"strings"

	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/parse/lexer"
	"github.com/dolthub/csvsql/parse/token"
	"github.com/dolthub/csvsql/sql"
)

// Parser consumes a lexer.Lexer's token stream and builds an ast.Statement
// tree, one statement at a time.
type Parser struct {
	l *lexer.Lexer
}

// New returns a Parser over input, which may contain multiple `;`-separated
// statements.
func New(input string) *Parser { return &Parser{l: lexer.New(input)} }

// ParseStatements parses every statement in the input in order.
func ParseStatements(input string) ([]ast.Statement, error) {
	p := New(input)
	var stmts []ast.Statement
	for {
		p.skipSemicolons()
		if p.l.Peek().Kind == token.EOF {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if tok := p.l.Peek(); tok.Kind != token.SEMICOLON && tok.Kind != token.EOF {
			return nil, sql.ErrParse.New("expected ';' or end of input, got " + describeTok(tok))
		}
	}
}

func (p *Parser) skipSemicolons() {
	for p.l.Peek().Kind == token.SEMICOLON {
		p.l.Next()
	}
}

func describeTok(t token.Token) string {
	if t.Literal != "" {
		return t.Literal
	}
	return t.Kind.String()
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return sql.ErrParse.New(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok := p.l.Next()
	if tok.Kind != k {
		return tok, p.errorf("expected %s, got %s", k.String(), describeTok(tok))
	}
	return tok, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.l.Peek()
	switch tok.Kind {
	case token.SELECT:
		return p.parseSelect()
	case token.INSERT:
		return p.parseInsert()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	case token.CREATE:
		return p.parseCreateTable()
	case token.DROP:
		return p.parseDropTable()
	case token.ALTER:
		return p.parseAlterTable()
	case token.USE:
		return p.parseUse()
	case token.START:
		p.l.Next()
		if _, err := p.expect(token.TRANSACTION); err != nil {
			return nil, err
		}
		return ast.StartTransactionStatement{}, nil
	case token.COMMIT:
		p.l.Next()
		return ast.CommitStatement{}, nil
	case token.ROLLBACK:
		p.l.Next()
		return ast.RollbackStatement{}, nil
	case token.IDENT:
		if unsupportedStatementKeyword(tok.Literal) {
			return nil, p.errorf("unsupported: %s", strings.ToUpper(tok.Literal))
		}
	}
	return nil, p.errorf("unexpected token %s", describeTok(tok))
}

// unsupportedStatementKeyword names statement-leading dialect constructs
// with no semantics here (§4.2); they lex as plain identifiers since they
// are not reserved words of this grammar, so they are rejected by name
// where a statement or clause is expected.
func unsupportedStatementKeyword(word string) bool {
	switch strings.ToUpper(word) {
	case "WITH", "MERGE", "EXPLAIN", "GRANT", "REVOKE":
		return true
	}
	return false
}
