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
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/parse/token"
)

func (p *Parser) parseUse() (ast.Statement, error) {
	p.l.Next() // USE
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return ast.UseStatement{Name: nameTok.Literal}, nil
}
