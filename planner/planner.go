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

package planner

import (
	"github.com/dolthub/csvsql/catalog"
	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/sql"
)

// Build turns a parsed statement into an executable plan.Node. DDL/DML
// statements go through the ddl package, which calls back into Build only
// for the SELECT source of an INSERT ... SELECT.
func Build(ctx *sql.Context, cat *catalog.Catalog, stmt ast.Statement) (sql.Node, error) {
	switch s := stmt.(type) {
	case ast.SelectStatement:
		return buildSelect(ctx, cat, s)
	default:
		return nil, sql.ErrUnsupportedFeature.New("statement is not plannable as a query")
	}
}

// Bind resolves a single expression against schema, in flat (non-grouped)
// mode. The ddl package uses this for INSERT VALUES, UPDATE's SET/WHERE
// and DELETE's WHERE — none of which involve GROUP BY or aggregation, so
// the full buildSelect machinery is unneeded.
func Bind(schema sql.Schema, e ast.Expr) (expression.Expression, error) {
	return newBinder(schema).bind(e)
}
