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

package ddl

import (
	"github.com/dolthub/csvsql/catalog"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/sql"
)

// executeDropTable implements `DROP TABLE [IF EXISTS] t`: deletes the
// backing file (persistent) or unregisters it (temp).
func executeDropTable(ctx *sql.Context, cat *catalog.Catalog, stmt ast.DropTableStatement) (Result, error) {
	isTemp := isTempTable(cat, stmt.Table)
	if err := requireWriteMode(cat, isTemp); err != nil {
		return Result{}, err
	}

	if isTemp {
		if err := cat.DropTempTable(stmt.Table); err != nil {
			if stmt.IfExists && sql.ErrTableNotFound.Is(err) {
				return Result{}, nil
			}
			return Result{}, err
		}
		return Result{}, nil
	}

	if !cat.Exists(stmt.Table) {
		if stmt.IfExists {
			return Result{}, nil
		}
		return Result{}, sql.ErrTableNotFound.New(stmt.Table)
	}
	if err := cat.DeletePersistent(stmt.Table); err != nil {
		return Result{}, err
	}
	return Result{}, nil
}
