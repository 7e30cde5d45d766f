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

package driver

import (
	"errors"

	"github.com/dolthub/csvsql"
	enginesql "github.com/dolthub/csvsql/sql"
)

// drainRowsAffected consumes res fully and returns the affected row count.
// ddl.Execute reports mutations as a single "rows_affected" row; a
// statement with no such column (USE, START TRANSACTION, COMMIT,
// ROLLBACK) drains zero rows and reports 0.
func drainRowsAffected(res csvsql.Result) (int64, error) {
	defer res.Iter.Close(iterCtx())

	var n int64
	affectedColumn := len(res.Schema) == 1 && res.Schema[0].Name == "rows_affected"

	for {
		row, err := res.Iter.Next(iterCtx())
		if err == enginesql.EOF {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		if affectedColumn {
			if v, ok := row[0].Number(); ok {
				n = v.IntPart()
			}
		}
	}
}

// Result implements driver.Result. This engine has no auto-increment
// column (§1's data model has no identity type), so LastInsertId always
// errors rather than silently returning 0, which could be mistaken for a
// real id.
type Result struct {
	rowsAffected int64
}

// LastInsertId always errors: there is no auto-generated id concept here.
func (r *Result) LastInsertId() (int64, error) {
	return 0, errors.New("csvsql: no auto-increment id")
}

// RowsAffected returns the number of rows the statement reported as
// affected.
func (r *Result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}
