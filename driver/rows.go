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
	"context"
	"database/sql/driver"
	"io"

	enginesql "github.com/dolthub/csvsql/sql"
)

// iterCtx is the carrier every RowIter.Next/Close call needs. Nothing
// about database/sql's Rows interface lets a caller request cancellation
// mid-scan, so each call gets a fresh, never-cancelled Context.
func iterCtx() *enginesql.Context {
	return enginesql.NewContext(context.Background(), "", 0)
}

// Rows adapts a csvsql.Result's (schema, RowIter) pair to driver.Rows.
type Rows struct {
	schema enginesql.Schema
	iter   enginesql.RowIter
}

// Columns returns the result's column names.
func (r *Rows) Columns() []string {
	return r.schema.Names()
}

// Close releases the underlying RowIter.
func (r *Rows) Close() error {
	return r.iter.Close(iterCtx())
}

// Next fills dest with the next row's values, converted to the subset of
// types driver.Value allows.
func (r *Rows) Next(dest []driver.Value) error {
	row, err := r.iter.Next(iterCtx())
	if err == enginesql.EOF {
		return io.EOF
	}
	if err != nil {
		return err
	}
	for i, v := range row {
		dest[i] = convertValue(v)
	}
	return nil
}
