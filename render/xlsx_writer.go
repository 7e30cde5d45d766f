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

package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dolthub/csvsql/sql"
)

// XLSXWriter accumulates one sheet per query ("Query1", "Query2", ...)
// into a single workbook, saved to path only when Close is called — it is
// the one Writer whose output cannot be streamed, since excelize builds
// the whole workbook in memory before it can be saved.
type XLSXWriter struct {
	path    string
	f       *excelize.File
	queries int
	sheet   string
	row     int
}

// NewXLSXWriter returns a Writer that will save its workbook to path on
// Close. Call Begin/Row/End once per query, then Close exactly once.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path, f: excelize.NewFile()}
}

func (x *XLSXWriter) Begin(schema sql.Schema) error {
	x.queries++
	x.sheet = fmt.Sprintf("Query%d", x.queries)
	idx, err := x.f.NewSheet(x.sheet)
	if err != nil {
		return sql.ErrIO.New(err.Error())
	}
	if x.queries == 1 {
		x.f.DeleteSheet("Sheet1")
	}
	x.f.SetActiveSheet(idx)

	for i, name := range schema.Names() {
		if err := x.setCell(i, 1, name); err != nil {
			return err
		}
	}
	x.row = 1
	return nil
}

func (x *XLSXWriter) Row(values sql.Row) error {
	x.row++
	for i, v := range values {
		if err := x.setCell(i, x.row, v.CanonicalText()); err != nil {
			return err
		}
	}
	return nil
}

func (x *XLSXWriter) End() error {
	return nil
}

// Close saves the accumulated workbook to path. Must be called after the
// last query's End.
func (x *XLSXWriter) Close() error {
	if err := x.f.SaveAs(x.path); err != nil {
		return sql.ErrIO.New(err.Error())
	}
	return nil
}

func (x *XLSXWriter) setCell(col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return sql.ErrIO.New(err.Error())
	}
	if err := x.f.SetCellValue(x.sheet, cell, value); err != nil {
		return sql.ErrIO.New(err.Error())
	}
	return nil
}
