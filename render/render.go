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

// Package render implements the external result writers named in §6: the
// dispatcher hands each statement's (schema, row iterator) result to one
// of these through the common Begin/Row/End interface, so the execution
// pipeline never has a format-specific branch.
package render

import (
	"io"

	"github.com/dolthub/csvsql/sql"
)

// Writer receives one query's result as a schema followed by zero or more
// rows. Begin is called exactly once before any Row, End exactly once
// after the last Row (even when there are zero rows).
type Writer interface {
	Begin(schema sql.Schema) error
	Row(values sql.Row) error
	End() error
}

// Format identifies one of the `-p` output formats.
type Format string

const (
	CSV  Format = "csv"
	Text Format = "txt"
	JSON Format = "json"
	HTML Format = "html"
	XLSX Format = "xls"
)

// New returns the Writer for format, writing to w. XLSX is not available
// through New since excelize saves a workbook to a path rather than
// streaming to an io.Writer; use NewXLSXWriter for that format.
func New(format Format, w io.Writer) (Writer, error) {
	switch format {
	case CSV:
		return NewCSVWriter(w), nil
	case Text:
		return NewTextWriter(w), nil
	case JSON:
		return NewJSONWriter(w), nil
	case HTML:
		return NewHTMLWriter(w), nil
	default:
		return nil, sql.ErrUnsupportedFeature.New("output format: " + string(format))
	}
}
