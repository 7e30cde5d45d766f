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
	"encoding/csv"
	"io"

	"github.com/dolthub/csvsql/sql"
)

// CSVWriter renders a result as UTF-8, comma-delimited, double-quote
// quoted CSV — the same wire shape a table's own backing file uses.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter returns a Writer streaming to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (c *CSVWriter) Begin(schema sql.Schema) error {
	if err := c.w.Write(schema.Names()); err != nil {
		return sql.ErrIO.New(err.Error())
	}
	return nil
}

func (c *CSVWriter) Row(values sql.Row) error {
	rec := make([]string, len(values))
	for i, v := range values {
		rec[i] = v.CanonicalText()
	}
	if err := c.w.Write(rec); err != nil {
		return sql.ErrIO.New(err.Error())
	}
	return nil
}

func (c *CSVWriter) End() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return sql.ErrIO.New(err.Error())
	}
	return nil
}
