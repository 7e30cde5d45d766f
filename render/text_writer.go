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
	"bufio"
	"io"
	"strings"

	"github.com/dolthub/csvsql/sql"
)

// TextWriter renders a result as plain tab-separated text, one line per
// header/row.
type TextWriter struct {
	w   *bufio.Writer
	err error
}

// NewTextWriter returns a Writer streaming to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

func (t *TextWriter) Begin(schema sql.Schema) error {
	return t.writeLine(schema.Names())
}

func (t *TextWriter) Row(values sql.Row) error {
	rec := make([]string, len(values))
	for i, v := range values {
		rec[i] = v.CanonicalText()
	}
	return t.writeLine(rec)
}

func (t *TextWriter) writeLine(fields []string) error {
	if t.err != nil {
		return t.err
	}
	if _, err := io.WriteString(t.w, strings.Join(fields, "\t")+"\n"); err != nil {
		t.err = sql.ErrIO.New(err.Error())
		return t.err
	}
	return nil
}

func (t *TextWriter) End() error {
	if t.err != nil {
		return t.err
	}
	if err := t.w.Flush(); err != nil {
		return sql.ErrIO.New(err.Error())
	}
	return nil
}
