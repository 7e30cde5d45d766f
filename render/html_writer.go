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
	"html"
	"io"

	"github.com/dolthub/csvsql/sql"
)

// HTMLWriter renders a result as a minimal <table>: one <th> row, then
// one <tr> of <td> per row. No styling, no paging — a collaborator out of
// scope for anything beyond a correct, escaped table.
type HTMLWriter struct {
	w   io.Writer
	err error
}

// NewHTMLWriter returns a Writer streaming to w.
func NewHTMLWriter(w io.Writer) *HTMLWriter {
	return &HTMLWriter{w: w}
}

func (h *HTMLWriter) Begin(schema sql.Schema) error {
	if err := h.write("<table>\n<tr>"); err != nil {
		return err
	}
	for _, name := range schema.Names() {
		if err := h.write("<th>" + html.EscapeString(name) + "</th>"); err != nil {
			return err
		}
	}
	return h.write("</tr>\n")
}

func (h *HTMLWriter) Row(values sql.Row) error {
	if err := h.write("<tr>"); err != nil {
		return err
	}
	for _, v := range values {
		if err := h.write("<td>" + html.EscapeString(v.CanonicalText()) + "</td>"); err != nil {
			return err
		}
	}
	return h.write("</tr>\n")
}

func (h *HTMLWriter) End() error {
	return h.write("</table>\n")
}

func (h *HTMLWriter) write(s string) error {
	if h.err != nil {
		return h.err
	}
	if _, err := io.WriteString(h.w, s); err != nil {
		h.err = sql.ErrIO.New(err.Error())
		return h.err
	}
	return nil
}
