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

package sql

import "fmt"

// Column is a single field of a Schema: a case-sensitive name and its
// ordinal position. Source is the table alias the column came from, used
// to resolve qualified references (t.col) and to bind Project's t.*.
type Column struct {
	Name    string
	Ordinal int
	Source  string
}

// Schema is an ordered list of Columns.
type Schema []*Column

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Append returns a new Schema that is the concatenation of s and other,
// with Ordinal renumbered to match the combined row produced by a join.
func (s Schema) Append(other Schema) Schema {
	out := make(Schema, 0, len(s)+len(other))
	for i, c := range s {
		out = append(out, &Column{Name: c.Name, Ordinal: i, Source: c.Source})
	}
	for i, c := range other {
		out = append(out, &Column{Name: c.Name, Ordinal: len(s) + i, Source: c.Source})
	}
	return out
}

// ExcelName returns the Excel-style fallback column name for a zero-based
// ordinal: A$, B$, ..., Z$, AA$, AB$, ...
func ExcelName(ordinal int) string {
	n := ordinal + 1
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters) + "$"
}

// Row is an ordered sequence of Values, keyed by some Schema. Rows are
// immutable once produced by a scan; later operators build new Rows.
type Row []Value

// Append returns a new Row that is the concatenation of r and other,
// used by joins to build the combined row for the pair of matched sides.
func (r Row) Append(other Row) Row {
	out := make(Row, 0, len(r)+len(other))
	out = append(out, r...)
	out = append(out, other...)
	return out
}

func (r Row) String() string {
	return fmt.Sprint([]Value(r))
}
