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
	"encoding/json"
	"io"

	"github.com/dolthub/csvsql/sql"
)

// JSONWriter renders a result as a JSON array of objects, one per row,
// keyed by column name in schema order.
type JSONWriter struct {
	w     io.Writer
	names []string
	first bool
	err   error
}

// NewJSONWriter returns a Writer streaming to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

func (j *JSONWriter) Begin(schema sql.Schema) error {
	j.names = schema.Names()
	j.first = true
	return j.write("[")
}

func (j *JSONWriter) Row(values sql.Row) error {
	if !j.first {
		if err := j.write(","); err != nil {
			return err
		}
	}
	j.first = false

	if err := j.write("{"); err != nil {
		return err
	}
	for i, v := range values {
		if i > 0 {
			if err := j.write(","); err != nil {
				return err
			}
		}
		key, _ := json.Marshal(j.names[i])
		val, _ := json.Marshal(v.CanonicalText())
		if err := j.write(string(key) + ":" + string(val)); err != nil {
			return err
		}
	}
	return j.write("}")
}

func (j *JSONWriter) End() error {
	return j.write("]")
}

func (j *JSONWriter) write(s string) error {
	if j.err != nil {
		return j.err
	}
	if _, err := io.WriteString(j.w, s); err != nil {
		j.err = sql.ErrIO.New(err.Error())
		return j.err
	}
	return nil
}
