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

import "io"

// EOF is returned by RowIter.Next to signal that the iterator is exhausted.
// It is an alias of io.EOF so callers can keep using errors.Is(err, io.EOF).
var EOF = io.EOF

// RowIter is the streaming contract every operator implements: Next yields
// one Row at a time (returning EOF when exhausted), Close releases any
// resource the iterator holds (open file handles, temp buffers). Blocking
// operators (GROUP BY, ORDER BY) materialize their input when RowIter is
// called and still expose this same pull interface.
type RowIter interface {
	Next(ctx *Context) (Row, error)
	Close(ctx *Context) error
}

// Node is a node in the operator tree: it knows its own output Schema and
// can produce a RowIter over it.
type Node interface {
	Schema() Schema
	RowIter(ctx *Context) (RowIter, error)
}

// sliceIter adapts a pre-materialized []Row to RowIter, used by every
// blocking operator once it has buffered its input.
type sliceIter struct {
	rows []Row
	pos  int
}

// NewSliceIter returns a RowIter over an already-materialized slice of rows.
func NewSliceIter(rows []Row) RowIter {
	return &sliceIter{rows: rows}
}

func (s *sliceIter) Next(ctx *Context) (Row, error) {
	if ctx.Cancelled() {
		return nil, ErrCancelled.New()
	}
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *sliceIter) Close(ctx *Context) error { return nil }
