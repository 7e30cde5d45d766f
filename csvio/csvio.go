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

// Package csvio streams table data in and out of CSV files (spec §4.6,
// C6): a Reader produces sql.Row values one at a time with header
// inference and Excel-style overflow naming, and a Writer stages its
// output in a temp file that is only renamed into place once every row
// has been written successfully.
package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/dolthub/csvsql/sql"
)

// Reader streams a CSV file as sql.Rows of Text values (every CSV cell is
// untyped text; CAST/TRY_CAST in the expression layer is how callers ask
// for another Kind). Values are never type-inferred at read time.
type Reader struct {
	f          *os.File
	r          *csv.Reader
	schema     sql.Schema
	headerless bool
}

// Open starts streaming path. When headerless is true the Excel sequence
// names every column and the first record is treated as data, not a
// header.
func Open(path string, headerless bool) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sql.ErrIO.New(err.Error())
	}

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1 // rows may have fewer or more fields than the header

	rd := &Reader{f: f, r: cr, headerless: headerless}

	if headerless {
		return rd, nil
	}

	header, err := cr.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, sql.ErrIO.New("empty CSV file: " + path)
		}
		return nil, sql.ErrIO.New(err.Error())
	}
	rd.schema = make(sql.Schema, len(header))
	seen := map[string]bool{}
	for i, name := range header {
		rd.schema[i] = &sql.Column{Name: dedupeName(name, i, seen), Ordinal: i}
	}
	return rd, nil
}

// dedupeName returns name unchanged the first time it's seen, and
// name suffixed with its own ordinal on every repeat (spec §4.6: "duplicates
// are disambiguated by suffixing the ordinal"), so a header like
// "id,id,name" becomes "id", "id$1", "name".
func dedupeName(name string, ordinal int, seen map[string]bool) string {
	if !seen[name] {
		seen[name] = true
		return name
	}
	suffixed := name + "$" + strconv.Itoa(ordinal)
	seen[suffixed] = true
	return suffixed
}

// Schema returns the inferred column schema. It is only stable once the
// first record (for a headered file) or the caller's declared width (for
// a headerless one, see SetWidth) has been seen.
func (r *Reader) Schema() sql.Schema { return r.schema }

// SetWidth seeds the Excel-sequence schema for a headerless read, so
// Schema is available before the first Next call (needed by the planner,
// which must know column count up front).
func (r *Reader) SetWidth(n int) {
	r.schema = make(sql.Schema, n)
	for i := range r.schema {
		r.schema[i] = &sql.Column{Name: sql.ExcelName(i), Ordinal: i}
	}
}

// Next returns the next row as Text values, padding with Empty for cells
// missing relative to the schema and extending the schema with
// Excel-sequence overflow names for cells beyond it.
func (r *Reader) Next() (sql.Row, error) {
	rec, err := r.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, sql.ErrIO.New(err.Error())
	}

	for len(r.schema) < len(rec) {
		ordinal := len(r.schema)
		name := sql.ExcelName(ordinal)
		for _, c := range r.schema {
			if c.Name == name {
				name = name + "$" + strconv.Itoa(ordinal)
				break
			}
		}
		r.schema = append(r.schema, &sql.Column{Name: name, Ordinal: ordinal})
	}

	row := make(sql.Row, len(r.schema))
	for i := range row {
		if i < len(rec) {
			row[i] = sql.NewText(rec[i])
		} else {
			row[i] = sql.NewEmpty()
		}
	}
	return row, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}

// Writer stages writes to a temp file beside path and renames it into
// place on Commit; on any error the temp file is discarded and path is
// left untouched.
type Writer struct {
	path    string
	tmpPath string
	f       *os.File
	w       *csv.Writer
	failed  bool
}

// Create starts a new atomic write of path. header is written immediately
// unless writeHeader is false (header-off mode).
func Create(path string, header []string, writeHeader bool) (*Writer, error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return nil, sql.ErrIO.New(err.Error())
	}

	w := &Writer{path: path, tmpPath: f.Name(), f: f, w: csv.NewWriter(f)}
	if writeHeader {
		if err := w.w.Write(header); err != nil {
			w.abort()
			return nil, sql.ErrIO.New(err.Error())
		}
	}
	return w, nil
}

// WriteRow appends one row's canonical-text rendering as a CSV record.
func (w *Writer) WriteRow(row sql.Row) error {
	rec := make([]string, len(row))
	for i, v := range row {
		rec[i] = v.CanonicalText()
	}
	if err := w.w.Write(rec); err != nil {
		w.abort()
		return sql.ErrIO.New(err.Error())
	}
	return nil
}

// Commit flushes and renames the temp file into place.
func (w *Writer) Commit() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.abort()
		return sql.ErrIO.New(err.Error())
	}
	if err := w.f.Close(); err != nil {
		os.Remove(w.tmpPath)
		return sql.ErrIO.New(err.Error())
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		os.Remove(w.tmpPath)
		return errors.Wrap(err, "renaming into place")
	}
	return nil
}

// Abort discards the temp file without touching path, used when a caller
// decides mid-write that the operation must not take effect (e.g. an
// error partway through UPDATE's rewrite).
func (w *Writer) Abort() error {
	w.abort()
	return nil
}

func (w *Writer) abort() {
	if w.failed {
		return
	}
	w.failed = true
	w.f.Close()
	os.Remove(w.tmpPath)
}

// AppendWriter appends rows directly to an existing CSV file at path,
// without the temp-file-plus-rename dance Writer does: used by INSERT,
// where the file (or its transaction staging copy) already holds the
// header and prior rows and only new records need to land.
type AppendWriter struct {
	f *os.File
	w *csv.Writer
}

// OpenAppend opens path for appending.
func OpenAppend(path string) (*AppendWriter, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, sql.ErrIO.New(err.Error())
	}
	return &AppendWriter{f: f, w: csv.NewWriter(f)}, nil
}

// WriteRow appends one row's canonical-text rendering as a CSV record.
func (w *AppendWriter) WriteRow(row sql.Row) error {
	rec := make([]string, len(row))
	for i, v := range row {
		rec[i] = v.CanonicalText()
	}
	if err := w.w.Write(rec); err != nil {
		w.f.Close()
		return sql.ErrIO.New(err.Error())
	}
	return nil
}

// Close flushes and closes the file.
func (w *AppendWriter) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return sql.ErrIO.New(err.Error())
	}
	return w.f.Close()
}
