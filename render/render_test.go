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

package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dolthub/csvsql/render"
	"github.com/dolthub/csvsql/sql"
)

func testSchema() sql.Schema {
	return sql.Schema{
		{Name: "name", Ordinal: 0},
		{Name: "age", Ordinal: 1},
	}
}

func testRows() []sql.Row {
	return []sql.Row{
		{sql.NewText("rex"), sql.NewNumber(decimal.NewFromInt(3))},
		{sql.NewText("meow"), sql.NewEmpty()},
	}
}

func renderAll(t *testing.T, w render.Writer) {
	t.Helper()
	require.NoError(t, w.Begin(testSchema()))
	for _, row := range testRows() {
		require.NoError(t, w.Row(row))
	}
	require.NoError(t, w.End())
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	renderAll(t, render.NewCSVWriter(&buf))
	require.Equal(t, "name,age\nrex,3\nmeow,\n", buf.String())
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	renderAll(t, render.NewTextWriter(&buf))
	require.Equal(t, "name\tage\nrex\t3\nmeow\t\n", buf.String())
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	renderAll(t, render.NewJSONWriter(&buf))
	require.Equal(t, `[{"name":"rex","age":"3"},{"name":"meow","age":""}]`, buf.String())
}

func TestHTMLWriter(t *testing.T) {
	var buf bytes.Buffer
	renderAll(t, render.NewHTMLWriter(&buf))
	out := buf.String()
	require.Contains(t, out, "<th>name</th><th>age</th>")
	require.Contains(t, out, "<td>rex</td><td>3</td>")
}

func TestHTMLWriterEscapesValues(t *testing.T) {
	var buf bytes.Buffer
	w := render.NewHTMLWriter(&buf)
	require.NoError(t, w.Begin(sql.Schema{{Name: "x"}}))
	require.NoError(t, w.Row(sql.Row{sql.NewText("<b>&")}))
	require.NoError(t, w.End())
	require.Contains(t, buf.String(), "&lt;b&gt;&amp;")
}

func TestNewRejectsXLSX(t *testing.T) {
	var buf bytes.Buffer
	_, err := render.New(render.XLSX, &buf)
	require.Error(t, err)
	require.True(t, sql.ErrUnsupportedFeature.Is(err))
}

func TestXLSXWriterOneSheetPerQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := render.NewXLSXWriter(path)

	renderAll(t, w)
	require.NoError(t, w.Begin(sql.Schema{{Name: "n"}}))
	require.NoError(t, w.Row(sql.Row{sql.NewNumber(decimal.NewFromInt(1))}))
	require.NoError(t, w.End())
	require.NoError(t, w.Close())

	require.FileExists(t, path)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.ElementsMatch(t, []string{"Query1", "Query2"}, sheets)

	v, err := f.GetCellValue("Query1", "A2")
	require.NoError(t, err)
	require.Equal(t, "rex", v)
}

func TestXLSXWriterSavesToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.xlsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	w := render.NewXLSXWriter(path)
	renderAll(t, w)
	require.NoError(t, w.Close())
	require.FileExists(t, path)
}
