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

package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), name)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func devNull(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBatchModeSucceedsOnValidStatement(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name,age\nrex,3\n"), 0o644))

	stdout, stderr := tempFile(t, "out"), tempFile(t, "err")
	code := run([]string{"-m", dir, "-c", "SELECT name FROM pets"}, devNull(t), stdout, stderr)
	require.Equal(t, 0, code)
}

func TestBatchModeFailsOnBadStatement(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr := tempFile(t, "out"), tempFile(t, "err")
	code := run([]string{"-m", dir, "-c", "SELECT name FROM missing"}, devNull(t), stdout, stderr)
	require.NotEqual(t, 0, code)

	stderr.Seek(0, io.SeekStart)
	contents, err := io.ReadAll(stderr)
	require.NoError(t, err)
	require.NotEmpty(t, contents)
}

func TestBatchModeRejectsWriteWithoutFlag(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	stdout, stderr := tempFile(t, "out"), tempFile(t, "err")
	code := run([]string{"-m", dir, "-c", "INSERT INTO pets VALUES ('meow')"}, devNull(t), stdout, stderr)
	require.NotEqual(t, 0, code)
}

func TestBatchModeWriteSucceedsWithFlag(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	stdout, stderr := tempFile(t, "out"), tempFile(t, "err")
	code := run([]string{"-m", dir, "-w", "-c", "INSERT INTO pets VALUES ('meow')"}, devNull(t), stdout, stderr)
	require.Equal(t, 0, code)

	content, err := os.ReadFile(filepath.Join(dir, "pets.csv"))
	require.NoError(t, err)
	require.Equal(t, "name\nrex\nmeow\n", string(content))
}

func TestCSVOutputWrittenToOutDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))
	outDir := t.TempDir()

	stdout, stderr := tempFile(t, "out"), tempFile(t, "err")
	code := run([]string{"-m", dir, "-o", outDir, "-c", "SELECT name FROM pets"}, devNull(t), stdout, stderr)
	require.Equal(t, 0, code)

	content, err := os.ReadFile(filepath.Join(outDir, "query1.csv"))
	require.NoError(t, err)
	require.Equal(t, "name\nrex\n", string(content))
}

func TestXLSXWithoutOutDirIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.csv"), []byte("name\nrex\n"), 0o644))

	stdout, stderr := tempFile(t, "out"), tempFile(t, "err")
	code := run([]string{"-m", dir, "-p", "xls", "-c", "SELECT name FROM pets"}, devNull(t), stdout, stderr)
	require.NotEqual(t, 0, code)
}
