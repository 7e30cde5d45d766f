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

// Package catalog maps dotted table names to CSV file paths (spec §4.5,
// C5) and is the façade the rest of the engine goes through for every
// persistent-table path: it is the only package that knows whether a
// transaction overlay (txn.Transaction) is open, so operators and the DDL
// executor never have to.
package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dolthub/csvsql/sql"
	"github.com/dolthub/csvsql/txn"
)

// Catalog is the process-wide state owned by a Session: home directory,
// write mode, scratch directory for temp tables, the current navigation
// directory (moved by USE) and, while one is open, the active transaction.
type Catalog struct {
	HomeDir        string
	CurrentDir     string
	ScratchDir     string
	WriteMode      bool
	HeaderlessMode bool // -f: CSV files have no header row; columns are Excel-named

	TempTables map[string]string // dotted name, as given -> absolute path
	Tx         *txn.Transaction
}

// New returns a Catalog rooted at homeDir, with a fresh scratch directory
// for temp tables created under tmpRoot.
func New(homeDir, tmpRoot string, writeMode bool) (*Catalog, error) {
	absHome, err := filepath.Abs(homeDir)
	if err != nil {
		return nil, err
	}
	scratch, err := os.MkdirTemp(tmpRoot, "csvsql-scratch-")
	if err != nil {
		return nil, err
	}
	return &Catalog{
		HomeDir:    absHome,
		CurrentDir: absHome,
		ScratchDir: scratch,
		WriteMode:  writeMode,
		TempTables: map[string]string{},
	}, nil
}

// Close removes the scratch directory and any open transaction's staging
// directory, per invariant 6 (graceful exit).
func (c *Catalog) Close() error {
	if c.Tx != nil {
		c.Tx.Rollback()
		c.Tx = nil
	}
	return os.RemoveAll(c.ScratchDir)
}

// splitName splits a dotted identifier into its parts. Identifier matching
// is byte-exact; no case folding is performed anywhere.
func splitName(name string) []string {
	return strings.Split(name, ".")
}

// Use navigates CurrentDir per §4.5: each dotted component descends into a
// subdirectory, except a leading "$" which means parent directory. USE $
// from the home directory is treated as a no-op rather than an error.
func (c *Catalog) Use(name string) error {
	dir := c.CurrentDir
	for _, part := range splitName(name) {
		if part == "$" {
			parent := filepath.Dir(dir)
			if len(parent) >= len(dir) || !strings.HasPrefix(dir, c.HomeDir) {
				continue
			}
			if dir == c.HomeDir {
				continue // no-op: already at the root
			}
			dir = parent
			continue
		}
		dir = filepath.Join(dir, part)
	}
	c.CurrentDir = dir
	return nil
}

// ResolvedTable is everything the rest of the engine needs to read or
// write a table: the path to actually open, and whether it is a temp
// table (temp tables are never subject to the transaction overlay).
type ResolvedTable struct {
	Name     string // the dotted name as given
	Path     string // path to read right now (staged copy, real file, or scratch file)
	RelPath  string // path relative to HomeDir, used as the txn staging key
	IsTemp   bool
	IsStaged bool
}

// relPath computes the path of a persistent table name relative to
// HomeDir, honoring the current USE directory.
func (c *Catalog) relPath(name string) string {
	full := filepath.Join(c.CurrentDir, filepath.Join(splitName(name)...)+".csv")
	rel, err := filepath.Rel(c.HomeDir, full)
	if err != nil {
		return full
	}
	return rel
}

// Resolve locates name for reading: temp tables first (by exact dotted
// string), then persistent tables, preferring a transaction's staged copy
// when one is open.
func (c *Catalog) Resolve(name string) (ResolvedTable, error) {
	if path, ok := c.TempTables[name]; ok {
		return ResolvedTable{Name: name, Path: path, IsTemp: true}, nil
	}

	rel := c.relPath(name)
	if c.Tx != nil {
		if c.Tx.IsDeleted(rel) {
			return ResolvedTable{}, sql.ErrTableNotFound.New(name)
		}
		path, err := c.Tx.ReadPath(rel)
		if err != nil {
			return ResolvedTable{}, err
		}
		if !fileExists(path) {
			return ResolvedTable{}, sql.ErrTableNotFound.New(name)
		}
		return ResolvedTable{Name: name, Path: path, RelPath: rel, IsStaged: path != filepath.Join(c.HomeDir, rel)}, nil
	}

	path := filepath.Join(c.HomeDir, rel)
	if !fileExists(path) {
		return ResolvedTable{}, sql.ErrTableNotFound.New(name)
	}
	return ResolvedTable{Name: name, Path: path, RelPath: rel}, nil
}

// ResolveForWrite locates name for writing (INSERT/UPDATE/DELETE/ALTER on
// an existing table): same rules as Resolve, but existence is not
// required (callers that create new files check that themselves) and a
// transaction's staging copy is seeded copy-on-first-write.
func (c *Catalog) ResolveForWrite(name string) (ResolvedTable, error) {
	if path, ok := c.TempTables[name]; ok {
		return ResolvedTable{Name: name, Path: path, IsTemp: true}, nil
	}

	rel := c.relPath(name)
	if c.Tx != nil {
		path, err := c.Tx.WritePath(rel)
		if err != nil {
			return ResolvedTable{}, err
		}
		return ResolvedTable{Name: name, Path: path, RelPath: rel, IsStaged: true}, nil
	}

	return ResolvedTable{Name: name, Path: filepath.Join(c.HomeDir, rel), RelPath: rel}, nil
}

// Exists reports whether name currently resolves to a file (temp or
// persistent, staged or real).
func (c *Catalog) Exists(name string) bool {
	_, err := c.Resolve(name)
	return err == nil
}

// CreateTempTable registers a new temp table at a fresh scratch path and
// returns it. Creating an existing temp table name is an error.
func (c *Catalog) CreateTempTable(name string) (string, error) {
	if _, ok := c.TempTables[name]; ok {
		return "", sql.ErrTableAlreadyExists.New(name)
	}
	f, err := os.CreateTemp(c.ScratchDir, "t-*.csv")
	if err != nil {
		return "", err
	}
	path := f.Name()
	f.Close()
	c.TempTables[name] = path
	return path, nil
}

// DropTempTable removes a temp table's backing file and unregisters it.
func (c *Catalog) DropTempTable(name string) error {
	path, ok := c.TempTables[name]
	if !ok {
		return sql.ErrTableNotFound.New(name)
	}
	delete(c.TempTables, name)
	return os.Remove(path)
}

// DeletePersistent stages name for deletion (DROP TABLE on a persistent
// table): inside a transaction this is a tombstone resolved at commit,
// outside one the file is removed immediately.
func (c *Catalog) DeletePersistent(name string) error {
	rel := c.relPath(name)
	if c.Tx != nil {
		return c.Tx.DeletePath(rel)
	}
	return os.Remove(filepath.Join(c.HomeDir, rel))
}

// BeginTx opens a new transaction rooted at this catalog's HomeDir. Only
// one transaction may be open per session (invariant 1).
func (c *Catalog) BeginTx() error {
	if c.Tx != nil {
		return sql.ErrTransaction.New("a transaction is already open")
	}
	t, err := txn.Begin(c.HomeDir, c.ScratchDir)
	if err != nil {
		return err
	}
	c.Tx = t
	return nil
}

// Commit commits the open transaction; write mode is required (checked by
// the caller before hashing begins, per §4.10's last sentence).
func (c *Catalog) Commit() error {
	if c.Tx == nil {
		return sql.ErrTransaction.New("no transaction is open")
	}
	err := c.Tx.Commit()
	c.Tx = nil
	return err
}

// Rollback discards the open transaction's staging directory.
func (c *Catalog) Rollback() error {
	if c.Tx == nil {
		return sql.ErrTransaction.New("no transaction is open")
	}
	err := c.Tx.Rollback()
	c.Tx = nil
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
