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

// Package txn implements the staging-directory, hash-log, copy-on-write
// overlay described in spec §4.10 (C10). It knows nothing about SQL,
// tables or the catalog — only relative paths under a home directory and
// a staging mirror of them. The catalog package is the thin façade that
// delegates path resolution through a Transaction so that the rest of the
// engine never learns transactions exist.
package txn

import (
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Transaction is the overlay state opened by START TRANSACTION: a staging
// directory mirroring relative paths under homeDir, a log of file hashes
// observed at first read, and the set of paths that have been staged.
type Transaction struct {
	homeDir    string
	stagingDir string

	readHashes   map[string][32]byte
	stagedPaths  map[string]bool
	deletedPaths map[string]bool
	stagedOrder  []string
}

// Begin creates a fresh staging directory under tmpRoot and returns an open
// Transaction rooted at homeDir.
func Begin(homeDir, tmpRoot string) (*Transaction, error) {
	stagingDir, err := os.MkdirTemp(tmpRoot, "csvsql-txn-")
	if err != nil {
		return nil, errors.Wrap(err, "unable to create staging directory")
	}
	return &Transaction{
		homeDir:     homeDir,
		stagingDir:  stagingDir,
		readHashes:  map[string][32]byte{},
		stagedPaths: map[string]bool{},
	}, nil
}

// StagingDir returns the transaction's staging root, for diagnostics.
func (t *Transaction) StagingDir() string { return t.stagingDir }

// IsDeleted reports whether rel has been staged for deletion in this
// transaction (a DROP TABLE not yet committed).
func (t *Transaction) IsDeleted(rel string) bool { return t.deletedPaths[rel] }

func (t *Transaction) stagedPath(rel string) string {
	return filepath.Join(t.stagingDir, rel)
}

func (t *Transaction) realPath(rel string) string {
	return filepath.Join(t.homeDir, rel)
}

// ReadPath returns the path a reader of the persistent table at rel should
// actually open: the staged copy if one exists, else the real file. It
// records the real file's hash the first time rel is read, per invariant 3.
func (t *Transaction) ReadPath(rel string) (string, error) {
	staged := t.stagedPath(rel)
	if _, err := os.Stat(staged); err == nil {
		return staged, nil
	}

	real := t.realPath(rel)
	if _, ok := t.readHashes[rel]; !ok {
		h, err := hashFile(real)
		if err != nil {
			return "", err
		}
		t.readHashes[rel] = h
	}
	return real, nil
}

// WritePath returns the staging path a writer of rel should write to,
// copying the current real (or already-staged) bytes over first if rel has
// not yet been staged in this transaction (copy-on-first-write).
func (t *Transaction) WritePath(rel string) (string, error) {
	staged := t.stagedPath(rel)
	if !t.stagedPaths[rel] {
		if err := os.MkdirAll(filepath.Dir(staged), 0o755); err != nil {
			return "", errors.Wrap(err, "unable to create staging directory")
		}
		real := t.realPath(rel)
		if _, err := os.Stat(real); err == nil {
			if err := copyFile(real, staged); err != nil {
				return "", errors.Wrap(err, "unable to seed staging copy")
			}
		}
		t.stagedPaths[rel] = true
		t.stagedOrder = append(t.stagedOrder, rel)
	}
	return staged, nil
}

// DeletePath records rel as staged-for-deletion, used by DROP TABLE inside
// a transaction: the staged copy (if any) is removed and a tombstone is
// recorded so Commit removes the real file instead of leaving it alone.
func (t *Transaction) DeletePath(rel string) error {
	os.Remove(t.stagedPath(rel))
	if t.deletedPaths == nil {
		t.deletedPaths = map[string]bool{}
	}
	t.deletedPaths[rel] = true
	if !t.stagedPaths[rel] {
		t.stagedPaths[rel] = true
		t.stagedOrder = append(t.stagedOrder, rel)
	}
	return nil
}

// Commit re-hashes every path recorded in readHashes and compares it
// against the hash observed at first read; any mismatch aborts with a
// conflict and leaves the staging directory intact for diagnostics. On
// success every staged path is renamed into place (temp-file-plus-rename)
// in the order it was first staged, then the staging directory is removed.
func (t *Transaction) Commit() error {
	for rel, want := range t.readHashes {
		got, err := hashFile(t.realPath(rel))
		if err != nil {
			return errors.Wrapf(err, "re-reading %s at commit", rel)
		}
		if got != want {
			return errors.Errorf("transaction conflict: %s changed since it was read", rel)
		}
	}

	for _, rel := range t.stagedOrder {
		if t.deletedPaths[rel] {
			if err := os.Remove(t.realPath(rel)); err != nil && !os.IsNotExist(err) {
				return errors.Wrapf(err, "removing %s", rel)
			}
			continue
		}
		if err := promote(t.stagedPath(rel), t.realPath(rel)); err != nil {
			return errors.Wrapf(err, "promoting %s", rel)
		}
	}

	return os.RemoveAll(t.stagingDir)
}

// Rollback deletes the staging directory unconditionally, leaving
// persistent files untouched.
func (t *Transaction) Rollback() error {
	return os.RemoveAll(t.stagingDir)
}

func hashFile(path string) ([32]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// A file that doesn't exist yet hashes as the zero digest;
			// its "no bytes observed" state is still a valid baseline.
			return sha256.Sum256(nil), nil
		}
		return [32]byte{}, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return [32]byte{}, err
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), ".tmp-copy-*")
	if err != nil {
		return err
	}
	tmpName := out.Name()
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmpName)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, dst)
}

func promote(stagedPath, realPath string) error {
	if err := os.MkdirAll(filepath.Dir(realPath), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(stagedPath); err != nil {
		if os.IsNotExist(err) {
			// Staged-for-write but never actually written (e.g. a DROP
			// inside a transaction): nothing to promote.
			return nil
		}
		return err
	}
	return os.Rename(stagedPath, realPath)
}
