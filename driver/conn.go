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

package driver

import (
	"context"
	"database/sql/driver"

	"github.com/dolthub/csvsql"
)

// Conn is a single database/sql connection: one csvsql.Session, one
// scratch directory, at most one open transaction.
type Conn struct {
	sess *csvsql.Session
}

// Prepare parses query once so repeated Exec/Query calls against the
// returned Stmt don't reparse it.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

// PrepareContext parses query and returns a Stmt bound to it.
func (c *Conn) PrepareContext(_ context.Context, query string) (driver.Stmt, error) {
	stmt, err := parseOne(query)
	if err != nil {
		return nil, err
	}
	return &Stmt{conn: c, query: query, stmt: stmt}, nil
}

// Close releases the Session's scratch directory and rolls back any open
// transaction.
func (c *Conn) Close() error {
	return c.sess.Close()
}

// Begin starts a transaction via `START TRANSACTION` (§4.10).
func (c *Conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx starts a transaction, ignoring opts: this engine has no
// isolation-level or read-only transaction modes to select between.
func (c *Conn) BeginTx(ctx context.Context, _ driver.TxOptions) (driver.Tx, error) {
	stmt, _ := parseOne("START TRANSACTION")
	if _, err := c.sess.Execute(ctx, stmt, "START TRANSACTION"); err != nil {
		return nil, err
	}
	return &Tx{conn: c, ctx: ctx}, nil
}

// Tx drives the real transaction overlay's Commit/Rollback (§4.10), in
// place of the teacher's no-op fakeTransaction.
type Tx struct {
	conn *Conn
	ctx  context.Context
}

// Commit runs `COMMIT`.
func (t *Tx) Commit() error {
	stmt, _ := parseOne("COMMIT")
	_, err := t.conn.sess.Execute(t.ctx, stmt, "COMMIT")
	return err
}

// Rollback runs `ROLLBACK`.
func (t *Tx) Rollback() error {
	stmt, _ := parseOne("ROLLBACK")
	_, err := t.conn.sess.Execute(t.ctx, stmt, "ROLLBACK")
	return err
}
