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

// Package driver exposes the engine as a standard database/sql driver:
// sql.Open("csvsql", homeDir) opens a Conn backed by its own csvsql.Engine
// Session, so anything written against database/sql can drive the same
// CSV tables the CLI does.
package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net/url"
	"os"
	"strings"

	"github.com/dolthub/csvsql"
	"github.com/dolthub/csvsql/audit"
)

func init() {
	sql.Register("csvsql", &Driver{})
}

// Driver opens Conns backed by a csvsql.Engine. Audit, if set, is shared
// across every Conn this Driver opens.
type Driver struct {
	Audit *audit.Log
}

// Open returns a new connection to the database named by dsn.
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	connector, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector parses dsn and returns a reusable Connector.
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	opts, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return &Connector{driver: d, opts: opts}, nil
}

// dsnOptions is what a DSN of the form `<homeDir>[?write=1&headerless=1&tmp=<dir>]`
// carries: the `-m`/`-w`/`-f` CLI flags (§6), restated as connection
// parameters since database/sql has no flag parser of its own.
type dsnOptions struct {
	homeDir    string
	tmpRoot    string
	writeMode  bool
	headerless bool
}

func parseDSN(dsn string) (dsnOptions, error) {
	path, query, _ := strings.Cut(dsn, "?")
	values, err := url.ParseQuery(query)
	if err != nil {
		return dsnOptions{}, err
	}

	opts := dsnOptions{
		homeDir:    path,
		tmpRoot:    values.Get("tmp"),
		writeMode:  values.Get("write") == "1",
		headerless: values.Get("headerless") == "1",
	}
	if opts.tmpRoot == "" {
		opts.tmpRoot = os.TempDir()
	}
	return opts, nil
}

// Connector holds a fixed DSN configuration and can open any number of
// equivalent Conns, each with its own csvsql.Session (and so its own
// scratch directory and transaction state, per §5).
type Connector struct {
	driver *Driver
	opts   dsnOptions
}

// Driver returns the Connector's parent Driver.
func (c *Connector) Driver() driver.Driver { return c.driver }

// Connect opens a new Session-backed Conn.
func (c *Connector) Connect(context.Context) (driver.Conn, error) {
	engine := csvsql.New(c.driver.Audit)
	sess, err := engine.NewSession(c.opts.homeDir, c.opts.tmpRoot, c.opts.writeMode, c.opts.headerless)
	if err != nil {
		return nil, err
	}
	return &Conn{sess: sess}, nil
}
