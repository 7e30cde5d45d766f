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

import (
	"context"
	"sync/atomic"
)

// Context carries a single statement's execution state: the standard
// context.Context for deadlines/values, the query text being run (for
// audit logging) and a cooperative cancel flag checked at row boundaries
// by every streaming operator, per §5.
type Context struct {
	context.Context
	query      string
	cancelled  atomic.Bool
	pid        uint64
}

// NewContext wraps parent in a Context for executing query.
func NewContext(parent context.Context, query string, pid uint64) *Context {
	if parent == nil {
		parent = context.Background()
	}
	return &Context{Context: parent, query: query, pid: pid}
}

// Query returns the statement text this Context was created for.
func (c *Context) Query() string { return c.query }

// Pid returns the process id assigned to this statement's execution, used
// for ProcessList-style bookkeeping and audit logging.
func (c *Context) Pid() uint64 { return c.pid }

// Cancel requests cooperative cancellation. The running statement observes
// this at its next row boundary and aborts with ErrCancelled.
func (c *Context) Cancel() { c.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called for this statement.
func (c *Context) Cancelled() bool { return c.cancelled.Load() }
