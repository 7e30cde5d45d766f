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

// Package audit narrows the teacher's network-auth audit trail down to
// what an embedded, single-user CLI needs: a structured log line per
// statement the dispatcher executes. There is no authentication or
// authorization surface here (no network listener, no user accounts), so
// the teacher's Authentication/Authorization hooks have no analogue —
// only the Query hook survives, rewired to this engine's own sql.Context.
package audit

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/csvsql/sql"
)

const logMessage = "statement executed"

// Log records one statement's execution to a logrus.Logger: the statement
// text, how long it ran, how many rows it produced, and its error (if
// any). Interactive mode logs at Info; parse/bind/exec failures at Warn.
type Log struct {
	entry *logrus.Entry
}

// New returns a Log writing through l, tagged with system=audit so it can
// be filtered independently of the rest of the engine's log output.
func New(l *logrus.Logger) *Log {
	return &Log{entry: l.WithField("system", "audit")}
}

// Statement logs ctx's query, its duration, the number of rows it
// produced, and err (nil on success).
func (a *Log) Statement(ctx *sql.Context, d time.Duration, rows int, err error) {
	fields := logrus.Fields{
		"query":    ctx.Query(),
		"pid":      ctx.Pid(),
		"duration": d,
		"rows":     rows,
		"success":  err == nil,
	}
	if err != nil {
		fields["err"] = err
		a.entry.WithFields(fields).Warn(logMessage)
		return
	}
	a.entry.WithFields(fields).Info(logMessage)
}
