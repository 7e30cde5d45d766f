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

package plan

import "github.com/dolthub/csvsql/sql"

// Offset discards the first n rows of its child's stream (§4.8).
type Offset struct {
	Child sql.Node
	N     int64
}

func NewOffset(child sql.Node, n int64) *Offset { return &Offset{Child: child, N: n} }

func (o *Offset) Schema() sql.Schema { return o.Child.Schema() }

func (o *Offset) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	iter, err := o.Child.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	return &offsetIter{child: iter, remaining: o.N}, nil
}

type offsetIter struct {
	child     sql.RowIter
	remaining int64
}

func (it *offsetIter) Next(ctx *sql.Context) (sql.Row, error) {
	for it.remaining > 0 {
		if ctx.Cancelled() {
			return nil, sql.ErrCancelled.New()
		}
		if _, err := it.child.Next(ctx); err != nil {
			return nil, err
		}
		it.remaining--
	}
	return it.child.Next(ctx)
}

func (it *offsetIter) Close(ctx *sql.Context) error { return it.child.Close(ctx) }

// Limit caps its child's stream to at most N rows (§4.8).
type Limit struct {
	Child sql.Node
	N     int64
}

func NewLimit(child sql.Node, n int64) *Limit { return &Limit{Child: child, N: n} }

func (l *Limit) Schema() sql.Schema { return l.Child.Schema() }

func (l *Limit) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	iter, err := l.Child.RowIter(ctx)
	if err != nil {
		return nil, err
	}
	return &limitIter{child: iter, remaining: l.N}, nil
}

type limitIter struct {
	child     sql.RowIter
	remaining int64
}

func (it *limitIter) Next(ctx *sql.Context) (sql.Row, error) {
	if it.remaining <= 0 {
		return nil, sql.EOF
	}
	if ctx.Cancelled() {
		return nil, sql.ErrCancelled.New()
	}
	row, err := it.child.Next(ctx)
	if err != nil {
		return nil, err
	}
	it.remaining--
	return row, nil
}

func (it *limitIter) Close(ctx *sql.Context) error { return it.child.Close(ctx) }
