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

// Package aggregation implements the incremental aggregators of C4:
// COUNT, SUM, AVG, MIN, MAX, ANY_VALUE, each wrapped in a fresh Buffer per
// group, plus a DISTINCT decorator. Every aggregator but COUNT(*) skips
// Empty inputs (§4.4).
package aggregation

import (
	"github.com/shopspring/decimal"

	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/sql"
)

// Buffer accumulates one group's worth of input for one aggregate call.
type Buffer interface {
	Accumulate(ctx *sql.Context, v sql.Value) error
	Finalize() (sql.Value, error)
}

// Aggregation is a planner-bound aggregate call: an input expression and a
// factory for fresh per-group Buffers.
type Aggregation interface {
	Input() expression.Expression
	NewBuffer() Buffer
	String() string
}

// Names lists every function this package recognizes as an aggregate, used
// by the planner to classify SELECT/HAVING/ORDER expressions as aggregate
// vs. scalar (§4.3).
var Names = map[string]bool{
	"COUNT":     true,
	"SUM":       true,
	"AVG":       true,
	"MIN":       true,
	"MAX":       true,
	"ANY_VALUE": true,
}

// DistinctCapable lists the aggregates that accept COUNT(DISTINCT ...)
// style wrapping; §4.3 rejects DISTINCT on aggregates that don't define it.
var DistinctCapable = map[string]bool{
	"COUNT": true,
	"SUM":   true,
	"AVG":   true,
}

// --- COUNT ---------------------------------------------------------------

// Count implements COUNT(expr) and, when Star is set, COUNT(*) (which
// counts rows and does not skip Empty).
type Count struct {
	Expr expression.Expression
	Star bool
}

func NewCount(expr expression.Expression, star bool) *Count { return &Count{Expr: expr, Star: star} }

func (c *Count) Input() expression.Expression { return c.Expr }
func (c *Count) NewBuffer() Buffer            { return &countBuffer{star: c.Star} }
func (c *Count) String() string {
	if c.Star {
		return "COUNT(*)"
	}
	return "COUNT(...)"
}

type countBuffer struct {
	star  bool
	count int64
}

func (b *countBuffer) Accumulate(ctx *sql.Context, v sql.Value) error {
	if b.star || !v.IsEmpty() {
		b.count++
	}
	return nil
}

func (b *countBuffer) Finalize() (sql.Value, error) {
	return sql.NewNumber(decimal.NewFromInt(b.count)), nil
}

// --- SUM -------------------------------------------------------------------

type Sum struct{ Expr expression.Expression }

func NewSum(expr expression.Expression) *Sum { return &Sum{Expr: expr} }

func (s *Sum) Input() expression.Expression { return s.Expr }
func (s *Sum) NewBuffer() Buffer            { return &sumBuffer{} }
func (s *Sum) String() string               { return "SUM(...)" }

type sumBuffer struct {
	sum  decimal.Decimal
	seen bool
}

func (b *sumBuffer) Accumulate(ctx *sql.Context, v sql.Value) error {
	if v.IsEmpty() {
		return nil
	}
	n, ok := v.AsNumber()
	if !ok {
		return nil
	}
	b.sum = b.sum.Add(n)
	b.seen = true
	return nil
}

func (b *sumBuffer) Finalize() (sql.Value, error) {
	if !b.seen {
		return sql.NewEmpty(), nil
	}
	return sql.NewNumber(b.sum), nil
}

// --- AVG ---------------------------------------------------------------

type Avg struct{ Expr expression.Expression }

func NewAvg(expr expression.Expression) *Avg { return &Avg{Expr: expr} }

func (a *Avg) Input() expression.Expression { return a.Expr }
func (a *Avg) NewBuffer() Buffer            { return &avgBuffer{} }
func (a *Avg) String() string               { return "AVG(...)" }

type avgBuffer struct {
	sum   decimal.Decimal
	count int64
}

func (b *avgBuffer) Accumulate(ctx *sql.Context, v sql.Value) error {
	if v.IsEmpty() {
		return nil
	}
	n, ok := v.AsNumber()
	if !ok {
		return nil
	}
	b.sum = b.sum.Add(n)
	b.count++
	return nil
}

func (b *avgBuffer) Finalize() (sql.Value, error) {
	if b.count == 0 {
		return sql.NewEmpty(), nil
	}
	return sql.NewNumber(b.sum.DivRound(decimal.NewFromInt(b.count), 20)), nil
}

// --- MIN / MAX -----------------------------------------------------------

type extremeKind int

const (
	extremeMin extremeKind = iota
	extremeMax
)

type Min struct{ Expr expression.Expression }
type Max struct{ Expr expression.Expression }

func NewMin(expr expression.Expression) *Min { return &Min{Expr: expr} }
func NewMax(expr expression.Expression) *Max { return &Max{Expr: expr} }

func (m *Min) Input() expression.Expression { return m.Expr }
func (m *Min) NewBuffer() Buffer            { return &extremeBuffer{kind: extremeMin} }
func (m *Min) String() string               { return "MIN(...)" }

func (m *Max) Input() expression.Expression { return m.Expr }
func (m *Max) NewBuffer() Buffer            { return &extremeBuffer{kind: extremeMax} }
func (m *Max) String() string               { return "MAX(...)" }

type extremeBuffer struct {
	kind extremeKind
	best sql.Value
	seen bool
}

func (b *extremeBuffer) Accumulate(ctx *sql.Context, v sql.Value) error {
	if v.IsEmpty() {
		return nil
	}
	if !b.seen {
		b.best, b.seen = v, true
		return nil
	}
	switch b.kind {
	case extremeMin:
		if sql.Less(v, b.best, false) {
			b.best = v
		}
	case extremeMax:
		if sql.Less(b.best, v, false) {
			b.best = v
		}
	}
	return nil
}

func (b *extremeBuffer) Finalize() (sql.Value, error) {
	if !b.seen {
		return sql.NewEmpty(), nil
	}
	return b.best, nil
}

// --- ANY_VALUE -------------------------------------------------------------

type AnyValue struct{ Expr expression.Expression }

func NewAnyValue(expr expression.Expression) *AnyValue { return &AnyValue{Expr: expr} }

func (a *AnyValue) Input() expression.Expression { return a.Expr }
func (a *AnyValue) NewBuffer() Buffer            { return &anyValueBuffer{} }
func (a *AnyValue) String() string               { return "ANY_VALUE(...)" }

type anyValueBuffer struct {
	val  sql.Value
	seen bool
}

func (b *anyValueBuffer) Accumulate(ctx *sql.Context, v sql.Value) error {
	if !b.seen && !v.IsEmpty() {
		b.val, b.seen = v, true
	}
	return nil
}

func (b *anyValueBuffer) Finalize() (sql.Value, error) {
	if !b.seen {
		return sql.NewEmpty(), nil
	}
	return b.val, nil
}

// --- DISTINCT decorator ----------------------------------------------------

// Distinct wraps an inner Aggregation so only the first occurrence of each
// canonical-text input value reaches the wrapped aggregator, implementing
// COUNT(DISTINCT x), SUM(DISTINCT x), AVG(DISTINCT x).
type Distinct struct {
	Inner Aggregation
}

func NewDistinct(inner Aggregation) *Distinct { return &Distinct{Inner: inner} }

func (d *Distinct) Input() expression.Expression { return d.Inner.Input() }
func (d *Distinct) NewBuffer() Buffer {
	return &distinctBuffer{seen: map[string]bool{}, inner: d.Inner.NewBuffer()}
}
func (d *Distinct) String() string { return "DISTINCT " + d.Inner.String() }

type distinctBuffer struct {
	seen  map[string]bool
	inner Buffer
}

func (b *distinctBuffer) Accumulate(ctx *sql.Context, v sql.Value) error {
	if v.IsEmpty() {
		return nil
	}
	key := v.CanonicalText()
	if b.seen[key] {
		return nil
	}
	b.seen[key] = true
	return b.inner.Accumulate(ctx, v)
}

func (b *distinctBuffer) Finalize() (sql.Value, error) { return b.inner.Finalize() }
