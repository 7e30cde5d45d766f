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

// Package sql defines the core row, schema and value types shared by every
// layer of the engine: the parser hands back statements that reference
// column names, the planner turns those into a tree of Nodes, and Nodes
// stream Rows of Values to whatever consumes them.
package sql

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// Empty is the sole null-like sentinel. There is exactly one Empty
	// value; it compares equal only to itself.
	Empty Kind = iota
	BoolKind
	NumberKind
	TextKind
	DateKind
	TimestampKind
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case BoolKind:
		return "bool"
	case NumberKind:
		return "number"
	case TextKind:
		return "text"
	case DateKind:
		return "date"
	case TimestampKind:
		return "timestamp"
	default:
		return "unknown"
	}
}

// typeRank orders Kinds for cross-type ORDER BY comparisons: Bool < Number <
// Text < Date < Timestamp. Empty is handled separately and always sorts
// first regardless of direction.
var typeRank = map[Kind]int{
	BoolKind:      0,
	NumberKind:    1,
	TextKind:      2,
	DateKind:      3,
	TimestampKind: 4,
}

// DateLayout and TimestampLayout are the canonical (ISO-8601) text
// renderings for Date and Timestamp values, civil (zone-less) by design.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05"
)

// Value is a tagged scalar: Empty, Bool, Number (arbitrary-precision
// decimal), Text, Date or Timestamp. The zero Value is Empty.
type Value struct {
	kind Kind
	b    bool
	n    decimal.Decimal
	s    string
	t    time.Time
}

// NewEmpty returns the sole Empty sentinel value.
func NewEmpty() Value { return Value{kind: Empty} }

// NewBool wraps a bool.
func NewBool(b bool) Value { return Value{kind: BoolKind, b: b} }

// NewNumber wraps an arbitrary-precision decimal.
func NewNumber(n decimal.Decimal) Value { return Value{kind: NumberKind, n: n} }

// NewText wraps a string.
func NewText(s string) Value { return Value{kind: TextKind, s: s} }

// NewDate wraps a civil date. Only the year/month/day components matter;
// any time-of-day component is discarded.
func NewDate(t time.Time) Value {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Value{kind: DateKind, t: d}
}

// NewTimestamp wraps a civil (zone-less) date-time.
func NewTimestamp(t time.Time) Value {
	ts := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return Value{kind: TimestampKind, t: ts}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the Empty sentinel.
func (v Value) IsEmpty() bool { return v.kind == Empty }

// IsTrue is the single point of truth for "is this value usable as a
// passing predicate": only Bool(true) passes. Empty and every non-Bool
// value are treated as not-true everywhere (WHERE, HAVING, WHEN, JOIN ON).
func (v Value) IsTrue() bool { return v.kind == BoolKind && v.b }

// Bool returns the wrapped bool and whether v actually holds one.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == BoolKind }

// Number returns the wrapped decimal and whether v actually holds one.
func (v Value) Number() (decimal.Decimal, bool) { return v.n, v.kind == NumberKind }

// Text returns the wrapped string and whether v actually holds one.
func (v Value) Text() (string, bool) { return v.s, v.kind == TextKind }

// Date returns the wrapped civil date and whether v actually holds one.
func (v Value) Date() (time.Time, bool) { return v.t, v.kind == DateKind }

// Timestamp returns the wrapped civil timestamp and whether v actually holds one.
func (v Value) Timestamp() (time.Time, bool) { return v.t, v.kind == TimestampKind }

// AsNumber coerces v to a Number if possible: Number values pass through,
// numeric-parseable Text is parsed, everything else fails.
func (v Value) AsNumber() (decimal.Decimal, bool) {
	switch v.kind {
	case NumberKind:
		return v.n, true
	case TextKind:
		n, err := decimal.NewFromString(strings.TrimSpace(v.s))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return n, true
	default:
		return decimal.Decimal{}, false
	}
}

// CanonicalText renders v the way grouping, DISTINCT and ORDER BY tuple
// keys compare it: minimal-trailing-zero decimal, ISO-8601 date/time,
// literal true/false, unquoted text, empty string for Empty.
func (v Value) CanonicalText() string {
	switch v.kind {
	case Empty:
		return ""
	case BoolKind:
		if v.b {
			return "true"
		}
		return "false"
	case NumberKind:
		return trimTrailingZeros(v.n)
	case TextKind:
		return v.s
	case DateKind:
		return v.t.Format(DateLayout)
	case TimestampKind:
		return v.t.Format(TimestampLayout)
	default:
		return ""
	}
}

// String implements fmt.Stringer with the same canonical rendering used for
// grouping keys; it also doubles as the "format for display" path used by
// the CSV/text/JSON/XLSX renderers.
func (v Value) String() string { return v.CanonicalText() }

func trimTrailingZeros(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
