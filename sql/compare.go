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

// Equals implements the §4.1 equality rule: same-type values compare
// natively; Empty equals only Empty; numeric Text compares to Number by
// parsing; any other cross-type pairing yields Empty (not false).
func Equals(a, b Value) Value {
	if a.kind == Empty || b.kind == Empty {
		return NewBool(a.kind == Empty && b.kind == Empty)
	}
	if a.kind == b.kind {
		switch a.kind {
		case BoolKind:
			return NewBool(a.b == b.b)
		case NumberKind:
			return NewBool(a.n.Equal(b.n))
		case TextKind:
			return NewBool(a.s == b.s)
		case DateKind, TimestampKind:
			return NewBool(a.t.Equal(b.t))
		}
	}
	if an, ok := a.AsNumber(); ok {
		if bn, ok := b.AsNumber(); ok {
			return NewBool(an.Equal(bn))
		}
	}
	return NewEmpty()
}

// Compare orders a and b within a single type class for ORDER BY purposes.
// ok is false when the two values are not comparable (different type
// classes that aren't both numeric-coercible).
func Compare(a, b Value) (cmp int, ok bool) {
	if a.kind == Empty && b.kind == Empty {
		return 0, true
	}
	if a.kind == Empty {
		return -1, true
	}
	if b.kind == Empty {
		return 1, true
	}
	if a.kind == b.kind {
		switch a.kind {
		case BoolKind:
			return boolCmp(a.b, b.b), true
		case NumberKind:
			return a.n.Cmp(b.n), true
		case TextKind:
			return stringCmp(a.s, b.s), true
		case DateKind, TimestampKind:
			if a.t.Equal(b.t) {
				return 0, true
			} else if a.t.Before(b.t) {
				return -1, true
			}
			return 1, true
		}
	}
	if an, ok := a.AsNumber(); ok {
		if bn, ok := b.AsNumber(); ok {
			return an.Cmp(bn), true
		}
	}
	ra, aok := typeRank[a.kind]
	rb, bok := typeRank[b.kind]
	if aok && bok {
		if ra == rb {
			return 0, true
		} else if ra < rb {
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func boolCmp(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func stringCmp(a, b string) int {
	switch {
	case a == b:
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}

// Less reports whether a sorts before b under ORDER BY semantics (Empty
// first, then type-class order, then natural order), applying desc to
// reverse everything except the Empty-first rule.
func Less(a, b Value, desc bool) bool {
	if a.kind == Empty || b.kind == Empty {
		// Empty always sorts first irrespective of direction.
		if a.kind == b.kind {
			return false
		}
		return a.kind == Empty
	}
	c, ok := Compare(a, b)
	if !ok {
		return false
	}
	if desc {
		c = -c
	}
	return c < 0
}
