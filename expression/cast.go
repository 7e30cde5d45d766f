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

package expression

import (
	"strings"
	"time"

	"github.com/dolthub/csvsql/sql"
)

// TargetType names the handful of target types CAST/TRY_CAST accept.
// Declared CSV column types are otherwise ignored at runtime (dynamic
// typing, §4.9); these are the only types a cast can coerce into.
type TargetType int

const (
	TypeText TargetType = iota
	TypeNumber
	TypeBool
	TypeDate
	TypeTimestamp
)

// Cast implements CAST(expr AS type); failure raises sql.ErrType.
type Cast struct {
	Operand Expression
	Target  TargetType
}

func NewCast(operand Expression, target TargetType) *Cast { return &Cast{operand, target} }

func (c *Cast) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := c.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	out, ok := coerce(v, c.Target)
	if !ok {
		return sql.Value{}, sql.ErrType.New("cannot CAST " + v.CanonicalText() + " to " + targetName(c.Target))
	}
	return out, nil
}

func (c *Cast) String() string { return "CAST(" + c.Operand.String() + " AS " + targetName(c.Target) + ")" }

// TryCast implements TRY_CAST(expr AS type); failure yields Empty.
type TryCast struct {
	Operand Expression
	Target  TargetType
}

func NewTryCast(operand Expression, target TargetType) *TryCast { return &TryCast{operand, target} }

func (c *TryCast) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := c.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	out, ok := coerce(v, c.Target)
	if !ok {
		return sql.NewEmpty(), nil
	}
	return out, nil
}

func (c *TryCast) String() string {
	return "TRY_CAST(" + c.Operand.String() + " AS " + targetName(c.Target) + ")"
}

func targetName(t TargetType) string {
	switch t {
	case TypeText:
		return "TEXT"
	case TypeNumber:
		return "NUMBER"
	case TypeBool:
		return "BOOL"
	case TypeDate:
		return "DATE"
	case TypeTimestamp:
		return "TIMESTAMP"
	}
	return "UNKNOWN"
}

func coerce(v sql.Value, target TargetType) (sql.Value, bool) {
	if v.IsEmpty() {
		return sql.NewEmpty(), true
	}
	switch target {
	case TypeText:
		return sql.NewText(v.CanonicalText()), true
	case TypeNumber:
		n, ok := v.AsNumber()
		if !ok {
			return sql.Value{}, false
		}
		return sql.NewNumber(n), true
	case TypeBool:
		switch v.Kind() {
		case sql.BoolKind:
			return v, true
		case sql.TextKind:
			s, _ := v.Text()
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true", "1":
				return sql.NewBool(true), true
			case "false", "0":
				return sql.NewBool(false), true
			}
			return sql.Value{}, false
		case sql.NumberKind:
			n, _ := v.Number()
			return sql.NewBool(!n.IsZero()), true
		}
		return sql.Value{}, false
	case TypeDate:
		switch v.Kind() {
		case sql.DateKind:
			return v, true
		case sql.TimestampKind:
			t, _ := v.Timestamp()
			return sql.NewDate(t), true
		case sql.TextKind:
			s, _ := v.Text()
			t, err := time.Parse(sql.DateLayout, strings.TrimSpace(s))
			if err != nil {
				return sql.Value{}, false
			}
			return sql.NewDate(t), true
		}
		return sql.Value{}, false
	case TypeTimestamp:
		switch v.Kind() {
		case sql.TimestampKind:
			return v, true
		case sql.DateKind:
			t, _ := v.Date()
			return sql.NewTimestamp(t), true
		case sql.TextKind:
			s, _ := v.Text()
			s = strings.TrimSpace(s)
			if t, err := time.Parse(sql.TimestampLayout, s); err == nil {
				return sql.NewTimestamp(t), true
			}
			if t, err := time.Parse(sql.DateLayout, s); err == nil {
				return sql.NewTimestamp(t), true
			}
			return sql.Value{}, false
		}
		return sql.Value{}, false
	}
	return sql.Value{}, false
}
