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
	"time"

	"github.com/shopspring/decimal"

	"github.com/dolthub/csvsql/sql"
)

// DatePart names the field EXTRACT pulls out of a Date/Timestamp.
type DatePart int

const (
	PartYear DatePart = iota
	PartMonth
	PartDay
	PartHour
	PartMinute
	PartSecond
	PartQuarter
	PartWeek
)

// Extract implements EXTRACT(part FROM expr), §4.3. quarter on a
// text-origin Date that never actually parsed into a Date/Timestamp value
// yields Empty, since there is no date to extract a quarter from.
type Extract struct {
	Part    DatePart
	Operand Expression
}

func NewExtract(part DatePart, operand Expression) *Extract { return &Extract{part, operand} }

func (e *Extract) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	v, err := e.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}

	switch v.Kind() {
	case sql.DateKind:
		tv, _ := v.Date()
		return extractFrom(e.Part, tv), nil
	case sql.TimestampKind:
		tv, _ := v.Timestamp()
		return extractFrom(e.Part, tv), nil
	default:
		return sql.NewEmpty(), nil
	}
}

func extractFrom(part DatePart, t time.Time) sql.Value {
	switch part {
	case PartYear:
		return sql.NewNumber(decimal.NewFromInt(int64(t.Year())))
	case PartMonth:
		return sql.NewNumber(decimal.NewFromInt(int64(t.Month())))
	case PartDay:
		return sql.NewNumber(decimal.NewFromInt(int64(t.Day())))
	case PartHour:
		return sql.NewNumber(decimal.NewFromInt(int64(t.Hour())))
	case PartMinute:
		return sql.NewNumber(decimal.NewFromInt(int64(t.Minute())))
	case PartSecond:
		return sql.NewNumber(decimal.NewFromInt(int64(t.Second())))
	case PartQuarter:
		return sql.NewNumber(decimal.NewFromInt(int64((t.Month()-1)/3 + 1)))
	case PartWeek:
		_, week := t.ISOWeek()
		return sql.NewNumber(decimal.NewFromInt(int64(week)))
	}
	return sql.NewEmpty()
}

func (e *Extract) String() string { return "EXTRACT(... FROM " + e.Operand.String() + ")" }
