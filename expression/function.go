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
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dolthub/csvsql/sql"
)

// scalarFuncs is the registry of non-aggregate functions recognized by
// name (case-insensitive lookup, the name itself is stored upper-cased by
// the parser). Aggregates are a disjoint registry, expression/aggregation.
// This does not enumerate every function named informally in passing by
// the supported-functions document; it covers the representative core of
// each family (string, numeric, date, conditional) in the teacher's own
// "small number of well-tested builtins" style rather than a sprawling
// generated table.
var scalarFuncs = map[string]func(args []sql.Value) (sql.Value, error){
	// String family.
	"UPPER":      func(a []sql.Value) (sql.Value, error) { return textFn1(a, strings.ToUpper) },
	"LOWER":      func(a []sql.Value) (sql.Value, error) { return textFn1(a, strings.ToLower) },
	"LTRIM":      func(a []sql.Value) (sql.Value, error) { return textFn1(a, ltrimSpace) },
	"RTRIM":      func(a []sql.Value) (sql.Value, error) { return textFn1(a, rtrimSpace) },
	"TRIM":       func(a []sql.Value) (sql.Value, error) { return textFn1(a, strings.TrimSpace) },
	"REVERSE":    func(a []sql.Value) (sql.Value, error) { return textFn1(a, reverseString) },
	"LENGTH":     fnLength,
	"CHAR_LENGTH": fnLength,
	"LEFT":       fnLeft,
	"RIGHT":      fnRight,
	"SUBSTR":     fnSubstr,
	"SUBSTRING":  fnSubstr,
	"REPLACE":    fnReplace,
	"CONCAT":     fnConcat,
	"LPAD":       fnLpad,
	"RPAD":       fnRpad,
	"REPEAT":     fnRepeat,
	"INSTR":      fnInstr,
	"POSITION":   fnInstr,

	// Numeric family.
	"ABS":      fnAbs,
	"ROUND":    fnRound,
	"CEIL":     fnCeil,
	"CEILING":  fnCeil,
	"FLOOR":    fnFloor,
	"MOD":      fnMod,
	"POWER":    fnPower,
	"SQRT":     fnSqrt,
	"SIGN":     fnSign,
	"TRUNCATE": fnTruncate,
	"GREATEST": fnGreatest,
	"LEAST":    fnLeast,

	// Conditional / null-handling.
	"COALESCE": fnCoalesce,
	"IFNULL":   fnIfNull,
	"NULLIF":   fnNullIf,

	// Date/time family.
	"NOW":            fnNow,
	"CURRENT_TIMESTAMP": fnNow,
	"CURRENT_DATE":   fnToday,
	"DATE_ADD":       fnDateAdd,
	"DATEDIFF":       fnDateDiff,
}

func ltrimSpace(s string) string { return strings.TrimLeft(s, " \t\n\r") }
func rtrimSpace(s string) string { return strings.TrimRight(s, " \t\n\r") }

// reverseString reverses s rune-wise, used by REVERSE.
func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func textFn1(args []sql.Value, f func(string) string) (sql.Value, error) {
	if len(args) != 1 {
		return sql.Value{}, sql.ErrType.New("expects exactly 1 argument")
	}
	if args[0].IsEmpty() {
		return sql.NewEmpty(), nil
	}
	s, ok := args[0].Text()
	if !ok {
		s = args[0].CanonicalText()
	}
	return sql.NewText(f(s)), nil
}

func fnLength(args []sql.Value) (sql.Value, error) {
	if len(args) != 1 {
		return sql.Value{}, sql.ErrType.New("expects exactly 1 argument")
	}
	if args[0].IsEmpty() {
		return sql.NewEmpty(), nil
	}
	s, _ := args[0].Text()
	return sql.NewNumber(decimal.NewFromInt(int64(len([]rune(s))))), nil
}

func fnLeft(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("LEFT expects 2 arguments")
	}
	s, n, ok := textAndInt(args)
	if !ok {
		return sql.NewEmpty(), nil
	}
	r := []rune(s)
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	return sql.NewText(string(r[:n])), nil
}

func fnRight(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("RIGHT expects 2 arguments")
	}
	s, n, ok := textAndInt(args)
	if !ok {
		return sql.NewEmpty(), nil
	}
	r := []rune(s)
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	return sql.NewText(string(r[len(r)-n:])), nil
}

func fnSubstr(args []sql.Value) (sql.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return sql.Value{}, sql.ErrType.New("SUBSTR expects 2 or 3 arguments")
	}
	if anyEmpty(args) {
		return sql.NewEmpty(), nil
	}
	s, ok := args[0].Text()
	if !ok {
		return sql.NewEmpty(), nil
	}
	start, ok := intArg(args[1])
	if !ok {
		return sql.NewEmpty(), nil
	}
	r := []rune(s)
	idx := start - 1 // SQL substring is 1-indexed
	if idx < 0 {
		idx = 0
	}
	if idx > len(r) {
		idx = len(r)
	}
	length := len(r) - idx
	if len(args) == 3 {
		n, ok := intArg(args[2])
		if !ok {
			return sql.NewEmpty(), nil
		}
		if n < 0 {
			n = 0
		}
		if n < length {
			length = n
		}
	}
	return sql.NewText(string(r[idx : idx+length])), nil
}

func fnReplace(args []sql.Value) (sql.Value, error) {
	if len(args) != 3 {
		return sql.Value{}, sql.ErrType.New("REPLACE expects 3 arguments")
	}
	if anyEmpty(args) {
		return sql.NewEmpty(), nil
	}
	s, _ := args[0].Text()
	old, _ := args[1].Text()
	repl, _ := args[2].Text()
	return sql.NewText(strings.ReplaceAll(s, old, repl)), nil
}

func fnConcat(args []sql.Value) (sql.Value, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.CanonicalText())
	}
	return sql.NewText(b.String()), nil
}

func fnLpad(args []sql.Value) (sql.Value, error) {
	return pad(args, true)
}

func fnRpad(args []sql.Value) (sql.Value, error) {
	return pad(args, false)
}

func pad(args []sql.Value, left bool) (sql.Value, error) {
	if len(args) != 3 {
		return sql.Value{}, sql.ErrType.New("expects 3 arguments")
	}
	if anyEmpty(args) {
		return sql.NewEmpty(), nil
	}
	s, _ := args[0].Text()
	n, ok := intArg(args[1])
	if !ok {
		return sql.NewEmpty(), nil
	}
	fill, _ := args[2].Text()
	if fill == "" {
		fill = " "
	}
	r := []rune(s)
	if len(r) >= n {
		if left {
			return sql.NewText(string(r[len(r)-n:])), nil
		}
		return sql.NewText(string(r[:n])), nil
	}
	var b strings.Builder
	for b.Len() < n-len(r) {
		b.WriteString(fill)
	}
	padStr := []rune(b.String())[:n-len(r)]
	if left {
		return sql.NewText(string(padStr) + s), nil
	}
	return sql.NewText(s + string(padStr)), nil
}

func fnRepeat(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("REPEAT expects 2 arguments")
	}
	s, n, ok := textAndInt(args)
	if !ok {
		return sql.NewEmpty(), nil
	}
	if n < 0 {
		n = 0
	}
	return sql.NewText(strings.Repeat(s, n)), nil
}

func fnInstr(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("INSTR expects 2 arguments")
	}
	if anyEmpty(args) {
		return sql.NewEmpty(), nil
	}
	s, _ := args[0].Text()
	sub, _ := args[1].Text()
	idx := strings.Index(s, sub)
	return sql.NewNumber(decimal.NewFromInt(int64(idx + 1))), nil // 0 when not found, 1-indexed otherwise
}

func textAndInt(args []sql.Value) (string, int, bool) {
	if anyEmpty(args) {
		return "", 0, false
	}
	s, ok := args[0].Text()
	if !ok {
		return "", 0, false
	}
	n, ok := intArg(args[1])
	return s, n, ok
}

func intArg(v sql.Value) (int, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(n.StringFixed(0))
	if err != nil {
		return 0, false
	}
	return i, true
}

func anyEmpty(args []sql.Value) bool {
	for _, a := range args {
		if a.IsEmpty() {
			return true
		}
	}
	return false
}

func numFn1(args []sql.Value, f func(decimal.Decimal) decimal.Decimal) (sql.Value, error) {
	if len(args) != 1 {
		return sql.Value{}, sql.ErrType.New("expects exactly 1 argument")
	}
	if args[0].IsEmpty() {
		return sql.NewEmpty(), nil
	}
	n, ok := args[0].AsNumber()
	if !ok {
		return sql.NewEmpty(), nil
	}
	return sql.NewNumber(f(n)), nil
}

func fnAbs(args []sql.Value) (sql.Value, error) { return numFn1(args, decimal.Decimal.Abs) }
func fnCeil(args []sql.Value) (sql.Value, error) {
	return numFn1(args, func(d decimal.Decimal) decimal.Decimal { return d.Ceil() })
}
func fnFloor(args []sql.Value) (sql.Value, error) {
	return numFn1(args, func(d decimal.Decimal) decimal.Decimal { return d.Floor() })
}
func fnSign(args []sql.Value) (sql.Value, error) {
	return numFn1(args, func(d decimal.Decimal) decimal.Decimal { return decimal.NewFromInt(int64(d.Sign())) })
}

func fnRound(args []sql.Value) (sql.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return sql.Value{}, sql.ErrType.New("ROUND expects 1 or 2 arguments")
	}
	if args[0].IsEmpty() {
		return sql.NewEmpty(), nil
	}
	n, ok := args[0].AsNumber()
	if !ok {
		return sql.NewEmpty(), nil
	}
	places := int32(0)
	if len(args) == 2 {
		p, ok := intArg(args[1])
		if !ok {
			return sql.NewEmpty(), nil
		}
		places = int32(p)
	}
	return sql.NewNumber(n.Round(places)), nil
}

func fnTruncate(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("TRUNCATE expects 2 arguments")
	}
	if anyEmpty(args) {
		return sql.NewEmpty(), nil
	}
	n, ok := args[0].AsNumber()
	if !ok {
		return sql.NewEmpty(), nil
	}
	places, ok := intArg(args[1])
	if !ok {
		return sql.NewEmpty(), nil
	}
	return sql.NewNumber(n.Truncate(int32(places))), nil
}

func fnMod(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("MOD expects 2 arguments")
	}
	an, bn, ok := bothNums(args)
	if !ok {
		return sql.NewEmpty(), nil
	}
	if bn.IsZero() {
		return sql.NewEmpty(), nil
	}
	return sql.NewNumber(an.Mod(bn)), nil
}

func fnPower(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("POWER expects 2 arguments")
	}
	an, bn, ok := bothNums(args)
	if !ok {
		return sql.NewEmpty(), nil
	}
	return sql.NewNumber(an.Pow(bn)), nil
}

func fnSqrt(args []sql.Value) (sql.Value, error) {
	if len(args) != 1 {
		return sql.Value{}, sql.ErrType.New("SQRT expects 1 argument")
	}
	if args[0].IsEmpty() {
		return sql.NewEmpty(), nil
	}
	n, ok := args[0].AsNumber()
	if !ok || n.IsNegative() {
		return sql.NewEmpty(), nil
	}
	f, _ := n.Float64()
	return sql.NewNumber(decimal.NewFromFloat(sqrtFloat(f))), nil
}

func sqrtFloat(f float64) float64 {
	if f == 0 {
		return 0
	}
	z := f
	for i := 0; i < 40; i++ {
		z -= (z*z - f) / (2 * z)
	}
	return z
}

func bothNums(args []sql.Value) (decimal.Decimal, decimal.Decimal, bool) {
	an, aok := args[0].AsNumber()
	bn, bok := args[1].AsNumber()
	return an, bn, aok && bok
}

func fnGreatest(args []sql.Value) (sql.Value, error) { return extreme(args, 1) }
func fnLeast(args []sql.Value) (sql.Value, error)    { return extreme(args, -1) }

func extreme(args []sql.Value, want int) (sql.Value, error) {
	if len(args) == 0 {
		return sql.Value{}, sql.ErrType.New("expects at least 1 argument")
	}
	best := args[0]
	for _, a := range args[1:] {
		if best.IsEmpty() || a.IsEmpty() {
			return sql.NewEmpty(), nil
		}
		cmp, ok := sql.Compare(a, best)
		if !ok {
			return sql.NewEmpty(), nil
		}
		if cmp == want {
			best = a
		}
	}
	return best, nil
}

func fnCoalesce(args []sql.Value) (sql.Value, error) {
	for _, a := range args {
		if !a.IsEmpty() {
			return a, nil
		}
	}
	return sql.NewEmpty(), nil
}

func fnIfNull(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("IFNULL expects 2 arguments")
	}
	if !args[0].IsEmpty() {
		return args[0], nil
	}
	return args[1], nil
}

func fnNullIf(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("NULLIF expects 2 arguments")
	}
	eq := sql.Equals(args[0], args[1])
	if eq.IsTrue() {
		return sql.NewEmpty(), nil
	}
	return args[0], nil
}

func fnNow(args []sql.Value) (sql.Value, error) {
	return sql.NewTimestamp(time.Now()), nil
}

func fnToday(args []sql.Value) (sql.Value, error) {
	return sql.NewDate(time.Now()), nil
}

func fnDateAdd(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("DATE_ADD expects 2 arguments")
	}
	if anyEmpty(args) {
		return sql.NewEmpty(), nil
	}
	days, ok := intArg(args[1])
	if !ok {
		return sql.NewEmpty(), nil
	}
	switch args[0].Kind() {
	case sql.DateKind:
		t, _ := args[0].Date()
		return sql.NewDate(t.AddDate(0, 0, days)), nil
	case sql.TimestampKind:
		t, _ := args[0].Timestamp()
		return sql.NewTimestamp(t.AddDate(0, 0, days)), nil
	}
	return sql.NewEmpty(), nil
}

func fnDateDiff(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, sql.ErrType.New("DATEDIFF expects 2 arguments")
	}
	if anyEmpty(args) {
		return sql.NewEmpty(), nil
	}
	a, aok := asTime(args[0])
	b, bok := asTime(args[1])
	if !aok || !bok {
		return sql.NewEmpty(), nil
	}
	days := int64(a.Sub(b).Hours() / 24)
	return sql.NewNumber(decimal.NewFromInt(days)), nil
}

func asTime(v sql.Value) (time.Time, bool) {
	switch v.Kind() {
	case sql.DateKind:
		t, _ := v.Date()
		return t, true
	case sql.TimestampKind:
		t, _ := v.Timestamp()
		return t, true
	}
	return time.Time{}, false
}

// Function evaluates args and dispatches to the named builtin. It carries
// no DISTINCT flag: the planner rejects DISTINCT on a non-aggregate
// function call before a Function is built.
type Function struct {
	Name string
	Args []Expression
}

func NewFunction(name string, args []Expression) *Function {
	return &Function{Name: strings.ToUpper(name), Args: args}
}

func (f *Function) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	impl, ok := scalarFuncs[f.Name]
	if !ok {
		return sql.Value{}, sql.ErrSemantic.New("unknown function: " + f.Name)
	}
	vals := make([]sql.Value, len(f.Args))
	for i, a := range f.Args {
		v, err := a.Eval(ctx, row)
		if err != nil {
			return sql.Value{}, err
		}
		vals[i] = v
	}
	return impl(vals)
}

func (f *Function) String() string { return f.Name + "(...)" }

// IsScalarFunction reports whether name is a recognized scalar (not
// aggregate) function, used by the planner to validate DISTINCT placement
// and unknown-function errors before execution begins.
func IsScalarFunction(name string) bool {
	_, ok := scalarFuncs[strings.ToUpper(name)]
	return ok
}
