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
	"regexp"
	"strings"

	"github.com/dolthub/csvsql/sql"
)

// Like implements SQL LIKE by translating the `%`/`_` pattern into a
// regexp. The compiled regexp is cached on the node and rebuilt only when
// the pattern text differs from the one it was compiled from.
type Like struct {
	Operand, Pattern Expression
	Negate           bool

	compiled    *regexp.Regexp
	compiledPat string
}

func NewLike(operand, pattern Expression, negate bool) *Like {
	return &Like{Operand: operand, Pattern: pattern, Negate: negate}
}

func likeToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

func (l *Like) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	ov, err := l.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	s, ok := ov.Text()
	if !ok {
		if ov.IsEmpty() {
			return sql.NewEmpty(), nil
		}
		s = ov.CanonicalText()
	}

	pv, err := l.Pattern.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	pat, ok := pv.Text()
	if !ok {
		return sql.NewEmpty(), nil
	}

	re := l.compiled
	if re == nil || l.compiledPat != pat {
		re, err = regexp.Compile(likeToRegexp(pat))
		if err != nil {
			return sql.Value{}, sql.ErrSemantic.New("invalid LIKE pattern: " + pat)
		}
		l.compiled, l.compiledPat = re, pat
	}

	matched := re.MatchString(s)
	return sql.NewBool(matched != l.Negate), nil
}

func (l *Like) String() string {
	if l.Negate {
		return l.Operand.String() + " NOT LIKE " + l.Pattern.String()
	}
	return l.Operand.String() + " LIKE " + l.Pattern.String()
}

// RegexpLike implements REGEXP_LIKE(expr, pattern[, flags]); flags is a
// string like "i" (case-insensitive), matching the underlying Go regexp
// engine's inline-flag syntax via `(?i)`.
type RegexpLike struct {
	Operand, Pattern Expression
	Flags            Expression
}

func NewRegexpLike(operand, pattern, flags Expression) *RegexpLike {
	return &RegexpLike{Operand: operand, Pattern: pattern, Flags: flags}
}

func (r *RegexpLike) Eval(ctx *sql.Context, row sql.Row) (sql.Value, error) {
	ov, err := r.Operand.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	s, ok := ov.Text()
	if !ok {
		return sql.NewEmpty(), nil
	}
	pv, err := r.Pattern.Eval(ctx, row)
	if err != nil {
		return sql.Value{}, err
	}
	pat, ok := pv.Text()
	if !ok {
		return sql.NewEmpty(), nil
	}

	prefix := ""
	if r.Flags != nil {
		fv, err := r.Flags.Eval(ctx, row)
		if err != nil {
			return sql.Value{}, err
		}
		if fs, ok := fv.Text(); ok && fs != "" {
			prefix = "(?" + fs + ")"
		}
	}

	re, err := regexp.Compile(prefix + pat)
	if err != nil {
		return sql.Value{}, sql.ErrSemantic.New("invalid regexp pattern: " + pat)
	}
	return sql.NewBool(re.MatchString(s)), nil
}

func (r *RegexpLike) String() string { return "REGEXP_LIKE(" + r.Operand.String() + ", ...)" }
