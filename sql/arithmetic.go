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

import "github.com/shopspring/decimal"

// divisionScale is the extra fractional scale added to decimal division so
// that, e.g., 1/3 doesn't truncate to 0.
const divisionScale = 20

// Add, Sub and Mul promote both operands to Number. A non-numeric,
// non-numeric-text operand makes the result Empty, not an error: arithmetic
// on unsuitable input is documented as producing "null".
func Add(a, b Value) Value {
	an, bn, ok := bothNumbers(a, b)
	if !ok {
		return NewEmpty()
	}
	return NewNumber(an.Add(bn))
}

func Sub(a, b Value) Value {
	an, bn, ok := bothNumbers(a, b)
	if !ok {
		return NewEmpty()
	}
	return NewNumber(an.Sub(bn))
}

func Mul(a, b Value) Value {
	an, bn, ok := bothNumbers(a, b)
	if !ok {
		return NewEmpty()
	}
	return NewNumber(an.Mul(bn))
}

// Div always yields Number (never integer division); division by zero
// yields Empty, per the documented "1/0 renders blank, not an error" rule.
func Div(a, b Value) Value {
	an, bn, ok := bothNumbers(a, b)
	if !ok {
		return NewEmpty()
	}
	if bn.IsZero() {
		return NewEmpty()
	}
	return NewNumber(an.DivRound(bn, divisionScale))
}

func bothNumbers(a, b Value) (an, bn decimal.Decimal, ok bool) {
	an, aok := a.AsNumber()
	bn, bok := b.AsNumber()
	return an, bn, aok && bok
}

// Concat formats each operand to its canonical text form (Empty becomes
// "") and concatenates, per §4.1.
func Concat(a, b Value) Value {
	return NewText(a.CanonicalText() + b.CanonicalText())
}
