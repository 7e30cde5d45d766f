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

package driver

import (
	"database/sql/driver"

	enginesql "github.com/dolthub/csvsql/sql"
)

// convertValue maps a sql.Value to the subset of types driver.Value
// allows. Number is returned as its canonical decimal text rather than a
// float64: this engine's Number is arbitrary-precision (§4.1), and a
// float64 would silently lose precision a caller scanning into a
// big.Rat or string would expect to keep.
func convertValue(v enginesql.Value) driver.Value {
	switch v.Kind() {
	case enginesql.Empty:
		return nil
	case enginesql.BoolKind:
		b, _ := v.Bool()
		return b
	case enginesql.DateKind:
		t, _ := v.Date()
		return t
	case enginesql.TimestampKind:
		t, _ := v.Timestamp()
		return t
	default: // NumberKind, TextKind
		return v.CanonicalText()
	}
}
