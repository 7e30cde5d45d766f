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

import (
	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/sql"
)

// Having is Filter specialized to sit over a Group: its predicate is
// evaluated against the already-aggregated row (§4.8). It is functionally
// identical to Filter but kept as a distinct node to mark the fixed
// operator-tree position HAVING occupies (§4.7 step 4).
type Having struct {
	*Filter
}

func NewHaving(child sql.Node, predicate expression.Expression) *Having {
	return &Having{Filter: NewFilter(child, predicate)}
}
