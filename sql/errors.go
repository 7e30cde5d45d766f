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

import errors "gopkg.in/src-d/go-errors.v1"

// Error kinds, one per §7 user-visible label. Each is a typed sentinel that
// can be instantiated with a formatted message via .New(...) and compared
// against with errors.Is / Kind.Is.
var (
	ErrParse       = errors.NewKind("parse error: %s")
	ErrBinding     = errors.NewKind("binding error: %s")
	ErrType        = errors.NewKind("type error: %s")
	ErrSemantic    = errors.NewKind("semantic error: %s")
	ErrIO          = errors.NewKind("I/O error: %s")
	ErrTransaction = errors.NewKind("transaction error: %s")
	ErrMode        = errors.NewKind("mode error: %s")
	ErrCancelled   = errors.NewKind("cancelled")

	ErrTableNotFound      = errors.NewKind("table not found: %s")
	ErrTableAlreadyExists = errors.NewKind("table already exists: %s")
	ErrUnsupportedFeature = errors.NewKind("unsupported: %s")
)
