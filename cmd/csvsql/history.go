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

package main

import (
	"os"
	"path/filepath"
	"strings"
)

// history appends each submitted statement to the file named in §6
// ("history file at <user-config>/csvsql/.history"). An empty path (no
// terminal, -n, or a directory that can't be created) makes every method
// a no-op: the interactive line editor itself is an out-of-scope external
// collaborator (§1) this binary only needs to hand a path to.
type history struct {
	f *os.File
}

func newHistory(path string) *history {
	if path == "" {
		return &history{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &history{}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &history{}
	}
	return &history{f: f}
}

func (h *history) record(stmtText string) {
	if h.f == nil {
		return
	}
	h.f.WriteString(strings.TrimRight(stmtText, "\n") + "\n")
}

func (h *history) close() {
	if h.f != nil {
		h.f.Close()
	}
}
