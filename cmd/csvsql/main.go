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

// Command csvsql runs SQL against a directory of CSV files (§6). It wires
// the engine's Session to a terminal or batch of -c statements and hands
// each result to a render.Writer.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/csvsql"
	"github.com/dolthub/csvsql/audit"
	"github.com/dolthub/csvsql/render"
	enginesql "github.com/dolthub/csvsql/sql"
)

// DisableTUI (-d) is accepted for flag compatibility with §6, but this
// binary never builds a TUI grid view in the first place: no example in
// the dependency pack supplies a terminal grid/table library to ground
// one on, so the TUI table renderer stays the out-of-scope external
// collaborator §1 names it as, and results always render through
// render.Writer the way -d's non-TUI path does anyway.
type options struct {
	Home           string   `short:"m" long:"home" description:"home directory" value-name:"dir" required:"true"`
	Commands       []string `short:"c" long:"command" description:"run the given SQL (repeatable, ;-separated)" value-name:"sql"`
	OutDir         string   `short:"o" long:"out" description:"write outputs to directory" value-name:"path"`
	Format         string   `short:"p" long:"format" description:"output format: csv,html,json,txt,xls" value-name:"fmt" default:"csv"`
	DisableTUI     bool     `short:"d" description:"disable the interactive table view"`
	Headerless     bool     `short:"f" description:"treat CSV files as having no header line"`
	Write          bool     `short:"w" description:"allow DDL/DML against persistent tables"`
	NonInteractive bool     `short:"n" description:"force non-interactive mode"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr *os.File) int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options]"
	if _, err := parser.ParseArgs(args); err != nil {
		return 1
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	auditLog := audit.New(logger)

	engine := csvsql.New(auditLog)
	sess, err := engine.NewSession(opts.Home, os.TempDir(), opts.Write, opts.Headerless)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer sess.Close()

	r := &runner{sess: sess, opts: opts, stdout: stdout, stderr: stderr, queryNum: 0}
	defer r.closeXLSX()

	if len(opts.Commands) > 0 || opts.NonInteractive || !isTerminal(stdin) {
		return r.runBatch()
	}
	return r.runInteractive(stdin)
}

// runner holds the state threaded through one invocation: the session,
// flag-derived output configuration, and (for XLSX only) the workbook
// writer that must stay open across every statement so each gets its own
// sheet (§6's "one sheet per query").
type runner struct {
	sess     *csvsql.Session
	opts     options
	stdout   *os.File
	stderr   *os.File
	queryNum int
	xlsx     *render.XLSXWriter
}

func (r *runner) closeXLSX() {
	if r.xlsx != nil {
		r.xlsx.Close()
	}
}

// runBatch executes every -c statement (itself possibly ;-separated) in
// order, stopping and returning a non-zero status at the first statement
// error (§6: "non-zero on any statement error in batch mode").
func (r *runner) runBatch() int {
	for _, cmd := range r.opts.Commands {
		if err := r.execText(cmd); err != nil {
			fmt.Fprintln(r.stderr, err)
			return 1
		}
	}
	return 0
}

// runInteractive reads statements from stdin, terminated by a `;` at
// logical end, honoring a trailing `\` as a line continuation (§4.11).
// Unlike batch mode it reports each statement's error and keeps going.
func (r *runner) runInteractive(stdin *os.File) int {
	historyPath := r.historyPath(stdin)
	history := newHistory(historyPath)
	defer history.close()

	scanner := bufio.NewScanner(stdin)
	var buf strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasSuffix(line, `\`) {
			buf.WriteString(strings.TrimSuffix(line, `\`))
			buf.WriteString("\n")
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")

		text := buf.String()
		if !strings.Contains(text, ";") {
			continue
		}
		buf.Reset()

		history.record(text)
		if err := r.execText(text); err != nil {
			fmt.Fprintln(r.stderr, err)
		}
	}
	return 0
}

// historyPath resolves §6's history file location, omitted under -n or a
// piped (non-terminal) stdin.
func (r *runner) historyPath(stdin *os.File) string {
	if r.opts.NonInteractive || !isTerminal(stdin) {
		return ""
	}
	path, err := xdg.ConfigFile(filepath.Join("csvsql", ".history"))
	if err != nil {
		return ""
	}
	return path
}

func (r *runner) execText(text string) error {
	stmts, err := csvsql.Parse(text)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		res, err := r.sess.Execute(context.Background(), stmt, text)
		if err != nil {
			return err
		}
		if err := r.render(res); err != nil {
			return err
		}
	}
	return nil
}

// render hands one statement's result to the configured output writer,
// draining its row iterator (§4.11's "ordered stream of (schema, row
// iterator) pairs") regardless of whether the statement produced any
// rows, so Begin/End always bracket exactly once.
func (r *runner) render(res csvsql.Result) error {
	r.queryNum++

	w, closer, err := r.writerFor(r.queryNum)
	if err != nil {
		return err
	}

	if err := w.Begin(res.Schema); err != nil {
		return err
	}
	for {
		row, err := res.Iter.Next(cliContext())
		if err == enginesql.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := w.Row(row); err != nil {
			return err
		}
	}
	if err := w.End(); err != nil {
		return err
	}
	if closer != nil {
		return closer()
	}
	return nil
}

// writerFor returns the Writer the current -o/-p flags select for query
// number n, plus an optional closer to flush a per-query file. XLSX is the
// one format that must stay open across every query (one shared workbook,
// one sheet per query), so writerFor creates r.xlsx on first use and hands
// the same writer back for every later query.
func (r *runner) writerFor(n int) (render.Writer, func() error, error) {
	if render.Format(r.opts.Format) == render.XLSX {
		if r.xlsx == nil {
			if r.opts.OutDir == "" {
				return nil, nil, enginesql.ErrIO.New("xlsx output requires -o")
			}
			r.xlsx = render.NewXLSXWriter(filepath.Join(r.opts.OutDir, "results.xlsx"))
		}
		return r.xlsx, nil, nil
	}

	if r.opts.OutDir == "" {
		w, err := render.New(render.Format(r.opts.Format), r.stdout)
		return w, nil, err
	}

	ext := string(r.opts.Format)
	f, err := os.Create(filepath.Join(r.opts.OutDir, "query"+strconv.Itoa(n)+"."+ext))
	if err != nil {
		return nil, nil, err
	}
	w, err := render.New(render.Format(r.opts.Format), f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return w, f.Close, nil
}

func cliContext() *enginesql.Context {
	return enginesql.NewContext(context.Background(), "", 0)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
