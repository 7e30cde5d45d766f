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

package planner

import (
	"fmt"

	"github.com/dolthub/csvsql/catalog"
	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/expression/aggregation"
	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/plan"
	"github.com/dolthub/csvsql/sql"
)

// buildSelect implements §4.7's four steps for a single SELECT statement.
func buildSelect(ctx *sql.Context, cat *catalog.Catalog, stmt ast.SelectStatement) (sql.Node, error) {
	var node sql.Node
	if stmt.From != nil {
		var err error
		node, err = buildTableRef(cat, *stmt.From)
		if err != nil {
			return nil, err
		}
		for _, j := range stmt.Joins {
			node, err = buildJoin(cat, node, j)
			if err != nil {
				return nil, err
			}
		}
	} else {
		node = &singleRowNode{}
	}

	b := newBinder(node.Schema())

	if stmt.Where != nil {
		pred, err := b.bind(stmt.Where)
		if err != nil {
			return nil, err
		}
		node = plan.NewFilter(node, pred)
		b = newBinder(node.Schema())
	}

	grouped := len(stmt.GroupBy) > 0 || selectHasAggregate(stmt)
	if grouped {
		var err error
		node, b, err = buildGroup(node, b, stmt)
		if err != nil {
			return nil, err
		}
	}

	if stmt.Having != nil {
		if !grouped {
			return nil, sql.ErrSemantic.New("HAVING requires GROUP BY or an aggregate")
		}
		pred, err := b.bind(stmt.Having)
		if err != nil {
			return nil, err
		}
		node = plan.NewHaving(node, pred)
	}

	// ORDER BY binds against the pre-projection row (wide, in flat mode; the
	// Group node's key+aggregate row, in grouped mode) so it can reference
	// columns that never made it into the SELECT list. Distinct dedupes the
	// *projected* row (§4.8), so it must see the narrowed output. Sort
	// therefore runs here, below the Project node, even though DISTINCT is
	// named first in the fixed order; Distinct then wraps Project, above
	// Sort and below Offset/Limit.
	var sortFields []plan.SortField
	for _, item := range stmt.OrderBy {
		e, err := b.bind(item.Expr)
		if err != nil {
			return nil, err
		}
		sortFields = append(sortFields, plan.SortField{Expr: e, Desc: item.Desc})
	}
	if len(sortFields) > 0 {
		node = plan.NewSort(node, sortFields)
	}

	columns, err := expandSelectList(node.Schema(), b, stmt.Columns)
	if err != nil {
		return nil, err
	}
	node = plan.NewProject(node, columns)

	if stmt.Distinct {
		node = plan.NewDistinct(node)
	}

	if stmt.Offset != nil {
		node = plan.NewOffset(node, *stmt.Offset)
	}
	if stmt.Limit != nil {
		node = plan.NewLimit(node, *stmt.Limit)
	}

	return node, nil
}

// singleRowNode backs a FROM-less SELECT (e.g. "SELECT 1+1") with exactly
// one zero-width row.
type singleRowNode struct{}

func (singleRowNode) Schema() sql.Schema { return sql.Schema{} }
func (singleRowNode) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	return sql.NewSliceIter([]sql.Row{{}}), nil
}

func buildTableRef(cat *catalog.Catalog, ref ast.TableRef) (sql.Node, error) {
	resolved, err := cat.Resolve(ref.Name)
	if err != nil {
		return nil, err
	}
	alias := ref.Alias
	if alias == "" {
		alias = ref.Name
	}
	return plan.NewScan(ref.Name, alias, resolved.Path, cat.HeaderlessMode)
}

func astJoinType(t ast.JoinType) plan.JoinType {
	switch t {
	case ast.JoinLeft:
		return plan.JoinLeft
	case ast.JoinRight:
		return plan.JoinRight
	case ast.JoinFull:
		return plan.JoinFull
	default:
		return plan.JoinInner
	}
}

// buildJoin appends one more table onto the join stack being built,
// choosing between a hash join (single-column equality) and a nested-loop
// fallback per §4.7 step 3.
func buildJoin(cat *catalog.Catalog, left sql.Node, j ast.Join) (sql.Node, error) {
	right, err := buildTableRef(cat, j.Table)
	if err != nil {
		return nil, err
	}
	typ := astJoinType(j.Type)
	combined := left.Schema().Append(right.Schema())
	b := newBinder(combined)

	if len(j.Using) > 0 {
		return buildUsingJoin(left, right, typ, j.Using)
	}

	if j.On == nil {
		return plan.NewNestedLoopJoin(left, right, typ, nil), nil
	}

	if leftSide, rightSide, ok := singleColumnEquiJoin(j.On, left.Schema(), right.Schema()); ok {
		leftBinder := newBinder(left.Schema())
		leftExpr, err := leftBinder.bind(leftSide)
		if err != nil {
			return nil, err
		}
		rightBinder := newBinder(right.Schema())
		rightExpr, err := rightBinder.bind(rightSide)
		if err != nil {
			return nil, err
		}
		return plan.NewHashJoin(left, right, typ, leftExpr, rightExpr, true), nil
	}

	on, err := b.bind(j.On)
	if err != nil {
		return nil, err
	}
	return plan.NewNestedLoopJoin(left, right, typ, on), nil
}

// singleColumnEquiJoin reports whether on is exactly "a = b" with one bare
// column reference resolvable uniquely against left and the other against
// right (in either order), returning the left-side and right-side halves
// as they should be bound against each child's own schema.
func singleColumnEquiJoin(on ast.Expr, left, right sql.Schema) (leftSide, rightSide ast.Expr, ok bool) {
	bin, isBin := on.(ast.BinaryExpr)
	if !isBin || bin.Op != "=" {
		return nil, nil, false
	}
	if belongsToSchema(bin.Left, left) && belongsToSchema(bin.Right, right) {
		return bin.Left, bin.Right, true
	}
	if belongsToSchema(bin.Right, left) && belongsToSchema(bin.Left, right) {
		return bin.Right, bin.Left, true
	}
	return nil, nil, false
}

// belongsToSchema reports whether e is a bare column reference (qualified
// or not) that resolves to exactly one column of schema.
func belongsToSchema(e ast.Expr, schema sql.Schema) bool {
	var table, name string
	switch n := e.(type) {
	case ast.Ident:
		name = n.Name
	case ast.QualifiedIdent:
		table, name = n.Table, n.Name
	default:
		return false
	}
	found := 0
	for _, c := range schema {
		if c.Name != name {
			continue
		}
		if table != "" && c.Source != table {
			continue
		}
		found++
	}
	return found == 1
}

// buildUsingJoin implements USING(col): the hash join key is the shared
// column, kept on both physical sides of the combined row during the join
// itself (so the equality comparison can reach both copies), but the
// right-side copy is then physically dropped from the result via
// plan.DropColumns, so the column is projected exactly once (§4.7 step 3)
// and a bare reference to it resolves unambiguously everywhere downstream,
// not just in a `*` expansion.
func buildUsingJoin(left, right sql.Node, typ plan.JoinType, using []string) (sql.Node, error) {
	leftWidth := len(left.Schema())
	if len(using) == 1 {
		col := using[0]
		leftIdx := columnIndex(left.Schema(), col)
		rightIdx := columnIndex(right.Schema(), col)
		if leftIdx < 0 || rightIdx < 0 {
			return nil, sql.ErrBinding.New("USING column not found: " + col)
		}
		leftExpr := expression.NewGetField(leftIdx, col)
		rightExpr := expression.NewGetField(rightIdx, col)
		hj := plan.NewHashJoin(left, right, typ, leftExpr, rightExpr, true)
		return plan.NewDropColumns(hj, []int{leftWidth + rightIdx}), nil
	}

	// Multi-column USING falls back to nested-loop, ANDing one equality
	// comparison per named column.
	var on expression.Expression
	var hidden []int
	for _, col := range using {
		leftIdx := columnIndex(left.Schema(), col)
		rightIdx := columnIndex(right.Schema(), col)
		if leftIdx < 0 || rightIdx < 0 {
			return nil, sql.ErrBinding.New("USING column not found: " + col)
		}
		cmp := expression.NewComparison(expression.OpEQ,
			expression.NewGetField(leftIdx, col),
			expression.NewGetField(leftWidth+rightIdx, col))
		if on == nil {
			on = cmp
		} else {
			on = expression.NewAnd(on, cmp)
		}
		hidden = append(hidden, leftWidth+rightIdx)
	}
	nl := plan.NewNestedLoopJoin(left, right, typ, on)
	return plan.NewDropColumns(nl, hidden), nil
}

func columnIndex(schema sql.Schema, name string) int {
	for i, c := range schema {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// selectHasAggregate reports whether any SELECT, HAVING, or ORDER BY
// expression of stmt contains an aggregate function call.
func selectHasAggregate(stmt ast.SelectStatement) bool {
	for _, item := range stmt.Columns {
		if containsAggregate(item.Expr) {
			return true
		}
	}
	if stmt.Having != nil && containsAggregate(stmt.Having) {
		return true
	}
	for _, item := range stmt.OrderBy {
		if containsAggregate(item.Expr) {
			return true
		}
	}
	return false
}

func containsAggregate(e ast.Expr) bool {
	found := false
	walkExpr(e, func(n ast.Expr) {
		if fc, ok := n.(ast.FuncCall); ok && aggregation.Names[fc.Name] {
			found = true
		}
	})
	return found
}

// walkExpr calls visit on e and every expression nested inside it.
func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case ast.BinaryExpr:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case ast.UnaryExpr:
		walkExpr(n.Operand, visit)
	case ast.BetweenExpr:
		walkExpr(n.Operand, visit)
		walkExpr(n.Lo, visit)
		walkExpr(n.Hi, visit)
	case ast.InExpr:
		walkExpr(n.Operand, visit)
		for _, item := range n.List {
			walkExpr(item, visit)
		}
	case ast.IsNullExpr:
		walkExpr(n.Operand, visit)
	case ast.LikeExpr:
		walkExpr(n.Operand, visit)
		walkExpr(n.Pattern, visit)
	case ast.RegexpLikeExpr:
		walkExpr(n.Operand, visit)
		walkExpr(n.Pattern, visit)
		walkExpr(n.Flags, visit)
	case ast.CaseExpr:
		for _, w := range n.Whens {
			walkExpr(w.Cond, visit)
			walkExpr(w.Then, visit)
		}
		walkExpr(n.Else, visit)
	case ast.CastExpr:
		walkExpr(n.Operand, visit)
	case ast.ExtractExpr:
		walkExpr(n.Operand, visit)
	case ast.FuncCall:
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	}
}

// collectAggregates gathers every distinct (by exprKey) aggregate FuncCall
// reachable from stmt's SELECT/HAVING/ORDER BY expressions, in first-seen
// order.
func collectAggregates(stmt ast.SelectStatement) ([]ast.FuncCall, []string) {
	var calls []ast.FuncCall
	var keys []string
	seen := map[string]bool{}
	collect := func(e ast.Expr) {
		walkExpr(e, func(n ast.Expr) {
			fc, ok := n.(ast.FuncCall)
			if !ok || !aggregation.Names[fc.Name] {
				return
			}
			k := exprKey(fc)
			if seen[k] {
				return
			}
			seen[k] = true
			calls = append(calls, fc)
			keys = append(keys, k)
		})
	}
	for _, item := range stmt.Columns {
		collect(item.Expr)
	}
	collect(stmt.Having)
	for _, item := range stmt.OrderBy {
		collect(item.Expr)
	}
	return calls, keys
}

// buildGroup constructs the Group node for a query with GROUP BY and/or
// aggregates, returning the new node and a binder set up in "grouped" mode
// for everything downstream (SELECT list, HAVING, ORDER BY).
func buildGroup(child sql.Node, flat *binder, stmt ast.SelectStatement) (sql.Node, *binder, error) {
	groupBy := make([]expression.Expression, len(stmt.GroupBy))
	groupKeys := make([]string, len(stmt.GroupBy))
	for i, e := range stmt.GroupBy {
		bound, err := flat.bind(e)
		if err != nil {
			return nil, nil, err
		}
		groupBy[i] = bound
		groupKeys[i] = exprKey(e)
	}

	calls, callKeys := collectAggregates(stmt)
	aggs := make([]aggregation.Aggregation, len(calls))
	for i, fc := range calls {
		agg, err := buildAggregate(flat, fc)
		if err != nil {
			return nil, nil, err
		}
		aggs[i] = agg
	}

	names := make([]string, 0, len(groupBy)+len(aggs))
	for i := range groupBy {
		names = append(names, fmt.Sprintf("group_%d", i))
	}
	for i := range calls {
		names = append(names, fmt.Sprintf("agg_%d", i))
	}

	groupNode := plan.NewGroup(child, groupBy, aggs, names)

	shortcuts := map[string]expression.Expression{}
	for i, key := range groupKeys {
		shortcuts[key] = expression.NewGetField(i, names[i])
	}
	for i, key := range callKeys {
		idx := len(groupBy) + i
		shortcuts[key] = expression.NewGetField(idx, names[idx])
	}

	grouped := &binder{schema: groupNode.Schema(), shortcuts: shortcuts}
	return groupNode, grouped, nil
}

// buildAggregate binds one aggregate FuncCall's argument (against the
// pre-group, flat schema) and wraps it in the matching aggregation.Aggregation.
func buildAggregate(flat *binder, fc ast.FuncCall) (aggregation.Aggregation, error) {
	if fc.Distinct && !aggregation.DistinctCapable[fc.Name] {
		return nil, sql.ErrSemantic.New("DISTINCT is not valid on " + fc.Name)
	}

	var input expression.Expression
	var err error
	if fc.Star {
		if fc.Name != "COUNT" {
			return nil, sql.ErrSemantic.New(fc.Name + "(*) is not valid")
		}
		input = expression.NewLiteral(sql.NewBool(true))
	} else {
		if len(fc.Args) != 1 {
			return nil, sql.ErrSemantic.New(fc.Name + " takes exactly one argument")
		}
		input, err = flat.bind(fc.Args[0])
		if err != nil {
			return nil, err
		}
	}

	var agg aggregation.Aggregation
	switch fc.Name {
	case "COUNT":
		agg = aggregation.NewCount(input, fc.Star)
	case "SUM":
		agg = aggregation.NewSum(input)
	case "AVG":
		agg = aggregation.NewAvg(input)
	case "MIN":
		agg = aggregation.NewMin(input)
	case "MAX":
		agg = aggregation.NewMax(input)
	case "ANY_VALUE":
		agg = aggregation.NewAnyValue(input)
	default:
		return nil, sql.ErrSemantic.New("unknown aggregate: " + fc.Name)
	}
	if fc.Distinct {
		agg = aggregation.NewDistinct(agg)
	}
	return agg, nil
}

// expandSelectList turns a SELECT list into Project columns, expanding any
// bare `*` / `t.*` against schema. A USING(col) join has already coalesced
// its shared column down to one schema entry (plan.DropColumns), so `*`
// here needs no extra filtering of its own.
func expandSelectList(schema sql.Schema, b *binder, items []ast.SelectItem) ([]plan.ProjectColumn, error) {
	var out []plan.ProjectColumn
	for _, item := range items {
		if star, ok := item.Expr.(ast.Star); ok {
			for i, c := range schema {
				if star.Table != "" && c.Source != star.Table {
					continue
				}
				out = append(out, plan.ProjectColumn{Expr: expression.NewGetField(i, c.Name), Name: c.Name})
			}
			continue
		}
		e, err := b.bind(item.Expr)
		if err != nil {
			return nil, err
		}
		name := item.Alias
		if name == "" {
			name = selectItemName(item.Expr)
		}
		out = append(out, plan.ProjectColumn{Expr: e, Name: name})
	}
	return out, nil
}

// selectItemName synthesizes an output column name for an unaliased SELECT
// item, matching the identifier itself for bare columns and the rendered
// expression form otherwise.
func selectItemName(e ast.Expr) string {
	switch n := e.(type) {
	case ast.Ident:
		return n.Name
	case ast.QualifiedIdent:
		return n.Name
	case ast.FuncCall:
		if n.Star {
			return n.Name + "(*)"
		}
		return n.Name + "(...)"
	default:
		return exprKey(e)
	}
}
