package plan_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/expression/aggregation"
	"github.com/dolthub/csvsql/plan"
	"github.com/dolthub/csvsql/sql"
)

// sliceNode is a minimal sql.Node over a pre-built slice of rows, used so
// plan operators can be tested without touching the filesystem.
type sliceNode struct {
	cols []string
	rows []sql.Row
}

func (n *sliceNode) Schema() sql.Schema {
	schema := make(sql.Schema, len(n.cols))
	for i, name := range n.cols {
		schema[i] = &sql.Column{Name: name, Ordinal: i}
	}
	return schema
}

func (n *sliceNode) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	return sql.NewSliceIter(n.rows), nil
}

func newCtx() *sql.Context {
	return sql.NewContext(context.Background(), "test", 1)
}

func row(vals ...sql.Value) sql.Row { return sql.Row(vals) }

func num(n int64) sql.Value { return sql.NewNumber(decimal.NewFromInt(n)) }

func allRows(t *testing.T, n sql.Node) []sql.Row {
	t.Helper()
	ctx := newCtx()
	iter, err := n.RowIter(ctx)
	require.NoError(t, err)
	defer iter.Close(ctx)
	var rows []sql.Row
	for {
		r, err := iter.Next(ctx)
		if err == sql.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, r)
	}
	return rows
}

func TestFilterDropsFalseAndEmpty(t *testing.T) {
	n := &sliceNode{cols: []string{"a"}, rows: []sql.Row{
		row(sql.NewBool(true)), row(sql.NewBool(false)), row(sql.NewEmpty()),
	}}
	f := plan.NewFilter(n, expression.NewGetField(0, "a"))
	rows := allRows(t, f)
	assert.Len(t, rows, 1)
}

func TestNestedLoopJoinLeftPadding(t *testing.T) {
	left := &sliceNode{cols: []string{"id"}, rows: []sql.Row{row(num(1)), row(num(2))}}
	right := &sliceNode{cols: []string{"id"}, rows: []sql.Row{row(num(1))}}
	on := expression.NewComparison(expression.OpEQ, expression.NewGetField(0, "left.id"), expression.NewGetField(1, "right.id"))
	j := plan.NewNestedLoopJoin(left, right, plan.JoinLeft, on)
	rows := allRows(t, j)
	require.Len(t, rows, 2)
	assert.True(t, rows[1][1].IsEmpty())
}

func TestHashJoinInner(t *testing.T) {
	left := &sliceNode{cols: []string{"id"}, rows: []sql.Row{row(num(1)), row(num(2))}}
	right := &sliceNode{cols: []string{"id"}, rows: []sql.Row{row(num(2)), row(num(3))}}
	hj := plan.NewHashJoin(left, right, plan.JoinInner,
		expression.NewGetField(0, "left.id"), expression.NewGetField(0, "right.id"), true)
	rows := allRows(t, hj)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0][0].CanonicalText())
}

func TestDropColumnsRemovesOrdinalFromSchemaAndRows(t *testing.T) {
	left := &sliceNode{cols: []string{"id", "x"}, rows: []sql.Row{row(num(2), num(10))}}
	right := &sliceNode{cols: []string{"id", "p"}, rows: []sql.Row{row(num(2), num(20))}}
	hj := plan.NewHashJoin(left, right, plan.JoinInner,
		expression.NewGetField(0, "left.id"), expression.NewGetField(0, "right.id"), true)

	d := plan.NewDropColumns(hj, []int{2})
	require.Equal(t, []string{"id", "x", "p"}, d.Schema().Names())

	rows := allRows(t, d)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 3)
	assert.Equal(t, "2", rows[0][0].CanonicalText())
	assert.Equal(t, "10", rows[0][1].CanonicalText())
	assert.Equal(t, "20", rows[0][2].CanonicalText())
}

func TestGroupCountStar(t *testing.T) {
	n := &sliceNode{cols: []string{"a"}, rows: []sql.Row{row(num(1)), row(num(1)), row(num(2))}}
	count := aggregation.NewCount(expression.NewLiteral(sql.NewEmpty()), true)
	g := plan.NewGroup(n, []expression.Expression{expression.NewGetField(0, "a")},
		[]aggregation.Aggregation{count}, []string{"a", "cnt"})
	rows := allRows(t, g)
	require.Len(t, rows, 2)
}

func TestDistinctDeduplicates(t *testing.T) {
	n := &sliceNode{cols: []string{"a"}, rows: []sql.Row{row(num(1)), row(num(1)), row(num(2))}}
	d := plan.NewDistinct(n)
	rows := allRows(t, d)
	assert.Len(t, rows, 2)
}

func TestSortEmptyFirstBothDirections(t *testing.T) {
	n := &sliceNode{cols: []string{"a"}, rows: []sql.Row{row(num(2)), row(sql.NewEmpty()), row(num(1))}}
	s := plan.NewSort(n, []plan.SortField{{Expr: expression.NewGetField(0, "a"), Desc: true}})
	rows := allRows(t, s)
	require.Len(t, rows, 3)
	assert.True(t, rows[0][0].IsEmpty())
}

func TestLimitOffset(t *testing.T) {
	n := &sliceNode{cols: []string{"a"}, rows: []sql.Row{row(num(1)), row(num(2)), row(num(3))}}
	o := plan.NewOffset(n, 1)
	l := plan.NewLimit(o, 1)
	rows := allRows(t, l)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0][0].CanonicalText())
}

func TestProjectNamesOutput(t *testing.T) {
	n := &sliceNode{cols: []string{"a"}, rows: []sql.Row{row(num(1))}}
	p := plan.NewProject(n, []plan.ProjectColumn{{Expr: expression.NewGetField(0, "a"), Name: "a"}})
	assert.Equal(t, []string{"a"}, p.Schema().Names())
	rows := allRows(t, p)
	require.Len(t, rows, 1)
}
