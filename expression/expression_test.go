package expression_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/expression"
	"github.com/dolthub/csvsql/sql"
)

func lit(v sql.Value) *expression.Literal { return expression.NewLiteral(v) }

func TestGetFieldOutOfRange(t *testing.T) {
	gf := expression.NewGetField(5, "x")
	_, err := gf.Eval(nil, sql.Row{sql.NewText("a")})
	require.Error(t, err)
}

func TestAndShortCircuitsOnFalse(t *testing.T) {
	a := expression.NewAnd(lit(sql.NewBool(false)), lit(sql.NewEmpty()))
	v, err := a.Eval(nil, nil)
	require.NoError(t, err)
	assert.False(t, v.IsTrue())
	assert.Equal(t, sql.BoolKind, v.Kind())
}

func TestOrShortCircuitsOnTrue(t *testing.T) {
	o := expression.NewOr(lit(sql.NewBool(true)), lit(sql.NewEmpty()))
	v, err := o.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsTrue())
}

func TestBetween(t *testing.T) {
	n := func(s string) *expression.Literal { return lit(sql.NewNumber(decimal.RequireFromString(s))) }
	b := expression.NewBetween(n("5"), n("1"), n("10"))
	v, err := b.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsTrue())
}

func TestCaseNoMatchNoElseIsEmpty(t *testing.T) {
	c := expression.NewCase([]expression.WhenClause{
		{Cond: lit(sql.NewBool(false)), Then: lit(sql.NewText("x"))},
	}, nil)
	v, err := c.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsEmpty())
}

func TestTryCastAbsorbsFailure(t *testing.T) {
	c := expression.NewTryCast(lit(sql.NewText("not a number")), expression.TypeNumber)
	v, err := c.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsEmpty())
}

func TestCastRaisesOnFailure(t *testing.T) {
	c := expression.NewCast(lit(sql.NewText("not a number")), expression.TypeNumber)
	_, err := c.Eval(nil, nil)
	require.Error(t, err)
}

func TestLikePattern(t *testing.T) {
	l := expression.NewLike(lit(sql.NewText("hello world")), lit(sql.NewText("hello%")), false)
	v, err := l.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsTrue())
}

func TestFunctionConcat(t *testing.T) {
	f := expression.NewFunction("CONCAT", []expression.Expression{
		lit(sql.NewText("a")), lit(sql.NewText("b")), lit(sql.NewEmpty()),
	})
	v, err := f.Eval(nil, nil)
	require.NoError(t, err)
	s, ok := v.Text()
	require.True(t, ok)
	assert.Equal(t, "ab", s)
}

func TestFunctionUnknownIsSemanticError(t *testing.T) {
	f := expression.NewFunction("NOT_A_REAL_FUNCTION", nil)
	_, err := f.Eval(nil, nil)
	require.Error(t, err)
}

func TestIsScalarFunction(t *testing.T) {
	assert.True(t, expression.IsScalarFunction("upper"))
	assert.False(t, expression.IsScalarFunction("sum"))
}
