package sql_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dolthub/csvsql/sql"
)

func num(s string) sql.Value { return sql.NewNumber(decimal.RequireFromString(s)) }

func TestDivByZeroIsEmpty(t *testing.T) {
	result := sql.Div(num("1"), num("0"))
	assert.True(t, result.IsEmpty())
}

func TestDivDoesNotTruncate(t *testing.T) {
	result := sql.Div(num("1"), num("3"))
	n, ok := result.Number()
	assert.True(t, ok)
	assert.True(t, n.GreaterThan(decimal.RequireFromString("0.333")))
}

func TestArithmeticOnNonNumericIsEmpty(t *testing.T) {
	assert.True(t, sql.Add(sql.NewText("abc"), num("1")).IsEmpty())
	assert.True(t, sql.Add(sql.NewEmpty(), num("1")).IsEmpty())
}

func TestConcat(t *testing.T) {
	result := sql.Concat(sql.NewText("a"), sql.NewEmpty())
	s, ok := result.Text()
	assert.True(t, ok)
	assert.Equal(t, "a", s)
}
