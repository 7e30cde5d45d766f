package sql_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dolthub/csvsql/sql"
)

func TestEquals(t *testing.T) {
	assert.True(t, sql.Equals(sql.NewEmpty(), sql.NewEmpty()).IsTrue())
	assert.False(t, sql.Equals(sql.NewEmpty(), sql.NewText("")).IsTrue())
	assert.True(t, sql.Equals(sql.NewText("3"), sql.NewNumber(decimal.RequireFromString("3"))).IsTrue())
	assert.False(t, sql.Equals(sql.NewText("abc"), sql.NewBool(true)).IsTrue())
}

func TestLessEmptyFirst(t *testing.T) {
	empty := sql.NewEmpty()
	one := sql.NewNumber(decimal.RequireFromString("1"))

	assert.True(t, sql.Less(empty, one, false))
	assert.True(t, sql.Less(empty, one, true), "Empty sorts first regardless of direction")
	assert.False(t, sql.Less(one, empty, true))
}

func TestLessTypeRank(t *testing.T) {
	b := sql.NewBool(true)
	n := sql.NewNumber(decimal.RequireFromString("0"))
	assert.True(t, sql.Less(b, n, false), "Bool ranks before Number")
}
