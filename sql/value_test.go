package sql_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/sql"
)

func TestValueCanonicalText(t *testing.T) {
	cases := []struct {
		Name   string
		Value  sql.Value
		Expect string
	}{
		{"empty", sql.NewEmpty(), ""},
		{"bool true", sql.NewBool(true), "true"},
		{"bool false", sql.NewBool(false), "false"},
		{"number trims zeros", sql.NewNumber(decimal.RequireFromString("1.500")), "1.5"},
		{"number integral", sql.NewNumber(decimal.RequireFromString("3.000")), "3"},
		{"text passthrough", sql.NewText("hello"), "hello"},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, c.Value.CanonicalText())
		})
	}
}

func TestValueIsTrue(t *testing.T) {
	assert.True(t, sql.NewBool(true).IsTrue())
	assert.False(t, sql.NewBool(false).IsTrue())
	assert.False(t, sql.NewEmpty().IsTrue())
	assert.False(t, sql.NewText("true").IsTrue())
}

func TestValueAsNumber(t *testing.T) {
	n, ok := sql.NewText(" 42.5 ").AsNumber()
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("42.5").Equal(n))

	_, ok = sql.NewText("not a number").AsNumber()
	assert.False(t, ok)

	_, ok = sql.NewEmpty().AsNumber()
	assert.False(t, ok)
}
