package aggregation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/expression/aggregation"
	"github.com/dolthub/csvsql/sql"
)

func num(s string) sql.Value { return sql.NewNumber(decimal.RequireFromString(s)) }

func TestCountStarCountsEmpty(t *testing.T) {
	buf := aggregation.NewCount(nil, true).NewBuffer()
	require.NoError(t, buf.Accumulate(nil, sql.NewEmpty()))
	require.NoError(t, buf.Accumulate(nil, num("1")))
	v, err := buf.Finalize()
	require.NoError(t, err)
	n, _ := v.Number()
	assert.True(t, decimal.NewFromInt(2).Equal(n))
}

func TestCountSkipsEmptyWithoutStar(t *testing.T) {
	buf := aggregation.NewCount(nil, false).NewBuffer()
	require.NoError(t, buf.Accumulate(nil, sql.NewEmpty()))
	require.NoError(t, buf.Accumulate(nil, num("1")))
	v, _ := buf.Finalize()
	n, _ := v.Number()
	assert.True(t, decimal.NewFromInt(1).Equal(n))
}

func TestAvgZeroCountIsEmpty(t *testing.T) {
	buf := aggregation.NewAvg(nil).NewBuffer()
	v, err := buf.Finalize()
	require.NoError(t, err)
	assert.True(t, v.IsEmpty())
}

func TestMinMax(t *testing.T) {
	minBuf := aggregation.NewMin(nil).NewBuffer()
	maxBuf := aggregation.NewMax(nil).NewBuffer()
	for _, s := range []string{"3", "9", "1"} {
		require.NoError(t, minBuf.Accumulate(nil, num(s)))
		require.NoError(t, maxBuf.Accumulate(nil, num(s)))
	}
	minV, _ := minBuf.Finalize()
	maxV, _ := maxBuf.Finalize()
	assert.Equal(t, "1", minV.CanonicalText())
	assert.Equal(t, "9", maxV.CanonicalText())
}

func TestAnyValueSkipsLeadingEmpty(t *testing.T) {
	buf := aggregation.NewAnyValue(nil).NewBuffer()
	require.NoError(t, buf.Accumulate(nil, sql.NewEmpty()))
	require.NoError(t, buf.Accumulate(nil, sql.NewText("first")))
	require.NoError(t, buf.Accumulate(nil, sql.NewText("second")))
	v, _ := buf.Finalize()
	assert.Equal(t, "first", v.CanonicalText())
}

func TestDistinctCount(t *testing.T) {
	d := aggregation.NewDistinct(aggregation.NewCount(nil, false))
	buf := d.NewBuffer()
	for _, s := range []string{"a", "a", "b"} {
		require.NoError(t, buf.Accumulate(nil, sql.NewText(s)))
	}
	v, _ := buf.Finalize()
	n, _ := v.Number()
	assert.True(t, decimal.NewFromInt(2).Equal(n))
}
