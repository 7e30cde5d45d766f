package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/csvsql/parse/ast"
	"github.com/dolthub/csvsql/parse/parser"
)

func parseOne(t *testing.T, input string) ast.Statement {
	t.Helper()
	stmts, err := parser.ParseStatements(input)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func TestParseSimpleSelect(t *testing.T) {
	stmt := parseOne(t, "SELECT a, b AS bb FROM t WHERE a = 1 ORDER BY b DESC LIMIT 10 OFFSET 5;")
	sel, ok := stmt.(ast.SelectStatement)
	require.True(t, ok)
	require.Len(t, sel.Columns, 2)
	assert.Equal(t, "bb", sel.Columns[1].Alias)
	require.NotNil(t, sel.From)
	assert.Equal(t, "t", sel.From.Name)
	require.NotNil(t, sel.Where)
	require.Len(t, sel.OrderBy, 1)
	assert.True(t, sel.OrderBy[0].Desc)
	require.NotNil(t, sel.Limit)
	assert.EqualValues(t, 10, *sel.Limit)
	require.NotNil(t, sel.Offset)
	assert.EqualValues(t, 5, *sel.Offset)
}

func TestParseJoinOnAndUsing(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM a JOIN b ON a.id = b.id LEFT JOIN c USING (id);")
	sel := stmt.(ast.SelectStatement)
	require.Len(t, sel.Joins, 2)
	assert.Equal(t, ast.JoinInner, sel.Joins[0].Type)
	require.NotNil(t, sel.Joins[0].On)
	assert.Equal(t, ast.JoinLeft, sel.Joins[1].Type)
	assert.Equal(t, []string{"id"}, sel.Joins[1].Using)
}

func TestParseGroupByHavingDistinct(t *testing.T) {
	stmt := parseOne(t, "SELECT DISTINCT a, COUNT(*) FROM t GROUP BY a HAVING COUNT(*) > 1;")
	sel := stmt.(ast.SelectStatement)
	assert.True(t, sel.Distinct)
	require.Len(t, sel.GroupBy, 1)
	require.NotNil(t, sel.Having)
}

func TestParseExpressionPrecedence(t *testing.T) {
	stmt := parseOne(t, "SELECT 1 + 2 * 3 FROM t;")
	sel := stmt.(ast.SelectStatement)
	bin := sel.Columns[0].Expr.(ast.BinaryExpr)
	assert.Equal(t, "+", bin.Op)
	_, rhsIsMul := bin.Right.(ast.BinaryExpr)
	assert.True(t, rhsIsMul)
}

func TestParseBetweenAndNotBetween(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM t WHERE a BETWEEN 1 AND 10;")
	sel := stmt.(ast.SelectStatement)
	_, ok := sel.Where.(ast.BetweenExpr)
	require.True(t, ok)

	stmt2 := parseOne(t, "SELECT * FROM t WHERE a NOT BETWEEN 1 AND 10;")
	sel2 := stmt2.(ast.SelectStatement)
	un, ok := sel2.Where.(ast.UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, "NOT", un.Op)
}

func TestParseInAndLike(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM t WHERE a IN (1, 2, 3) AND b LIKE 'x%';")
	sel := stmt.(ast.SelectStatement)
	and := sel.Where.(ast.BinaryExpr)
	in, ok := and.Left.(ast.InExpr)
	require.True(t, ok)
	assert.Len(t, in.List, 3)
	like, ok := and.Right.(ast.LikeExpr)
	require.True(t, ok)
	assert.False(t, like.Negate)
}

func TestParseCaseExpr(t *testing.T) {
	stmt := parseOne(t, "SELECT CASE WHEN a = 1 THEN 'one' ELSE 'other' END FROM t;")
	sel := stmt.(ast.SelectStatement)
	c, ok := sel.Columns[0].Expr.(ast.CaseExpr)
	require.True(t, ok)
	require.Len(t, c.Whens, 1)
	require.NotNil(t, c.Else)
}

func TestParseCastAndExtract(t *testing.T) {
	stmt := parseOne(t, "SELECT CAST(a AS NUMBER), EXTRACT(YEAR FROM b) FROM t;")
	sel := stmt.(ast.SelectStatement)
	cast, ok := sel.Columns[0].Expr.(ast.CastExpr)
	require.True(t, ok)
	assert.Equal(t, "NUMBER", cast.Type)
	assert.False(t, cast.TryCast)
	ext, ok := sel.Columns[1].Expr.(ast.ExtractExpr)
	require.True(t, ok)
	assert.Equal(t, "YEAR", ext.Part)
}

func TestParseInsertValues(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO t (a, b) VALUES (1, 'x'), (2, 'y');")
	ins, ok := stmt.(ast.InsertStatement)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ins.Columns)
	require.Len(t, ins.Values, 2)
}

func TestParseUpdateAndDelete(t *testing.T) {
	stmt := parseOne(t, "UPDATE t SET a = 1, b = 2 WHERE c = 3;")
	upd, ok := stmt.(ast.UpdateStatement)
	require.True(t, ok)
	require.Len(t, upd.Sets, 2)
	require.NotNil(t, upd.Where)

	stmt2 := parseOne(t, "DELETE FROM t WHERE c = 3;")
	del, ok := stmt2.(ast.DeleteStatement)
	require.True(t, ok)
	require.NotNil(t, del.Where)
}

func TestParseCreateAlterDropTable(t *testing.T) {
	stmt := parseOne(t, "CREATE TEMPORARY TABLE t (a NUMBER, b TEXT);")
	ct, ok := stmt.(ast.CreateTableStatement)
	require.True(t, ok)
	assert.True(t, ct.Temporary)
	require.Len(t, ct.Columns, 2)

	stmt2 := parseOne(t, "ALTER TABLE t ADD COLUMN c NUMBER, DROP COLUMN a, RENAME COLUMN b TO bb;")
	at, ok := stmt2.(ast.AlterTableStatement)
	require.True(t, ok)
	require.Len(t, at.Clauses, 3)
	assert.Equal(t, ast.AlterAddColumn, at.Clauses[0].Kind)
	assert.Equal(t, ast.AlterDropColumn, at.Clauses[1].Kind)
	assert.Equal(t, ast.AlterRenameColumn, at.Clauses[2].Kind)

	stmt3 := parseOne(t, "DROP TABLE IF EXISTS t;")
	dt, ok := stmt3.(ast.DropTableStatement)
	require.True(t, ok)
	assert.True(t, dt.IfExists)
}

func TestParseUseAndTransactionControl(t *testing.T) {
	stmt := parseOne(t, "USE mydb;")
	use, ok := stmt.(ast.UseStatement)
	require.True(t, ok)
	assert.Equal(t, "mydb", use.Name)

	stmts, err := parser.ParseStatements("START TRANSACTION; COMMIT; ROLLBACK;")
	require.NoError(t, err)
	require.Len(t, stmts, 3)
}

func TestParseRejectsUnsupportedDialectFeatures(t *testing.T) {
	cases := []string{
		"SELECT * FROM a NATURAL JOIN b;",
		"SELECT TOP 10 * FROM t;",
		"WITH x AS (SELECT 1) SELECT * FROM x;",
		"SELECT * FROM t FOR UPDATE;",
	}
	for _, c := range cases {
		_, err := parser.ParseStatements(c)
		assert.Error(t, err, c)
	}
}

func TestParseMultipleStatements(t *testing.T) {
	stmts, err := parser.ParseStatements("SELECT 1; SELECT 2;")
	require.NoError(t, err)
	require.Len(t, stmts, 2)
}
