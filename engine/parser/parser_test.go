package parser

import (
	"errors"
	"github.com/aleph-zero/tinysql/engine/ast"
	"github.com/aleph-zero/tinysql/engine/token"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParser_ParseStatements(t *testing.T) {
	tests := []struct {
		stmt     string
		expected string
	}{
		{`SELECT A FROM table1;`, `SELECT A FROM table1`},
		{`SELECT A, B FROM table1, table2;`, `SELECT A, B FROM table1, table2`},
		{`SELECT * FROM table1;`, `SELECT * FROM table1`},
		{`select count(*), sum(B) from t;`, `select count(*), sum(B) from t`},
		{`SELECT DISTINCT A FROM t;`, `SELECT DISTINCT A FROM t`},
		{`SELECT A FROM t WHERE A = 1;`, `SELECT A FROM t WHERE A = 1`},
		{`SELECT A FROM t WHERE A>=1 AND B < -2 OR C = A;`, `SELECT A FROM t WHERE A >= 1 AND B < -2 OR C = A`},
		{`SELECT A FROM t GROUP BY A ORDER BY A DESC;`, `SELECT A FROM t GROUP BY A ORDER BY A DESC`},
		{`SELECT A FROM t ORDER   BY A asc;`, `SELECT A FROM t ORDER BY A asc`},
		{`SELECT A FROM t`, `SELECT A FROM t`},
	}

	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			root, err := Parse(tt.stmt)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, root.Value()); diff != "" {
				t.Errorf("statement does not match (-expected, +received):\n%s", diff)
			}
		})
	}
}

func TestParser_NodeShapes(t *testing.T) {
	root, err := Parse(`SELECT DISTINCT A, count(*) FROM t WHERE A = 1 OR B > 2 GROUP BY A ORDER BY B DESC;`)
	require.NoError(t, err)
	require.Len(t, root.Nodes, 10)

	require.IsType(t, &ast.KeywordNode{}, root.Nodes[0])
	require.True(t, root.Nodes[1].(*ast.KeywordNode).Matches("distinct"))

	list, ok := root.Nodes[2].(*ast.IdentifierListNode)
	require.True(t, ok)
	require.Len(t, list.Items, 2)
	require.IsType(t, &ast.IdentifierNode{}, list.Items[0])
	require.Equal(t, &ast.FunctionNode{Name: "count", Argument: "*"}, list.Items[1])

	where, ok := root.Nodes[5].(*ast.WhereNode)
	require.True(t, ok)
	require.Len(t, where.Children, 3)
	require.IsType(t, &ast.ComparisonNode{}, where.Children[0])
	require.Equal(t, token.OR, where.Children[1].(*ast.KeywordNode).Token.TokenType)

	require.True(t, root.Nodes[6].(*ast.KeywordNode).Matches("group by"))
	require.True(t, root.Nodes[8].(*ast.KeywordNode).Matches("order by"))

	orderBy := root.Nodes[9].(*ast.IdentifierNode)
	require.Equal(t, "B", orderBy.Name)
	require.NotNil(t, orderBy.Ordering)
	require.Equal(t, token.DESC, orderBy.Ordering.TokenType)
}

func TestParser_ParseErrors(t *testing.T) {
	tests := []struct {
		stmt string
	}{
		{`SELECT A B FROM t;`},
		{`SELECT A FROM t WHERE;`},
		{`SELECT A FROM t WHERE GROUP BY A;`},
		{`SELECT A FROM t WHERE A;`},
		{`SELECT A FROM t WHERE A = ;`},
		{`SELECT A FROM t WHERE A = -B;`},
		{`SELECT sum(B FROM t;`},
		{`SELECT sum() FROM t;`},
		{`SELECT A FROM t GROUP A;`},
		{`SELECT A FROM t; SELECT B FROM t;`},
		{`SELECT A, FROM t;`},
		{`ASC;`},
	}

	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			_, err := Parse(tt.stmt)
			var parseError ParseError
			require.True(t, errors.As(err, &parseError), "expected a parse error, received: %v", err)
		})
	}
}
