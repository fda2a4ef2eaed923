package physical

import (
	"context"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/engine/logical"
	"github.com/aleph-zero/tinysql/engine/token"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestFilterOperator_Filter(t *testing.T) {
	ctx := context.Background()
	table := tableOf(engine.Schema{"A", "B"}, [][]int64{{1, 10}, {2, 2}, {3, -4}, {4, 4}})

	tests := []struct {
		name      string
		predicate []logical.PredicateToken
		expected  [][]string
	}{
		{"literal", []logical.PredicateToken{logical.NewComparison("A >= 3")}, [][]string{{"3", "-4"}, {"4", "4"}}},
		{"column", []logical.PredicateToken{logical.NewComparison("A = B")}, [][]string{{"2", "2"}, {"4", "4"}}},
		{"literal on the left", []logical.PredicateToken{logical.NewComparison("2 < A")}, [][]string{{"3", "-4"}, {"4", "4"}}},
		{"negative literal", []logical.PredicateToken{logical.NewComparison("B<-1")}, [][]string{{"3", "-4"}}},
		{"no match", []logical.PredicateToken{logical.NewComparison("A > 100")}, nil},
		{
			"or then and",
			[]logical.PredicateToken{
				logical.NewComparison("A = 1"), logical.OR, logical.NewComparison("A = 4"), logical.AND, logical.NewComparison("B = 4"),
			},
			[][]string{{"4", "4"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := NewFilterOperator(tt.predicate).Filter(ctx, table)
			require.NoError(t, err)
			require.Equal(t, table.Schema, filtered.Schema)
			require.Equal(t, tt.expected, rowStrings(filtered.Rows))
			require.Equal(t, 4, table.Len())
		})
	}
}

func TestFilterOperator_FilterError(t *testing.T) {
	table := tableOf(engine.Schema{"A"}, [][]int64{{1}, {2}})
	predicate := []logical.PredicateToken{logical.NewComparison("A = 1"), logical.AND, logical.NewComparison("Z = 1")}

	filtered, err := NewFilterOperator(predicate).Filter(context.Background(), table)
	require.ErrorIs(t, err, Error{ErrorCode: InvalidPredicateColumn})
	require.Nil(t, filtered)
	require.Equal(t, 2, table.Len())
}

func TestCompileComparison(t *testing.T) {
	schema := engine.Schema{"A", "B"}

	tests := []struct {
		text string
		op   token.TokenType
		code ErrorCode
	}{
		{"A = B", token.EQUAL, 0},
		{"A>=1", token.GTE, 0},
		{"1 <= B", token.LTE, 0},
		{"A", token.EOF, MalformedComparison},
		{"= 1", token.EOF, MalformedComparison},
		{"A >", token.EOF, MalformedComparison},
		{"C = 1", token.EOF, InvalidPredicateColumn},
		{"A = C", token.EOF, InvalidPredicateColumn},
		{"A = 99999999999999999999", token.EOF, MalformedComparison},
		{"-99999999999999999999 < B", token.EOF, MalformedComparison},
		{"A = -9223372036854775808", token.EQUAL, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmp, err := CompileComparison(tt.text, schema)
			if tt.code != 0 {
				require.ErrorIs(t, err, Error{ErrorCode: tt.code})
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.op, cmp.Op)
		})
	}
}
