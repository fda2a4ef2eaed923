package engine

import (
	"encoding/json"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{NewIntValue(42), "42"},
		{NewIntValue(-7), "-7"},
		{NewFloatValue(2), "2.0"},
		{NewFloatValue(1.5), "1.5"},
		{NewFloatValue(-0.25), "-0.25"},
		{Value{}, "<invalid>"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestValue_Compare(t *testing.T) {
	require.Equal(t, -1, NewIntValue(1).Compare(NewIntValue(2)))
	require.Equal(t, 0, NewIntValue(2).Compare(NewIntValue(2)))
	require.Equal(t, 1, NewIntValue(-1).Compare(NewIntValue(-2)))
	require.Equal(t, 1, NewFloatValue(2.5).Compare(NewIntValue(2)))
	require.Equal(t, 0, NewFloatValue(2).Compare(NewIntValue(2)))
	require.False(t, NewFloatValue(2).Equal(NewIntValue(2)))
}

func TestValue_JSON(t *testing.T) {
	row := Tuple{NewIntValue(-3), NewFloatValue(2), NewFloatValue(0.5)}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	require.Equal(t, `[-3,2.0,0.5]`, string(data))

	var decoded Tuple
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, row.Equal(decoded))
}

func TestTuple_Key(t *testing.T) {
	a := NewTuple(1, 2)
	b := a.Clone()
	b[1] = NewIntValue(3)

	require.Equal(t, "(1,2)", a.String())
	require.Equal(t, a.Key(), NewTuple(1, 2).Key())
	require.NotEqual(t, a.Key(), b.Key())
	require.NotEqual(t, NewTuple(12).Key(), NewTuple(1, 2).Key())
	require.NotEqual(t, Tuple{NewIntValue(2)}.Key(), Tuple{NewFloatValue(2)}.Key())
}

func TestSchema(t *testing.T) {
	left, right := Schema{"A", "B"}, Schema{"C"}
	joined := left.Concat(right)
	require.Equal(t, Schema{"A", "B", "C"}, joined)
	require.Equal(t, Schema{"A", "B"}, left)

	i, ok := joined.IndexOf("C")
	require.True(t, ok)
	require.Equal(t, 2, i)
	_, ok = joined.IndexOf("D")
	require.False(t, ok)

	require.Equal(t, 0, NewTable(joined, nil).Len())
}
