package physical

import (
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/engine/logical"
	"golang.org/x/exp/constraints"
)

func Aggregate(call *logical.AggregateCall, rows []engine.Tuple, schema engine.Schema) (engine.Value, error) {
	if call.Kind == logical.COUNT && call.Argument == "*" {
		return engine.NewIntValue(int64(len(rows))), nil
	}

	i, err := aggregateArgument(call, schema)
	if err != nil {
		return engine.Value{}, err
	}

	if call.Kind == logical.COUNT {
		return engine.NewIntValue(int64(len(rows))), nil
	}
	if len(rows) == 0 {
		return engine.Value{}, Error{
			ErrorCode: EmptyAggregate,
			Message:   fmt.Sprintf("cannot evaluate %s over an empty group", call.Text),
		}
	}

	values := make([]int64, len(rows))
	for r, row := range rows {
		values[r] = row[i].MustInt()
	}

	switch call.Kind {
	case logical.SUM:
		return engine.NewIntValue(sum(values)), nil
	case logical.AVG:
		return engine.NewFloatValue(float64(sum(values)) / float64(len(values))), nil
	case logical.MAX:
		return engine.NewIntValue(maximum(values)), nil
	case logical.MIN:
		return engine.NewIntValue(minimum(values)), nil
	default:
		panic(fmt.Sprintf("unhandled aggregate %s", call.Kind))
	}
}

func aggregateArgument(call *logical.AggregateCall, schema engine.Schema) (int, error) {
	if call.Argument == "*" {
		return -1, Error{
			ErrorCode: InvalidAggregateArgument,
			Message:   fmt.Sprintf("invalid argument in %s: '*' is only valid for COUNT", call.Text),
		}
	}
	i, ok := schema.IndexOf(call.Argument)
	if !ok {
		return -1, Error{
			ErrorCode: InvalidAggregateArgument,
			Message:   fmt.Sprintf("invalid column '%s' in %s", call.Argument, call.Text),
		}
	}
	return i, nil
}

type numeric interface {
	constraints.Integer | constraints.Float
}

func sum[T numeric](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}

func maximum[T constraints.Ordered](values []T) T {
	m := values[0]
	for _, v := range values[1:] {
		m = max(m, v)
	}
	return m
}

func minimum[T constraints.Ordered](values []T) T {
	m := values[0]
	for _, v := range values[1:] {
		m = min(m, v)
	}
	return m
}
