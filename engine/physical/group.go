package physical

import (
	"context"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
)

type Bucket struct {
	Key  engine.Value
	Rows []engine.Tuple
}

type GroupOperator struct {
	column string
}

func NewGroupOperator(column string) *GroupOperator {
	return &GroupOperator{column: column}
}

func (operator *GroupOperator) Name() string { return "Group" }

func (operator *GroupOperator) Accept(ctx context.Context, visitor OperatorNodeVisitor) error {
	return visitor.VisitGroupOperator(ctx, operator)
}

// Bucket returns the buckets in first-seen key order together with the working
// table reordered to the concatenation of those buckets.
func (operator *GroupOperator) Bucket(ctx context.Context, table *engine.Table) ([]Bucket, *engine.Table, error) {
	if operator.column == "" {
		return []Bucket{{Key: engine.NewIntValue(0), Rows: table.Rows}}, table, nil
	}

	i, ok := table.Schema.IndexOf(operator.column)
	if !ok {
		return nil, nil, Error{
			ErrorCode: InvalidGroupByColumn,
			Message:   fmt.Sprintf("invalid column '%s' in GROUP BY clause", operator.column),
		}
	}

	var buckets []Bucket
	positions := make(map[engine.Value]int)
	for _, row := range table.Rows {
		key := row[i]
		p, ok := positions[key]
		if !ok {
			p = len(buckets)
			positions[key] = p
			buckets = append(buckets, Bucket{Key: key})
		}
		buckets[p].Rows = append(buckets[p].Rows, row)
	}

	rows := make([]engine.Tuple, 0, len(table.Rows))
	for _, bucket := range buckets {
		rows = append(rows, bucket.Rows...)
	}

	engine.Logger(ctx).Debug("Group finished",
		"queryId", engine.QueryIdFromContext(ctx),
		"column", operator.column,
		"buckets", len(buckets))
	return buckets, engine.NewTable(table.Schema, rows), nil
}
