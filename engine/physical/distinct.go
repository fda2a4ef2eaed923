package physical

import (
	"context"
	"github.com/aleph-zero/tinysql/engine"
)

type DistinctOperator struct{}

func NewDistinctOperator() *DistinctOperator {
	return &DistinctOperator{}
}

func (operator *DistinctOperator) Name() string { return "Distinct" }

func (operator *DistinctOperator) Accept(ctx context.Context, visitor OperatorNodeVisitor) error {
	return visitor.VisitDistinctOperator(ctx, operator)
}

func (operator *DistinctOperator) Dedupe(ctx context.Context, table *engine.Table) *engine.Table {
	seen := make(map[string]struct{}, len(table.Rows))
	rows := make([]engine.Tuple, 0, len(table.Rows))
	for _, row := range table.Rows {
		key := row.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}

	engine.Logger(ctx).Debug("Distinct finished", "queryId", engine.QueryIdFromContext(ctx), "in", len(table.Rows), "out", len(rows))
	return engine.NewTable(table.Schema, rows)
}
