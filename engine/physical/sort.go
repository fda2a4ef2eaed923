package physical

import (
	"context"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/engine/logical"
	"slices"
)

type SortOperator struct {
	orderBy logical.OrderBy
}

func NewSortOperator(orderBy logical.OrderBy) *SortOperator {
	return &SortOperator{orderBy: orderBy}
}

func (operator *SortOperator) Name() string { return "Sort" }

func (operator *SortOperator) Accept(ctx context.Context, visitor OperatorNodeVisitor) error {
	return visitor.VisitSortOperator(ctx, operator)
}

func (operator *SortOperator) Sort(ctx context.Context, table *engine.Table) error {
	i, ok := table.Schema.IndexOf(operator.orderBy.Column)
	if !ok {
		return Error{
			ErrorCode: InvalidOrderByColumn,
			Message:   fmt.Sprintf("invalid column '%s' in ORDER BY clause", operator.orderBy.Column),
		}
	}

	descending := operator.orderBy.Direction == logical.Descending
	slices.SortStableFunc(table.Rows, func(a, b engine.Tuple) int {
		if descending {
			return b[i].Compare(a[i])
		}
		return a[i].Compare(b[i])
	})

	engine.Logger(ctx).Debug("Sort finished", "queryId", engine.QueryIdFromContext(ctx), "orderBy", operator.orderBy.String())
	return nil
}
