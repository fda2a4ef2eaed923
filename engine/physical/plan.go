package physical

import (
	"context"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/engine/logical"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/aleph-zero/tinysql/service/storage"
	"github.com/aleph-zero/tinysql/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// QueryPlan runs scan, filter, group, project, distinct and sort, skipping the ones a query does not use.
type QueryPlan struct {
	Operators []OperatorNode
}

func NewQueryPlan(metaSvc metastore.Service, storageSvc storage.Service, plan *logical.QueryPlan) *QueryPlan {
	operators := []OperatorNode{NewScanOperator(metaSvc, storageSvc, plan.Tables)}
	if len(plan.Predicate) > 0 {
		operators = append(operators, NewFilterOperator(plan.Predicate))
	}
	column, _ := plan.GroupColumn()
	operators = append(operators,
		NewGroupOperator(column),
		NewProjectOperator(metaSvc, plan.SelectItems, plan.Grouped()))
	if plan.Distinct {
		operators = append(operators, NewDistinctOperator())
	}
	if plan.OrderBy != nil {
		operators = append(operators, NewSortOperator(*plan.OrderBy))
	}
	return &QueryPlan{Operators: operators}
}

func (plan *QueryPlan) Execute(ctx context.Context) (*Result, error) {
	engine.Logger(ctx).Debug("Executing query plan", "queryId", engine.QueryIdFromContext(ctx), "stages", len(plan.Operators))

	executor := &OperatorNodeExecutor{}
	for _, operator := range plan.Operators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := operator.Accept(ctx, executor); err != nil {
			return nil, err
		}
	}
	return executor.Result(), nil
}

type OperatorNodeVisitor interface {
	VisitScanOperator(context.Context, *ScanOperator) error
	VisitFilterOperator(context.Context, *FilterOperator) error
	VisitGroupOperator(context.Context, *GroupOperator) error
	VisitProjectOperator(context.Context, *ProjectOperator) error
	VisitDistinctOperator(context.Context, *DistinctOperator) error
	VisitSortOperator(context.Context, *SortOperator) error
}

type OperatorNode interface {
	Accept(context.Context, OperatorNodeVisitor) error
	Name() string
}

/* *** physical plan executor *** */

type OperatorNodeExecutor struct {
	working *engine.Table
	buckets []Bucket
	output  *engine.Table
	header  []string
}

func (ex *OperatorNodeExecutor) Result() *Result {
	return &Result{Header: ex.header, Schema: ex.output.Schema, Rows: ex.output.Rows}
}

func (ex *OperatorNodeExecutor) VisitScanOperator(ctx context.Context, operator *ScanOperator) error {
	return stage(ctx, operator, func(ctx context.Context) (err error) {
		ex.working, err = operator.Materialize(ctx)
		return err
	})
}

func (ex *OperatorNodeExecutor) VisitFilterOperator(ctx context.Context, operator *FilterOperator) error {
	return stage(ctx, operator, func(ctx context.Context) (err error) {
		ex.working, err = operator.Filter(ctx, ex.working)
		return err
	})
}

func (ex *OperatorNodeExecutor) VisitGroupOperator(ctx context.Context, operator *GroupOperator) error {
	return stage(ctx, operator, func(ctx context.Context) (err error) {
		ex.buckets, ex.working, err = operator.Bucket(ctx, ex.working)
		return err
	})
}

func (ex *OperatorNodeExecutor) VisitProjectOperator(ctx context.Context, operator *ProjectOperator) error {
	return stage(ctx, operator, func(ctx context.Context) (err error) {
		if ex.output, err = operator.Project(ctx, ex.buckets, ex.working.Schema); err != nil {
			return err
		}
		ex.header, err = operator.Header(ex.working.Schema)
		return err
	})
}

func (ex *OperatorNodeExecutor) VisitDistinctOperator(ctx context.Context, operator *DistinctOperator) error {
	return stage(ctx, operator, func(ctx context.Context) error {
		ex.output = operator.Dedupe(ctx, ex.output)
		return nil
	})
}

func (ex *OperatorNodeExecutor) VisitSortOperator(ctx context.Context, operator *SortOperator) error {
	return stage(ctx, operator, func(ctx context.Context) error {
		return operator.Sort(ctx, ex.output)
	})
}

func stage(ctx context.Context, operator OperatorNode, fn func(context.Context) error) error {
	ctx, span := telemetry.StartSpan(ctx, "physical."+operator.Name(),
		trace.WithAttributes(attribute.String("queryId", engine.QueryIdFromContext(ctx))))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		engine.Logger(ctx).Debug("Stage failed", "stage", operator.Name(), "queryId", engine.QueryIdFromContext(ctx), "error", err)
		return err
	}
	return nil
}
