package query

import (
	"context"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/engine/logical"
	"github.com/aleph-zero/tinysql/engine/parser"
	"github.com/aleph-zero/tinysql/engine/physical"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/aleph-zero/tinysql/service/storage"
	"github.com/aleph-zero/tinysql/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"io"
	"strings"
	"sync"
	"time"
)

type Service interface {
	Execute(ctx context.Context, query string) (*QueryResult, error)
}

// ServiceProvider runs one query at a time; concurrent callers wait their turn.
type ServiceProvider struct {
	lock       sync.Mutex
	metaSvc    metastore.Service
	storageSvc storage.Service
	queries    metric.Int64Counter
	duration   metric.Float64Histogram
}

func NewService(metaSvc metastore.Service, storageSvc storage.Service) Service {
	meter := telemetry.Meter()
	queries, _ := meter.Int64Counter("tinysql.queries",
		metric.WithDescription("Number of executed queries"))
	duration, _ := meter.Float64Histogram("tinysql.query.duration",
		metric.WithDescription("Query execution time"),
		metric.WithUnit("ms"))

	return &ServiceProvider{
		metaSvc:    metaSvc,
		storageSvc: storageSvc,
		queries:    queries,
		duration:   duration,
	}
}

func (sp *ServiceProvider) Execute(ctx context.Context, query string) (*QueryResult, error) {
	sp.lock.Lock()
	defer sp.lock.Unlock()

	start := time.Now()
	queryId := engine.NewQueryId()
	ctx = engine.WithQueryId(ctx, queryId)
	ctx = engine.WithLogger(ctx, engine.Logger(ctx).With("queryId", queryId))

	ctx, span := telemetry.StartSpan(ctx, "query.Execute", trace.WithAttributes(
		attribute.String("queryId", queryId),
		attribute.String("db.query.text", query)))
	defer span.End()

	result, err := sp.execute(ctx, query, span)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	sp.queries.Add(ctx, 1, attrs)
	sp.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)

	if err != nil {
		return nil, err
	}

	engine.Logger(ctx).Info("Query finished", "rows", len(result.Rows), "duration", elapsed)
	return &QueryResult{
		QueryId:  queryId,
		Duration: elapsed,
		Header:   result.Header,
		Rows:     result.Rows,
		result:   result,
	}, nil
}

func (sp *ServiceProvider) execute(ctx context.Context, query string, span trace.Span) (*physical.Result, error) {
	plan, err := createQueryPlan(ctx, sp.metaSvc, sp.storageSvc, query)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("db.collection.name", strings.Join(plan.tables, ",")))

	result, err := plan.physical.Execute(ctx)
	if err != nil {
		engine.Logger(ctx).Error("Error executing query", "query", query, "error", err)
		return nil, err
	}
	return result, nil
}

type QueryResult struct {
	QueryId  string         `json:"queryId"`
	Duration time.Duration  `json:"duration"`
	Header   []string       `json:"header"`
	Rows     []engine.Tuple `json:"rows"`
	result   *physical.Result
}

func (r *QueryResult) Render(w io.Writer, format physical.Format) error {
	return r.result.Render(w, format)
}

type queryPlan struct {
	tables   []string
	physical *physical.QueryPlan
}

func createQueryPlan(ctx context.Context, metaSvc metastore.Service, storageSvc storage.Service, query string) (*queryPlan, error) {
	if err := logical.CheckTerminator(query); err != nil {
		engine.Logger(ctx).Error("Error parsing query", "query", query, "error", err)
		return nil, err
	}

	tokens, err := parser.LexicalScan(query)
	if err != nil {
		engine.Logger(ctx).Error("Error parsing query", "query", query, "error", err)
		return nil, err
	}

	ast, err := parser.New(tokens).Parse()
	if err != nil {
		engine.Logger(ctx).Error("Error parsing query", "query", query, "error", err)
		return nil, err
	}

	plan, err := logical.NewQueryPlan(ast)
	if err != nil {
		engine.Logger(ctx).Error("Error creating logical plan", "query", query, "error", err)
		return nil, err
	}
	engine.Logger(ctx).Debug("Created logical plan", "plan", plan.String())

	return &queryPlan{
		tables:   plan.Tables,
		physical: physical.NewQueryPlan(metaSvc, storageSvc, plan),
	}, nil
}
