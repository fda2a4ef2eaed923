package physical

import (
	"context"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/aleph-zero/tinysql/service/storage"
)

type ScanOperator struct {
	metaSvc    metastore.Service
	storageSvc storage.Service
	tables     []string
	Stats      ScanOperatorStats
}

func NewScanOperator(metaSvc metastore.Service, storageSvc storage.Service, tables []string) *ScanOperator {
	return &ScanOperator{
		metaSvc:    metaSvc,
		storageSvc: storageSvc,
		tables:     tables,
	}
}

type ScanOperatorStats struct {
	Tables  int
	Records uint64 // rows read from storage
	Rows    uint64 // rows in the materialized table
}

func (operator *ScanOperator) Name() string { return "Scan" }

func (operator *ScanOperator) Accept(ctx context.Context, visitor OperatorNodeVisitor) error {
	return visitor.VisitScanOperator(ctx, operator)
}

func (operator *ScanOperator) Materialize(ctx context.Context) (*engine.Table, error) {
	var working *engine.Table
	for _, name := range operator.tables {
		tmd, err := operator.metaSvc.GetTable(name)
		if err != nil {
			return nil, err
		}
		rows, err := operator.storageSvc.LoadTable(ctx, tmd)
		if err != nil {
			return nil, err
		}

		operator.Stats.Tables++
		operator.Stats.Records += uint64(len(rows))
		table := engine.NewTable(tmd.Schema(), rows)
		if working == nil {
			working = table
			continue
		}
		working = CrossJoin(working, table)
	}

	if working == nil {
		working = engine.NewTable(nil, nil)
	}
	operator.Stats.Rows = uint64(working.Len())
	engine.Logger(ctx).Debug("Scan finished",
		"queryId", engine.QueryIdFromContext(ctx),
		"tables", operator.Stats.Tables,
		"records", operator.Stats.Records,
		"rows", operator.Stats.Rows)
	return working, nil
}

// CrossJoin pairs every left row with every right row, left-row major. The schema
// is the left schema followed by the right schema.
func CrossJoin(left, right *engine.Table) *engine.Table {
	rows := make([]engine.Tuple, 0, len(left.Rows)*len(right.Rows))
	for _, l := range left.Rows {
		for _, r := range right.Rows {
			row := make(engine.Tuple, 0, len(l)+len(r))
			row = append(row, l...)
			rows = append(rows, append(row, r...))
		}
	}
	return engine.NewTable(left.Schema.Concat(right.Schema), rows)
}
