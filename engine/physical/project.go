package physical

import (
	"context"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/engine/logical"
	"github.com/aleph-zero/tinysql/service/metastore"
)

type ProjectOperator struct {
	metaSvc metastore.Service
	items   []logical.SelectItem
	grouped bool
}

func NewProjectOperator(metaSvc metastore.Service, items []logical.SelectItem, grouped bool) *ProjectOperator {
	return &ProjectOperator{
		metaSvc: metaSvc,
		items:   items,
		grouped: grouped,
	}
}

func (operator *ProjectOperator) Name() string { return "Project" }

func (operator *ProjectOperator) Accept(ctx context.Context, visitor OperatorNodeVisitor) error {
	return visitor.VisitProjectOperator(ctx, operator)
}

type placeholder struct {
	row    int
	pos    int
	bucket int
	call   *logical.AggregateCall
}

type aggregateKey struct {
	bucket int
	call   *logical.AggregateCall
}

func (operator *ProjectOperator) Project(ctx context.Context, buckets []Bucket, schema engine.Schema) (*engine.Table, error) {
	positions, err := operator.resolve(schema)
	if err != nil {
		return nil, err
	}

	var rows []engine.Tuple
	var pending []placeholder
	for b, bucket := range buckets {
		for _, in := range bucket.Rows {
			out := make(engine.Tuple, 0, len(operator.items))
			var registered []placeholder
			for n, item := range operator.items {
				switch it := item.(type) {
				case *logical.ColumnRef:
					out = append(out, in[positions[n]])
				case *logical.Wildcard:
					// the whole row replaces whatever was projected before it
					out = in.Clone()
					registered = nil
				case *logical.AggregateCall:
					registered = append(registered, placeholder{row: len(rows), pos: len(out), bucket: b, call: it})
					out = append(out, engine.Value{})
				}
			}
			rows = append(rows, out)
			pending = append(pending, registered...)

			if operator.grouped {
				break
			}
		}
	}

	values := make(map[aggregateKey]engine.Value)
	for _, p := range pending {
		key := aggregateKey{bucket: p.bucket, call: p.call}
		v, ok := values[key]
		if !ok {
			if v, err = Aggregate(p.call, buckets[p.bucket].Rows, schema); err != nil {
				return nil, err
			}
			values[key] = v
		}
		rows[p.row][p.pos] = v
	}

	engine.Logger(ctx).Debug("Project finished",
		"queryId", engine.QueryIdFromContext(ctx),
		"grouped", operator.grouped,
		"rows", len(rows),
		"aggregates", len(values))
	return engine.NewTable(operator.Schema(schema), rows), nil
}

// resolve checks every select item against the working schema and returns the
// position of each column item.
func (operator *ProjectOperator) resolve(schema engine.Schema) ([]int, error) {
	positions := make([]int, len(operator.items))
	for n, item := range operator.items {
		switch it := item.(type) {
		case *logical.ColumnRef:
			i, ok := schema.IndexOf(it.Name)
			if !ok {
				return nil, Error{
					ErrorCode: InvalidSelectColumn,
					Message:   fmt.Sprintf("invalid column '%s' in SELECT clause", it.Name),
				}
			}
			positions[n] = i
		case *logical.AggregateCall:
			if it.Kind == logical.COUNT && it.Argument == "*" {
				continue
			}
			if _, err := aggregateArgument(it, schema); err != nil {
				return nil, err
			}
		}
	}
	return positions, nil
}

func (operator *ProjectOperator) Schema(schema engine.Schema) engine.Schema {
	return operator.names(schema, func(column string) string { return column })
}

// Header names the output columns for display: columns qualified as
// table.column, aggregates by their call text.
func (operator *ProjectOperator) Header(schema engine.Schema) ([]string, error) {
	var err error
	header := operator.names(schema, func(column string) string {
		owner, e := operator.metaSvc.ResolveColumnOwner(column)
		if e != nil {
			if err == nil {
				err = e
			}
			return column
		}
		return owner + "." + column
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

func (operator *ProjectOperator) names(schema engine.Schema, column func(string) string) []string {
	names := make([]string, 0, len(operator.items))
	for _, item := range operator.items {
		switch it := item.(type) {
		case *logical.ColumnRef:
			names = append(names, column(it.Name))
		case *logical.Wildcard:
			names = names[:0]
			for _, c := range schema {
				names = append(names, column(c))
			}
		case *logical.AggregateCall:
			names = append(names, it.Text)
		}
	}
	return names
}
