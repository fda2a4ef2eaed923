package physical

import (
	"context"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/engine/evaluator"
	"github.com/aleph-zero/tinysql/engine/logical"
	"github.com/aleph-zero/tinysql/engine/token"
	"strings"
)

type FilterOperator struct {
	predicate []logical.PredicateToken
}

func NewFilterOperator(predicate []logical.PredicateToken) *FilterOperator {
	return &FilterOperator{predicate: predicate}
}

func (operator *FilterOperator) Name() string { return "Filter" }

func (operator *FilterOperator) Accept(ctx context.Context, visitor OperatorNodeVisitor) error {
	return visitor.VisitFilterOperator(ctx, operator)
}

func (operator *FilterOperator) Filter(ctx context.Context, table *engine.Table) (*engine.Table, error) {
	expr, err := CompilePredicate(operator.predicate, table.Schema)
	if err != nil {
		return nil, err
	}

	rows := make([]engine.Tuple, 0, len(table.Rows))
	for _, row := range table.Rows {
		if expr.Evaluate(row) {
			rows = append(rows, row)
		}
	}

	engine.Logger(ctx).Debug("Filter finished",
		"queryId", engine.QueryIdFromContext(ctx),
		"predicate", expr.String(),
		"in", len(table.Rows),
		"out", len(rows))
	return engine.NewTable(table.Schema, rows), nil
}

// CompilePredicate turns alternating comparisons and connectors into a
// left-to-right chain resolved against schema.
func CompilePredicate(predicate []logical.PredicateToken, schema engine.Schema) (evaluator.Expression, error) {
	var chain *evaluator.Chain
	connector := token.EOF
	expectComparison := true

	for _, tok := range predicate {
		switch t := tok.(type) {
		case *logical.Comparison:
			if !expectComparison {
				return nil, malformedPredicate("missing AND/OR before '%s'", t.Text)
			}
			cmp, err := CompileComparison(t.Text, schema)
			if err != nil {
				return nil, err
			}
			if chain == nil {
				chain = evaluator.NewChain(cmp)
			} else {
				chain.Append(connector, cmp)
			}
			expectComparison = false
		case logical.Connector:
			if expectComparison {
				return nil, malformedPredicate("unexpected %s", t.String())
			}
			connector = token.AND
			if t == logical.OR {
				connector = token.OR
			}
			expectComparison = true
		default:
			return nil, malformedPredicate("unexpected predicate token '%s'", tok.String())
		}
	}

	if chain == nil {
		return nil, malformedPredicate("empty predicate")
	}
	if expectComparison {
		return nil, malformedPredicate("predicate ends with %s", connector.String())
	}
	return chain, nil
}

func CompileComparison(text string, schema engine.Schema) (*evaluator.Comparison, error) {
	left, op, right, ok := evaluator.SplitComparison(text)
	if !ok || left == "" || right == "" {
		return nil, Error{
			ErrorCode: MalformedComparison,
			Message:   fmt.Sprintf("malformed comparison '%s'", text),
		}
	}

	l, err := operand(left, schema)
	if err != nil {
		return nil, err
	}
	r, err := operand(right, schema)
	if err != nil {
		return nil, err
	}
	return evaluator.NewComparison(l, op, r), nil
}

func operand(side string, schema engine.Schema) (evaluator.Operand, error) {
	if literal, ok := evaluator.ParseLiteral(side); ok {
		return literal, nil
	}
	if isInteger(side) {
		return nil, Error{
			ErrorCode: MalformedComparison,
			Message:   fmt.Sprintf("integer out of range '%s' in WHERE clause", side),
		}
	}
	i, ok := schema.IndexOf(side)
	if !ok {
		return nil, Error{
			ErrorCode: InvalidPredicateColumn,
			Message:   fmt.Sprintf("invalid column '%s' in WHERE clause", side),
		}
	}
	return evaluator.NewColumn(side, i), nil
}

func isInteger(side string) bool {
	digits := strings.TrimPrefix(side, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func malformedPredicate(format string, args ...any) error {
	return Error{
		ErrorCode: MalformedPredicate,
		Message:   "malformed WHERE clause: " + fmt.Sprintf(format, args...),
	}
}
