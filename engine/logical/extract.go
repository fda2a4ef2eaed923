package logical

import (
	"fmt"
	"github.com/aleph-zero/tinysql/engine/ast"
	"github.com/aleph-zero/tinysql/engine/token"
	"strings"
)

const terminator = ";"

// CheckTerminator rejects a statement that does not end with ';' once trailing
// whitespace is trimmed. It runs before the statement is tokenized.
func CheckTerminator(query string) error {
	if !strings.HasSuffix(strings.TrimRightFunc(query, isSpace), terminator) {
		return Error{
			ErrorCode: MissingTerminator,
			Message:   fmt.Sprintf("syntax error: statement must end with '%s'", terminator),
		}
	}
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// NewQueryPlan walks the token tree once and collects its clauses.
func NewQueryPlan(stmt *ast.StatementNode) (*QueryPlan, error) {
	e := &ClauseExtractor{plan: &QueryPlan{}}
	if err := stmt.Accept(e); err != nil {
		return nil, err
	}

	if len(e.plan.SelectItems) == 0 {
		return nil, Error{ErrorCode: MissingSelect, Message: "syntax error: no items to select"}
	}
	if len(e.plan.Tables) == 0 {
		return nil, Error{ErrorCode: MissingFrom, Message: "syntax error: no tables to select from"}
	}
	return e.plan, nil
}

type clause int

const (
	noClause clause = iota
	selectClause
	fromClause
	groupByClause
	orderByClause
)

func (c clause) String() string {
	return [...]string{"", "SELECT", "FROM", "GROUP BY", "ORDER BY"}[c]
}

/* *** Clause Extractor *** */

type ClauseExtractor struct {
	plan   *QueryPlan
	clause clause
}

func (e *ClauseExtractor) VisitStatementNode(node *ast.StatementNode) error {
	for _, tok := range node.Tokens {
		if tok.TokenType == token.DISTINCT {
			e.plan.Distinct = true
			break
		}
	}

	for _, child := range node.Nodes {
		if err := child.Accept(e); err != nil {
			return err
		}
	}
	return nil
}

func (e *ClauseExtractor) VisitKeywordNode(node *ast.KeywordNode) error {
	switch {
	case node.Matches("select"):
		e.clause = selectClause
	case node.Matches("distinct"):
		// does not end the select list
	case node.Matches("from"):
		e.clause = fromClause
	case node.Matches("group by"):
		e.clause = groupByClause
	case node.Matches("order by"):
		e.clause = orderByClause
	default:
		e.clause = noClause
	}
	return nil
}

func (e *ClauseExtractor) VisitWhereNode(node *ast.WhereNode) error {
	e.clause = noClause
	for _, child := range node.Children {
		if keyword, ok := child.(*ast.KeywordNode); ok {
			switch keyword.Token.TokenType {
			case token.AND:
				e.plan.Predicate = append(e.plan.Predicate, AND)
			case token.OR:
				e.plan.Predicate = append(e.plan.Predicate, OR)
			}
			continue
		}
		if err := child.Accept(e); err != nil {
			return err
		}
	}
	return nil
}

func (e *ClauseExtractor) VisitComparisonNode(node *ast.ComparisonNode) error {
	e.plan.Predicate = append(e.plan.Predicate, NewComparison(node.Value()))
	return nil
}

func (e *ClauseExtractor) VisitIdentifierListNode(node *ast.IdentifierListNode) error {
	for _, item := range node.Items {
		if err := item.Accept(e); err != nil {
			return err
		}
	}
	return nil
}

func (e *ClauseExtractor) VisitIdentifierNode(node *ast.IdentifierNode) error {
	switch e.clause {
	case selectClause:
		e.plan.SelectItems = append(e.plan.SelectItems, NewColumnRef(node.Name))
	case fromClause:
		e.plan.Tables = append(e.plan.Tables, node.Name)
	case groupByClause:
		e.plan.GroupBy = append(e.plan.GroupBy, node.Name)
	case orderByClause:
		if e.plan.OrderBy != nil {
			return nil // only the first column is honored
		}
		e.plan.OrderBy = &OrderBy{Column: node.Name, Direction: Ascending}
		if node.Ordering != nil && node.Ordering.TokenType == token.DESC {
			e.plan.OrderBy.Direction = Descending
		}
	}
	return nil
}

func (e *ClauseExtractor) VisitFunctionNode(node *ast.FunctionNode) error {
	if e.clause != selectClause {
		return e.unexpected(node)
	}
	kind, ok := IsAggregate(node.Name)
	if !ok {
		return Error{
			ErrorCode: MalformedAggregate,
			Message:   fmt.Sprintf("syntax error: unknown aggregate function '%s'", node.Name),
		}
	}
	e.plan.SelectItems = append(e.plan.SelectItems, NewAggregateCall(kind, node.Argument, node.Value()))
	return nil
}

func (e *ClauseExtractor) VisitWildcardNode(node *ast.WildcardNode) error {
	if e.clause != selectClause {
		return e.unexpected(node)
	}
	e.plan.SelectItems = append(e.plan.SelectItems, NewWildcard())
	return nil
}

func (e *ClauseExtractor) unexpected(node ast.VisitableNode) error {
	where := e.clause.String()
	if where == "" {
		where = "statement"
	}
	return Error{
		ErrorCode: UnexpectedItem,
		Message:   fmt.Sprintf("syntax error: unexpected '%s' in %s", node.Value(), where),
	}
}
