package logical

import (
	"fmt"
	"strings"
)

// QueryPlan holds the structured clauses of a SELECT statement. Execution always
// runs the clauses in the same fixed stage order, so the plan carries no operator tree.
type QueryPlan struct {
	SelectItems []SelectItem
	Tables      []string
	Predicate   []PredicateToken
	GroupBy     []string
	OrderBy     *OrderBy
	Distinct    bool
}

// GroupColumn returns the GROUP BY column. Only the first listed column is honored.
func (q *QueryPlan) GroupColumn() (string, bool) {
	if len(q.GroupBy) == 0 {
		return "", false
	}
	return q.GroupBy[0], true
}

// Grouped reports whether each bucket collapses to a single output row.
func (q *QueryPlan) Grouped() bool {
	if len(q.GroupBy) > 0 {
		return true
	}
	for _, item := range q.SelectItems {
		if _, ok := item.(*AggregateCall); ok {
			return true
		}
	}
	return false
}

func (q *QueryPlan) String() string {
	items := make([]string, 0, len(q.SelectItems))
	for _, item := range q.SelectItems {
		items = append(items, item.String())
	}
	predicate := make([]string, 0, len(q.Predicate))
	for _, p := range q.Predicate {
		predicate = append(predicate, p.String())
	}
	return fmt.Sprintf("select=[%s] from=[%s] where=[%s] group=[%s] order=%v distinct=%t",
		strings.Join(items, ", "),
		strings.Join(q.Tables, ", "),
		strings.Join(predicate, " "),
		strings.Join(q.GroupBy, ", "),
		q.OrderBy,
		q.Distinct)
}

/* *** Select Items *** */

type SelectItem interface {
	selectItem()
	String() string
}

type ColumnRef struct {
	Name string
}

func NewColumnRef(name string) *ColumnRef {
	return &ColumnRef{Name: name}
}

func (c *ColumnRef) selectItem()    {}
func (c *ColumnRef) String() string { return c.Name }

type Wildcard struct{}

func NewWildcard() *Wildcard {
	return &Wildcard{}
}

func (w *Wildcard) selectItem()    {}
func (w *Wildcard) String() string { return "*" }

type AggregateKind int

const (
	SUM AggregateKind = iota
	AVG
	MAX
	MIN
	COUNT
)

func (k AggregateKind) String() string {
	return [...]string{"SUM", "AVG", "MAX", "MIN", "COUNT"}[k]
}

// aggregatePrefixes are tested in this order against the lower-cased item text.
var aggregatePrefixes = []struct {
	prefix string
	kind   AggregateKind
}{
	{"sum", SUM},
	{"avg", AVG},
	{"max", MAX},
	{"min", MIN},
	{"count", COUNT},
}

// IsAggregate applies the case-insensitive prefix test used to recognize aggregate calls.
func IsAggregate(text string) (AggregateKind, bool) {
	lower := strings.ToLower(text)
	for _, p := range aggregatePrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.kind, true
		}
	}
	return -1, false
}

// AggregateCall is SUM/AVG/MAX/MIN/COUNT over a column, or COUNT(*).
// Text is the call as written and doubles as its display name.
type AggregateCall struct {
	Kind     AggregateKind
	Argument string
	Text     string
}

func NewAggregateCall(kind AggregateKind, argument, text string) *AggregateCall {
	return &AggregateCall{Kind: kind, Argument: argument, Text: text}
}

func (a *AggregateCall) selectItem()    {}
func (a *AggregateCall) String() string { return a.Text }

/* *** Predicate Tokens *** */

type PredicateToken interface {
	predicateToken()
	String() string
}

// Comparison is a WHERE comparison kept verbatim; it is compiled against the
// working schema by the filter stage.
type Comparison struct {
	Text string
}

func NewComparison(text string) *Comparison {
	return &Comparison{Text: text}
}

func (c *Comparison) predicateToken() {}
func (c *Comparison) String() string  { return c.Text }

type Connector int

const (
	AND Connector = iota
	OR
)

func (c Connector) predicateToken() {}

func (c Connector) String() string {
	return [...]string{"AND", "OR"}[c]
}

/* *** Order By *** */

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	return [...]string{"ASC", "DESC"}[d]
}

type OrderBy struct {
	Column    string
	Direction Direction
}

func (o *OrderBy) String() string {
	if o == nil {
		return "<none>"
	}
	return o.Column + " " + o.Direction.String()
}

/* *** Errors *** */

type ErrorCode int

const (
	MissingTerminator ErrorCode = iota + 1
	MissingSelect
	MissingFrom
	MalformedAggregate
	UnexpectedItem
)

// Error is a syntax error found before or during clause extraction.
type Error struct {
	ErrorCode ErrorCode
	Message   string
	Err       error
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Is(target error) bool {
	if other, ok := target.(Error); ok {
		ignoreErrorCode := other.ErrorCode == 0
		ignoreMessage := other.Message == ""
		matchErrorCode := other.ErrorCode == e.ErrorCode
		matchMessage := other.Message == e.Message

		return matchMessage && matchErrorCode || matchMessage && ignoreErrorCode || ignoreMessage && matchErrorCode
	}
	return false
}

// Kind is the error category reported to users.
func (e Error) Kind() string {
	return "SyntaxError"
}
