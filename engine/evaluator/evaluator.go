package evaluator

import (
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/engine/token"
	"strconv"
	"strings"
	"unicode"
)

// Expression is a boolean test evaluated against one row of the working table.
type Expression interface {
	Evaluate(row engine.Tuple) bool
	String() string
}

// Operand is one side of a comparison: a literal or a resolved column position.
type Operand interface {
	Resolve(row engine.Tuple) engine.Value
	String() string
}

type Literal struct {
	Value engine.Value
}

func NewLiteral(v int64) *Literal {
	return &Literal{Value: engine.NewIntValue(v)}
}

func (l *Literal) Resolve(engine.Tuple) engine.Value { return l.Value }
func (l *Literal) String() string                    { return l.Value.String() }

type Column struct {
	Name  string
	Index int
}

func NewColumn(name string, index int) *Column {
	return &Column{Name: name, Index: index}
}

func (c *Column) Resolve(row engine.Tuple) engine.Value { return row[c.Index] }
func (c *Column) String() string                        { return c.Name }

/* *** Comparison *** */

type Comparison struct {
	Left  Operand
	Op    token.TokenType
	Right Operand
}

func NewComparison(left Operand, op token.TokenType, right Operand) *Comparison {
	return &Comparison{Left: left, Op: op, Right: right}
}

func (c *Comparison) Evaluate(row engine.Tuple) bool {
	cmp := c.Left.Resolve(row).Compare(c.Right.Resolve(row))
	switch c.Op {
	case token.EQUAL:
		return cmp == 0
	case token.GT:
		return cmp > 0
	case token.GTE:
		return cmp >= 0
	case token.LT:
		return cmp < 0
	case token.LTE:
		return cmp <= 0
	default:
		panic(fmt.Sprintf("failed to evaluate operator: %s", c.Op.String()))
	}
}

func (c *Comparison) String() string {
	return c.Left.String() + " " + c.Op.String() + " " + c.Right.String()
}

/* *** Chain *** */

type Link struct {
	Connector token.TokenType // AND or OR
	Expr      Expression
}

// Chain joins expressions with AND/OR connectors and folds them strictly left to
// right with a single precedence level: `a OR b AND c` is `(a OR b) AND c`.
type Chain struct {
	First Expression
	Links []Link
}

func NewChain(first Expression) *Chain {
	return &Chain{First: first}
}

func (c *Chain) Append(connector token.TokenType, expr Expression) *Chain {
	c.Links = append(c.Links, Link{Connector: connector, Expr: expr})
	return c
}

func (c *Chain) Evaluate(row engine.Tuple) bool {
	result := c.First.Evaluate(row)
	for _, link := range c.Links {
		next := link.Expr.Evaluate(row)
		switch link.Connector {
		case token.AND:
			result = and(result, next)
		case token.OR:
			result = or(result, next)
		default:
			panic(fmt.Sprintf("failed to evaluate connector: %s", link.Connector.String()))
		}
	}
	return result
}

func (c *Chain) String() string {
	var sb strings.Builder
	sb.WriteString(c.First.String())
	for _, link := range c.Links {
		sb.WriteString(" " + link.Connector.String() + " " + link.Expr.String())
	}
	return sb.String()
}

func and(left, right bool) bool { return left && right }
func or(left, right bool) bool  { return left || right }

/* *** Comparison text *** */

// operators in the order they are searched for; two character operators first so
// that `>=` is never split as `>`.
var operators = []struct {
	text      string
	tokenType token.TokenType
}{
	{">=", token.GTE},
	{"<=", token.LTE},
	{"=", token.EQUAL},
	{">", token.GT},
	{"<", token.LT},
}

// SplitComparison removes all whitespace from text and splits it around the first
// operator found, searching operators in fixed precedence order.
func SplitComparison(text string) (left string, op token.TokenType, right string, ok bool) {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	for _, o := range operators {
		if i := strings.Index(stripped, o.text); i >= 0 {
			return stripped[:i], o.tokenType, stripped[i+len(o.text):], true
		}
	}
	return "", token.EOF, "", false
}

// ParseLiteral reports whether side is an integer literal.
func ParseLiteral(side string) (*Literal, bool) {
	v, err := strconv.ParseInt(side, 10, 64)
	if err != nil {
		return nil, false
	}
	return NewLiteral(v), true
}
