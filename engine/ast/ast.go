package ast

import (
	"github.com/aleph-zero/tinysql/engine/token"
	"strings"
)

// The token tree groups the flat token stream of a statement into the handful of
// shapes clause extraction cares about: keywords, identifiers, identifier lists,
// function calls, the wildcard, comparisons and the WHERE predicate group.

type VisitableNode interface {
	Accept(visitor Visitor) error
	Value() string
}

// ItemNode is anything that can appear in a comma separated item list.
type ItemNode interface {
	Item()
	VisitableNode
}

type StatementNode struct {
	Tokens []token.Token // raw token stream, terminator and EOF included
	Nodes  []VisitableNode
}

func NewStatementNode(tokens []token.Token, nodes []VisitableNode) *StatementNode {
	return &StatementNode{Tokens: tokens, Nodes: nodes}
}

func (n *StatementNode) Accept(visitor Visitor) error {
	return visitor.VisitStatementNode(n)
}

func (n *StatementNode) Value() string {
	values := make([]string, 0, len(n.Nodes))
	for _, node := range n.Nodes {
		values = append(values, node.Value())
	}
	return strings.Join(values, " ")
}

type KeywordNode struct {
	Token token.Token
}

func NewKeywordNode(tok token.Token) *KeywordNode {
	return &KeywordNode{Token: tok}
}

func (n *KeywordNode) Accept(visitor Visitor) error {
	return visitor.VisitKeywordNode(n)
}

func (n *KeywordNode) Value() string { return n.Token.Lexeme }

// Matches compares the keyword against a clause marker such as "select" or
// "group by", ignoring case and repeated whitespace.
func (n *KeywordNode) Matches(marker string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(n.Token.Lexeme), " "), marker)
}

type IdentifierNode struct {
	Name     string
	Ordering *token.Token // trailing ASC or DESC, if any
}

func NewIdentifierNode(name string) *IdentifierNode {
	return &IdentifierNode{Name: name}
}

func (n *IdentifierNode) Item() {}

func (n *IdentifierNode) Accept(visitor Visitor) error {
	return visitor.VisitIdentifierNode(n)
}

func (n *IdentifierNode) Value() string {
	if n.Ordering != nil {
		return n.Name + " " + n.Ordering.Lexeme
	}
	return n.Name
}

type IdentifierListNode struct {
	Items []ItemNode
}

func NewIdentifierListNode(items []ItemNode) *IdentifierListNode {
	return &IdentifierListNode{Items: items}
}

func (n *IdentifierListNode) Accept(visitor Visitor) error {
	return visitor.VisitIdentifierListNode(n)
}

func (n *IdentifierListNode) Value() string {
	values := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		values = append(values, item.Value())
	}
	return strings.Join(values, ", ")
}

// FunctionNode is a call such as sum(B) or count(*).
type FunctionNode struct {
	Name     string
	Argument string
}

func NewFunctionNode(name, argument string) *FunctionNode {
	return &FunctionNode{Name: name, Argument: argument}
}

func (n *FunctionNode) Item() {}

func (n *FunctionNode) Accept(visitor Visitor) error {
	return visitor.VisitFunctionNode(n)
}

func (n *FunctionNode) Value() string {
	return n.Name + "(" + n.Argument + ")"
}

type WildcardNode struct{}

func NewWildcardNode() *WildcardNode {
	return &WildcardNode{}
}

func (n *WildcardNode) Item() {}

func (n *WildcardNode) Accept(visitor Visitor) error {
	return visitor.VisitWildcardNode(n)
}

func (n *WildcardNode) Value() string { return "*" }

// ComparisonNode keeps the operand and operator lexemes of `left op right`.
// Operands are identifiers or (possibly negative) integer literals.
type ComparisonNode struct {
	Left  string
	Op    token.Token
	Right string
}

func NewComparisonNode(left string, op token.Token, right string) *ComparisonNode {
	return &ComparisonNode{Left: left, Op: op, Right: right}
}

func (n *ComparisonNode) Accept(visitor Visitor) error {
	return visitor.VisitComparisonNode(n)
}

func (n *ComparisonNode) Value() string {
	return n.Left + " " + n.Op.Lexeme + " " + n.Right
}

// WhereNode is the predicate group: comparisons and AND/OR keywords in source order.
type WhereNode struct {
	Keyword  token.Token
	Children []VisitableNode
}

func NewWhereNode(keyword token.Token, children []VisitableNode) *WhereNode {
	return &WhereNode{Keyword: keyword, Children: children}
}

func (n *WhereNode) Accept(visitor Visitor) error {
	return visitor.VisitWhereNode(n)
}

func (n *WhereNode) Value() string {
	values := []string{n.Keyword.Lexeme}
	for _, child := range n.Children {
		values = append(values, child.Value())
	}
	return strings.Join(values, " ")
}
