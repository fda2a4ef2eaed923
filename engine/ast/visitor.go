package ast

type Visitor interface {
	VisitStatementNode(*StatementNode) error

	VisitKeywordNode(*KeywordNode) error
	VisitWhereNode(*WhereNode) error
	VisitComparisonNode(*ComparisonNode) error

	VisitIdentifierNode(*IdentifierNode) error
	VisitIdentifierListNode(*IdentifierListNode) error
	VisitFunctionNode(*FunctionNode) error
	VisitWildcardNode(*WildcardNode) error
}
