package parser

import (
	"fmt"
	"github.com/aleph-zero/tinysql/engine/ast"
	"github.com/aleph-zero/tinysql/engine/token"
)

/*
   The parser does not validate clause order; it only groups tokens into the
   token tree that clause extraction walks.

   statement                -> node* (';')? EOF
   node                     -> keyword
                            | where
                            | items
   keyword                  -> 'SELECT' | 'DISTINCT' | 'FROM' | 'GROUP' 'BY' | 'ORDER' 'BY'
   where                    -> 'WHERE' (comparison | 'AND' | 'OR')*
   comparison               -> operand ('=' | '>' | '<' | '>=' | '<=') operand
   operand                  -> IDENTIFIER | '-'? INTEGER
   items                    -> item (',' item)*
   item                     -> '*'
                            | IDENTIFIER '(' (IDENTIFIER | '*') ')'
                            | IDENTIFIER ('ASC' | 'DESC')?
*/

type Parser struct {
	tokens []token.Token
	index  int
}

func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens: tokens,
		index:  0,
	}
}

// Parse returns the token tree of the statement.
func Parse(src string) (*ast.StatementNode, error) {
	tokens, err := LexicalScan(src)
	if err != nil {
		return nil, err
	}
	return New(tokens).Parse()
}

// Parse groups the token stream into a token tree.
func (p *Parser) Parse() (*ast.StatementNode, error) {
	var nodes []ast.VisitableNode
	itemsAllowed := true

	for !p.eof() && !p.check(token.SEMICOLON) {
		var node ast.VisitableNode
		var err error

		switch {
		case p.match(token.SELECT, token.DISTINCT, token.FROM):
			node = ast.NewKeywordNode(p.previous())
		case p.match(token.GROUP, token.ORDER):
			node, err = p.compoundKeyword()
		case p.match(token.WHERE):
			node, err = p.where()
		case p.check(token.IDENTIFIER) || p.check(token.ASTERISK):
			if !itemsAllowed {
				return nil, ParseError{
					Expected: []token.TokenType{token.COMMA, token.FROM, token.WHERE, token.GROUP, token.ORDER},
					Received: p.peek(),
				}
			}
			node, err = p.items()
		default:
			return nil, ParseError{
				Expected: []token.TokenType{token.SELECT, token.FROM, token.WHERE, token.GROUP, token.ORDER, token.IDENTIFIER},
				Received: p.peek(),
			}
		}
		if err != nil {
			return nil, err
		}

		// two item lists in a row are missing a separating comma
		_, isItems := node.(ast.ItemNode)
		_, isList := node.(*ast.IdentifierListNode)
		itemsAllowed = !isItems && !isList
		nodes = append(nodes, node)
	}

	if p.match(token.SEMICOLON) && !p.eof() {
		return nil, ParseError{
			Expected: []token.TokenType{token.EOF},
			Received: p.peek(),
		}
	}

	return ast.NewStatementNode(p.tokens, nodes), nil
}

func (p *Parser) compoundKeyword() (ast.VisitableNode, error) {
	first := p.previous()
	if !p.match(token.BY) {
		return nil, ParseError{
			Expected: []token.TokenType{token.BY},
			Received: p.peek(),
		}
	}
	return ast.NewKeywordNode(token.Token{
		TokenType: first.TokenType,
		Lexeme:    first.Lexeme + " " + p.previous().Lexeme,
		Position:  first.Position,
	}), nil
}

func (p *Parser) where() (ast.VisitableNode, error) {
	keyword := p.previous()
	var children []ast.VisitableNode

	for !p.eof() && !p.check(token.SEMICOLON) && !p.check(token.GROUP) && !p.check(token.ORDER) {
		if p.match(token.AND, token.OR) {
			children = append(children, ast.NewKeywordNode(p.previous()))
			continue
		}
		comparison, err := p.comparison()
		if err != nil {
			return nil, err
		}
		children = append(children, comparison)
	}

	if len(children) == 0 {
		return nil, ParseError{
			Expected: []token.TokenType{token.IDENTIFIER, token.INTEGER},
			Received: p.peek(),
		}
	}
	return ast.NewWhereNode(keyword, children), nil
}

func (p *Parser) comparison() (ast.VisitableNode, error) {
	left, err := p.operand()
	if err != nil {
		return nil, err
	}

	if !p.match(token.EQUAL, token.GT, token.GTE, token.LT, token.LTE) {
		return nil, ParseError{
			Expected: []token.TokenType{token.EQUAL, token.GT, token.GTE, token.LT, token.LTE},
			Received: p.peek(),
		}
	}
	op := p.previous()

	right, err := p.operand()
	if err != nil {
		return nil, err
	}
	return ast.NewComparisonNode(left, op, right), nil
}

func (p *Parser) operand() (string, error) {
	switch {
	case p.match(token.IDENTIFIER, token.INTEGER):
		return p.previous().Lexeme, nil
	case p.match(token.MINUS):
		if !p.match(token.INTEGER) {
			return "", ParseError{
				Expected: []token.TokenType{token.INTEGER},
				Received: p.peek(),
			}
		}
		return "-" + p.previous().Lexeme, nil
	default:
		return "", ParseError{
			Expected: []token.TokenType{token.IDENTIFIER, token.INTEGER},
			Received: p.peek(),
		}
	}
}

func (p *Parser) items() (ast.VisitableNode, error) {
	var items []ast.ItemNode
	for ok := true; ok; ok = p.match(token.COMMA) {
		item, err := p.item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) == 1 {
		return items[0], nil
	}
	return ast.NewIdentifierListNode(items), nil
}

func (p *Parser) item() (ast.ItemNode, error) {
	if p.match(token.ASTERISK) {
		return ast.NewWildcardNode(), nil
	}

	if !p.match(token.IDENTIFIER) {
		return nil, ParseError{
			Expected: []token.TokenType{token.IDENTIFIER, token.ASTERISK},
			Received: p.peek(),
		}
	}
	name := p.previous()

	if p.match(token.L_PAREN) {
		return p.function(name)
	}

	node := ast.NewIdentifierNode(name.Lexeme)
	if p.match(token.ASC, token.DESC) {
		ordering := p.previous()
		node.Ordering = &ordering
	}
	return node, nil
}

func (p *Parser) function(name token.Token) (ast.ItemNode, error) {
	if !p.match(token.IDENTIFIER, token.ASTERISK) {
		return nil, ParseError{
			Expected: []token.TokenType{token.IDENTIFIER, token.ASTERISK},
			Received: p.peek(),
		}
	}
	argument := p.previous()

	if !p.match(token.R_PAREN) {
		return nil, ParseError{
			Expected: []token.TokenType{token.R_PAREN},
			Received: p.peek(),
		}
	}
	return ast.NewFunctionNode(name.Lexeme, argument.Lexeme), nil
}

/** Helper Methods **/

func (p *Parser) match(tokenTypes ...token.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if p.check(tokenType) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(tokenType token.TokenType) bool {
	if p.eof() {
		return false
	}
	return p.peek().TokenType == tokenType
}

func (p *Parser) advance() token.Token {
	if !p.eof() {
		p.index++
	}
	return p.previous()
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.index-1]
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.index]
}

func (p *Parser) eof() bool {
	return p.peek().TokenType == token.EOF
}

/** Error Handling **/

type ParseError struct {
	Expected []token.TokenType
	Received token.Token
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parser expected one of '%s' received '%s' at line: %d, column: %d",
		e.Expected, e.Received.Lexeme, e.Received.Position.Line, e.Received.Position.Column)
}

func (e ParseError) Kind() string {
	return "SyntaxError"
}
