package token

import (
	"strings"
	"text/scanner"
)

type Token struct {
	TokenType
	Lexeme string
	scanner.Position
}

// IsKeyword reports whether the token is a clause or connector keyword.
func (t Token) IsKeyword() bool {
	switch t.TokenType {
	case SELECT, DISTINCT, FROM, WHERE, GROUP, ORDER, BY, ASC, DESC, AND, OR:
		return true
	default:
		return false
	}
}

// Matches compares the lexeme against a clause marker, ignoring case.
func (t Token) Matches(marker string) bool {
	return strings.EqualFold(t.Lexeme, marker)
}

type TokenType int

const (
	IDENTIFIER TokenType = iota
	INTEGER
	COMMA
	L_PAREN
	R_PAREN
	SEMICOLON
	SELECT
	DISTINCT
	FROM
	WHERE
	GROUP
	ORDER
	BY
	ASC
	DESC
	ASTERISK
	MINUS
	EQUAL
	GT
	GTE
	LT
	LTE
	AND
	OR
	EOF
)

func (t TokenType) String() string {
	return [...]string{
		"IDENTIFIER",
		"INTEGER",
		"COMMA",
		"L_PAREN",
		"R_PAREN",
		"SEMICOLON",
		"SELECT",
		"DISTINCT",
		"FROM",
		"WHERE",
		"GROUP",
		"ORDER",
		"BY",
		"ASC",
		"DESC",
		"ASTERISK",
		"MINUS",
		"EQUAL",
		"GT",
		"GTE",
		"LT",
		"LTE",
		"AND",
		"OR",
		"EOF"}[t]
}

// IsComparison reports whether the type is one of the supported comparison operators.
func (t TokenType) IsComparison() bool {
	switch t {
	case EQUAL, GT, GTE, LT, LTE:
		return true
	default:
		return false
	}
}
