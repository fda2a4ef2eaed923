package parser

import (
	"github.com/aleph-zero/tinysql/engine/token"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestScan(t *testing.T) {

	tests := []struct {
		text     string
		expected []token.TokenType
	}{
		{`a`, []token.TokenType{token.IDENTIFIER, token.EOF}},
		{`table1`, []token.TokenType{token.IDENTIFIER, token.EOF}},
		{`42`, []token.TokenType{token.INTEGER, token.EOF}},
		{`select SELECT Select`, []token.TokenType{token.SELECT, token.SELECT, token.SELECT, token.EOF}},
		{`distinct from where`, []token.TokenType{token.DISTINCT, token.FROM, token.WHERE, token.EOF}},
		{`group by order by asc desc`, []token.TokenType{token.GROUP, token.BY, token.ORDER, token.BY, token.ASC, token.DESC, token.EOF}},
		{`a and b or c`, []token.TokenType{token.IDENTIFIER, token.AND, token.IDENTIFIER, token.OR, token.IDENTIFIER, token.EOF}},
		{`sum(B)`, []token.TokenType{token.IDENTIFIER, token.L_PAREN, token.IDENTIFIER, token.R_PAREN, token.EOF}},
		{`count(*)`, []token.TokenType{token.IDENTIFIER, token.L_PAREN, token.ASTERISK, token.R_PAREN, token.EOF}},
		{`A,B;`, []token.TokenType{token.IDENTIFIER, token.COMMA, token.IDENTIFIER, token.SEMICOLON, token.EOF}},
		{`A=1`, []token.TokenType{token.IDENTIFIER, token.EQUAL, token.INTEGER, token.EOF}},
		{`A>=1`, []token.TokenType{token.IDENTIFIER, token.GTE, token.INTEGER, token.EOF}},
		{`A <= -1`, []token.TokenType{token.IDENTIFIER, token.LTE, token.MINUS, token.INTEGER, token.EOF}},
		{`A > B`, []token.TokenType{token.IDENTIFIER, token.GT, token.IDENTIFIER, token.EOF}},
		{`A<B`, []token.TokenType{token.IDENTIFIER, token.LT, token.IDENTIFIER, token.EOF}},
		{`selected`, []token.TokenType{token.IDENTIFIER, token.EOF}},
		{``, []token.TokenType{token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			tokens, err := LexicalScan(tt.text)
			if err != nil {
				t.Errorf("Scan() error = %v", err)
				return
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("expected %d tokens, received %d", len(tt.expected), len(tokens))
			}

			for i, tok := range tokens {
				if tok.TokenType != tt.expected[i] {
					t.Errorf("expected token type %s, received token type %s", tt.expected[i], tok.TokenType)
				}
			}
		})
	}
}

func TestScan_Lexemes(t *testing.T) {
	tokens, err := LexicalScan(`SELECT A FROM t WHERE A >= 10;`)
	require.NoError(t, err)

	lexemes := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		lexemes = append(lexemes, tok.Lexeme)
	}
	require.Equal(t, []string{"SELECT", "A", "FROM", "t", "WHERE", "A", ">=", "10", ";", ""}, lexemes)
}

func TestScan_Unrecognized(t *testing.T) {
	tests := []string{
		`A != 1`,
		`"a"`,
		`A + B`,
		`1.5`,
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := LexicalScan(text)
			require.Error(t, err)
		})
	}
}
