package parser

import (
	"fmt"
	"github.com/aleph-zero/tinysql/engine/token"
	"regexp"
	"strings"
	"text/scanner"
)

type TokenPattern struct {
	regex *regexp.Regexp
	token.TokenType
}

var patterns = []TokenPattern{
	{regex: regexp.MustCompile(`(?i)^SELECT$`), TokenType: token.SELECT},
	{regex: regexp.MustCompile(`(?i)^DISTINCT$`), TokenType: token.DISTINCT},
	{regex: regexp.MustCompile(`(?i)^FROM$`), TokenType: token.FROM},
	{regex: regexp.MustCompile(`(?i)^WHERE$`), TokenType: token.WHERE},
	{regex: regexp.MustCompile(`(?i)^GROUP$`), TokenType: token.GROUP},
	{regex: regexp.MustCompile(`(?i)^ORDER$`), TokenType: token.ORDER},
	{regex: regexp.MustCompile(`(?i)^BY$`), TokenType: token.BY},
	{regex: regexp.MustCompile(`(?i)^ASC$`), TokenType: token.ASC},
	{regex: regexp.MustCompile(`(?i)^DESC$`), TokenType: token.DESC},
	{regex: regexp.MustCompile(`(?i)^AND$`), TokenType: token.AND},
	{regex: regexp.MustCompile(`(?i)^OR$`), TokenType: token.OR},
	{regex: regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`), TokenType: token.IDENTIFIER},
	{regex: regexp.MustCompile(`^\d+$`), TokenType: token.INTEGER},
	{regex: regexp.MustCompile(`^,$`), TokenType: token.COMMA},
	{regex: regexp.MustCompile(`^;$`), TokenType: token.SEMICOLON},
	{regex: regexp.MustCompile(`^-$`), TokenType: token.MINUS},
	{regex: regexp.MustCompile(`^\*$`), TokenType: token.ASTERISK},
	{regex: regexp.MustCompile(`^\($`), TokenType: token.L_PAREN},
	{regex: regexp.MustCompile(`^\)$`), TokenType: token.R_PAREN},
	{regex: regexp.MustCompile(`^>=$`), TokenType: token.GTE},
	{regex: regexp.MustCompile(`^>$`), TokenType: token.GT},
	{regex: regexp.MustCompile(`^<=$`), TokenType: token.LTE},
	{regex: regexp.MustCompile(`^<$`), TokenType: token.LT},
	{regex: regexp.MustCompile(`^=$`), TokenType: token.EQUAL},
}

// LexicalScan splits a statement into tokens. The returned slice always ends with EOF.
func LexicalScan(src string) ([]token.Token, error) {
	tokens := make([]token.Token, 0, 16)
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.SkipComments
	s.Error = func(*scanner.Scanner, string) {}

	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		matched := false
		text := s.TokenText()
		position := s.Position

		switch text {
		case ">", "<":
			if s.Peek() == '=' {
				s.Scan()
				text += s.TokenText()
			}
		}

		for _, pattern := range patterns {
			if pattern.regex.MatchString(text) {
				matched = true
				tokens = append(tokens, token.Token{
					TokenType: pattern.TokenType,
					Lexeme:    text,
					Position:  position,
				})
				break
			}
		}

		if !matched {
			return nil, fmt.Errorf("unrecognized lexical pattern: %s at position: %s", text, position)
		}
	}

	tokens = append(tokens, token.Token{TokenType: token.EOF})
	return tokens, nil
}
