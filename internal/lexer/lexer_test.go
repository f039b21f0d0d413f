package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/casengine/internal/token"
)

func Test_Tokenize_tokenTypeSequence(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []token.Type
		expectErr bool
	}{
		{name: "blank string", input: "", expect: []token.Type{token.EndOfText}},
		{name: "integer", input: "42", expect: []token.Type{token.Number, token.EndOfText}},
		{name: "decimal", input: "3.14", expect: []token.Type{token.Number, token.EndOfText}},
		{name: "scientific notation", input: "6.022e23", expect: []token.Type{token.Number, token.EndOfText}},
		{name: "negative exponent", input: "1.5e-10", expect: []token.Type{token.Number, token.EndOfText}},
		{name: "identifier", input: "xyz", expect: []token.Type{token.Identifier, token.EndOfText}},
		{name: "string literal", input: `"hello"`, expect: []token.Type{token.String, token.EndOfText}},
		{name: "simple sum", input: "1+2", expect: []token.Type{token.Number, token.Operator, token.Number, token.EndOfText}},
		{name: "arrow", input: "x->0", expect: []token.Type{token.Identifier, token.Arrow, token.Number, token.EndOfText}},
		{name: "equals", input: "x=1", expect: []token.Type{token.Identifier, token.Equals, token.Number, token.EndOfText}},
		{name: "parens and comma", input: "f(x,y)", expect: []token.Type{
			token.Identifier, token.LeftParen, token.Identifier, token.Comma, token.Identifier, token.RightParen, token.EndOfText,
		}},
		{name: "brackets", input: "[1,2]", expect: []token.Type{
			token.LeftBracket, token.Number, token.Comma, token.Number, token.RightBracket, token.EndOfText,
		}},
		{name: "semicolon", input: "1;2", expect: []token.Type{token.Number, token.Semicolon, token.Number, token.EndOfText}},
		{name: "whitespace skipped", input: " 1 \t+\n2 ", expect: []token.Type{token.Number, token.Operator, token.Number, token.EndOfText}},
		{name: "unterminated string errors", input: `"abc`, expectErr: true},
		{name: "newline in string errors", input: "\"ab\nc\"", expectErr: true},
		{name: "unexpected character errors", input: "1 $ 2", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := Tokenize(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			var got []token.Type
			for _, tok := range toks {
				got = append(got, tok.Type)
			}
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_Tokenize_positions(t *testing.T) {
	toks, err := Tokenize("12+x")
	assert.NoError(t, err)
	assert.Equal(t, 0, toks[0].Pos)
	assert.Equal(t, "12", toks[0].Value)
	assert.Equal(t, 2, toks[1].Pos)
	assert.Equal(t, 3, toks[2].Pos)
	assert.Equal(t, "x", toks[2].Value)
}
