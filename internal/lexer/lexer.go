// Package lexer tokenizes the surface syntax of a math expression: numbers
// (including scientific notation), identifiers, string literals, operators,
// and punctuation, with byte-offset position tracking. It is a direct
// generalization of the rule-table lexer in the teacher's tunascript
// implementation to the arithmetic grammar this engine parses.
package lexer

import (
	"strings"
	"unicode"

	"github.com/dekarrin/casengine/internal/casserr"
	"github.com/dekarrin/casengine/internal/token"
)

// Tokenize converts s into a sequence of tokens, always terminated with a
// token.EndOfText token. Whitespace is skipped; the tokenizer does not
// normalize case, infer implicit multiplication, or interpret escapes in
// string literals.
func Tokenize(s string) ([]token.Token, error) {
	var out []token.Token
	i := 0
	n := len(s)

	for i < n {
		c := s[i]

		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			i++
			continue
		}

		start := i

		switch {
		case isDigit(c):
			j := i + 1
			for j < n && isDigit(s[j]) {
				j++
			}
			if j < n && s[j] == '.' && j+1 < n && isDigit(s[j+1]) {
				j++
				for j < n && isDigit(s[j]) {
					j++
				}
			}
			if j < n && (s[j] == 'e' || s[j] == 'E') {
				k := j + 1
				if k < n && (s[k] == '+' || s[k] == '-') {
					k++
				}
				if k < n && isDigit(s[k]) {
					k++
					for k < n && isDigit(s[k]) {
						k++
					}
					j = k
				}
			}
			out = append(out, token.Token{Type: token.Number, Value: s[start:j], Pos: start})
			i = j

		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentCont(s[j]) {
				j++
			}
			out = append(out, token.Token{Type: token.Identifier, Value: s[start:j], Pos: start})
			i = j

		case c == '"':
			j := i + 1
			for j < n && s[j] != '"' {
				if s[j] == '\n' {
					return nil, casserr.NewSyntaxError("newline in string literal", j).WithSource(s)
				}
				j++
			}
			if j >= n {
				return nil, casserr.NewSyntaxError("unterminated string literal", start).WithSource(s)
			}
			out = append(out, token.Token{Type: token.String, Value: s[start+1 : j], Pos: start})
			i = j + 1

		case c == '-' && i+1 < n && s[i+1] == '>':
			out = append(out, token.Token{Type: token.Arrow, Value: "->", Pos: start})
			i += 2

		case strings.ContainsRune("+-*/^", rune(c)):
			out = append(out, token.Token{Type: token.Operator, Value: string(c), Pos: start})
			i++

		case c == '=':
			out = append(out, token.Token{Type: token.Equals, Value: "=", Pos: start})
			i++

		case c == '(':
			out = append(out, token.Token{Type: token.LeftParen, Value: "(", Pos: start})
			i++
		case c == ')':
			out = append(out, token.Token{Type: token.RightParen, Value: ")", Pos: start})
			i++
		case c == '[':
			out = append(out, token.Token{Type: token.LeftBracket, Value: "[", Pos: start})
			i++
		case c == ']':
			out = append(out, token.Token{Type: token.RightBracket, Value: "]", Pos: start})
			i++
		case c == ',':
			out = append(out, token.Token{Type: token.Comma, Value: ",", Pos: start})
			i++
		case c == ';':
			out = append(out, token.Token{Type: token.Semicolon, Value: ";", Pos: start})
			i++

		default:
			return nil, casserr.NewSyntaxError("unexpected character "+quoteByte(c), start).WithSource(s)
		}
	}

	out = append(out, token.Token{Type: token.EndOfText, Value: "", Pos: n})
	return out, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func quoteByte(c byte) string {
	return "'" + string(rune(c)) + "'"
}
