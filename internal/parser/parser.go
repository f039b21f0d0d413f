// Package parser implements a Pratt/precedence-climbing parser producing an
// ast.Node tree from a token stream, following the nud/led dispatch style of
// the teacher's internal/tunascript parser (see
// internal/tunascript/parser.go and operators.go) generalized to the
// arithmetic grammar of spec.md §4.2.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/casserr"
	"github.com/dekarrin/casengine/internal/token"
)

// Binding powers, lowest to highest, per spec.md §4.2.
const (
	bpNone     = 0
	bpAssign   = 10
	bpAddSub   = 20
	bpMulDiv   = 30
	bpUnary    = 40
	bpPow      = 50
	bpImplicit = 60
	bpCall     = 70
)

var unitSymbols = map[string]bool{
	"m": true, "s": true, "kg": true, "g": true, "cm": true, "mm": true,
	"km": true, "ms": true, "us": true, "ns": true, "Hz": true, "N": true,
	"J": true, "W": true, "Pa": true, "A": true, "V": true, "Ω": true,
	"mol": true, "K": true,
}

// listFuncs are the call names that parse to ast.List rather than ast.Call,
// per spec.md §4.2 ("row(...) and vector(...) ... produce List nodes").
var listFuncs = map[string]bool{"row": true, "vector": true}

// Parse tokenizes nothing itself; it consumes an already-lexed token stream
// and returns the parsed expression AST, or a *casserr.SyntaxError.
func Parse(tokens []token.Token, source string) (*ast.Node, error) {
	p := &Parser{tokens: tokens, source: source}
	n, err := p.parseExpression(bpNone)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != token.EndOfText {
		t := p.peek()
		return nil, p.errorf(t.Pos, "unexpected %s after expression", t.Type)
	}
	return n, nil
}

type Parser struct {
	tokens []token.Token
	pos    int
	source string
}

func (p *Parser) peek() token.Token { return p.tokens[p.pos] }

func (p *Parser) next() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(pos int, format string, args ...any) error {
	return casserr.NewSyntaxError(fmt.Sprintf(format, args...), pos).WithSource(p.source)
}

// lbp returns the left binding power of t, or bpNone if t cannot appear as an
// infix/postfix operator (expression terminators, commas, close-brackets).
func (p *Parser) lbp(t token.Token) int {
	switch t.Type {
	case token.Equals:
		return bpAssign
	case token.Operator:
		switch t.Value {
		case "+", "-":
			return bpAddSub
		case "*", "/":
			return bpMulDiv
		case "^":
			return bpPow
		}
	case token.Arrow:
		return bpAddSub - 15 // strictly lower than +/-, per spec.md §4.2
	case token.Number, token.Identifier, token.LeftParen:
		// a primary with no intervening operator: implicit multiplication.
		return bpImplicit
	}
	return bpNone
}

func (p *Parser) parseExpression(rbp int) (*ast.Node, error) {
	t := p.next()
	left, err := p.nud(t)
	if err != nil {
		return nil, err
	}

	for rbp < p.lbp(p.peek()) {
		t = p.peek()
		if canStartPrimary(t) {
			// implicit multiplication / unit suffix: no operator token is
			// actually consumed here beyond the primary itself.
			right, err := p.parseExpression(bpImplicit)
			if err != nil {
				return nil, err
			}
			left = ast.Binary("*", left, right)
			continue
		}
		t = p.next()
		left, err = p.led(t, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func canStartPrimary(t token.Token) bool {
	switch t.Type {
	case token.Number, token.Identifier, token.LeftParen:
		return true
	}
	return false
}

// nud is the "null denotation": how a token behaves at the start of an
// expression/sub-expression.
func (p *Parser) nud(t token.Token) (*ast.Node, error) {
	switch t.Type {
	case token.Number:
		return p.nudNumber(t)
	case token.Identifier:
		return p.nudIdentifier(t)
	case token.String:
		return ast.Symbol("\"" + t.Value + "\""), nil
	case token.LeftParen:
		inner, err := p.parseExpression(bpNone)
		if err != nil {
			return nil, err
		}
		close := p.next()
		if close.Type != token.RightParen {
			return nil, p.errorf(close.Pos, "expected ')' to close group")
		}
		return inner, nil
	case token.Operator:
		if t.Value == "+" || t.Value == "-" {
			operand, err := p.parseExpression(bpUnary)
			if err != nil {
				return nil, err
			}
			return ast.Unary(t.Value, operand), nil
		}
	case token.EndOfText:
		return nil, p.errorf(t.Pos, "unexpected end of input")
	}
	return nil, p.errorf(t.Pos, "unexpected %s", t.Type)
}

func (p *Parser) nudNumber(t token.Token) (*ast.Node, error) {
	num := ast.Number(t.Value)

	next := p.peek()
	if next.Type == token.Identifier && next.Pos == t.Pos+len(t.Value) && unitSymbols[next.Value] {
		p.next()
		return ast.UnitQuantity(num, next.Value), nil
	}
	return num, nil
}

func (p *Parser) nudIdentifier(t token.Token) (*ast.Node, error) {
	if p.peek().Type == token.LeftParen {
		p.next() // consume '('
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		name := strings.ToLower(t.Value)
		if listFuncs[name] {
			return ast.List(args...), nil
		}
		return ast.Call(name, args...), nil
	}
	return ast.Symbol(t.Value), nil
}

// parseArgs parses a comma-separated argument list up to and including the
// closing ')'. The opening '(' has already been consumed. A trailing comma
// before ')' is tolerated; an empty argument between commas (or leading) is
// a syntax error, per spec.md §8's "log(,10)" boundary case.
func (p *Parser) parseArgs() ([]*ast.Node, error) {
	var args []*ast.Node

	if p.peek().Type == token.RightParen {
		p.next()
		return args, nil
	}

	for {
		arg, err := p.parseArgExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		sep := p.peek()
		if sep.Type == token.Comma {
			p.next()
			if p.peek().Type == token.RightParen {
				p.next()
				return args, nil
			}
			continue
		}
		if sep.Type != token.RightParen {
			return nil, p.errorf(sep.Pos, "expected ',' or ')' in argument list")
		}
		p.next()
		return args, nil
	}
}

// parseArgExpression parses one call argument, allowing a top-level Arrow
// (as used by limit(f, x -> a)) in addition to ordinary expressions.
func (p *Parser) parseArgExpression() (*ast.Node, error) {
	left, err := p.parseExpression(bpAddSub - 15)
	if err != nil {
		return nil, err
	}
	if p.peek().Type == token.Arrow {
		p.next()
		to, err := p.parseExpression(bpAddSub - 15)
		if err != nil {
			return nil, err
		}
		return ast.ArrowNode(left, to), nil
	}
	return left, nil
}

// led is the "left denotation": how a token combines with an already-parsed
// left operand.
func (p *Parser) led(t token.Token, left *ast.Node) (*ast.Node, error) {
	switch t.Type {
	case token.Equals:
		right, err := p.parseExpression(bpAssign)
		if err != nil {
			return nil, err
		}
		return ast.Binary("=", left, right), nil
	case token.Operator:
		switch t.Value {
		case "+", "-":
			right, err := p.parseExpression(bpAddSub)
			if err != nil {
				return nil, err
			}
			return ast.Binary(t.Value, left, right), nil
		case "*", "/":
			right, err := p.parseExpression(bpMulDiv)
			if err != nil {
				return nil, err
			}
			return ast.Binary(t.Value, left, right), nil
		case "^":
			// right-associative: recurse at lbp-1 so a chained ^ on the
			// right keeps nesting instead of returning to this level.
			right, err := p.parseExpression(bpPow - 1)
			if err != nil {
				return nil, err
			}
			return ast.Binary("^", left, right), nil
		}
	}
	return nil, p.errorf(t.Pos, "unexpected %s", t.Type)
}

// ParseNumberLiteral parses a Number node's lexical value into a float64. It
// is a small helper shared by internal/numeric and internal/simplify so the
// "what counts as a valid literal" logic lives in one place.
func ParseNumberLiteral(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
