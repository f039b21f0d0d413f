package texfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/casengine/internal/ast"
)

func Test_ToKaTeX(t *testing.T) {
	testCases := []struct {
		name   string
		input  *ast.Node
		expect string
	}{
		{name: "integer literal", input: ast.Number("3.0"), expect: "3"},
		{name: "decimal literal", input: ast.Number("3.5"), expect: "3.5"},
		{name: "symbol pi", input: ast.Symbol("pi"), expect: "\\pi"},
		{name: "plain symbol", input: ast.Symbol("x"), expect: "\\mathrm{x}"},
		{
			name:   "addition",
			input:  ast.Binary("+", ast.Symbol("x"), ast.Number("1")),
			expect: "\\mathrm{x} + 1",
		},
		{
			name:   "subtraction is left-grouped correctly",
			input:  ast.Binary("-", ast.Symbol("x"), ast.Binary("+", ast.Symbol("y"), ast.Number("1"))),
			expect: "\\mathrm{x} - \\left(\\mathrm{y} + 1\\right)",
		},
		{
			name:   "multiplication precedence forces parens around addition",
			input:  ast.Binary("*", ast.Binary("+", ast.Symbol("x"), ast.Number("1")), ast.Symbol("y")),
			expect: "\\left(\\mathrm{x} + 1\\right) \\cdot \\mathrm{y}",
		},
		{
			name:   "division renders as fraction without extra parens",
			input:  ast.Binary("/", ast.Symbol("x"), ast.Symbol("y")),
			expect: "\\frac{\\mathrm{x}}{\\mathrm{y}}",
		},
		{
			name:   "power",
			input:  ast.Binary("^", ast.Symbol("x"), ast.Number("2")),
			expect: "\\mathrm{x}^{2}",
		},
		{
			name:   "sqrt call",
			input:  ast.Call("sqrt", ast.Number("4")),
			expect: "\\sqrt{4}",
		},
		{
			name:   "log with base",
			input:  ast.Call("log", ast.Number("100"), ast.Number("10")),
			expect: "\\log_{10}\\left(100\\right)",
		},
		{
			name:   "standard trig function",
			input:  ast.Call("sin", ast.Symbol("x")),
			expect: "\\sin\\left(\\mathrm{x}\\right)",
		},
		{
			name:   "unit quantity",
			input:  ast.UnitQuantity(ast.Number("5"), "m"),
			expect: "5\\,\\mathrm{m}",
		},
		{
			name:   "arrow",
			input:  ast.ArrowNode(ast.Symbol("x"), ast.Number("0")),
			expect: "\\mathrm{x} \\to 0",
		},
		{
			name:   "list",
			input:  ast.List(ast.Number("1"), ast.Number("2")),
			expect: "1, 2",
		},
		{
			name:   "equation",
			input:  ast.Binary("=", ast.Symbol("x"), ast.Number("4")),
			expect: "\\mathrm{x} = 4",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ToKaTeX(tc.input))
		})
	}
}

func Test_ToKaTeX_nilNode(t *testing.T) {
	assert.Equal(t, "", ToKaTeX(nil))
}
