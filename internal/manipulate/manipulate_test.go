package manipulate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/simplify"
)

func Test_Expand(t *testing.T) {
	testCases := []struct {
		name   string
		input  *ast.Node
		expect *ast.Node
	}{
		{
			name:   "distribute over sum",
			input:  ast.Binary("*", ast.Symbol("x"), ast.Binary("+", ast.Symbol("y"), ast.Number("1"))),
			expect: ast.Binary("+", ast.Binary("*", ast.Symbol("x"), ast.Symbol("y")), ast.Symbol("x")),
		},
		{
			name:   "square of a binomial",
			input:  ast.Binary("^", ast.Binary("+", ast.Symbol("x"), ast.Number("1")), ast.Number("2")),
			expect: ast.Binary("+", ast.Binary("+", ast.Number("1"), ast.Binary("^", ast.Symbol("x"), ast.Number("2"))), ast.Binary("*", ast.Number("2"), ast.Symbol("x"))),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Expand(tc.input)
			assert.True(t, tc.expect.Equal(got), "expected %q, got %q", tc.expect.String(), got.String())
		})
	}
}

func Test_Factor(t *testing.T) {
	testCases := []struct {
		name   string
		input  *ast.Node
		expect *ast.Node
	}{
		{
			name: "difference of squares shape x^2-4",
			input: ast.Binary("-", ast.Binary("^", ast.Symbol("x"), ast.Number("2")), ast.Number("4")),
			expect: ast.Binary("*", ast.Binary("+", ast.Number("-2"), ast.Symbol("x")), ast.Binary("+", ast.Number("2"), ast.Symbol("x"))),
		},
		{
			name:   "no integer roots returns simplified input unchanged",
			input:  ast.Binary("+", ast.Binary("^", ast.Symbol("x"), ast.Number("2")), ast.Number("1")),
			expect: ast.Binary("+", ast.Number("1"), ast.Binary("^", ast.Symbol("x"), ast.Number("2"))),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Factor(tc.input)
			assert.True(t, tc.expect.Equal(got), "expected %q, got %q", tc.expect.String(), got.String())
		})
	}
}

func Test_RationalSimplify(t *testing.T) {
	// (x*y) / y -> x
	input := ast.Binary("/", ast.Binary("*", ast.Symbol("x"), ast.Symbol("y")), ast.Symbol("y"))
	got := RationalSimplify(input)
	assert.True(t, ast.Symbol("x").Equal(got), "expected x, got %q", got.String())
}

func Test_PartialFraction(t *testing.T) {
	testCases := []struct {
		name        string
		input       *ast.Node
		expectUnchg bool
	}{
		{
			name:  "valid two distinct linear factors",
			input: ast.Binary("/", ast.Number("1"), ast.Binary("*", ast.Binary("-", ast.Symbol("x"), ast.Number("1")), ast.Binary("+", ast.Symbol("x"), ast.Number("1")))),
		},
		{
			name:        "not a quotient falls back to simplify",
			input:       ast.Binary("+", ast.Symbol("x"), ast.Number("1")),
			expectUnchg: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PartialFraction(tc.input)
			assert.NoError(t, err)
			assert.NotNil(t, got)
			if tc.expectUnchg {
				assert.True(t, simplify.Simplify(tc.input).Equal(got), "expected fallback to simplify(node), got %q", got.String())
			}
		})
	}
}
