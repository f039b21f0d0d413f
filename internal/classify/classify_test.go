package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/casengine/internal/ast"
)

func Test_Describe(t *testing.T) {
	testCases := []struct {
		name       string
		input      *ast.Node
		expectTag  Tag
		expectVars []string
	}{
		{
			name:       "quadratic equation",
			input:      ast.Binary("=", ast.Binary("^", ast.Symbol("x"), ast.Number("2")), ast.Number("4")),
			expectTag:  TagQuadratic,
			expectVars: []string{"x"},
		},
		{
			name:      "matrix call",
			input:     ast.Call("det", ast.Call("matrix", ast.Call("row", ast.Number("1"), ast.Number("2")))),
			expectTag: TagMatrix,
		},
		{
			name:      "derivative call",
			input:     ast.Call("differentiate", ast.Binary("^", ast.Symbol("x"), ast.Number("2"))),
			expectTag: TagCalculus,
		},
		{
			name:      "limit call",
			input:     ast.Call("limit", ast.Symbol("x"), ast.Symbol("x")),
			expectTag: TagCalculus,
		},
		{
			name:       "manipulation: expression with variables and no equality",
			input:      ast.Binary("+", ast.Symbol("x"), ast.Symbol("y")),
			expectTag:  TagManipulation,
			expectVars: []string{"x", "y"},
		},
		{
			name:      "numeric evaluation: no variables",
			input:     ast.Binary("+", ast.Number("1"), ast.Number("2")),
			expectTag: TagNumericEval,
		},
		{
			name:      "equality that is not quadratic falls back to manipulation",
			input:     ast.Binary("=", ast.Binary("^", ast.Symbol("x"), ast.Number("3")), ast.Number("8")),
			expectTag: TagManipulation,
		},
		{
			name:      "constants pi e i are not counted as variables",
			input:     ast.Binary("+", ast.Symbol("pi"), ast.Binary("+", ast.Symbol("e"), ast.Symbol("i"))),
			expectTag: TagNumericEval,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Describe(tc.input)
			assert.Equal(t, tc.expectTag, d.Tag)
			if tc.expectVars != nil {
				assert.Equal(t, tc.expectVars, d.Variables)
			}
		})
	}
}

func Test_Describe_operatorsAndFunctions(t *testing.T) {
	n := ast.Binary("+", ast.Call("sin", ast.Symbol("x")), ast.Unary("-", ast.Symbol("y")))
	d := Describe(n)

	assert.True(t, d.Operators.Has("+"))
	assert.True(t, d.Operators.Has("-"))
	assert.True(t, d.Functions.Has("sin"))
}

func Test_primaryVariable(t *testing.T) {
	testCases := []struct {
		name   string
		vars   []string
		expect string
	}{
		{name: "picks single-letter variable", vars: []string{"alpha", "x"}, expect: "x"},
		{name: "falls back to first when no single-letter var", vars: []string{"alpha", "beta"}, expect: "alpha"},
		{name: "falls back to x when empty", vars: nil, expect: "x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, primaryVariable(tc.vars))
		})
	}
}

func Test_degreeOf(t *testing.T) {
	assert.Equal(t, 2, degreeOf("2"))
	assert.Equal(t, 1, degreeOf("1"))
	assert.Equal(t, 0, degreeOf("0"))
	assert.Equal(t, 3, degreeOf("7"))
}
