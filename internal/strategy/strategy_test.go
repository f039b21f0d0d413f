package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/classify"
)

func Test_Select_dispatchesByTag(t *testing.T) {
	testCases := []struct {
		name         string
		input        *ast.Node
		expectName   string
	}{
		{
			name:       "quadratic equation routes to quadratic strategy",
			input:      ast.Binary("=", ast.Binary("^", ast.Symbol("x"), ast.Number("2")), ast.Number("4")),
			expectName: "quadratic",
		},
		{
			name:       "differentiate call routes to calculus strategy",
			input:      ast.Call("differentiate", ast.Binary("^", ast.Symbol("x"), ast.Number("2"))),
			expectName: "calculus",
		},
		{
			name:       "det call routes to matrix strategy",
			input:      ast.Call("det", ast.Call("matrix", ast.Call("row", ast.Number("1"), ast.Number("2")))),
			expectName: "matrix",
		},
		{
			name:       "symbolic expression routes to manipulation strategy",
			input:      ast.Binary("+", ast.Symbol("x"), ast.Symbol("x")),
			expectName: "manipulation",
		},
		{
			name:       "numeric-only expression routes to numeric-evaluation strategy",
			input:      ast.Binary("+", ast.Number("1"), ast.Number("2")),
			expectName: "numeric-evaluation",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := classify.Describe(tc.input)
			got := Select(tc.input, d)
			assert.Equal(t, tc.expectName, got.Name())
		})
	}
}

func Test_QuadraticStrategy_Solve(t *testing.T) {
	input := ast.Binary("=", ast.Binary("^", ast.Symbol("x"), ast.Number("2")), ast.Number("4"))
	d := classify.Describe(input)

	bundle, err := quadraticStrategy{}.Solve(input, d)
	assert.NoError(t, err)
	assert.NotEmpty(t, bundle.Steps)
	assert.Equal(t, classify.TagQuadratic, bundle.Tag)

	expect := ast.List(ast.IntNumber(2), ast.IntNumber(-2))
	assert.True(t, expect.Equal(bundle.Result), "expected %q, got %q", expect.String(), bundle.Result.String())
}

func Test_QuadraticStrategy_Solve_zeroLeadingCoefficientErrors(t *testing.T) {
	input := ast.Binary("=", ast.Symbol("x"), ast.Number("4"))
	d := classify.Describe(input)
	d.Tag = classify.TagQuadratic

	_, err := quadraticStrategy{}.Solve(input, d)
	assert.Error(t, err)
}

func Test_CalculusStrategy_Solve_differentiate(t *testing.T) {
	input := ast.Call("differentiate", ast.Binary("^", ast.Symbol("x"), ast.Number("2")))
	d := classify.Describe(input)

	bundle, err := calculusStrategy{}.Solve(input, d)
	assert.NoError(t, err)
	expect := ast.Binary("*", ast.Number("2"), ast.Symbol("x"))
	assert.True(t, expect.Equal(bundle.Result), "expected %q, got %q", expect.String(), bundle.Result.String())
	assert.Greater(t, len(bundle.Steps), 1, "expected more than one derivation step")
}

func Test_CalculusStrategy_Solve_differentiate_chainRuleHasMultipleSteps(t *testing.T) {
	// diff(sin(x)^2, x): the power rule and the chain rule for sin each
	// contribute their own step, so the bundle must show more than one.
	input := ast.Call("diff", ast.Binary("^", ast.Call("sin", ast.Symbol("x")), ast.Number("2")))
	d := classify.Describe(input)

	bundle, err := calculusStrategy{}.Solve(input, d)
	assert.NoError(t, err)
	assert.Greater(t, len(bundle.Steps), 1, "expected more than one derivation step")
}

func Test_CalculusStrategy_Solve_limit(t *testing.T) {
	input := ast.Call("limit", ast.Symbol("x"), ast.ArrowNode(ast.Symbol("x"), ast.Number("3")))
	d := classify.Describe(input)

	bundle, err := calculusStrategy{}.Solve(input, d)
	assert.NoError(t, err)
	assert.NotNil(t, bundle.Result)
}

func Test_CalculusStrategy_Solve_unrecognizedOperationErrors(t *testing.T) {
	input := ast.Call("frobnicate", ast.Symbol("x"))
	d := classify.Describe(input)

	_, err := calculusStrategy{}.Solve(input, d)
	assert.Error(t, err)
}

func Test_MatrixStrategy_Solve_det(t *testing.T) {
	input := ast.Call("det", ast.Call("matrix", ast.Call("row", ast.Number("1"), ast.Number("2")), ast.Call("row", ast.Number("3"), ast.Number("4"))))
	d := classify.Describe(input)

	bundle, err := matrixStrategy{}.Solve(input, d)
	assert.NoError(t, err)
	assert.True(t, bundle.Result.Kind == ast.KindBinary && bundle.Result.Op == "=" && input.Equal(bundle.Result.Left), "expected det(...) = value, got %q", bundle.Result.String())
	assert.InDelta(t, -2, bundle.ApproxValue, 1e-9)
}

func Test_ManipulationStrategy_Solve_simplifiesByDefault(t *testing.T) {
	input := ast.Binary("+", ast.Symbol("x"), ast.Symbol("x"))
	d := classify.Describe(input)

	bundle, err := manipulationStrategy{}.Solve(input, d)
	assert.NoError(t, err)
	expect := ast.Binary("*", ast.Number("2"), ast.Symbol("x"))
	assert.True(t, expect.Equal(bundle.Result), "expected %q, got %q", expect.String(), bundle.Result.String())
}

func Test_ManipulationStrategy_Solve_expandCall(t *testing.T) {
	input := ast.Call("expand", ast.Binary("*", ast.Symbol("x"), ast.Binary("+", ast.Symbol("y"), ast.Number("1"))))
	d := classify.Describe(input)

	bundle, err := manipulationStrategy{}.Solve(input, d)
	assert.NoError(t, err)
	assert.NotNil(t, bundle.Result)
}

func Test_NumericEvalStrategy_Solve(t *testing.T) {
	input := ast.Binary("+", ast.Number("1"), ast.Number("2"))
	d := classify.Describe(input)

	bundle, err := numericEvalStrategy{}.Solve(input, d)
	assert.NoError(t, err)
	assert.True(t, ast.IntNumber(3).Equal(bundle.Result))
}

func Test_FallbackStrategy_Solve(t *testing.T) {
	input := ast.Binary("+", ast.Number("1"), ast.Number("1"))
	d := classify.Describe(input)

	bundle, err := fallbackStrategy{}.Solve(input, d)
	assert.NoError(t, err)
	assert.Equal(t, classify.TagUnrecognized, bundle.Tag)
}
