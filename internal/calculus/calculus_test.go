package calculus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/casengine/internal/ast"
)

func Test_Differentiate(t *testing.T) {
	testCases := []struct {
		name      string
		input     *ast.Node
		variable  string
		expect    *ast.Node
		expectErr bool
	}{
		{
			name:     "power rule",
			input:    ast.Binary("^", ast.Symbol("x"), ast.Number("3")),
			variable: "x",
			expect:   ast.Binary("*", ast.Number("3"), ast.Binary("^", ast.Symbol("x"), ast.Number("2"))),
		},
		{
			name:     "constant derivative is zero",
			input:    ast.Number("5"),
			variable: "x",
			expect:   ast.Number("0"),
		},
		{
			name:     "sum rule",
			input:    ast.Binary("+", ast.Binary("^", ast.Symbol("x"), ast.Number("2")), ast.Symbol("x")),
			variable: "x",
			expect:   ast.Binary("+", ast.Number("1"), ast.Binary("*", ast.Number("2"), ast.Symbol("x"))),
		},
		{
			name:     "sin chain rule",
			input:    ast.Call("sin", ast.Symbol("x")),
			variable: "x",
			expect:   ast.Call("cos", ast.Symbol("x")),
		},
		{
			name:     "exp derivative",
			input:    ast.Call("exp", ast.Symbol("x")),
			variable: "x",
			expect:   ast.Call("exp", ast.Symbol("x")),
		},
		{
			name:     "ln derivative",
			input:    ast.Call("ln", ast.Symbol("x")),
			variable: "x",
			expect:   ast.Binary("/", ast.Number("1"), ast.Symbol("x")),
		},
		{
			name:      "dimensioned quantity cannot be differentiated",
			input:     ast.UnitQuantity(ast.Number("5"), "m"),
			variable:  "x",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Differentiate(tc.input, tc.variable)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.True(t, tc.expect.Equal(got), "expected %q, got %q", tc.expect.String(), got.String())
		})
	}
}

func Test_Integrate(t *testing.T) {
	testCases := []struct {
		name      string
		input     *ast.Node
		variable  string
		expectErr bool
	}{
		{
			name:     "power rule",
			input:    ast.Binary("^", ast.Symbol("x"), ast.Number("2")),
			variable: "x",
		},
		{
			name:     "linear substitution in sin",
			input:    ast.Call("sin", ast.Binary("*", ast.Number("2"), ast.Symbol("x"))),
			variable: "x",
		},
		{
			name:     "unary minus is linear",
			input:    ast.Unary("-", ast.Symbol("x")),
			variable: "x",
		},
		{
			name:      "no rule matches",
			input:     ast.Call("tan", ast.Binary("^", ast.Symbol("x"), ast.Number("2"))),
			variable:  "x",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Integrate(tc.input, tc.variable)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func Test_Integrate_arctanRule(t *testing.T) {
	// ∫ 1/(1+x²) dx = arctan x, spec.md §4.6 rule 5.
	input := ast.Binary("/", ast.Number("1"), ast.Binary("+", ast.Number("1"), ast.Binary("^", ast.Symbol("x"), ast.Number("2"))))

	got, err := Integrate(input, "x")
	assert.NoError(t, err)
	assert.True(t, ast.Call("atan", ast.Symbol("x")).Equal(got), "expected atan(x), got %q", got.String())
}

func Test_Limit(t *testing.T) {
	// limit of (x^2-1)/(x-1) as x->1 should converge to 2, even though the
	// function is undefined exactly at the target point.
	expr := ast.Binary("/",
		ast.Binary("-", ast.Binary("^", ast.Symbol("x"), ast.Number("2")), ast.Number("1")),
		ast.Binary("-", ast.Symbol("x"), ast.Number("1")))

	v, err := Limit(expr, "x", 1)
	assert.NoError(t, err)
	assert.InDelta(t, 2, v, 1e-3)
}

func Test_Limit_doesNotConverge(t *testing.T) {
	// 1/(x-0) blows up near zero from both sides with disagreeing signs.
	expr := ast.Binary("/", ast.Number("1"), ast.Symbol("x"))

	_, err := Limit(expr, "x", 0)
	assert.Error(t, err)
}
