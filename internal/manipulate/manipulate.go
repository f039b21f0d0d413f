// Package manipulate implements the algebraic manipulation operations of
// spec.md §4.5's companion section: expand, factor, rationalSimplify, and
// partialFraction. Each operation builds a rewritten tree and hands it to
// internal/simplify for normalization, the same two-phase "rewrite then
// renormalize" shape the teacher's tunascript evaluator uses when a builtin
// rewrites a value and then coerces it (internal/tunascript/builtins.go).
package manipulate

import (
	"math"
	"strconv"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/casserr"
	"github.com/dekarrin/casengine/internal/simplify"
)

// Expand distributes multiplication over addition and expands integer
// powers of binomials up to degree 6, per spec.md §4.5.
func Expand(n *ast.Node) *ast.Node {
	return simplify.Simplify(expandOnce(n))
}

func expandOnce(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindUnary:
		return ast.Unary(n.Op, expandOnce(n.Operand))
	case ast.KindBinary:
		l := expandOnce(n.Left)
		r := expandOnce(n.Right)
		switch n.Op {
		case "*":
			return distribute(l, r)
		case "^":
			if exp, ok := intExponent(r); ok && exp >= 2 && exp <= 6 && isAdditive(l) {
				return expandPower(l, exp)
			}
			return ast.Binary("^", l, r)
		default:
			return ast.Binary(n.Op, l, r)
		}
	case ast.KindCall:
		args := make([]*ast.Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = expandOnce(a)
		}
		return ast.Call(n.Name, args...)
	default:
		return n.Clone()
	}
}

func isAdditive(n *ast.Node) bool {
	return n.Kind == ast.KindBinary && (n.Op == "+" || n.Op == "-")
}

func intExponent(n *ast.Node) (int, bool) {
	if n.Kind != ast.KindNumber {
		return 0, false
	}
	f, err := parseFloat(n.NumberValue)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// distribute multiplies out (a + b) * c and a * (b + c) on either side,
// recursing so nested sums on both sides fully distribute.
func distribute(l, r *ast.Node) *ast.Node {
	if isAdditive(l) {
		return ast.Binary(l.Op, distribute(l.Left, r), distribute(l.Right, r))
	}
	if isAdditive(r) {
		return ast.Binary(r.Op, distribute(l, r.Left), distribute(l, r.Right))
	}
	return ast.Binary("*", l, r)
}

// expandPower expands base^exp via repeated distribution (binomial terms
// are folded by the simplifier's like-term collection afterward, so no
// explicit binomial coefficient table is needed here).
func expandPower(base *ast.Node, exp int) *ast.Node {
	result := base.Clone()
	for i := 1; i < exp; i++ {
		result = distribute(result, base.Clone())
	}
	return result
}

// Factor attempts to factor n as a monic or integer-leading quadratic with
// integer roots, per spec.md §4.5. Returns n unchanged (simplified) if no
// factoring rule applies.
func Factor(n *ast.Node) *ast.Node {
	simplified := simplify.Simplify(n)
	a, b, c, variable, ok := quadraticCoefficients(simplified)
	if !ok || a == 0 {
		return simplified
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return simplified
	}
	sq := math.Sqrt(disc)
	if sq != math.Trunc(sq) {
		return simplified
	}
	r1 := (-b + sq) / (2 * a)
	r2 := (-b - sq) / (2 * a)
	if r1 != math.Trunc(r1) || r2 != math.Trunc(r2) {
		return simplified
	}
	factor1 := rootFactor(variable, r1)
	factor2 := rootFactor(variable, r2)
	product := ast.Binary("*", factor1, factor2)
	if a != 1 {
		product = ast.Binary("*", ast.Number(formatInt(int64(a))), product)
	}
	return simplify.Simplify(product)
}

func rootFactor(variable string, root float64) *ast.Node {
	if root == 0 {
		return ast.Symbol(variable)
	}
	if root > 0 {
		return ast.Binary("-", ast.Symbol(variable), numberFromFloat(root))
	}
	return ast.Binary("+", ast.Symbol(variable), numberFromFloat(-root))
}

// quadraticCoefficients recognizes a simplified expression as a·x² + b·x + c
// in a single variable and extracts (a, b, c, variable). Only the canonical
// sum-of-terms shape the simplifier produces is recognized.
func quadraticCoefficients(n *ast.Node) (a, b, c float64, variable string, ok bool) {
	variables := map[string]struct{}{}
	ast.Walk(n, func(m *ast.Node) {
		if m.Kind == ast.KindSymbol && m.Name != "pi" && m.Name != "e" {
			variables[m.Name] = struct{}{}
		}
	})
	names := ast.SortedStrings(variables)
	if len(names) != 1 {
		return 0, 0, 0, "", false
	}
	variable = names[0]

	terms := splitTopSum(n)
	for _, t := range terms {
		coeff, deg, v, termOK := coefficientAndDegree(t, variable)
		if !termOK {
			return 0, 0, 0, "", false
		}
		switch deg {
		case 2:
			a += coeff
		case 1:
			b += coeff
		case 0:
			c += coeff
		default:
			return 0, 0, 0, "", false
		}
		_ = v
	}
	return a, b, c, variable, true
}

func splitTopSum(n *ast.Node) []*ast.Node {
	if n.Kind == ast.KindBinary && n.Op == "+" {
		return append(splitTopSum(n.Left), splitTopSum(n.Right)...)
	}
	if n.Kind == ast.KindBinary && n.Op == "-" {
		return append(splitTopSum(n.Left), ast.Unary("-", n.Right))
	}
	return []*ast.Node{n}
}

func coefficientAndDegree(t *ast.Node, variable string) (coeff float64, degree int, v string, ok bool) {
	sign := 1.0
	for t.Kind == ast.KindUnary && t.Op == "-" {
		sign = -sign
		t = t.Operand
	}
	switch t.Kind {
	case ast.KindNumber:
		f, err := parseFloat(t.NumberValue)
		if err != nil {
			return 0, 0, "", false
		}
		return sign * f, 0, variable, true
	case ast.KindSymbol:
		if t.Name != variable {
			return 0, 0, "", false
		}
		return sign, 1, variable, true
	case ast.KindBinary:
		switch t.Op {
		case "^":
			if t.Left.Kind == ast.KindSymbol && t.Left.Name == variable {
				if exp, expOK := intExponent(t.Right); expOK {
					return sign, exp, variable, true
				}
			}
			return 0, 0, "", false
		case "*":
			var coefficient float64 = 1
			var deg int
			var factors []*ast.Node
			flattenMul(t, &factors)
			for _, f := range factors {
				switch {
				case f.Kind == ast.KindNumber:
					val, err := parseFloat(f.NumberValue)
					if err != nil {
						return 0, 0, "", false
					}
					coefficient *= val
				case f.Kind == ast.KindSymbol && f.Name == variable:
					deg++
				case f.Kind == ast.KindBinary && f.Op == "^" && f.Left.Kind == ast.KindSymbol && f.Left.Name == variable:
					exp, expOK := intExponent(f.Right)
					if !expOK {
						return 0, 0, "", false
					}
					deg += exp
				default:
					return 0, 0, "", false
				}
			}
			return sign * coefficient, deg, variable, true
		}
	}
	return 0, 0, "", false
}

func flattenMul(n *ast.Node, out *[]*ast.Node) {
	if n.Kind == ast.KindBinary && n.Op == "*" {
		flattenMul(n.Left, out)
		flattenMul(n.Right, out)
		return
	}
	*out = append(*out, n)
}

// RationalSimplify reduces a ratio of two expressions by canceling common
// integer factors and any directly-shared factor appearing in both the
// expanded numerator and denominator's top-level product chain.
func RationalSimplify(n *ast.Node) *ast.Node {
	simplified := simplify.Simplify(n)
	if simplified.Kind != ast.KindBinary || simplified.Op != "/" {
		return simplified
	}
	numFactors := []*ast.Node{}
	denFactors := []*ast.Node{}
	flattenMul(simplified.Left, &numFactors)
	flattenMul(simplified.Right, &denFactors)

	for i := 0; i < len(numFactors); i++ {
		for j := 0; j < len(denFactors); j++ {
			if denFactors[j] == nil {
				continue
			}
			if numFactors[i].Equal(denFactors[j]) {
				numFactors[i] = ast.Number("1")
				denFactors[j] = ast.Number("1")
			}
		}
	}

	num := rebuildMul(numFactors)
	den := rebuildMul(denFactors)
	return simplify.Simplify(ast.Binary("/", num, den))
}

func rebuildMul(factors []*ast.Node) *ast.Node {
	result := factors[0]
	for _, f := range factors[1:] {
		result = ast.Binary("*", result, f)
	}
	return result
}

// PartialFraction decomposes P(x) / ((x - r1) * (x - r2)) via the cover-up
// method, per spec.md §4.5, when the denominator is a product of two
// distinct linear factors in the same variable and the numerator is
// constant or linear in that variable. Any input that doesn't match that
// shape is returned simplified, unchanged, per spec.md §4.5 ("Non-matching
// inputs return simplify(node)").
func PartialFraction(n *ast.Node) (*ast.Node, error) {
	simplified := simplify.Simplify(n)
	if simplified.Kind != ast.KindBinary || simplified.Op != "/" {
		return simplified, nil
	}
	var factors []*ast.Node
	flattenMul(simplified.Right, &factors)
	if len(factors) != 2 {
		return simplified, nil
	}

	variable, r1, ok1 := linearRoot(factors[0])
	variable2, r2, ok2 := linearRoot(factors[1])
	if !ok1 || !ok2 || variable != variable2 {
		return simplified, nil
	}
	if r1 == r2 {
		return simplified, nil
	}

	env := map[string]float64{variable: r1}
	numAtR1, err := evalPolynomial(simplified.Left, env)
	if err != nil {
		return simplified, nil
	}
	env[variable] = r2
	numAtR2, err := evalPolynomial(simplified.Left, env)
	if err != nil {
		return simplified, nil
	}

	a := numAtR1 / (r1 - r2)
	b := numAtR2 / (r2 - r1)

	term1 := ast.Binary("/", numberFromFloat(a), rootFactor(variable, r1))
	term2 := ast.Binary("/", numberFromFloat(b), rootFactor(variable, r2))
	return simplify.Simplify(ast.Binary("+", term1, term2)), nil
}

// linearRoot recognizes (x - r), (x + r), or x itself as a linear factor in
// a single variable and returns that variable and its root.
func linearRoot(n *ast.Node) (variable string, root float64, ok bool) {
	if n.Kind == ast.KindSymbol {
		return n.Name, 0, true
	}
	if n.Kind == ast.KindBinary && (n.Op == "+" || n.Op == "-") &&
		n.Left.Kind == ast.KindSymbol && n.Right.Kind == ast.KindNumber {
		f, err := parseFloat(n.Right.NumberValue)
		if err != nil {
			return "", 0, false
		}
		if n.Op == "-" {
			return n.Left.Name, f, true
		}
		return n.Left.Name, -f, true
	}
	return "", 0, false
}

// evalPolynomial evaluates a constant-or-linear-in-one-variable numerator at
// the binding given in env. Only the shapes PartialFraction's callers
// produce (numbers, the bound symbol, and +/-/* combinations of the two)
// are supported.
func evalPolynomial(n *ast.Node, env map[string]float64) (float64, error) {
	switch n.Kind {
	case ast.KindNumber:
		return parseFloat(n.NumberValue)
	case ast.KindSymbol:
		if v, ok := env[n.Name]; ok {
			return v, nil
		}
		return 0, casserr.NewEvaluationError("partialFraction numerator references an unbound variable", 0)
	case ast.KindUnary:
		v, err := evalPolynomial(n.Operand, env)
		if err != nil {
			return 0, err
		}
		if n.Op == "-" {
			return -v, nil
		}
		return v, nil
	case ast.KindBinary:
		l, err := evalPolynomial(n.Left, env)
		if err != nil {
			return 0, err
		}
		r, err := evalPolynomial(n.Right, env)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/":
			return l / r, nil
		}
	}
	return 0, casserr.NewEvaluationError("partialFraction numerator is not a simple polynomial in one variable", 0)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// numberFromFloat renders f as an ast.Number, using an exact integer form
// when possible so downstream simplification keeps working with integers.
func numberFromFloat(f float64) *ast.Node {
	if f == math.Trunc(f) {
		return ast.Number(strconv.FormatInt(int64(f), 10))
	}
	return ast.Number(strconv.FormatFloat(f, 'g', -1, 64))
}
