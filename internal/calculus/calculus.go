// Package calculus implements differentiate, integrate, and limit from
// spec.md §4.6. Differentiation is a structural recursion dispatched on
// ast.Kind, in the same style as internal/numeric's evaluator; integration
// is an ordered pattern-matching rule table, the nearest analog in the
// teacher's code being the ordered builtin-lookup in
// internal/tunascript/builtins.go.
package calculus

import (
	"math"
	"strconv"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/casserr"
	"github.com/dekarrin/casengine/internal/numeric"
	"github.com/dekarrin/casengine/internal/simplify"
)

// RuleStep records one elementary rule firing during a traced
// differentiation or integration, in source-visited order, for display as a
// derivation step.
type RuleStep struct {
	Rule   string
	Result *ast.Node
}

// recordStep appends a rule application to tr, cloning result so later
// rewrites of the working tree can't mutate a step already reported. tr may
// be nil, in which case recordStep is a no-op (the untraced entry points
// pass nil to skip the bookkeeping).
func recordStep(tr *[]RuleStep, rule string, result *ast.Node) {
	if tr == nil {
		return
	}
	*tr = append(*tr, RuleStep{Rule: rule, Result: result.Clone()})
}

// Differentiate returns d(n)/d(variable), simplified.
func Differentiate(n *ast.Node, variable string) (*ast.Node, error) {
	result, _, err := DifferentiateTraced(n, variable)
	return result, err
}

// DifferentiateTraced behaves like Differentiate but also returns the
// ordered list of elementary rules applied, one entry per sum/product/
// quotient/power/chain-rule step encountered while walking the tree.
func DifferentiateTraced(n *ast.Node, variable string) (*ast.Node, []RuleStep, error) {
	var tr []RuleStep
	d, err := diff(n, variable, &tr)
	if err != nil {
		return nil, nil, err
	}
	return simplify.Simplify(d), tr, nil
}

func diff(n *ast.Node, x string, tr *[]RuleStep) (*ast.Node, error) {
	switch n.Kind {
	case ast.KindNumber:
		return ast.IntNumber(0), nil
	case ast.KindSymbol:
		if n.Name == x {
			return ast.IntNumber(1), nil
		}
		return ast.IntNumber(0), nil
	case ast.KindUnitQuantity:
		return nil, casserr.NewEvaluationError("cannot differentiate a dimensioned quantity", 0)
	case ast.KindUnary:
		d, err := diff(n.Operand, x, tr)
		if err != nil {
			return nil, err
		}
		if n.Op == "-" {
			return ast.Unary("-", d), nil
		}
		return d, nil
	case ast.KindBinary:
		return diffBinary(n, x, tr)
	case ast.KindCall:
		return diffCall(n, x, tr)
	}
	return nil, casserr.NewEvaluationError("cannot differentiate this expression", 0)
}

func diffBinary(n *ast.Node, x string, tr *[]RuleStep) (*ast.Node, error) {
	switch n.Op {
	case "+", "-":
		dl, err := diff(n.Left, x, tr)
		if err != nil {
			return nil, err
		}
		dr, err := diff(n.Right, x, tr)
		if err != nil {
			return nil, err
		}
		result := ast.Binary(n.Op, dl, dr)
		recordStep(tr, "sum rule", result)
		return result, nil
	case "*":
		dl, err := diff(n.Left, x, tr)
		if err != nil {
			return nil, err
		}
		dr, err := diff(n.Right, x, tr)
		if err != nil {
			return nil, err
		}
		// product rule: (f'g + fg')
		result := ast.Binary("+",
			ast.Binary("*", dl, n.Right.Clone()),
			ast.Binary("*", n.Left.Clone(), dr))
		recordStep(tr, "product rule", result)
		return result, nil
	case "/":
		dl, err := diff(n.Left, x, tr)
		if err != nil {
			return nil, err
		}
		dr, err := diff(n.Right, x, tr)
		if err != nil {
			return nil, err
		}
		// quotient rule: (f'g - fg') / g^2
		num := ast.Binary("-",
			ast.Binary("*", dl, n.Right.Clone()),
			ast.Binary("*", n.Left.Clone(), dr))
		den := ast.Binary("^", n.Right.Clone(), ast.IntNumber(2))
		result := ast.Binary("/", num, den)
		recordStep(tr, "quotient rule", result)
		return result, nil
	case "^":
		return diffPower(n, x, tr)
	}
	return nil, casserr.NewEvaluationError("cannot differentiate operator "+n.Op, 0)
}

// diffPower handles f(x)^c (power rule), c^f(x) (exponential rule), and
// f(x)^g(x) (generalized logarithmic-differentiation rule).
func diffPower(n *ast.Node, x string, tr *[]RuleStep) (*ast.Node, error) {
	baseHasX := containsVariable(n.Left, x)
	expHasX := containsVariable(n.Right, x)

	switch {
	case !baseHasX && !expHasX:
		return ast.IntNumber(0), nil
	case baseHasX && !expHasX:
		// d/dx f^c = c * f^(c-1) * f'
		df, err := diff(n.Left, x, tr)
		if err != nil {
			return nil, err
		}
		exponentMinus1 := ast.Binary("-", n.Right.Clone(), ast.IntNumber(1))
		result := ast.Binary("*",
			ast.Binary("*", n.Right.Clone(), ast.Binary("^", n.Left.Clone(), exponentMinus1)),
			df)
		recordStep(tr, "power rule", result)
		return result, nil
	case !baseHasX && expHasX:
		// d/dx c^g = c^g * ln(c) * g'
		dg, err := diff(n.Right, x, tr)
		if err != nil {
			return nil, err
		}
		result := ast.Binary("*",
			ast.Binary("*", n.Clone(), ast.Call("ln", n.Left.Clone())),
			dg)
		recordStep(tr, "exponential rule", result)
		return result, nil
	default:
		// d/dx f^g = f^g * (g' * ln(f) + g * f'/f)
		df, err := diff(n.Left, x, tr)
		if err != nil {
			return nil, err
		}
		dg, err := diff(n.Right, x, tr)
		if err != nil {
			return nil, err
		}
		inner := ast.Binary("+",
			ast.Binary("*", dg, ast.Call("ln", n.Left.Clone())),
			ast.Binary("*", n.Right.Clone(), ast.Binary("/", df, n.Left.Clone())))
		result := ast.Binary("*", n.Clone(), inner)
		recordStep(tr, "generalized power rule (logarithmic differentiation)", result)
		return result, nil
	}
}

func containsVariable(n *ast.Node, x string) bool {
	found := false
	ast.Walk(n, func(m *ast.Node) {
		if m.Kind == ast.KindSymbol && m.Name == x {
			found = true
		}
	})
	return found
}

func diffCall(n *ast.Node, x string, tr *[]RuleStep) (*ast.Node, error) {
	if len(n.Args) != 1 {
		return nil, casserr.NewEvaluationError("cannot differentiate "+n.Name+"() with this arity", 0)
	}
	u := n.Args[0]
	du, err := diff(u, x, tr)
	if err != nil {
		return nil, err
	}
	var outer *ast.Node
	switch n.Name {
	case "sin":
		outer = ast.Call("cos", u.Clone())
	case "cos":
		outer = ast.Unary("-", ast.Call("sin", u.Clone()))
	case "tan":
		outer = ast.Binary("/", ast.IntNumber(1), ast.Binary("^", ast.Call("cos", u.Clone()), ast.IntNumber(2)))
	case "asin":
		outer = ast.Binary("/", ast.IntNumber(1), ast.Call("sqrt", ast.Binary("-", ast.IntNumber(1), ast.Binary("^", u.Clone(), ast.IntNumber(2)))))
	case "acos":
		outer = ast.Unary("-", ast.Binary("/", ast.IntNumber(1), ast.Call("sqrt", ast.Binary("-", ast.IntNumber(1), ast.Binary("^", u.Clone(), ast.IntNumber(2))))))
	case "atan":
		outer = ast.Binary("/", ast.IntNumber(1), ast.Binary("+", ast.IntNumber(1), ast.Binary("^", u.Clone(), ast.IntNumber(2))))
	case "exp":
		outer = ast.Call("exp", u.Clone())
	case "ln":
		outer = ast.Binary("/", ast.IntNumber(1), u.Clone())
	case "sqrt":
		outer = ast.Binary("/", ast.IntNumber(1), ast.Binary("*", ast.IntNumber(2), ast.Call("sqrt", u.Clone())))
	case "abs":
		// d/dx |f| = sgn(f) * f', represented symbolically as a call since
		// sgn has no arithmetic evaluation rule of its own.
		outer = ast.Call("sgn", u.Clone())
	default:
		return nil, casserr.NewEvaluationError("no differentiation rule for "+n.Name+"()", 0)
	}
	result := ast.Binary("*", outer, du)
	recordStep(tr, "chain rule: "+n.Name+"()", result)
	return result, nil
}

// Integrate returns an antiderivative of n with respect to variable, per the
// ordered rule table of spec.md §4.6, trying substitution u = a*x + b when no
// direct rule matches.
func Integrate(n *ast.Node, variable string) (*ast.Node, error) {
	result, _, err := IntegrateTraced(n, variable)
	return result, err
}

// IntegrateTraced behaves like Integrate but also returns the ordered list
// of pattern-table rules that fired while matching n, per spec.md §4.6.
func IntegrateTraced(n *ast.Node, variable string) (*ast.Node, []RuleStep, error) {
	simplified := simplify.Simplify(n)
	var tr []RuleStep
	result, err := integrate(simplified, variable, &tr)
	if err != nil {
		return nil, nil, err
	}
	return simplify.Simplify(result), tr, nil
}

func integrate(n *ast.Node, x string, tr *[]RuleStep) (*ast.Node, error) {
	if !containsVariable(n, x) {
		result := ast.Binary("*", n.Clone(), ast.Symbol(x))
		recordStep(tr, "constant rule", result)
		return result, nil
	}

	switch n.Kind {
	case ast.KindSymbol:
		if n.Name == x {
			result := ast.Binary("/", ast.Binary("^", ast.Symbol(x), ast.IntNumber(2)), ast.IntNumber(2))
			recordStep(tr, "power rule", result)
			return result, nil
		}
	case ast.KindUnary:
		if n.Op == "-" {
			inner, err := integrate(n.Operand, x, tr)
			if err != nil {
				return nil, err
			}
			result := ast.Unary("-", inner)
			recordStep(tr, "linearity (negation)", result)
			return result, nil
		}
		return integrate(n.Operand, x, tr)
	case ast.KindBinary:
		switch n.Op {
		case "+", "-":
			il, err := integrate(n.Left, x, tr)
			if err != nil {
				return nil, err
			}
			ir, err := integrate(n.Right, x, tr)
			if err != nil {
				return nil, err
			}
			result := ast.Binary(n.Op, il, ir)
			recordStep(tr, "linearity (sum)", result)
			return result, nil
		case "*":
			if !containsVariable(n.Left, x) {
				inner, err := integrate(n.Right, x, tr)
				if err != nil {
					return nil, err
				}
				result := ast.Binary("*", n.Left.Clone(), inner)
				recordStep(tr, "linearity (constant multiple)", result)
				return result, nil
			}
			if !containsVariable(n.Right, x) {
				inner, err := integrate(n.Left, x, tr)
				if err != nil {
					return nil, err
				}
				result := ast.Binary("*", n.Right.Clone(), inner)
				recordStep(tr, "linearity (constant multiple)", result)
				return result, nil
			}
		case "/":
			if !containsVariable(n.Right, x) {
				inner, err := integrate(n.Left, x, tr)
				if err != nil {
					return nil, err
				}
				result := ast.Binary("/", inner, n.Right.Clone())
				recordStep(tr, "linearity (constant divisor)", result)
				return result, nil
			}
			if n.Left.Kind == ast.KindNumber && n.Right.Kind == ast.KindSymbol && n.Right.Name == x {
				result := ast.Binary("*", n.Left.Clone(), ast.Call("ln", ast.Call("abs", ast.Symbol(x))))
				recordStep(tr, "1/x rule", result)
				return result, nil
			}
			if !containsVariable(n.Left, x) && isOnePlusSquare(n.Right, x) {
				result := ast.Binary("*", n.Left.Clone(), ast.Call("atan", ast.Symbol(x)))
				recordStep(tr, "arctangent rule", result)
				return result, nil
			}
		case "^":
			if n.Left.Kind == ast.KindSymbol && n.Left.Name == x && n.Right.Kind == ast.KindNumber {
				exp, err := parseExponent(n.Right.NumberValue)
				if err == nil && exp != -1 {
					newExp := exp + 1
					result := ast.Binary("/", ast.Binary("^", ast.Symbol(x), numberNode(newExp)), numberNode(newExp))
					recordStep(tr, "power rule", result)
					return result, nil
				}
				if err == nil && exp == -1 {
					result := ast.Call("ln", ast.Call("abs", ast.Symbol(x)))
					recordStep(tr, "1/x rule", result)
					return result, nil
				}
			}
			if linA, linB, ok := linearInX(n.Left, x); ok && n.Right.Kind == ast.KindNumber {
				exp, err := parseExponent(n.Right.NumberValue)
				if err == nil && exp != -1 {
					newExp := exp + 1
					inner := ast.Binary("^", ast.Binary("+", ast.Binary("*", numberNode(linA), ast.Symbol(x)), numberNode(linB)), numberNode(newExp))
					result := ast.Binary("/", inner, numberNode(newExp*linA))
					recordStep(tr, "power rule with linear substitution", result)
					return result, nil
				}
			}
		}
	case ast.KindCall:
		if len(n.Args) == 1 {
			if u, a, b, ok := simpleLinearArg(n.Args[0], x); ok {
				if rule, ruleOK := directCallAntiderivative(n.Name, u); ruleOK {
					result := ast.Binary("/", rule, numberNode(a))
					recordStep(tr, "direct rule with linear substitution: "+n.Name+"()", result)
					return result, nil
				}
				_ = b
			}
		}
	}
	return nil, casserr.NewEvaluationError("no integration rule matches this expression", 0)
}

// simpleLinearArg recognizes u = a*x + b as a call's sole argument and
// reports (u, a, b) so a chain-rule substitution can be applied.
func simpleLinearArg(u *ast.Node, x string) (*ast.Node, float64, float64, bool) {
	if u.Kind == ast.KindSymbol && u.Name == x {
		return u, 1, 0, true
	}
	a, b, ok := linearInX(u, x)
	if !ok {
		return nil, 0, 0, false
	}
	return u, a, b, true
}

// isOnePlusSquare recognizes 1 + x^2 (in either term order) so the
// arctangent rule (∫ 1/(1+x²) dx = arctan x) can fire.
func isOnePlusSquare(n *ast.Node, x string) bool {
	if n.Kind != ast.KindBinary || n.Op != "+" {
		return false
	}
	isOne := func(t *ast.Node) bool {
		v, err := parseExponent(t.NumberValue)
		return t.Kind == ast.KindNumber && err == nil && v == 1
	}
	isXSquared := func(t *ast.Node) bool {
		if t.Kind != ast.KindBinary || t.Op != "^" || t.Left.Kind != ast.KindSymbol || t.Left.Name != x || t.Right.Kind != ast.KindNumber {
			return false
		}
		v, err := parseExponent(t.Right.NumberValue)
		return err == nil && v == 2
	}
	return (isOne(n.Left) && isXSquared(n.Right)) || (isXSquared(n.Left) && isOne(n.Right))
}

// linearInX recognizes n as a*x + b or a*x - b (b optional) and reports the
// coefficient and constant term.
func linearInX(n *ast.Node, x string) (a, b float64, ok bool) {
	if n.Kind == ast.KindSymbol && n.Name == x {
		return 1, 0, true
	}
	if n.Kind == ast.KindBinary && n.Op == "*" {
		if n.Left.Kind == ast.KindNumber && n.Right.Kind == ast.KindSymbol && n.Right.Name == x {
			f, err := parseExponent(n.Left.NumberValue)
			if err == nil {
				return f, 0, true
			}
		}
	}
	if n.Kind == ast.KindBinary && (n.Op == "+" || n.Op == "-") {
		if la, lb, lok := linearTermCoeff(n.Left, x); lok {
			if rc, rok := constantOnly(n.Right); rok {
				if n.Op == "-" {
					return la, lb - rc, true
				}
				return la, lb + rc, true
			}
		}
	}
	return 0, 0, false
}

func linearTermCoeff(n *ast.Node, x string) (a, b float64, ok bool) {
	if n.Kind == ast.KindSymbol && n.Name == x {
		return 1, 0, true
	}
	if n.Kind == ast.KindBinary && n.Op == "*" && n.Left.Kind == ast.KindNumber && n.Right.Kind == ast.KindSymbol && n.Right.Name == x {
		f, err := parseExponent(n.Left.NumberValue)
		if err == nil {
			return f, 0, true
		}
	}
	return 0, 0, false
}

func constantOnly(n *ast.Node) (float64, bool) {
	if n.Kind != ast.KindNumber {
		return 0, false
	}
	f, err := parseExponent(n.NumberValue)
	return f, err == nil
}

func directCallAntiderivative(name string, u *ast.Node) (*ast.Node, bool) {
	switch name {
	case "sin":
		return ast.Unary("-", ast.Call("cos", u)), true
	case "cos":
		return ast.Call("sin", u), true
	case "exp":
		return ast.Call("exp", u), true
	}
	return nil, false
}

func parseExponent(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func numberNode(f float64) *ast.Node {
	if f == math.Trunc(f) {
		return ast.IntNumber(int(f))
	}
	return ast.Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// Limit numerically estimates the two-sided limit of expr as the bound
// variable approaches target, sampling at shrinking offsets and requiring
// the left/right sequences to agree within relative tolerance, per
// spec.md §4.6.
func Limit(expr *ast.Node, variable string, target float64) (float64, error) {
	deltas := []float64{1e-3, 1e-5, 1e-7, 1e-9}
	const relTol = 1e-6

	var lastLeft, lastRight float64
	haveLast := false

	for _, d := range deltas {
		left, errL := evalAt(expr, variable, target-d)
		right, errR := evalAt(expr, variable, target+d)
		if errL != nil || errR != nil {
			continue
		}
		if haveLast && agree(left, lastLeft, relTol) && agree(right, lastRight, relTol) && agree(left, right, relTol) {
			return (left + right) / 2, nil
		}
		lastLeft, lastRight = left, right
		haveLast = true
	}
	return 0, casserr.NewEvaluationError("limit did not converge: the function may be undefined near this point", 0)
}

func agree(a, b, relTol float64) bool {
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return true
	}
	return math.Abs(a-b)/denom < relTol
}

func evalAt(expr *ast.Node, variable string, x float64) (float64, error) {
	env := numeric.NewEnv()
	env.Constants[variable] = numeric.Real(x)
	v, err := numeric.Eval(expr, env)
	if err != nil {
		return 0, err
	}
	if v.Kind != numeric.RealKind {
		return 0, casserr.NewEvaluationError("limit requires a real-valued function near the target", 0)
	}
	return v.Re, nil
}
