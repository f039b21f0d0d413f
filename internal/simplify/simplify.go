// Package simplify implements the rewrite system of spec.md §4.5:
// constant folding, associative flattening into a canonical term order,
// identity laws, sign normalization, like-term collection, and integer
// rational reduction, iterated to a fixed point (or a 64-pass cap).
//
// The node-kind dispatch follows the same style as the teacher's
// internal/tunascript/eval.go walk over astNode variants, generalized to
// rewrite rather than evaluate.
package simplify

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/casengine/internal/ast"
)

const maxPasses = 64

// Simplify rewrites n to a fixed point of the rules in spec.md §4.5, or
// until maxPasses is reached (bounding any would-be non-confluent cycle to a
// deterministic result rather than looping forever).
func Simplify(n *ast.Node) *ast.Node {
	cur := n.Clone()
	for i := 0; i < maxPasses; i++ {
		next := pass(cur)
		if next.Equal(cur) {
			return next
		}
		cur = next
	}
	return cur
}

func pass(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindUnitQuantity:
		return ast.UnitQuantity(pass(n.Magnitude), n.Unit)
	case ast.KindUnary:
		return simplifyUnary(n.Op, pass(n.Operand))
	case ast.KindBinary:
		return simplifyBinary(n.Op, pass(n.Left), pass(n.Right))
	case ast.KindCall:
		args := make([]*ast.Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = pass(a)
		}
		return ast.Call(n.Name, args...)
	case ast.KindArrow:
		return ast.ArrowNode(pass(n.From), pass(n.To))
	case ast.KindList:
		items := make([]*ast.Node, len(n.Items))
		for i, a := range n.Items {
			items[i] = pass(a)
		}
		return ast.List(items...)
	default: // Number, Symbol: leaves
		return n.Clone()
	}
}

func simplifyUnary(op string, operand *ast.Node) *ast.Node {
	if op == "+" {
		return operand
	}
	// -(-x) = x
	if operand.Kind == ast.KindUnary && operand.Op == "-" {
		return operand.Operand
	}
	if isNumber(operand) {
		if f, ok := numVal(operand); ok {
			return numberNode(-f)
		}
	}
	return ast.Unary(op, operand)
}

func simplifyBinary(op string, l, r *ast.Node) *ast.Node {
	switch op {
	case "+":
		return simplifySum(l, r)
	case "-":
		return simplifySum(l, negated(r))
	case "*":
		return simplifyProduct(l, r)
	case "/":
		return simplifyQuotient(l, r)
	case "^":
		return simplifyPower(l, r)
	case "=":
		return ast.Binary("=", l, r)
	}
	return ast.Binary(op, l, r)
}

func negated(n *ast.Node) *ast.Node {
	if n.Kind == ast.KindUnary && n.Op == "-" {
		return n.Operand
	}
	if isNumber(n) {
		if f, ok := numVal(n); ok {
			return numberNode(-f)
		}
	}
	return ast.Unary("-", n)
}

// ---- sums: flatten, collect like terms, canonical order, re-emit ----

type term struct {
	coeff    float64
	monomial *ast.Node // nil means this term IS the constant part
}

func simplifySum(l, r *ast.Node) *ast.Node {
	terms := append(flattenSum(l), flattenSum(r)...)

	var constSum float64
	haveConst := false
	byKey := map[string]*term{}
	var order []string

	for _, t := range terms {
		c, mono := splitCoefficient(t)
		if mono == nil {
			constSum += c
			haveConst = true
			continue
		}
		key := mono.String()
		if existing, ok := byKey[key]; ok {
			existing.coeff += c
		} else {
			byKey[key] = &term{coeff: c, monomial: mono}
			order = append(order, key)
		}
	}

	var finalTerms []*ast.Node
	if haveConst && constSum != 0 {
		finalTerms = append(finalTerms, numberNode(constSum))
	}

	sort.Strings(order)
	for _, key := range order {
		t := byKey[key]
		if t.coeff == 0 {
			continue
		}
		finalTerms = append(finalTerms, scaledMonomial(t.coeff, t.monomial))
	}

	if len(finalTerms) == 0 {
		return numberNode(0)
	}

	result := finalTerms[0]
	for _, t := range finalTerms[1:] {
		if t.Kind == ast.KindUnary && t.Op == "-" {
			result = ast.Binary("-", result, t.Operand)
		} else if isNumber(t) {
			if f, ok := numVal(t); ok && f < 0 {
				result = ast.Binary("-", result, numberNode(-f))
				continue
			}
			result = ast.Binary("+", result, t)
		} else {
			result = ast.Binary("+", result, t)
		}
	}
	return result
}

// flattenSum decomposes a chain of Binary{+} (with Binary{-,a,b} treated as
// a + (-b)) into its additive terms.
func flattenSum(n *ast.Node) []*ast.Node {
	if n.Kind == ast.KindBinary && n.Op == "+" {
		return append(flattenSum(n.Left), flattenSum(n.Right)...)
	}
	if n.Kind == ast.KindBinary && n.Op == "-" {
		return append(flattenSum(n.Left), flattenSum(negated(n.Right))...)
	}
	return []*ast.Node{n}
}

// splitCoefficient separates t into a numeric coefficient and the remaining
// monomial (nil monomial means t is purely numeric).
func splitCoefficient(t *ast.Node) (float64, *ast.Node) {
	if isNumber(t) {
		f, _ := numVal(t)
		return f, nil
	}
	if t.Kind == ast.KindUnary && t.Op == "-" {
		c, m := splitCoefficient(t.Operand)
		return -c, m
	}
	if t.Kind == ast.KindBinary && t.Op == "*" {
		factors := flattenProduct(t)
		coeff := 1.0
		var rest []*ast.Node
		for _, f := range factors {
			if isNumber(f) {
				v, _ := numVal(f)
				coeff *= v
			} else {
				rest = append(rest, f)
			}
		}
		if len(rest) == 0 {
			return coeff, nil
		}
		return coeff, rebuildProduct(rest)
	}
	return 1, t
}

func scaledMonomial(coeff float64, mono *ast.Node) *ast.Node {
	if coeff == 1 {
		return mono
	}
	if coeff == -1 {
		return ast.Unary("-", mono)
	}
	if coeff < 0 {
		return ast.Unary("-", ast.Binary("*", numberNode(-coeff), mono))
	}
	return ast.Binary("*", numberNode(coeff), mono)
}

// ---- products: flatten, combine like bases via exponent addition ----

func simplifyProduct(l, r *ast.Node) *ast.Node {
	factors := append(flattenProduct(l), flattenProduct(r)...)

	coeff := 1.0
	type baseGroup struct {
		base *ast.Node
		exp  float64
	}
	var groups []*baseGroup
	byKey := map[string]*baseGroup{}

	for _, f := range factors {
		if isNumber(f) {
			v, _ := numVal(f)
			coeff *= v
			continue
		}
		base, exp := baseAndExponent(f)
		key := base.String()
		if g, ok := byKey[key]; ok {
			g.exp += exp
		} else {
			g := &baseGroup{base: base, exp: exp}
			byKey[key] = g
			groups = append(groups, g)
		}
	}

	if coeff == 0 {
		return numberNode(0)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].base.String() < groups[j].base.String() })

	var symbolicFactors []*ast.Node
	for _, g := range groups {
		if g.exp == 0 {
			continue
		}
		if g.exp == 1 {
			symbolicFactors = append(symbolicFactors, g.base)
			continue
		}
		symbolicFactors = append(symbolicFactors, ast.Binary("^", g.base, numberNode(g.exp)))
	}

	if len(symbolicFactors) == 0 {
		return numberNode(coeff)
	}

	var result *ast.Node
	if coeff != 1 {
		result = numberNode(coeff)
	}
	for _, f := range symbolicFactors {
		if result == nil {
			result = f
		} else {
			result = ast.Binary("*", result, f)
		}
	}
	if coeff == -1 {
		return ast.Unary("-", result)
	}
	return result
}

func flattenProduct(n *ast.Node) []*ast.Node {
	if n.Kind == ast.KindBinary && n.Op == "*" {
		return append(flattenProduct(n.Left), flattenProduct(n.Right)...)
	}
	if n.Kind == ast.KindUnary && n.Op == "-" {
		return append([]*ast.Node{numberNode(-1)}, flattenProduct(n.Operand)...)
	}
	return []*ast.Node{n}
}

func rebuildProduct(factors []*ast.Node) *ast.Node {
	result := factors[0]
	for _, f := range factors[1:] {
		result = ast.Binary("*", result, f)
	}
	return result
}

// baseAndExponent reports the (base, exponent) pair for a single product
// factor: x -> (x, 1), x^3 -> (x, 3).
func baseAndExponent(n *ast.Node) (*ast.Node, float64) {
	if n.Kind == ast.KindBinary && n.Op == "^" && isNumber(n.Right) {
		f, _ := numVal(n.Right)
		return n.Left, f
	}
	return n, 1
}

// ---- quotients: integer gcd reduction, identity x/1 = x ----

func simplifyQuotient(l, r *ast.Node) *ast.Node {
	if isNumber(r) {
		if f, ok := numVal(r); ok && f == 1 {
			return l
		}
	}
	if isInt(l) && isInt(r) {
		a, _ := strconv.ParseInt(l.NumberValue, 10, 64)
		b, _ := strconv.ParseInt(r.NumberValue, 10, 64)
		if b != 0 {
			g := gcd(abs64(a), abs64(b))
			if g > 1 {
				a, b = a/g, b/g
			}
			if b < 0 {
				a, b = -a, -b
			}
			if b == 1 {
				return numberNode(float64(a))
			}
			return ast.Binary("/", numberNode(float64(a)), numberNode(float64(b)))
		}
	}
	return ast.Binary("/", l, r)
}

func simplifyPower(l, r *ast.Node) *ast.Node {
	if isNumber(r) {
		if f, ok := numVal(r); ok {
			if f == 0 {
				return numberNode(1)
			}
			if f == 1 {
				return l
			}
		}
	}
	if isNumber(l) && isNumber(r) {
		lv, _ := numVal(l)
		rv, _ := numVal(r)
		if rv == math.Trunc(rv) && rv >= 0 && rv <= 64 {
			return numberNode(math.Pow(lv, rv))
		}
	}
	return ast.Binary("^", l, r)
}

// ---- numeric helpers ----

func isNumber(n *ast.Node) bool { return n != nil && n.Kind == ast.KindNumber }

func isInt(n *ast.Node) bool {
	if !isNumber(n) {
		return false
	}
	return !strings.ContainsAny(n.NumberValue, ".eE")
}

func numVal(n *ast.Node) (float64, bool) {
	if !isNumber(n) {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.NumberValue, 64)
	return f, err == nil
}

func numberNode(f float64) *ast.Node {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return ast.Number(strconv.FormatInt(int64(f), 10))
	}
	return ast.Number(strconv.FormatFloat(f, 'g', -1, 64))
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}
