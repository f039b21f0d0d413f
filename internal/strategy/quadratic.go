package strategy

import (
	"math"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/casserr"
	"github.com/dekarrin/casengine/internal/classify"
	"github.com/dekarrin/casengine/internal/manipulate"
	"github.com/dekarrin/casengine/internal/simplify"
)

func init() {
	register(quadraticStrategy{})
}

type quadraticStrategy struct{}

func (quadraticStrategy) Name() string { return "quadratic" }

func (quadraticStrategy) Matches(n *ast.Node, d *classify.ProblemDescriptor) bool {
	return d.Tag == classify.TagQuadratic
}

func (quadraticStrategy) Solve(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error) {
	variable := d.PrimaryVar
	moved := simplify.Simplify(ast.Binary("-", n.Left, n.Right))

	a, b, c, ok := quadraticABC(moved, variable)
	if !ok {
		return nil, casserr.NewEvaluationError("this equation is not a quadratic in a single variable", 0)
	}

	steps := []Step{
		step("step-moveterms-title", "step-moveterms-desc", ast.Binary("=", moved, ast.IntNumber(0))),
	}

	if a == 0 {
		return nil, casserr.NewEvaluationError("the leading coefficient is zero; this is not a quadratic equation", 0)
	}

	disc := b*b - 4*a*c
	steps = append(steps, step("step-discriminant-title", "step-discriminant-desc", numberNode(disc)))

	var result *ast.Node
	switch {
	case disc > 0:
		sq := math.Sqrt(disc)
		r1 := (-b + sq) / (2 * a)
		r2 := (-b - sq) / (2 * a)
		result = ast.List(numberNode(r1), numberNode(r2))
		steps = append(steps, step("step-roots-distinct-title", "step-roots-distinct-desc", result))
	case disc == 0:
		r := -b / (2 * a)
		result = numberNode(r)
		steps = append(steps, step("step-roots-repeated-title", "step-roots-repeated-desc", result))
	default:
		sq := math.Sqrt(-disc)
		rePart := -b / (2 * a)
		imPart := sq / (2 * a)
		result = ast.List(
			ast.Binary("+", numberNode(rePart), ast.Binary("*", numberNode(imPart), ast.Symbol("i"))),
			ast.Binary("-", numberNode(rePart), ast.Binary("*", numberNode(imPart), ast.Symbol("i"))),
		)
		steps = append(steps, step("step-roots-complex-title", "step-roots-complex-desc", result))
	}

	followUps := []FollowUp{
		followUp("factor the quadratic", "followup-factor-quadratic", "factor("+moved.String()+")"),
	}
	factored := manipulate.Factor(moved)
	if !factored.Equal(moved) {
		steps = append(steps, step("step-factoredform-title", "step-factoredform-desc", factored))
	}

	return &SolutionBundle{
		Result:    result,
		Steps:     steps,
		FollowUps: followUps,
		Tag:       classify.TagQuadratic,
		Plot: &PlotConfig{
			Variable: variable,
			XMin:     quadraticPlotMin(-b/(2*a), a, disc),
			XMax:     quadraticPlotMax(-b/(2*a), a, disc),
		},
	}, nil
}

// quadraticPlotMin/quadraticPlotMax bracket the vertex with enough margin to
// show both roots (when real) on a default plot.
func quadraticPlotMin(vertex, a, disc float64) float64 {
	span := quadraticPlotSpan(a, disc)
	return vertex - span
}

func quadraticPlotMax(vertex, a, disc float64) float64 {
	span := quadraticPlotSpan(a, disc)
	return vertex + span
}

func quadraticPlotSpan(a, disc float64) float64 {
	if disc > 0 {
		return math.Sqrt(disc)/math.Abs(2*a)*1.5 + 1
	}
	return 5
}

// quadraticABC extracts (a, b, c) from a simplified expression expected to
// equal a*x^2 + b*x + c, reusing the same term decomposition manipulate's
// Factor uses internally.
func quadraticABC(n *ast.Node, variable string) (a, b, c float64, ok bool) {
	terms := topLevelTerms(n)
	for _, t := range terms {
		coeff, deg, termOK := termCoeffDegree(t, variable)
		if !termOK {
			return 0, 0, 0, false
		}
		switch deg {
		case 2:
			a += coeff
		case 1:
			b += coeff
		case 0:
			c += coeff
		default:
			return 0, 0, 0, false
		}
	}
	return a, b, c, true
}

func topLevelTerms(n *ast.Node) []*ast.Node {
	if n.Kind == ast.KindBinary && n.Op == "+" {
		return append(topLevelTerms(n.Left), topLevelTerms(n.Right)...)
	}
	if n.Kind == ast.KindBinary && n.Op == "-" {
		return append(topLevelTerms(n.Left), ast.Unary("-", n.Right))
	}
	return []*ast.Node{n}
}

func termCoeffDegree(t *ast.Node, variable string) (coeff float64, degree int, ok bool) {
	sign := 1.0
	for t.Kind == ast.KindUnary && t.Op == "-" {
		sign = -sign
		t = t.Operand
	}
	switch t.Kind {
	case ast.KindNumber:
		f, err := parseFloatLocal(t.NumberValue)
		if err != nil {
			return 0, 0, false
		}
		return sign * f, 0, true
	case ast.KindSymbol:
		if t.Name != variable {
			return 0, 0, false
		}
		return sign, 1, true
	case ast.KindBinary:
		if t.Op == "^" && t.Left.Kind == ast.KindSymbol && t.Left.Name == variable && t.Right.Kind == ast.KindNumber {
			exp, err := parseFloatLocal(t.Right.NumberValue)
			if err == nil {
				return sign, int(exp), true
			}
		}
		if t.Op == "*" {
			coefficient := 1.0
			deg := 0
			var factors []*ast.Node
			flattenMulLocal(t, &factors)
			for _, f := range factors {
				switch {
				case f.Kind == ast.KindNumber:
					v, err := parseFloatLocal(f.NumberValue)
					if err != nil {
						return 0, 0, false
					}
					coefficient *= v
				case f.Kind == ast.KindSymbol && f.Name == variable:
					deg++
				case f.Kind == ast.KindBinary && f.Op == "^" && f.Left.Kind == ast.KindSymbol && f.Left.Name == variable && f.Right.Kind == ast.KindNumber:
					exp, err := parseFloatLocal(f.Right.NumberValue)
					if err != nil {
						return 0, 0, false
					}
					deg += int(exp)
				default:
					return 0, 0, false
				}
			}
			return sign * coefficient, deg, true
		}
	}
	return 0, 0, false
}

func flattenMulLocal(n *ast.Node, out *[]*ast.Node) {
	if n.Kind == ast.KindBinary && n.Op == "*" {
		flattenMulLocal(n.Left, out)
		flattenMulLocal(n.Right, out)
		return
	}
	*out = append(*out, n)
}
