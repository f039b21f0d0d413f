package strategy

import (
	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/casserr"
	"github.com/dekarrin/casengine/internal/classify"
	"github.com/dekarrin/casengine/internal/numeric"
)

func init() {
	register(numericEvalStrategy{})
}

// numericEvalStrategy handles expressions with no free variables: it
// evaluates straight to a number (real, complex, or dimensioned), per
// spec.md §4.4.
type numericEvalStrategy struct{}

func (numericEvalStrategy) Name() string { return "numeric-evaluation" }

func (numericEvalStrategy) Matches(n *ast.Node, d *classify.ProblemDescriptor) bool {
	return d.Tag == classify.TagNumericEval
}

func (numericEvalStrategy) Solve(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error) {
	v, err := numeric.Eval(n, numeric.NewEnv())
	if err != nil {
		return nil, err
	}

	var result *ast.Node
	switch v.Kind {
	case numeric.RealKind:
		result = numberNode(v.Re)
	case numeric.ComplexKind:
		result = ast.Binary("+", numberNode(v.Re), ast.Binary("*", numberNode(v.Im), ast.Symbol("i")))
	case numeric.UnitKind:
		result = ast.UnitQuantity(numberNode(v.Re), v.Unit)
	default:
		return nil, casserr.NewEvaluationError("could not evaluate this expression", 0)
	}

	return &SolutionBundle{
		Result: result,
		Steps:  []Step{{Description: "evaluate numerically", Expression: result}},
		Tag:    classify.TagNumericEval,
	}, nil
}
