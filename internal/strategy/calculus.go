package strategy

import (
	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/calculus"
	"github.com/dekarrin/casengine/internal/casserr"
	"github.com/dekarrin/casengine/internal/classify"
	"github.com/dekarrin/casengine/internal/numeric"
)

func init() {
	register(calculusStrategy{})
}

type calculusStrategy struct{}

func (calculusStrategy) Name() string { return "calculus" }

func (calculusStrategy) Matches(n *ast.Node, d *classify.ProblemDescriptor) bool {
	return d.Tag == classify.TagCalculus
}

func (calculusStrategy) Solve(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error) {
	switch {
	case n.Kind == ast.KindCall && (n.Name == "differentiate" || n.Name == "diff"):
		return solveDifferentiate(n, d)
	case n.Kind == ast.KindCall && (n.Name == "integrate" || n.Name == "int"):
		return solveIntegrate(n, d)
	case n.Kind == ast.KindCall && n.Name == "limit":
		return solveLimit(n, d)
	}
	return nil, casserr.NewEvaluationError("unrecognized calculus operation", 0)
}

func solveDifferentiate(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error) {
	if len(n.Args) == 0 {
		return nil, casserr.NewEvaluationError("differentiate() requires an expression argument", 0)
	}
	variable := d.PrimaryVar
	if len(n.Args) >= 2 && n.Args[1].Kind == ast.KindSymbol {
		variable = n.Args[1].Name
	}
	result, trace, err := calculus.DifferentiateTraced(n.Args[0], variable)
	if err != nil {
		return nil, err
	}
	example := "differentiate(" + result.String() + ")"
	steps := []Step{step("step-startexpr-title", "step-startexpr-desc", n.Args[0])}
	for _, r := range trace {
		steps = append(steps, step("step-applyrule-title", "step-applyrule-desc", r.Result, r.Rule))
	}
	steps = append(steps, step("step-differentiate-title", "step-differentiate-desc", result, variable))
	return &SolutionBundle{
		Result: result,
		Steps:  steps,
		FollowUps: []FollowUp{
			followUp("differentiate again", "followup-differentiate-again", example),
		},
		Tag: classify.TagCalculus,
	}, nil
}

func solveIntegrate(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error) {
	if len(n.Args) == 0 {
		return nil, casserr.NewEvaluationError("integrate() requires an expression argument", 0)
	}
	variable := d.PrimaryVar
	if len(n.Args) >= 2 && n.Args[1].Kind == ast.KindSymbol {
		variable = n.Args[1].Name
	}
	result, trace, err := calculus.IntegrateTraced(n.Args[0], variable)
	if err != nil {
		return nil, err
	}
	withConstant := ast.Binary("+", result, ast.Symbol("C"))
	steps := []Step{step("step-startexpr-title", "step-startexpr-desc", n.Args[0])}
	for _, r := range trace {
		steps = append(steps, step("step-applyrule-title", "step-applyrule-desc", r.Result, r.Rule))
	}
	steps = append(steps, step("step-integrate-title", "step-integrate-desc", withConstant, variable))
	return &SolutionBundle{
		Result: withConstant,
		Steps:  steps,
		Tag:    classify.TagCalculus,
	}, nil
}

func solveLimit(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error) {
	if len(n.Args) < 2 || n.Args[1].Kind != ast.KindArrow {
		return nil, casserr.NewEvaluationError("limit() requires an expression and a x -> target argument", 0)
	}
	arrow := n.Args[1]
	if arrow.From.Kind != ast.KindSymbol {
		return nil, casserr.NewEvaluationError("limit() target must be of the form variable -> value", 0)
	}
	variable := arrow.From.Name
	targetVal, err := numeric.Eval(arrow.To, numeric.NewEnv())
	if err != nil {
		return nil, err
	}
	if targetVal.Kind != numeric.RealKind {
		return nil, casserr.NewEvaluationError("limit() target must evaluate to a real number", 0)
	}
	value, err := calculus.Limit(n.Args[0], variable, targetVal.Re)
	if err != nil {
		return nil, err
	}
	result := numberNode(value)
	return &SolutionBundle{
		Result: result,
		Steps: []Step{
			step("step-startexpr-title", "step-startexpr-desc", n.Args[0]),
			step("step-limit-title", "step-limit-desc", result),
		},
		Tag:         classify.TagCalculus,
		ApproxValue: value,
		HasApprox:   true,
	}, nil
}
