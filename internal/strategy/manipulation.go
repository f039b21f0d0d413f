package strategy

import (
	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/classify"
	"github.com/dekarrin/casengine/internal/manipulate"
	"github.com/dekarrin/casengine/internal/simplify"
)

func init() {
	register(manipulationStrategy{})
}

// manipulationStrategy is the catch-all for symbolic (non-numeric,
// non-matrix, non-calculus) expressions: it simplifies, and additionally
// offers expand/factor as follow-ups when they change the expression.
type manipulationStrategy struct{}

func (manipulationStrategy) Name() string { return "manipulation" }

func (manipulationStrategy) Matches(n *ast.Node, d *classify.ProblemDescriptor) bool {
	return d.Tag == classify.TagManipulation
}

func (manipulationStrategy) Solve(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error) {
	if n.Kind == ast.KindCall {
		switch n.Name {
		case "expand":
			if len(n.Args) == 1 {
				result := manipulate.Expand(n.Args[0])
				return &SolutionBundle{
					Result: result,
					Steps: []Step{
						step("step-startexpr-title", "step-startexpr-desc", n.Args[0]),
						step("step-expand-title", "step-expand-desc", result),
					},
					Tag: classify.TagManipulation,
				}, nil
			}
		case "factor":
			if len(n.Args) == 1 {
				result := manipulate.Factor(n.Args[0])
				return &SolutionBundle{
					Result: result,
					Steps: []Step{
						step("step-startexpr-title", "step-startexpr-desc", n.Args[0]),
						step("step-factor-title", "step-factor-desc", result),
					},
					Tag: classify.TagManipulation,
				}, nil
			}
		case "rationalSimplify":
			if len(n.Args) == 1 {
				result := manipulate.RationalSimplify(n.Args[0])
				return &SolutionBundle{
					Result: result,
					Steps: []Step{
						step("step-startexpr-title", "step-startexpr-desc", n.Args[0]),
						step("step-rationalsimplify-title", "step-rationalsimplify-desc", result),
					},
					Tag: classify.TagManipulation,
				}, nil
			}
		case "partialFraction":
			if len(n.Args) == 1 {
				result, err := manipulate.PartialFraction(n.Args[0])
				if err != nil {
					return nil, err
				}
				return &SolutionBundle{
					Result: result,
					Steps: []Step{
						step("step-startexpr-title", "step-startexpr-desc", n.Args[0]),
						step("step-partialfraction-title", "step-partialfraction-desc", result),
					},
					Tag: classify.TagManipulation,
				}, nil
			}
		}
	}

	simplified := simplify.Simplify(n)
	bundle := &SolutionBundle{
		Result: simplified,
		Steps: []Step{
			step("step-startexpr-title", "step-startexpr-desc", n),
			step("step-simplify-title", "step-simplify-desc", simplified),
		},
		Tag: classify.TagManipulation,
	}

	expanded := manipulate.Expand(simplified)
	if !expanded.Equal(simplified) {
		bundle.FollowUps = append(bundle.FollowUps, followUp("expand", "followup-expand", "expand("+simplified.String()+")"))
	}
	factored := manipulate.Factor(simplified)
	if !factored.Equal(simplified) {
		bundle.FollowUps = append(bundle.FollowUps, followUp("factor", "followup-factor", "factor("+simplified.String()+")"))
	}
	return bundle, nil
}
