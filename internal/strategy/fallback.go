package strategy

import (
	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/classify"
	"github.com/dekarrin/casengine/internal/simplify"
)

// fallbackStrategy is never registered; Select returns it directly when no
// registered strategy matches, so there is always some bundle to return.
type fallbackStrategy struct{}

func (fallbackStrategy) Name() string { return "fallback" }

func (fallbackStrategy) Matches(n *ast.Node, d *classify.ProblemDescriptor) bool { return true }

func (fallbackStrategy) Solve(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error) {
	simplified := simplify.Simplify(n)
	return &SolutionBundle{
		Result: simplified,
		Steps:  []Step{{Description: "no specialized strategy matched; simplified to a canonical form", Expression: simplified}},
		Tag:    classify.TagUnrecognized,
	}, nil
}
