// Package strategy holds the process-wide registry of solving strategies
// dispatched by problem Tag, per spec.md §4.9. The registry is a
// package-level slice populated by each strategy file's init(), the same
// shape as the teacher's Interpreter.fn map[string]Function
// (internal/tunascript/tunascript.go) but keyed by a matches() predicate
// instead of a literal name, since a single Tag may route to one of several
// competing strategies.
package strategy

import (
	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/classify"
)

// Step is one line of working shown to the user. Latex is filled in by the
// engine façade from Expression after a strategy returns, so strategies only
// need to set Title/Description/Expression.
type Step struct {
	Title       string
	Description string
	Latex       string
	Expression  *ast.Node
}

// FollowUp suggests a related operation the user might want next.
type FollowUp struct {
	Label       string
	Description string
	Example     string
}

// PlotConfig describes a suggested 2D plot of the problem's expression.
type PlotConfig struct {
	Variable   string
	XMin, XMax float64
}

// SolutionBundle is the full result of solving a problem, per spec.md §3.
// Details carries strategy-specific structured data (e.g. the matrix
// strategy's eigenvalue list) that doesn't fit the generic Steps/FollowUps
// shape but still needs to reach a caller.
type SolutionBundle struct {
	Result      *ast.Node
	Steps       []Step
	FollowUps   []FollowUp
	Plot        *PlotConfig
	Tag         classify.Tag
	Details     map[string]any
	ApproxValue float64
	HasApprox   bool
}

// Strategy is a single solving approach: matches decides whether it applies
// to a descriptor, solve produces the bundle.
type Strategy interface {
	Name() string
	Matches(n *ast.Node, d *classify.ProblemDescriptor) bool
	Solve(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error)
}

var registry []Strategy

// register is called from each strategy file's init(). Order of
// registration is the order strategies are tried.
func register(s Strategy) {
	registry = append(registry, s)
}

// Select returns the first registered strategy whose Matches reports true
// for the given node and descriptor, or the fallback strategy if none does.
func Select(n *ast.Node, d *classify.ProblemDescriptor) Strategy {
	for _, s := range registry {
		if s.Matches(n, d) {
			return s
		}
	}
	return fallbackStrategy{}
}
