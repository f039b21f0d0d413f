// Package casengine is a computer algebra engine: tokenize, parse, classify,
// and solve a single expression or equation, returning a worked solution
// bundle with TeX-rendered steps.
//
// Analyze is the single entry point a caller (the CLI or the HTTP server)
// needs, the same "one composition root function" shape the teacher's own
// tunaq.New wires a game engine's subsystems behind.
package casengine

import (
	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/classify"
	"github.com/dekarrin/casengine/internal/lexer"
	"github.com/dekarrin/casengine/internal/numeric"
	"github.com/dekarrin/casengine/internal/parser"
	"github.com/dekarrin/casengine/internal/strategy"
	"github.com/dekarrin/casengine/internal/texfmt"
)

// EvaluationResult is the full outcome of analyzing one input string.
type EvaluationResult struct {
	Input      string
	AST        *ast.Node
	Descriptor *classify.ProblemDescriptor
	Strategy   string
	Bundle     *strategy.SolutionBundle
	Tex        string
	Approx     string // set only when the result evaluates to a plain real number
}

// Analyze tokenizes, parses, classifies, and solves input, returning a
// worked EvaluationResult or a *casserr.SyntaxError / *casserr.EvaluationError.
func Analyze(input string) (*EvaluationResult, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	tree, err := parser.Parse(tokens, input)
	if err != nil {
		return nil, err
	}
	return AnalyzeNode(input, tree)
}

// AnalyzeNode runs classification and strategy selection on an
// already-parsed tree, useful for callers (such as the REPL's follow-up
// suggestions) that build a node directly instead of re-parsing text.
func AnalyzeNode(input string, tree *ast.Node) (*EvaluationResult, error) {
	descriptor := classify.Describe(tree)
	strat := strategy.Select(tree, descriptor)

	bundle, err := strat.Solve(tree, descriptor)
	if err != nil {
		return nil, err
	}
	for i := range bundle.Steps {
		if bundle.Steps[i].Expression != nil {
			bundle.Steps[i].Latex = texfmt.ToKaTeX(bundle.Steps[i].Expression)
		}
	}

	result := &EvaluationResult{
		Input:      input,
		AST:        tree,
		Descriptor: descriptor,
		Strategy:   strat.Name(),
		Bundle:     bundle,
		Tex:        texfmt.ToKaTeX(bundle.Result),
	}

	if bundle.HasApprox {
		result.Approx = numeric.FormatApprox(bundle.ApproxValue)
	} else if v, evalErr := numeric.Eval(bundle.Result, numeric.NewEnv()); evalErr == nil && v.Kind == numeric.RealKind {
		result.Approx = numeric.FormatApprox(v.Re)
	}

	return result, nil
}
