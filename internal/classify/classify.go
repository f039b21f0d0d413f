// Package classify builds a ProblemDescriptor from an AST via a single
// traversal, the same single-pass collection style as the teacher's
// tunascript evaluator building up expansion state while walking a node
// tree once. Operator and function membership is tracked with the
// teacher's own util.StringSet rather than a bare map.
package classify

import (
	"sort"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/util"
)

// Tag names the broad problem category a descriptor is routed to.
type Tag string

const (
	TagQuadratic      Tag = "quadratic"
	TagCalculus       Tag = "calculus"
	TagMatrix         Tag = "matrix"
	TagManipulation   Tag = "manipulation"
	TagNumericEval    Tag = "numeric-evaluation"
	TagUnrecognized   Tag = "unrecognized"
)

// ProblemDescriptor summarizes the shape of an expression for strategy
// dispatch, per spec.md §4.8.
type ProblemDescriptor struct {
	Variables      []string
	PrimaryVar     string
	Operators      util.StringSet
	Functions      util.StringSet
	HasEquality    bool
	HasMatrixCall  bool
	HasLimitCall   bool
	HasIntegral    bool
	HasDerivative  bool
	MatrixDims     [2]int
	Tag            Tag
}

// Describe walks n once and produces its ProblemDescriptor.
func Describe(n *ast.Node) *ProblemDescriptor {
	d := &ProblemDescriptor{
		Operators: util.NewStringSet(),
		Functions: util.NewStringSet(),
	}
	vars := util.NewStringSet()

	ast.Walk(n, func(m *ast.Node) {
		switch m.Kind {
		case ast.KindSymbol:
			if m.Name != "pi" && m.Name != "e" && m.Name != "i" {
				vars.Add(m.Name)
			}
		case ast.KindBinary:
			d.Operators.Add(m.Op)
			if m.Op == "=" {
				d.HasEquality = true
			}
		case ast.KindUnary:
			d.Operators.Add(m.Op)
		case ast.KindCall:
			d.Functions.Add(m.Name)
			switch m.Name {
			case "matrix", "row", "vector", "det", "inverse", "transpose", "rank",
				"eigenvalues", "eig", "eigenvectors", "svd", "matAdd", "matMul", "solveSystem":
				d.HasMatrixCall = true
			case "limit":
				d.HasLimitCall = true
			case "integrate", "int":
				d.HasIntegral = true
			case "differentiate", "diff":
				d.HasDerivative = true
			}
		}
	})

	varList := vars.Elements()
	sort.Strings(varList)
	d.Variables = varList
	d.PrimaryVar = primaryVariable(d.Variables)
	d.Tag = classifyTag(n, d)
	return d
}

// primaryVariable picks the lexicographically-least single-letter symbol,
// falling back to "x" when no bare single-letter variable is present.
func primaryVariable(vars []string) string {
	for _, v := range vars {
		if len(v) == 1 {
			return v
		}
	}
	if len(vars) > 0 {
		return vars[0]
	}
	return "x"
}

func classifyTag(n *ast.Node, d *ProblemDescriptor) Tag {
	if d.HasMatrixCall {
		return TagMatrix
	}
	if d.HasLimitCall || d.HasIntegral || d.HasDerivative {
		return TagCalculus
	}
	if d.HasEquality && isQuadraticShape(n, d) {
		return TagQuadratic
	}
	if len(d.Variables) > 0 {
		return TagManipulation
	}
	return TagNumericEval
}

// isQuadraticShape reports whether n is an equality with exactly one
// variable whose highest power is exactly 2 — the shape QuadraticStrategy
// knows how to solve.
func isQuadraticShape(n *ast.Node, d *ProblemDescriptor) bool {
	if n.Kind != ast.KindBinary || n.Op != "=" {
		return false
	}
	if len(d.Variables) != 1 {
		return false
	}
	maxDeg := 0
	ast.Walk(n, func(m *ast.Node) {
		if m.Kind == ast.KindBinary && m.Op == "^" && m.Left.Kind == ast.KindSymbol {
			if m.Right.Kind == ast.KindNumber {
				deg := degreeOf(m.Right.NumberValue)
				if deg > maxDeg {
					maxDeg = deg
				}
			}
		}
	})
	if maxDeg == 0 {
		maxDeg = 1
	}
	return maxDeg == 2
}

func degreeOf(numberValue string) int {
	switch numberValue {
	case "2":
		return 2
	case "1":
		return 1
	case "0":
		return 0
	}
	return 3 // anything else disqualifies the quadratic shape
}
