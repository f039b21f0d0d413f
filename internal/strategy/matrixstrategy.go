package strategy

import (
	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/casserr"
	"github.com/dekarrin/casengine/internal/classify"
	"github.com/dekarrin/casengine/internal/matrix"
	"github.com/dekarrin/casengine/internal/numeric"
)

func init() {
	register(matrixStrategy{})
}

type matrixStrategy struct{}

func (matrixStrategy) Name() string { return "matrix" }

func (matrixStrategy) Matches(n *ast.Node, d *classify.ProblemDescriptor) bool {
	return d.Tag == classify.TagMatrix
}

func (matrixStrategy) Solve(n *ast.Node, d *classify.ProblemDescriptor) (*SolutionBundle, error) {
	if n.Kind != ast.KindCall {
		return nil, casserr.NewEvaluationError("expected a matrix operation call", 0)
	}
	switch n.Name {
	case "det":
		return solveDet(n)
	case "inverse":
		return solveInverse(n)
	case "rank":
		return solveRank(n)
	case "transpose":
		return solveTranspose(n)
	case "eigenvalues", "eig":
		return solveEigenvalues(n)
	case "svd":
		return solveSVD(n)
	case "matAdd":
		return solveMatAdd(n)
	case "matMul":
		return solveMatMul(n)
	case "solveSystem":
		return solveSolveSystem(n)
	case "matrix", "row", "vector":
		m, err := matrix.FromNode(n)
		if err != nil {
			return nil, err
		}
		result := matrix.ToNode(m)
		return &SolutionBundle{Result: result, Tag: classify.TagMatrix}, nil
	}
	return nil, casserr.NewEvaluationError("unrecognized matrix operation "+n.Name, 0)
}

func twoMatrixArgs(n *ast.Node) (*matrix.Matrix, *matrix.Matrix, error) {
	if len(n.Args) != 2 {
		return nil, nil, casserr.NewEvaluationError(n.Name+"() takes exactly 2 arguments", 0)
	}
	a, err := matrix.FromNode(n.Args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := matrix.FromNode(n.Args[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func solveMatAdd(n *ast.Node) (*SolutionBundle, error) {
	a, b, err := twoMatrixArgs(n)
	if err != nil {
		return nil, err
	}
	sum, err := matrix.Add(a, b)
	if err != nil {
		return nil, err
	}
	result := matrix.ToNode(sum)
	return &SolutionBundle{
		Result: result,
		Steps:  []Step{step("step-matadd-title", "step-matadd-desc", result)},
		Tag:    classify.TagMatrix,
	}, nil
}

func solveMatMul(n *ast.Node) (*SolutionBundle, error) {
	a, b, err := twoMatrixArgs(n)
	if err != nil {
		return nil, err
	}
	product, err := matrix.Multiply(a, b)
	if err != nil {
		return nil, err
	}
	result := matrix.ToNode(product)
	return &SolutionBundle{
		Result: result,
		Steps:  []Step{step("step-matmul-title", "step-matmul-desc", result)},
		Tag:    classify.TagMatrix,
	}, nil
}

func solveSolveSystem(n *ast.Node) (*SolutionBundle, error) {
	a, b, err := twoMatrixArgs(n)
	if err != nil {
		return nil, err
	}
	x, err := matrix.SolveLinearSystem(a, b)
	if err != nil {
		return nil, err
	}
	result := matrix.ToNode(x)
	return &SolutionBundle{
		Result: result,
		Steps:  []Step{step("step-solvesystem-title", "step-solvesystem-desc", result)},
		Tag:    classify.TagMatrix,
	}, nil
}

func oneMatrixArg(n *ast.Node) (*matrix.Matrix, error) {
	if len(n.Args) != 1 {
		return nil, casserr.NewEvaluationError(n.Name+"() takes exactly 1 argument", 0)
	}
	return matrix.FromNode(n.Args[0])
}

func solveDet(n *ast.Node) (*SolutionBundle, error) {
	m, err := oneMatrixArg(n)
	if err != nil {
		return nil, err
	}
	det, err := matrix.Determinant(m)
	if err != nil {
		return nil, err
	}
	result := ast.Binary("=", n, numberNode(det))
	return &SolutionBundle{
		Result:      result,
		Steps:       []Step{step("step-det-title", "step-det-desc", result)},
		Tag:         classify.TagMatrix,
		ApproxValue: det,
		HasApprox:   true,
	}, nil
}

func solveInverse(n *ast.Node) (*SolutionBundle, error) {
	m, err := oneMatrixArg(n)
	if err != nil {
		return nil, err
	}
	inv, err := matrix.Inverse(m)
	if err != nil {
		return nil, err
	}
	result := matrix.ToNode(inv)
	return &SolutionBundle{
		Result: result,
		Steps:  []Step{step("step-inverse-title", "step-inverse-desc", result)},
		Tag:    classify.TagMatrix,
	}, nil
}

func solveRank(n *ast.Node) (*SolutionBundle, error) {
	m, err := oneMatrixArg(n)
	if err != nil {
		return nil, err
	}
	rank := matrix.Rank(m)
	result := ast.IntNumber(rank)
	return &SolutionBundle{
		Result: result,
		Steps:  []Step{step("step-rank-title", "step-rank-desc", result)},
		Tag:    classify.TagMatrix,
	}, nil
}

func solveTranspose(n *ast.Node) (*SolutionBundle, error) {
	m, err := oneMatrixArg(n)
	if err != nil {
		return nil, err
	}
	result := matrix.ToNode(matrix.Transpose(m))
	return &SolutionBundle{Result: result, Tag: classify.TagMatrix}, nil
}

func solveEigenvalues(n *ast.Node) (*SolutionBundle, error) {
	m, err := oneMatrixArg(n)
	if err != nil {
		return nil, err
	}
	vals, err := matrix.Eigenvalues(m)
	if err != nil {
		return nil, err
	}
	items := make([]*ast.Node, len(vals))
	eigenwaarden := make([]string, len(vals))
	for i, v := range vals {
		items[i] = numberNode(v)
		eigenwaarden[i] = numeric.FormatApprox(v)
	}
	result := ast.List(items...)
	return &SolutionBundle{
		Result: result,
		Steps:  []Step{step("step-eigenvalues-title", "step-eigenvalues-desc", result)},
		FollowUps: []FollowUp{
			followUp("find the corresponding eigenvectors", "followup-eigenvectors", "eigenvectors("+n.Args[0].String()+")"),
		},
		Tag:     classify.TagMatrix,
		Details: map[string]any{"eigenwaarden": eigenwaarden},
	}, nil
}

func solveSVD(n *ast.Node) (*SolutionBundle, error) {
	m, err := oneMatrixArg(n)
	if err != nil {
		return nil, err
	}
	svd, err := matrix.SVD(m)
	if err != nil {
		return nil, err
	}
	items := make([]*ast.Node, len(svd.SingularValues))
	for i, v := range svd.SingularValues {
		items[i] = numberNode(v)
	}
	result := ast.List(items...)
	return &SolutionBundle{
		Result: result,
		Steps:  []Step{step("step-svd-title", "step-svd-desc", result)},
		Tag:    classify.TagMatrix,
	}, nil
}
