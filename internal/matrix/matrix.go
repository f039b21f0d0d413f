// Package matrix implements the dense linear-algebra operations of
// spec.md §4.7: parsing matrix/row/vector literals, arithmetic, Gaussian
// elimination for determinant/rank/inverse/solve, and QR-iteration
// eigendecomposition (with an SVD built on top of it). There is no linear
// algebra library anywhere in the example pack, so this is a from-scratch
// numerical core in the same plain-loops style as the teacher's own
// from-scratch parser and lexer — a justified stdlib part, recorded in
// DESIGN.md.
package matrix

import (
	"math"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/casserr"
	"github.com/dekarrin/casengine/internal/numeric"
)

// Matrix is a dense, row-major real matrix.
type Matrix struct {
	Rows, Cols int
	Data       []float64 // length Rows*Cols, row-major
}

func New(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

func (m *Matrix) At(r, c int) float64     { return m.Data[r*m.Cols+c] }
func (m *Matrix) Set(r, c int, v float64) { m.Data[r*m.Cols+c] = v }

func (m *Matrix) Clone() *Matrix {
	c := New(m.Rows, m.Cols)
	copy(c.Data, m.Data)
	return c
}

// FromNode parses a matrix(row(...), row(...), ...) or vector(...) call, or
// a bare List node, into a dense Matrix, per spec.md §4.7.
func FromNode(n *ast.Node) (*Matrix, error) {
	switch {
	case n.Kind == ast.KindCall && n.Name == "matrix":
		return matrixFromRows(n.Args)
	case n.Kind == ast.KindList:
		return matrixFromRows(n.Items)
	case n.Kind == ast.KindCall && n.Name == "vector":
		return vectorFromArgs(n.Args)
	}
	return nil, casserr.NewEvaluationError("expected a matrix(...), row(...), or vector(...) expression", 0)
}

func matrixFromRows(rowNodes []*ast.Node) (*Matrix, error) {
	if len(rowNodes) == 0 {
		return nil, casserr.NewEvaluationError("matrix must have at least one row", 0)
	}
	rows := make([][]float64, len(rowNodes))
	cols := -1
	for i, rn := range rowNodes {
		values, err := rowValues(rn)
		if err != nil {
			return nil, err
		}
		if cols == -1 {
			cols = len(values)
		} else if len(values) != cols {
			return nil, casserr.NewEvaluationError("all matrix rows must have the same number of columns", 0)
		}
		rows[i] = values
	}
	m := New(len(rows), cols)
	for r, row := range rows {
		for c, v := range row {
			m.Set(r, c, v)
		}
	}
	return m, nil
}

func rowValues(n *ast.Node) ([]float64, error) {
	var items []*ast.Node
	switch {
	case n.Kind == ast.KindCall && n.Name == "row":
		items = n.Args
	case n.Kind == ast.KindList:
		items = n.Items
	default:
		return nil, casserr.NewEvaluationError("expected a row(...) expression inside matrix(...)", 0)
	}
	values := make([]float64, len(items))
	for i, it := range items {
		v, err := numeric.Eval(it, numeric.NewEnv())
		if err != nil {
			return nil, err
		}
		if v.Kind != numeric.RealKind {
			return nil, casserr.NewEvaluationError("matrix entries must be real numbers", 0)
		}
		values[i] = v.Re
	}
	return values, nil
}

func vectorFromArgs(args []*ast.Node) (*Matrix, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := numeric.Eval(a, numeric.NewEnv())
		if err != nil {
			return nil, err
		}
		if v.Kind != numeric.RealKind {
			return nil, casserr.NewEvaluationError("vector entries must be real numbers", 0)
		}
		values[i] = v.Re
	}
	m := New(len(args), 1)
	copy(m.Data, values)
	return m, nil
}

// ToNode renders m back as a matrix(row(...), ...) AST for display/TeX
// formatting purposes.
func ToNode(m *Matrix) *ast.Node {
	rows := make([]*ast.Node, m.Rows)
	for r := 0; r < m.Rows; r++ {
		items := make([]*ast.Node, m.Cols)
		for c := 0; c < m.Cols; c++ {
			items[c] = numberNode(m.At(r, c))
		}
		rows[r] = ast.Call("row", items...)
	}
	return ast.Call("matrix", rows...)
}

func numberNode(f float64) *ast.Node {
	if f == math.Trunc(f) {
		return ast.IntNumber(int(f))
	}
	return ast.Number(formatG(f))
}

// Add returns a + b, both must share dimensions.
func Add(a, b *Matrix) (*Matrix, error) {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return nil, casserr.NewEvaluationError("matrix addition requires matching dimensions", 0)
	}
	out := New(a.Rows, a.Cols)
	for i := range a.Data {
		out.Data[i] = a.Data[i] + b.Data[i]
	}
	return out, nil
}

// Scale returns k*a.
func Scale(k float64, a *Matrix) *Matrix {
	out := New(a.Rows, a.Cols)
	for i := range a.Data {
		out.Data[i] = k * a.Data[i]
	}
	return out
}

// Multiply returns a*b, requiring a.Cols == b.Rows.
func Multiply(a, b *Matrix) (*Matrix, error) {
	if a.Cols != b.Rows {
		return nil, casserr.NewEvaluationError("matrix multiplication requires inner dimensions to match", 0)
	}
	out := New(a.Rows, b.Cols)
	for r := 0; r < a.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			var sum float64
			for k := 0; k < a.Cols; k++ {
				sum += a.At(r, k) * b.At(k, c)
			}
			out.Set(r, c, sum)
		}
	}
	return out, nil
}

func Transpose(a *Matrix) *Matrix {
	out := New(a.Cols, a.Rows)
	for r := 0; r < a.Rows; r++ {
		for c := 0; c < a.Cols; c++ {
			out.Set(c, r, a.At(r, c))
		}
	}
	return out
}

const pivotTolerance = 1e-9

// Determinant computes det(a) for a square matrix via partial-pivot
// Gaussian elimination, tracking the row-swap sign.
func Determinant(a *Matrix) (float64, error) {
	if a.Rows != a.Cols {
		return 0, casserr.NewEvaluationError("determinant requires a square matrix", 0)
	}
	work := a.Clone()
	n := a.Rows
	sign := 1.0
	for col := 0; col < n; col++ {
		pivot := findPivot(work, col, n)
		if pivot == -1 {
			return 0, nil
		}
		if pivot != col {
			swapRows(work, pivot, col)
			sign = -sign
		}
		for row := col + 1; row < n; row++ {
			factor := work.At(row, col) / work.At(col, col)
			for c := col; c < n; c++ {
				work.Set(row, c, work.At(row, c)-factor*work.At(col, c))
			}
		}
	}
	det := sign
	for i := 0; i < n; i++ {
		det *= work.At(i, i)
	}
	return det, nil
}

func findPivot(m *Matrix, col, n int) int {
	best := -1
	bestVal := pivotTolerance
	for r := col; r < n; r++ {
		v := math.Abs(m.At(r, col))
		if v > bestVal {
			bestVal = v
			best = r
		}
	}
	return best
}

func swapRows(m *Matrix, r1, r2 int) {
	for c := 0; c < m.Cols; c++ {
		m.Data[r1*m.Cols+c], m.Data[r2*m.Cols+c] = m.Data[r2*m.Cols+c], m.Data[r1*m.Cols+c]
	}
}

// Rank computes the rank of a via row-echelon reduction with the same pivot
// tolerance as Determinant.
func Rank(a *Matrix) int {
	work := a.Clone()
	rows, cols := work.Rows, work.Cols
	rank := 0
	for col := 0; col < cols && rank < rows; col++ {
		pivot := findPivot(work, col, rows)
		if pivot == -1 {
			continue
		}
		if pivot != rank {
			swapRows(work, pivot, rank)
		}
		for row := rank + 1; row < rows; row++ {
			factor := work.At(row, col) / work.At(rank, col)
			for c := col; c < cols; c++ {
				work.Set(row, c, work.At(row, c)-factor*work.At(rank, c))
			}
		}
		rank++
	}
	return rank
}

// Inverse computes a^-1 via Gauss-Jordan elimination on [A | I].
func Inverse(a *Matrix) (*Matrix, error) {
	if a.Rows != a.Cols {
		return nil, casserr.NewEvaluationError("inverse requires a square matrix", 0)
	}
	n := a.Rows
	aug := New(n, 2*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			aug.Set(r, c, a.At(r, c))
		}
		aug.Set(r, n+r, 1)
	}
	for col := 0; col < n; col++ {
		pivot := findPivot(aug, col, n)
		if pivot == -1 {
			return nil, casserr.NewEvaluationError("matrix is singular and has no inverse", 0)
		}
		if pivot != col {
			swapRows(aug, pivot, col)
		}
		pv := aug.At(col, col)
		for c := 0; c < 2*n; c++ {
			aug.Set(col, c, aug.At(col, c)/pv)
		}
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug.At(row, col)
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug.Set(row, c, aug.At(row, c)-factor*aug.At(col, c))
			}
		}
	}
	out := New(n, n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out.Set(r, c, aug.At(r, n+c))
		}
	}
	return out, nil
}

// SolveLinearSystem solves a*x = b for square a via Gaussian elimination
// with partial pivoting and back-substitution.
func SolveLinearSystem(a *Matrix, b *Matrix) (*Matrix, error) {
	if a.Rows != a.Cols {
		return nil, casserr.NewEvaluationError("solving a linear system requires a square coefficient matrix", 0)
	}
	if b.Rows != a.Rows || b.Cols != 1 {
		return nil, casserr.NewEvaluationError("the right-hand side must be a column vector matching the matrix's row count", 0)
	}
	n := a.Rows
	aug := New(n, n+1)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			aug.Set(r, c, a.At(r, c))
		}
		aug.Set(r, n, b.At(r, 0))
	}
	for col := 0; col < n; col++ {
		pivot := findPivot(aug, col, n)
		if pivot == -1 {
			return nil, casserr.NewEvaluationError("the system has no unique solution", 0)
		}
		if pivot != col {
			swapRows(aug, pivot, col)
		}
		for row := col + 1; row < n; row++ {
			factor := aug.At(row, col) / aug.At(col, col)
			for c := col; c <= n; c++ {
				aug.Set(row, c, aug.At(row, c)-factor*aug.At(col, c))
			}
		}
	}
	x := New(n, 1)
	for row := n - 1; row >= 0; row-- {
		sum := aug.At(row, n)
		for c := row + 1; c < n; c++ {
			sum -= aug.At(row, c) * x.At(c, 0)
		}
		x.Set(row, 0, sum/aug.At(row, row))
	}
	return x, nil
}

const (
	eigenMaxIterations = 200
	eigenTolScale      = 1e-8
)

// Eigenvalues computes the eigenvalues of a square matrix via
// Wilkinson-shifted QR iteration, per spec.md §4.7, taking an unshifted step
// whenever the shifted matrix is singular. The result is the diagonal of the
// last iterate: complex eigenvalues are not computed, and when the iteration
// does not converge within eigenMaxIterations steps (as for a matrix with
// complex eigenvalues) those diagonal entries are returned as they stand.
func Eigenvalues(a *Matrix) ([]float64, error) {
	if a.Rows != a.Cols {
		return nil, casserr.NewEvaluationError("eigenvalues require a square matrix", 0)
	}
	n := a.Rows
	work := a.Clone()
	tol := eigenTolScale * frobeniusNorm(a)

	for iter := 0; iter < eigenMaxIterations; iter++ {
		if offDiagonalNorm(work) < tol {
			break
		}
		shift := wilkinsonShift(work)
		shifted := work.Clone()
		for i := 0; i < n; i++ {
			shifted.Set(i, i, shifted.At(i, i)-shift)
		}
		q, r, err := qrDecompose(shifted)
		if err != nil {
			// the shift is itself an eigenvalue, so work - shift*I is
			// singular; take an unshifted step instead.
			shift = 0
			q, r, err = qrDecompose(work)
			if err != nil {
				return nil, err
			}
		}
		rq, err := Multiply(r, q)
		if err != nil {
			return nil, err
		}
		work = rq
		for i := 0; i < n; i++ {
			work.Set(i, i, work.At(i, i)+shift)
		}
	}

	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = work.At(i, i)
	}
	return vals, nil
}

func wilkinsonShift(a *Matrix) float64 {
	n := a.Rows
	if n < 2 {
		return a.At(0, 0)
	}
	d := (a.At(n-2, n-2) - a.At(n-1, n-1)) / 2
	bc := a.At(n-2, n-1) * a.At(n-1, n-2)
	denom := d*d + bc
	if denom < 0 {
		return a.At(n-1, n-1)
	}
	sign := 1.0
	if d < 0 {
		sign = -1
	}
	return a.At(n-1, n-1) - bc/(d+sign*math.Sqrt(denom))
}

func offDiagonalNorm(a *Matrix) float64 {
	sum := 0.0
	for r := 0; r < a.Rows; r++ {
		for c := 0; c < a.Cols; c++ {
			if r != c {
				sum += a.At(r, c) * a.At(r, c)
			}
		}
	}
	return math.Sqrt(sum)
}

func frobeniusNorm(a *Matrix) float64 {
	sum := 0.0
	for _, v := range a.Data {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// qrDecompose computes a full QR decomposition via modified Gram-Schmidt.
func qrDecompose(a *Matrix) (q, r *Matrix, err error) {
	m, n := a.Rows, a.Cols
	q = New(m, n)
	r = New(n, n)
	cols := make([][]float64, n)
	for c := 0; c < n; c++ {
		col := make([]float64, m)
		for row := 0; row < m; row++ {
			col[row] = a.At(row, c)
		}
		cols[c] = col
	}
	for c := 0; c < n; c++ {
		v := append([]float64(nil), cols[c]...)
		for k := 0; k < c; k++ {
			var dot float64
			for row := 0; row < m; row++ {
				dot += q.At(row, k) * cols[c][row]
			}
			r.Set(k, c, dot)
			for row := 0; row < m; row++ {
				v[row] -= dot * q.At(row, k)
			}
		}
		norm := 0.0
		for _, x := range v {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm < 1e-14 {
			return nil, nil, casserr.NewEvaluationError("matrix is rank-deficient and has no QR decomposition", 0)
		}
		r.Set(c, c, norm)
		for row := 0; row < m; row++ {
			q.Set(row, c, v[row]/norm)
		}
	}
	return q, r, nil
}

// Eigenvectors returns, for each eigenvalue in vals, a unit vector spanning
// the null space of (a - lambda*I), found via inverse iteration.
func Eigenvectors(a *Matrix, vals []float64) ([]*Matrix, error) {
	n := a.Rows
	vecs := make([]*Matrix, len(vals))
	for i, lambda := range vals {
		shifted := a.Clone()
		perturbed := lambda + 1e-10
		for d := 0; d < n; d++ {
			shifted.Set(d, d, shifted.At(d, d)-perturbed)
		}
		v := New(n, 1)
		for d := 0; d < n; d++ {
			v.Set(d, 0, 1)
		}
		for iter := 0; iter < 50; iter++ {
			solved, err := SolveLinearSystem(shifted, v)
			if err != nil {
				break
			}
			v = normalize(solved)
		}
		vecs[i] = v
	}
	return vecs, nil
}

func normalize(v *Matrix) *Matrix {
	norm := 0.0
	for _, x := range v.Data {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	out := New(v.Rows, v.Cols)
	for i, x := range v.Data {
		out.Data[i] = x / norm
	}
	return out
}

// SVDResult holds the singular values and right singular vectors obtained
// from eigendecomposing A^T A, per spec.md §4.7.
type SVDResult struct {
	SingularValues []float64
	V              []*Matrix
}

// SVD computes the singular value decomposition of a via eigendecomposition
// of A^T A: singular values are sqrt of A^T A's eigenvalues and V is that
// matrix's eigenvectors.
func SVD(a *Matrix) (*SVDResult, error) {
	at := Transpose(a)
	ata, err := Multiply(at, a)
	if err != nil {
		return nil, err
	}
	vals, err := Eigenvalues(ata)
	if err != nil {
		return nil, err
	}
	sort := append([]float64(nil), vals...)
	for i := 0; i < len(sort); i++ {
		for j := i + 1; j < len(sort); j++ {
			if sort[j] > sort[i] {
				sort[i], sort[j] = sort[j], sort[i]
			}
		}
	}
	singular := make([]float64, len(sort))
	for i, v := range sort {
		if v < 0 {
			v = 0
		}
		singular[i] = math.Sqrt(v)
	}
	vecs, err := Eigenvectors(ata, sort)
	if err != nil {
		return nil, err
	}
	return &SVDResult{SingularValues: singular, V: vecs}, nil
}

func formatG(f float64) string {
	return numeric.FormatApprox(f)
}
