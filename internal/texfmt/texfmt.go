// Package texfmt implements the total, deterministic AST-to-TeX formatter
// of spec.md §4.3, in the spirit of the teacher's recursive
// Tunascript()/String() node renderers (tunascript/syntax/ast.go) that walk
// the tree and build a string bottom-up, parenthesizing based on a
// precedence comparison with the parent operator.
package texfmt

import (
	"strconv"
	"strings"

	"github.com/dekarrin/casengine/internal/ast"
)

var standardFuncs = map[string]string{
	"sin": "\\sin", "cos": "\\cos", "tan": "\\tan",
	"asin": "\\arcsin", "acos": "\\arccos", "atan": "\\arctan",
	"exp": "\\exp", "ln": "\\ln",
}

// ToKaTeX renders n as a TeX string understood by a standard math renderer.
// It never fails.
func ToKaTeX(n *ast.Node) string {
	return render(n, 0)
}

// precedence mirrors the parser's binding powers closely enough to decide
// parenthesization; unary and primary nodes are always atomic from the
// parent's point of view.
func precedence(n *ast.Node) int {
	if n == nil {
		return 100
	}
	switch n.Kind {
	case ast.KindBinary:
		switch n.Op {
		case "=":
			return 10
		case "+", "-":
			return 20
		case "*", "/":
			return 30
		case "^":
			return 50
		}
	case ast.KindUnary:
		return 40
	}
	return 100
}

func render(n *ast.Node, minPrec int) string {
	if n == nil {
		return ""
	}

	out := renderNode(n)
	if precedence(n) < minPrec {
		return "\\left(" + out + "\\right)"
	}
	return out
}

func renderNode(n *ast.Node) string {
	switch n.Kind {
	case ast.KindNumber:
		return formatNumberLiteral(n.NumberValue)
	case ast.KindSymbol:
		return renderSymbol(n.Name)
	case ast.KindUnitQuantity:
		return render(n.Magnitude, 30) + "\\,\\mathrm{" + n.Unit + "}"
	case ast.KindUnary:
		op := n.Op
		if op == "+" {
			op = ""
		}
		return op + render(n.Operand, 40)
	case ast.KindBinary:
		return renderBinary(n)
	case ast.KindCall:
		return renderCall(n)
	case ast.KindArrow:
		return render(n.From, 0) + " \\to " + render(n.To, 0)
	case ast.KindList:
		items := make([]string, len(n.Items))
		for i, it := range n.Items {
			items[i] = render(it, 0)
		}
		return strings.Join(items, ", ")
	}
	return ""
}

func renderSymbol(name string) string {
	switch name {
	case "pi":
		return "\\pi"
	case "e":
		return "e"
	case "i":
		return "i"
	default:
		return "\\mathrm{" + name + "}"
	}
}

func renderBinary(n *ast.Node) string {
	switch n.Op {
	case "/":
		return "\\frac{" + render(n.Left, 0) + "}{" + render(n.Right, 0) + "}"
	case "^":
		base := render(n.Left, 51)
		return base + "^{" + render(n.Right, 0) + "}"
	case "*":
		return render(n.Left, 30) + " \\cdot " + render(n.Right, 31)
	case "=":
		return render(n.Left, 0) + " = " + render(n.Right, 0)
	default: // + -
		left := render(n.Left, 20)
		if n.Op == "-" {
			return left + " - " + render(n.Right, 21)
		}
		return left + " + " + render(n.Right, 20)
	}
}

func renderCall(n *ast.Node) string {
	switch n.Name {
	case "sqrt":
		return "\\sqrt{" + render(arg(n, 0), 0) + "}"
	case "log":
		if len(n.Args) == 2 {
			return "\\log_{" + render(n.Args[1], 0) + "}\\left(" + render(n.Args[0], 0) + "\\right)"
		}
		return "\\log\\left(" + renderArgs(n) + "\\right)"
	case "det":
		return "\\det\\left(" + renderArgs(n) + "\\right)"
	case "abs":
		return "\\left|" + render(arg(n, 0), 0) + "\\right|"
	case "fact":
		return render(arg(n, 0), 41) + "!"
	}
	if cmd, ok := standardFuncs[n.Name]; ok {
		return cmd + "\\left(" + renderArgs(n) + "\\right)"
	}
	return "\\mathrm{" + n.Name + "}\\left(" + renderArgs(n) + "\\right)"
}

func arg(n *ast.Node, i int) *ast.Node {
	if i < len(n.Args) {
		return n.Args[i]
	}
	return nil
}

func renderArgs(n *ast.Node) string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = render(a, 0)
	}
	return strings.Join(parts, ", ")
}

// formatNumberLiteral trims an exact integer's redundant ".0" suffix if
// present, otherwise renders the literal verbatim.
func formatNumberLiteral(s string) string {
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) && !strings.ContainsAny(s, "eE") {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}
