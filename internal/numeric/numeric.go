// Package numeric implements the numeric evaluator of spec.md §4.4: a
// recursive interpreter over ast.Node producing a tagged Real/Complex/Unit
// result, generalizing the teacher's tagged tunascript Value
// (internal/tunascript/value.go, Str/Num/Bool coercions) to the three
// numeric domains this engine supports.
package numeric

import (
	"math"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/casserr"
)

// Kind tags which of the three result domains a Value holds.
type Kind int

const (
	RealKind Kind = iota
	ComplexKind
	UnitKind
)

// Value is the tagged result of evaluating an AST: a real float64, a
// complex pair, or a float64 magnitude carrying a unit string.
type Value struct {
	Kind Kind
	Re   float64
	Im   float64
	Unit string
}

func Real(f float64) Value           { return Value{Kind: RealKind, Re: f} }
func Cplx(re, im float64) Value      { return Value{Kind: ComplexKind, Re: re, Im: im} }
func WithUnit(mag float64, u string) Value { return Value{Kind: UnitKind, Re: mag, Unit: u} }

func (v Value) complex() complex128 { return complex(v.Re, v.Im) }

// Env supplies named constants and is reserved for future variable
// bindings. NewEnv returns one holding the standard constant table; the
// zero value has no constants.
type Env struct {
	Constants map[string]Value
}

func NewEnv() *Env {
	return &Env{Constants: map[string]Value{
		"pi": Real(math.Pi),
		"e":  Real(math.E),
		"i":  Cplx(0, 1),
	}}
}

// Eval numerically evaluates n under env, or under NewEnv() when env is nil.
// The returned Value is NOT truncated here — full double precision is always
// retained in the Value; callers needing a rounded display string use
// FormatApprox.
func Eval(n *ast.Node, env *Env) (Value, error) {
	if env == nil {
		env = NewEnv()
	}
	switch n.Kind {
	case ast.KindNumber:
		f, err := strconv.ParseFloat(n.NumberValue, 64)
		if err != nil {
			return Value{}, casserr.NewEvaluationError("malformed numeric literal "+strconv.Quote(n.NumberValue), 0)
		}
		return Real(f), nil

	case ast.KindSymbol:
		if v, ok := env.Constants[n.Name]; ok {
			return v, nil
		}
		return Value{}, casserr.NewEvaluationError("unknown symbol "+strconv.Quote(n.Name), 0)

	case ast.KindUnitQuantity:
		mag, err := Eval(n.Magnitude, env)
		if err != nil {
			return Value{}, err
		}
		if mag.Kind != RealKind {
			return Value{}, casserr.NewEvaluationError("unit magnitude must be a real number", 0)
		}
		return WithUnit(mag.Re, n.Unit), nil

	case ast.KindUnary:
		v, err := Eval(n.Operand, env)
		if err != nil {
			return Value{}, err
		}
		if n.Op == "+" {
			return v, nil
		}
		return negate(v), nil

	case ast.KindBinary:
		return evalBinary(n, env)

	case ast.KindCall:
		return evalCall(n, env)
	}
	return Value{}, casserr.NewEvaluationError("cannot numerically evaluate this expression", 0)
}

func negate(v Value) Value {
	switch v.Kind {
	case RealKind:
		return Real(-v.Re)
	case ComplexKind:
		return Cplx(-v.Re, -v.Im)
	default:
		return WithUnit(-v.Re, v.Unit)
	}
}

func evalBinary(n *ast.Node, env *Env) (Value, error) {
	l, err := Eval(n.Left, env)
	if err != nil {
		return Value{}, err
	}
	r, err := Eval(n.Right, env)
	if err != nil {
		return Value{}, err
	}

	if n.Op == "^" {
		return evalPow(l, r)
	}

	if l.Kind == UnitKind || r.Kind == UnitKind {
		return evalUnitArith(n.Op, l, r)
	}

	if l.Kind == ComplexKind || r.Kind == ComplexKind {
		lc, rc := l.complex(), r.complex()
		var out complex128
		switch n.Op {
		case "+":
			out = lc + rc
		case "-":
			out = lc - rc
		case "*":
			out = lc * rc
		case "/":
			if rc == 0 {
				return Value{}, casserr.NewEvaluationError("division by zero", 0)
			}
			out = lc / rc
		}
		return Cplx(real(out), imag(out)), nil
	}

	switch n.Op {
	case "+":
		return Real(l.Re + r.Re), nil
	case "-":
		return Real(l.Re - r.Re), nil
	case "*":
		return Real(l.Re * r.Re), nil
	case "/":
		if r.Re == 0 {
			return Value{}, casserr.NewEvaluationError("division by zero", 0)
		}
		return Real(l.Re / r.Re), nil
	}
	return Value{}, casserr.NewEvaluationError("unsupported operator "+n.Op, 0)
}

// evalUnitArith implements spec.md §4.4's unit rules. Two same-unit operands
// add/subtract to a Unit; a same-unit multiplicative pair degrades to Real
// (units are never combined into compound units, per DESIGN.md's Open
// Question (b) decision); a Unit combined with a dimensionless Real scales
// the magnitude and keeps the unit; anything else is incompatible units.
func evalUnitArith(op string, l, r Value) (Value, error) {
	switch {
	case l.Kind == UnitKind && r.Kind == UnitKind:
		if l.Unit != r.Unit {
			return Value{}, casserr.NewEvaluationError("incompatible units: "+l.Unit+" and "+r.Unit, 0)
		}
		switch op {
		case "+":
			return WithUnit(l.Re+r.Re, l.Unit), nil
		case "-":
			return WithUnit(l.Re-r.Re, l.Unit), nil
		case "*":
			return Real(l.Re * r.Re), nil
		case "/":
			if r.Re == 0 {
				return Value{}, casserr.NewEvaluationError("division by zero", 0)
			}
			return Real(l.Re / r.Re), nil
		}
	case l.Kind == UnitKind:
		switch op {
		case "+", "-":
			return Value{}, casserr.NewEvaluationError("incompatible units: "+l.Unit+" and dimensionless value", 0)
		case "*":
			return WithUnit(l.Re*r.Re, l.Unit), nil
		case "/":
			if r.Re == 0 {
				return Value{}, casserr.NewEvaluationError("division by zero", 0)
			}
			return WithUnit(l.Re/r.Re, l.Unit), nil
		}
	case r.Kind == UnitKind:
		switch op {
		case "+", "-":
			return Value{}, casserr.NewEvaluationError("incompatible units: dimensionless value and "+r.Unit, 0)
		case "*":
			return WithUnit(l.Re*r.Re, r.Unit), nil
		case "/":
			if r.Re == 0 {
				return Value{}, casserr.NewEvaluationError("division by zero", 0)
			}
			return WithUnit(l.Re/r.Re, r.Unit), nil
		}
	}
	return Value{}, casserr.NewEvaluationError("unsupported operator "+op, 0)
}

func evalPow(l, r Value) (Value, error) {
	if l.Kind == RealKind && r.Kind == RealKind {
		if l.Re >= 0 || r.Re == math.Trunc(r.Re) {
			return Real(math.Pow(l.Re, r.Re)), nil
		}
	}
	var lc, rc complex128
	switch l.Kind {
	case RealKind:
		lc = complex(l.Re, 0)
	case ComplexKind:
		lc = l.complex()
	default:
		return Value{}, casserr.NewEvaluationError("cannot exponentiate a dimensioned quantity", 0)
	}
	switch r.Kind {
	case RealKind:
		rc = complex(r.Re, 0)
	case ComplexKind:
		rc = r.complex()
	default:
		return Value{}, casserr.NewEvaluationError("cannot use a dimensioned quantity as an exponent", 0)
	}
	out := cmplx.Exp(rc * cmplx.Log(lc))
	return Cplx(real(out), imag(out)), nil
}

func evalCall(n *ast.Node, env *Env) (Value, error) {
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(a, env)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	name := strings.ToLower(n.Name)
	switch name {
	case "sqrt":
		return evalSqrt(args)
	case "sin", "cos", "tan", "asin", "acos", "atan", "exp", "ln":
		return evalUnaryMath(name, args)
	case "abs":
		return evalAbs(args)
	case "fact":
		return evalFact(args)
	case "log":
		return evalLog(args)
	}
	return Value{}, casserr.NewEvaluationError("unknown function "+strconv.Quote(n.Name), 0)
}

func realArg(args []Value, i int) (float64, bool) {
	if i >= len(args) || args[i].Kind != RealKind {
		return 0, false
	}
	return args[i].Re, true
}

func evalSqrt(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, casserr.NewEvaluationError("sqrt() takes exactly 1 argument", 0)
	}
	if f, ok := realArg(args, 0); ok {
		if f < 0 {
			return Cplx(0, math.Sqrt(-f)), nil
		}
		return Real(math.Sqrt(f)), nil
	}
	out := cmplx.Sqrt(args[0].complex())
	return Cplx(real(out), imag(out)), nil
}

func evalUnaryMath(name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, casserr.NewEvaluationError(name+"() takes exactly 1 argument", 0)
	}
	f, ok := realArg(args, 0)
	if !ok {
		return Value{}, casserr.NewEvaluationError(name+"() of a complex argument is not supported", 0)
	}
	switch name {
	case "sin":
		return Real(math.Sin(f)), nil
	case "cos":
		return Real(math.Cos(f)), nil
	case "tan":
		return Real(math.Tan(f)), nil
	case "asin":
		return Real(math.Asin(f)), nil
	case "acos":
		return Real(math.Acos(f)), nil
	case "atan":
		return Real(math.Atan(f)), nil
	case "exp":
		return Real(math.Exp(f)), nil
	case "ln":
		if f <= 0 {
			return Value{}, casserr.NewEvaluationError("ln() of a non-positive real is not supported", 0)
		}
		return Real(math.Log(f)), nil
	}
	return Value{}, casserr.NewEvaluationError("unknown function "+name, 0)
}

func evalAbs(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, casserr.NewEvaluationError("abs() takes exactly 1 argument", 0)
	}
	switch args[0].Kind {
	case RealKind:
		return Real(math.Abs(args[0].Re)), nil
	case ComplexKind:
		return Real(cmplx.Abs(args[0].complex())), nil
	default:
		return Real(math.Abs(args[0].Re)), nil
	}
}

func evalFact(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, casserr.NewEvaluationError("fact() takes exactly 1 argument", 0)
	}
	f, ok := realArg(args, 0)
	if !ok || f != math.Trunc(f) || f < 0 || f > 170 {
		return Value{}, casserr.NewEvaluationError("fact() is only defined for integers in [0, 170]", 0)
	}
	n := int(f)
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return Real(result), nil
}

func evalLog(args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, casserr.NewEvaluationError("log() takes exactly 2 arguments: log(x, base)", 0)
	}
	x, xok := realArg(args, 0)
	b, bok := realArg(args, 1)
	if !xok || !bok || x <= 0 || b <= 0 || b == 1 {
		return Value{}, casserr.NewEvaluationError("log() requires positive real arguments and a base != 1", 0)
	}
	return Real(math.Log(x) / math.Log(b)), nil
}

// FormatApprox formats f the way the engine's "approx" field does: toFixed(8)
// then trim trailing zeros, then trim a trailing decimal point. Negative
// zero renders as "0".
func FormatApprox(f float64) string {
	if f == 0 {
		return "0"
	}
	s := strconv.FormatFloat(f, 'f', 8, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
