package strategy

import (
	"math"
	"strconv"

	"github.com/dekarrin/casengine/internal/ast"
	"github.com/dekarrin/casengine/internal/i18n"
)

func numberNode(f float64) *ast.Node {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return ast.Number(strconv.FormatInt(int64(f), 10))
	}
	return ast.Number(strconv.FormatFloat(f, 'g', -1, 64))
}

func parseFloatLocal(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// strs is the engine's default string table. Strategies look up step and
// follow-up prose through it rather than building it inline, the same
// loading style internal/repl uses for its own chrome. The fallback and
// numeric-evaluation strategies are the exceptions: each sets its single
// step's Description inline.
var strs *i18n.Table

func init() {
	t, err := i18n.Default()
	if err != nil {
		panic("strategy: load default string table: " + err.Error())
	}
	strs = t
}

// step builds a Step from the string table: titleKey and descKey name
// entries in default.toml, descArgs format descKey's template.
func step(titleKey, descKey string, expr *ast.Node, descArgs ...interface{}) Step {
	return Step{
		Title:       strs.Lookup(titleKey),
		Description: strs.Lookup(descKey, descArgs...),
		Expression:  expr,
	}
}

// followUp builds a FollowUp from the string table, formatting descKey's
// template with example.
func followUp(label, descKey, example string) FollowUp {
	return FollowUp{
		Label:       label,
		Description: strs.Lookup(descKey, example),
		Example:     example,
	}
}
