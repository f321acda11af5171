package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/dgraph-io/ristretto"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// programCache memoizes compiled expr-lang programs keyed by lowered source
// text, so repeated evaluation of an unchanged formula is O(1) after the
// first compile. It is a private
// implementation detail: it never changes Evaluate's output, only its
// latency, so the analyzer and previewer remain pure from the caller's
// perspective.
var (
	programCache        *ristretto.Cache
	programCacheEnabled atomic.Bool
)

// SetProgramCacheEnabled toggles the compiled-program cache. On by
// default; wiring turns it off when features.enable_formula_cache is
// false. Purely a latency knob — Evaluate's output never changes.
func SetProgramCacheEnabled(enabled bool) {
	programCacheEnabled.Store(enabled)
}

func init() {
	programCacheEnabled.Store(true)
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		panic(fmt.Sprintf("formula: failed to init program cache: %v", err))
	}
	programCache = c
}

// lowered is the result of rewriting an AST into expr-lang source. Field
// references become legal expr-lang identifiers of the form "f_<n>"; Vars
// maps those identifiers back to the original field id so a caller can
// build the evaluation environment.
type lowered struct {
	Source string
	Vars   map[string]string // env identifier -> field id
}

// lower serializes e as expr-lang source. expr-lang's operator set
// (+ - * / == != < <= > >= and or not, call syntax) is a superset of the
// formula grammar, so lowering is a direct rewrite rather than a
// semantic translation — the two languages agree on every operator the
// parser accepts, which is what lets the analyzer's type inference and
// the previewer's evaluation share one set of operator semantics
// ("one evaluator").
func lower(e Expr) lowered {
	l := lowered{Vars: make(map[string]string)}
	l.Source = l.render(e)
	return l
}

func (l *lowered) varFor(fieldID string) string {
	for ident, id := range l.Vars {
		if id == fieldID {
			return ident
		}
	}
	ident := fmt.Sprintf("f_%d", len(l.Vars))
	l.Vars[ident] = fieldID
	return ident
}

func (l *lowered) render(e Expr) string {
	switch n := e.(type) {
	case NumberLit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case StringLit:
		return strconv.Quote(n.Value)
	case BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case FieldRef:
		return l.varFor(n.FieldID)
	case UnaryExpr:
		return fmt.Sprintf("(%s %s)", n.Op, l.render(n.Operand))
	case BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", l.render(n.Left), n.Op, l.render(n.Right))
	case CallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = l.render(a)
		}
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
	default:
		return "nil"
	}
}

// builtins implements the closed function registry as
// expr-lang environment functions, shared between the analyzer's type
// inference (registry.go) and runtime evaluation here.
func builtins() map[string]any {
	toFloat := func(v any) float64 {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		default:
			f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v), 64)
			return f
		}
	}
	return map[string]any{
		"abs": func(x float64) float64 { return math.Abs(x) },
		"min": func(xs ...float64) float64 {
			m := math.Inf(1)
			for _, x := range xs {
				if x < m {
					m = x
				}
			}
			return m
		},
		"max": func(xs ...float64) float64 {
			m := math.Inf(-1)
			for _, x := range xs {
				if x > m {
					m = x
				}
			}
			return m
		},
		"sum": func(xs ...float64) float64 {
			var s float64
			for _, x := range xs {
				s += x
			}
			return s
		},
		"round": func(args ...any) float64 {
			x := toFloat(args[0])
			prec := 0
			if len(args) > 1 {
				prec = int(toFloat(args[1]))
			}
			mult := math.Pow(10, float64(prec))
			return math.Round(x*mult) / mult
		},
		"floor": func(x float64) float64 { return math.Floor(x) },
		"ceil":  func(x float64) float64 { return math.Ceil(x) },
		"upper": func(s string) string { return strings.ToUpper(s) },
		"lower": func(s string) string { return strings.ToLower(s) },
		"trim":  func(s string) string { return strings.TrimSpace(s) },
		"concat": func(args ...any) string {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = fmt.Sprintf("%v", a)
			}
			return strings.Join(parts, "")
		},
		"length": func(v any) float64 {
			switch t := v.(type) {
			case string:
				return float64(len([]rune(t)))
			case []any:
				return float64(len(t))
			default:
				return 0
			}
		},
		"is_empty": func(v any) bool {
			if v == nil {
				return true
			}
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s) == ""
			}
			if a, ok := v.([]any); ok {
				return len(a) == 0
			}
			return false
		},
		// TABLE aggregation helpers operate on a slice of row maps provided
		// by the caller as the table field's "value" in the environment.
		"table_sum": func(rows []any, field string) float64 {
			var s float64
			for _, r := range rows {
				if m, ok := r.(map[string]any); ok {
					s += toFloat(m[field])
				}
			}
			return s
		},
		"table_avg": func(rows []any, field string) float64 {
			if len(rows) == 0 {
				return 0
			}
			var s float64
			for _, r := range rows {
				if m, ok := r.(map[string]any); ok {
					s += toFloat(m[field])
				}
			}
			return s / float64(len(rows))
		},
		"table_count": func(rows []any) float64 { return float64(len(rows)) },
		"table_min": func(rows []any, field string) float64 {
			m := math.Inf(1)
			for _, r := range rows {
				if row, ok := r.(map[string]any); ok {
					if v := toFloat(row[field]); v < m {
						m = v
					}
				}
			}
			if math.IsInf(m, 1) {
				return 0
			}
			return m
		},
		"table_max": func(rows []any, field string) float64 {
			m := math.Inf(-1)
			for _, r := range rows {
				if row, ok := r.(map[string]any); ok {
					if v := toFloat(row[field]); v > m {
						m = v
					}
				}
			}
			if math.IsInf(m, -1) {
				return 0
			}
			return m
		},
	}
}

// compile parses and lowers text, returning a cached *vm.Program and its
// field-id var mapping.
func compile(text string) (*vm.Program, map[string]string, error) {
	tree, err := Parse(text)
	if err != nil {
		return nil, nil, err
	}
	l := lower(tree)

	if programCacheEnabled.Load() {
		if cached, ok := programCache.Get(l.Source); ok {
			return cached.(*vm.Program), l.Vars, nil
		}
	}

	// Field identifiers are left out of the compile-time env so the checker
	// types them as unknown; their values are supplied at run time.
	program, err := expr.Compile(l.Source, expr.Env(builtins()), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, nil, fmt.Errorf("lowering %q failed to compile: %w", text, err)
	}
	if programCacheEnabled.Load() {
		programCache.Set(l.Source, program, 1)
	}
	return program, l.Vars, nil
}

// Evaluate runs text against the in-memory field-id -> value map `values`,
// using the same operator and function semantics Validate/Dependencies
// type-check. It is used only by the
// control-rule previewer; calculated-field execution against real data is
// out of scope.
func Evaluate(text string, values map[string]any) (any, error) {
	program, vars, err := compile(text)
	if err != nil {
		return nil, err
	}
	env := builtins()
	for ident, fieldID := range vars {
		env[ident] = values[fieldID]
	}
	return expr.Run(program, env)
}
