package constraint

import (
	"reflect"
	"regexp"
	"strings"
)

// Rule is a compiled constraint expression that can be checked against
// arbitrary values. Rules are immutable and safe for concurrent use.
type Rule struct {
	expr  string
	check checkFunc
}

type checkFunc func(value any) error

// Check reports whether value satisfies the rule, returning a
// *ViolationError describing the failing sub-expression otherwise.
func (r *Rule) Check(value any) error {
	return r.check(value)
}

// String returns the canonical text of the compiled expression.
func (r *Rule) String() string {
	return r.expr
}

// Compile parses and compiles a constraint expression into a Rule.
func Compile(input string) (*Rule, error) {
	expr, err := Parse(input)
	if err != nil {
		return nil, err
	}
	check, err := compileExpr(expr)
	if err != nil {
		return nil, err
	}
	return &Rule{expr: expr.String(), check: check}, nil
}

// MustCompile is like Compile but panics on error. It is intended for
// rules declared at package init time.
func MustCompile(input string) *Rule {
	r, err := Compile(input)
	if err != nil {
		panic(err)
	}
	return r
}

func compileExpr(e *Expr) (checkFunc, error) {
	alts := make([]checkFunc, len(e.Alt))
	for i, a := range e.Alt {
		fn, err := compileAnd(a)
		if err != nil {
			return nil, err
		}
		alts[i] = fn
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	text := e.String()
	return func(v any) error {
		for _, fn := range alts {
			if fn(v) == nil {
				return nil
			}
		}
		return &ViolationError{Check: text, Value: v}
	}, nil
}

func compileAnd(a *AndExpr) (checkFunc, error) {
	terms := make([]checkFunc, len(a.Terms))
	for i, t := range a.Terms {
		fn, err := compileTerm(t)
		if err != nil {
			return nil, err
		}
		terms[i] = fn
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return func(v any) error {
		for _, fn := range terms {
			if err := fn(v); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

func compileTerm(t *Term) (checkFunc, error) {
	var inner checkFunc
	var err error
	if t.Call != nil {
		inner, err = compileCall(t.Call)
	} else {
		inner, err = compileExpr(t.Sub)
	}
	if err != nil {
		return nil, err
	}
	if !t.Not {
		return inner, nil
	}
	text := t.String()
	return func(v any) error {
		if inner(v) == nil {
			return &ViolationError{Check: text, Value: v}
		}
		return nil
	}, nil
}

func compileCall(c *Call) (checkFunc, error) {
	builtin, ok := builtins[c.Name]
	if !ok {
		return nil, &UnknownFuncError{Name: c.Name}
	}
	return builtin(c.String(), c.Args)
}

// builtins maps check names to their compilers. Each compiler receives the
// canonical call text (for error messages) and the literal arguments.
var builtins = map[string]func(text string, args []Arg) (checkFunc, error){
	"min":      compileMin,
	"max":      compileMax,
	"positive": compileNumericCmp(func(f float64) bool { return f > 0 }),
	"nonneg":   compileNumericCmp(func(f float64) bool { return f >= 0 }),
	"nonzero":  compileNumericCmp(func(f float64) bool { return f != 0 }),
	"minlen":   compileMinLen,
	"maxlen":   compileMaxLen,
	"len":      compileLenRange,
	"nonempty": compileNonempty,
	"oneof":    compileOneof,
	"match":    compileMatch,
	"prefix":   compileStringPred(strings.HasPrefix),
	"suffix":   compileStringPred(strings.HasSuffix),
	"lower":    compileCasePred(strings.ToLower),
	"upper":    compileCasePred(strings.ToUpper),
}

func compileMin(text string, args []Arg) (checkFunc, error) {
	bound, err := oneNumericArg("min", args)
	if err != nil {
		return nil, err
	}
	return func(v any) error {
		f, ok := toFloat64(v)
		if !ok || f < bound {
			return &ViolationError{Check: text, Value: v}
		}
		return nil
	}, nil
}

func compileMax(text string, args []Arg) (checkFunc, error) {
	bound, err := oneNumericArg("max", args)
	if err != nil {
		return nil, err
	}
	return func(v any) error {
		f, ok := toFloat64(v)
		if !ok || f > bound {
			return &ViolationError{Check: text, Value: v}
		}
		return nil
	}, nil
}

func compileNumericCmp(pred func(float64) bool) func(string, []Arg) (checkFunc, error) {
	return func(text string, args []Arg) (checkFunc, error) {
		if len(args) != 0 {
			return nil, &ArgError{Func: text, Message: "takes no arguments"}
		}
		return func(v any) error {
			f, ok := toFloat64(v)
			if !ok || !pred(f) {
				return &ViolationError{Check: text, Value: v}
			}
			return nil
		}, nil
	}
}

func compileMinLen(text string, args []Arg) (checkFunc, error) {
	n, err := oneIntArg("minlen", args)
	if err != nil {
		return nil, err
	}
	return func(v any) error {
		l, ok := lengthOf(v)
		if !ok || l < n {
			return &ViolationError{Check: text, Value: v}
		}
		return nil
	}, nil
}

func compileMaxLen(text string, args []Arg) (checkFunc, error) {
	n, err := oneIntArg("maxlen", args)
	if err != nil {
		return nil, err
	}
	return func(v any) error {
		l, ok := lengthOf(v)
		if !ok || l > n {
			return &ViolationError{Check: text, Value: v}
		}
		return nil
	}, nil
}

func compileLenRange(text string, args []Arg) (checkFunc, error) {
	if len(args) != 2 || args[0].Int == nil || args[1].Int == nil {
		return nil, &ArgError{Func: "len", Message: "expects two integer arguments"}
	}
	lo, hi := int(*args[0].Int), int(*args[1].Int)
	if lo > hi {
		return nil, &ArgError{Func: "len", Message: "min exceeds max"}
	}
	return func(v any) error {
		l, ok := lengthOf(v)
		if !ok || l < lo || l > hi {
			return &ViolationError{Check: text, Value: v}
		}
		return nil
	}, nil
}

func compileNonempty(text string, args []Arg) (checkFunc, error) {
	if len(args) != 0 {
		return nil, &ArgError{Func: "nonempty", Message: "takes no arguments"}
	}
	return func(v any) error {
		l, ok := lengthOf(v)
		if !ok || l == 0 {
			return &ViolationError{Check: text, Value: v}
		}
		return nil
	}, nil
}

func compileOneof(text string, args []Arg) (checkFunc, error) {
	if len(args) == 0 {
		return nil, &ArgError{Func: "oneof", Message: "expects at least one argument"}
	}
	return func(v any) error {
		for _, a := range args {
			if argMatches(a, v) {
				return nil
			}
		}
		return &ViolationError{Check: text, Value: v}
	}, nil
}

func compileMatch(text string, args []Arg) (checkFunc, error) {
	if len(args) != 1 || args[0].Str == nil {
		return nil, &ArgError{Func: "match", Message: "expects one string argument"}
	}
	re, err := regexp.Compile(*args[0].Str)
	if err != nil {
		return nil, &ArgError{Func: "match", Message: err.Error()}
	}
	return func(v any) error {
		s, ok := v.(string)
		if !ok || !re.MatchString(s) {
			return &ViolationError{Check: text, Value: v}
		}
		return nil
	}, nil
}

func compileStringPred(pred func(s, arg string) bool) func(string, []Arg) (checkFunc, error) {
	return func(text string, args []Arg) (checkFunc, error) {
		if len(args) != 1 || args[0].Str == nil {
			return nil, &ArgError{Func: text, Message: "expects one string argument"}
		}
		arg := *args[0].Str
		return func(v any) error {
			s, ok := v.(string)
			if !ok || !pred(s, arg) {
				return &ViolationError{Check: text, Value: v}
			}
			return nil
		}, nil
	}
}

func compileCasePred(fold func(string) string) func(string, []Arg) (checkFunc, error) {
	return func(text string, args []Arg) (checkFunc, error) {
		if len(args) != 0 {
			return nil, &ArgError{Func: text, Message: "takes no arguments"}
		}
		return func(v any) error {
			s, ok := v.(string)
			if !ok || s != fold(s) {
				return &ViolationError{Check: text, Value: v}
			}
			return nil
		}, nil
	}
}

// --- Argument and value helpers ---

func oneNumericArg(name string, args []Arg) (float64, error) {
	if len(args) != 1 {
		return 0, &ArgError{Func: name, Message: "expects one numeric argument"}
	}
	switch {
	case args[0].Int != nil:
		return float64(*args[0].Int), nil
	case args[0].Float != nil:
		return *args[0].Float, nil
	}
	return 0, &ArgError{Func: name, Message: "expects one numeric argument"}
}

func oneIntArg(name string, args []Arg) (int, error) {
	if len(args) != 1 || args[0].Int == nil {
		return 0, &ArgError{Func: name, Message: "expects one integer argument"}
	}
	return int(*args[0].Int), nil
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func lengthOf(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return len(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}

func argMatches(a Arg, v any) bool {
	switch {
	case a.Str != nil:
		s, ok := v.(string)
		return ok && s == *a.Str
	case a.Int != nil:
		f, ok := toFloat64(v)
		return ok && f == float64(*a.Int)
	case a.Float != nil:
		f, ok := toFloat64(v)
		return ok && f == *a.Float
	}
	return false
}
