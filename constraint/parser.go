// Package constraint implements the small expression language used in
// `check` struct tags, e.g. `min(0) & max(130)` or `nonempty | match("^#")`.
// Expressions are parsed into an AST and compiled into reusable rules.
package constraint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// --- Participle grammar structs ---
// These define the constraint expression grammar using struct tags.

// Expr is the root of a constraint expression: alternatives joined by '|'.
// An expression passes when any alternative passes.
type Expr struct {
	Alt []*AndExpr `parser:"@@ ( '|' @@ )*"`
}

// AndExpr is a conjunction of terms joined by '&'. It passes when every
// term passes.
type AndExpr struct {
	Terms []*Term `parser:"@@ ( '&' @@ )*"`
}

// Term is an optionally negated check call or parenthesized sub-expression.
type Term struct {
	Not  bool  `parser:"@'!'?"`
	Call *Call `parser:"( @@"`
	Sub  *Expr `parser:"| '(' @@ ')' )"`
}

// Call is a named check with optional literal arguments, e.g. min(0),
// oneof("a", "b"), or the bare form nonempty.
type Call struct {
	Name string `parser:"@Ident"`
	Args []Arg  `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

// Arg is a literal argument to a check: a quoted string, float, or integer.
type Arg struct {
	Str   *string  `parser:"  @String"`
	Float *float64 `parser:"| @Float"`
	Int   *int64   `parser:"| @Int"`
}

var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Float", Pattern: `[-+]?\d+\.\d+`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),!&|]`},
})

var exprParser = participle.MustBuild[Expr](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// Parse parses a constraint expression string into its AST.
func Parse(input string) (*Expr, error) {
	expr, err := exprParser.ParseString("check", input)
	if err != nil {
		return nil, fmt.Errorf("parse constraint %q: %w", input, err)
	}
	return expr, nil
}

// --- String rendering ---
// The AST renders back to canonical text for error messages and manifests.

// String returns the canonical text of the expression.
func (e *Expr) String() string {
	parts := make([]string, len(e.Alt))
	for i, a := range e.Alt {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

// String returns the canonical text of the conjunction.
func (a *AndExpr) String() string {
	parts := make([]string, len(a.Terms))
	for i, t := range a.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " & ")
}

// String returns the canonical text of the term.
func (t *Term) String() string {
	var body string
	if t.Call != nil {
		body = t.Call.String()
	} else {
		body = "(" + t.Sub.String() + ")"
	}
	if t.Not {
		return "!" + body
	}
	return body
}

// String returns the canonical text of the call.
func (c *Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// String returns the literal text of the argument.
func (a Arg) String() string {
	switch {
	case a.Str != nil:
		return strconv.Quote(*a.Str)
	case a.Float != nil:
		return strconv.FormatFloat(*a.Float, 'f', -1, 64)
	case a.Int != nil:
		return strconv.FormatInt(*a.Int, 10)
	}
	return ""
}
