package expression

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/ordered"
)

// Marker prefixes template strings that are expressions.
const Marker = "@"

var tokenPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// env is the whole evaluation environment: nothing else is reachable from
// an expression.
type env struct {
	Values  []any `expr:"values"`
	Current any   `expr:"current"`
	Index   int   `expr:"index"`
}

// Expression is a compiled expression.
type Expression struct {
	text      string
	rewritten string
	paths     []string
	queries   []string
	bare      bareKind
	program   *vm.Program
}

// bareKind marks expressions that only name a value. Those return it
// unchanged, without the numeric conversion arithmetic needs.
type bareKind int

const (
	notBare bareKind = iota
	bareQuery
	bareCurrent
)

// IsExpression reports whether a template string is an expression.
func IsExpression(s string) bool {
	return strings.HasPrefix(s, Marker)
}

// Compile rewrites the path-query tokens of text and compiles the result.
// text is the expression without its marker. Errors are
// *diagnostic.ExprError.
func Compile(text string) (*Expression, error) {
	rewritten, paths := rewrite(text)
	if strings.TrimSpace(rewritten) == "" {
		return nil, &diagnostic.ExprError{Expr: text, Err: errors.New("empty expression")}
	}

	queries := make([]string, len(paths))
	for i, p := range paths {
		q, err := normalizePath(p)
		if err != nil {
			return nil, &diagnostic.ExprError{Expr: text, Err: fmt.Errorf("path %q: %w", p, err)}
		}

		queries[i] = q
	}

	kind := notBare

	switch strings.TrimSpace(rewritten) {
	case "values[0]":
		kind = bareQuery
	case "current":
		kind = bareCurrent
	}

	opts := []expr.Option{
		expr.Env(env{}),
		expr.DisableAllBuiltins(),
	}
	opts = append(opts, functionOptions()...)

	program, err := expr.Compile(rewritten, opts...)
	if err != nil {
		return nil, &diagnostic.ExprError{Expr: text, Err: err}
	}

	return &Expression{
		text:      text,
		rewritten: rewritten,
		paths:     paths,
		queries:   queries,
		bare:      kind,
		program:   program,
	}, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// static templates.
func MustCompile(text string) *Expression {
	e, err := Compile(text)
	if err != nil {
		panic(err)
	}

	return e
}

// rewrite replaces every {{path}} token with values[i], i being the token's
// position in the text. Tokens are processed right to left so the offsets
// of the tokens still to be replaced stay valid.
func rewrite(text string) (string, []string) {
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	paths := make([]string, len(matches))
	out := text

	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		paths[i] = text[m[2]:m[3]]
		out = out[:m[0]] + "values[" + strconv.Itoa(i) + "]" + out[m[1]:]
	}

	return out, paths
}

// Eval runs the path queries against the scope's source event and evaluates
// the expression. An expression that is a single path query or just
// current yields the value as recorded; anything else computes on plain
// values, with every number a float64. Errors are *diagnostic.ExprError.
func (e *Expression) Eval(scope Scope) (any, error) {
	switch e.bare {
	case bareQuery:
		return query(scope.source, e.queries[0]), nil
	case bareCurrent:
		return scope.current, nil
	}

	values := make([]any, len(e.queries))
	for i, q := range e.queries {
		values[i] = ordered.Plain(query(scope.source, q))
	}

	out, err := expr.Run(e.program, env{
		Values:  values,
		Current: ordered.Plain(scope.current),
		Index:   scope.index,
	})
	if err != nil {
		return nil, &diagnostic.ExprError{Expr: e.text, Err: err}
	}

	if !finite(out) {
		return nil, &diagnostic.ExprError{
			Expr: e.text,
			Err:  fmt.Errorf("result %v holds NaN or an infinite number", out),
		}
	}

	return out, nil
}

// finite reports whether v holds no NaN or infinite numbers, which have no
// JSON encoding.
func finite(v any) bool {
	switch t := v.(type) {
	case float64:
		return !math.IsNaN(t) && !math.IsInf(t, 0)
	case float32:
		return finite(float64(t))
	case []any:
		for _, item := range t {
			if !finite(item) {
				return false
			}
		}
	case map[string]any:
		for _, item := range t {
			if !finite(item) {
				return false
			}
		}
	}

	return true
}

// Text returns the expression as written, without its marker.
func (e *Expression) Text() string { return e.text }

// Rewritten returns the text that was compiled.
func (e *Expression) Rewritten() string { return e.rewritten }

// Paths returns the path queries in textual order.
func (e *Expression) Paths() []string {
	return append([]string(nil), e.paths...)
}

// String returns the expression with its marker.
func (e *Expression) String() string { return Marker + e.text }
