package template

import "trace-mapper/internal/expression"

// Node is a compiled template.
type Node interface {
	// Kind returns the node variant.
	Kind() Kind
	// Path locates the node in the mapping document.
	Path() string
}

// Literal is passed through unchanged.
type Literal struct {
	path  string
	Value any
}

// Expr is evaluated by the expression evaluator.
type Expr struct {
	path string
	Expr *expression.Expression
}

// Key is an object key: a literal string or an expression.
type Key struct {
	Literal string
	Expr    *expression.Expression
}

// Member is one key/value pair of an Object node.
type Member struct {
	Key   Key
	Value Node
}

// Object builds an object, members in declared order.
type Object struct {
	path    string
	Members []Member
}

// Array builds an array of the same length as the template.
type Array struct {
	path  string
	Items []Node
}

// Case is one entry of a switch.
type Case struct {
	Match any
	Value Node
}

// Switch selects the first case equal to the selector, or the default case.
type Switch struct {
	path     string
	Selector *expression.Expression
	Cases    []Case
	// Default is the value of the "default" case, nil when there is none.
	Default Node
}

// Foreach maps Body once per element of Sequence.
type Foreach struct {
	path     string
	Sequence *expression.Expression
	Body     Node
}

// If maps Then or Else depending on Cond.
type If struct {
	path string
	Cond *expression.Expression
	Then Node
	Else Node
}

func (n *Literal) Kind() Kind { return KindLiteral }
func (n *Expr) Kind() Kind    { return KindExpression }
func (n *Object) Kind() Kind  { return KindObject }
func (n *Array) Kind() Kind   { return KindArray }
func (n *Switch) Kind() Kind  { return KindSwitch }
func (n *Foreach) Kind() Kind { return KindForeach }
func (n *If) Kind() Kind      { return KindIf }

func (n *Literal) Path() string { return n.path }
func (n *Expr) Path() string    { return n.path }
func (n *Object) Path() string  { return n.path }
func (n *Array) Path() string   { return n.path }
func (n *Switch) Path() string  { return n.path }
func (n *Foreach) Path() string { return n.path }
func (n *If) Path() string      { return n.path }
