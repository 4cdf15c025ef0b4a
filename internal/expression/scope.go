package expression

// Scope is the evaluation context of one template evaluation: the source
// event and, inside a foreach, the current element and its index.
//
// Scope is a value. Entering a loop returns a new Scope and leaves the
// enclosing one untouched, so nested loops restore their parent's element
// when they finish and concurrent evaluations never share state.
type Scope struct {
	source  []byte
	current any
	index   int
	depth   int
}

// NewScope returns the root scope for a source event encoded as JSON.
func NewScope(source []byte) Scope {
	return Scope{source: source, index: -1}
}

// Enter returns the scope of one foreach iteration.
func (s Scope) Enter(current any, index int) Scope {
	return Scope{
		source:  s.source,
		current: current,
		index:   index,
		depth:   s.depth + 1,
	}
}

// Source returns the JSON encoding of the source event.
func (s Scope) Source() []byte { return s.source }

// Current returns the current foreach element, or nil outside a loop.
func (s Scope) Current() any { return s.current }

// Index returns the current foreach index, or -1 outside a loop.
func (s Scope) Index() int { return s.index }

// Depth returns the number of enclosing foreach loops.
func (s Scope) Depth() int { return s.depth }
