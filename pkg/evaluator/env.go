package evaluator

import (
	"fmt"

	"github.com/timfan/golox/pkg/token"
	"github.com/timfan/golox/pkg/value"
)

// Env is one frame of the lexical environment chain. The global frame
// has a nil parent. Frames are not stack-scoped: a closure keeps its
// declaring frame alive for as long as the closure itself lives.
type Env struct {
	parent *Env
	values map[string]value.Value
}

// NewEnv creates a frame whose lookups fall through to parent. A nil
// parent makes a global frame.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]value.Value)}
}

// Define binds name in this frame, shadowing any outer binding.
func (e *Env) Define(name string, v value.Value) {
	e.values[name] = v
}

// Get reads name, walking up the parent chain. A miss at the root is a
// runtime error.
func (e *Env) Get(name token.Token) (value.Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// Assign rebinds an existing name, walking up the parent chain. A miss
// at the root is a runtime error.
func (e *Env) Assign(name token.Token, v value.Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = v
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, v)
	}
	return &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// GetAt reads name from the frame depth hops up the chain. The resolver
// guarantees the frame exists and holds the name.
func (e *Env) GetAt(depth int, name string) value.Value {
	return e.ancestor(depth).values[name]
}

// AssignAt writes name into the frame depth hops up the chain.
func (e *Env) AssignAt(depth int, name string, v value.Value) {
	e.ancestor(depth).values[name] = v
}

func (e *Env) ancestor(depth int) *Env {
	env := e
	for i := 0; i < depth; i++ {
		env = env.parent
	}
	return env
}
