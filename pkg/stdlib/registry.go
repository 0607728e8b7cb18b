// Package stdlib provides the native functions pre-populated into the
// global environment: clock, str, len, map, filter, and reduce.
package stdlib

import (
	"github.com/timfan/golox/pkg/evaluator"
	"github.com/timfan/golox/pkg/value"
)

// Native is a built-in callable. Unlike user functions it has no closure
// and no body; errors it raises carry no source token, so they report as
// line 0.
type Native struct {
	name  string
	arity int
	fn    func(args []value.Value) (value.Value, error)
}

func (n *Native) Kind() value.Kind { return value.KindCallable }

func (n *Native) Arity() int { return n.arity }

func (n *Native) Call(args []value.Value) (value.Value, error) {
	return n.fn(args)
}

func (n *Native) String() string { return "<native fn>" }

// Register installs every native into env, normally the interpreter's
// global frame.
func Register(env *evaluator.Env) {
	for _, n := range natives() {
		env.Define(n.name, n)
	}
}

func natives() []*Native {
	return []*Native{
		clockNative(),
		strNative(),
		lenNative(),
		mapNative(),
		filterNative(),
		reduceNative(),
	}
}

func nativeError(message string) error {
	return &evaluator.RuntimeError{Message: message}
}
