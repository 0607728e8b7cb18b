package evaluator

import (
	"github.com/timfan/golox/pkg/ast"
	"github.com/timfan/golox/pkg/value"
)

// UserFunction is a function or lambda declared in the program, paired
// with the environment that was current at its declaration. Calls chain
// their frame onto that closure, not onto the caller's environment.
type UserFunction struct {
	decl    *ast.Function
	closure *Env
	interp  *Interpreter
}

func (f *UserFunction) Kind() value.Kind { return value.KindCallable }

func (f *UserFunction) Arity() int { return len(f.decl.Params) }

// Call binds the arguments in a fresh frame over the closure and runs
// the body. A return signal stops the body and supplies the result;
// falling off the end yields nil.
func (f *UserFunction) Call(args []value.Value) (value.Value, error) {
	env := NewEnv(f.closure)
	for idx, param := range f.decl.Params {
		env.Define(param.Lexeme, args[idx])
	}
	sig, err := f.interp.executeBlock(f.decl.Body, env)
	if err != nil {
		return nil, err
	}
	if sig.kind == sigReturn {
		return sig.val, nil
	}
	return value.Nil{}, nil
}

// String names the function; lambdas carry their keyword as the name.
func (f *UserFunction) String() string {
	return "<fn " + f.decl.Name.Lexeme + ">"
}
