package stdlib

import (
	"github.com/timfan/golox/pkg/evaluator"
	"github.com/timfan/golox/pkg/value"
)

// The higher-order natives require a user-declared function, not another
// native, and check its arity before iterating.

func mapNative() *Native {
	return &Native{
		name:  "map",
		arity: 2,
		fn: func(args []value.Value) (value.Value, error) {
			fn, ok := args[0].(*evaluator.UserFunction)
			if !ok {
				return nil, nativeError("First argument to map must be a function.")
			}
			if fn.Arity() != 1 {
				return nil, nativeError("Map function must take exactly one argument.")
			}
			arr, ok := args[1].(*value.Array)
			if !ok {
				return nil, nativeError("Second argument to map must be an array.")
			}
			out := make([]value.Value, len(arr.Elements))
			for i, el := range arr.Elements {
				v, err := fn.Call([]value.Value{el})
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return value.NewArray(out), nil
		},
	}
}

func filterNative() *Native {
	return &Native{
		name:  "filter",
		arity: 2,
		fn: func(args []value.Value) (value.Value, error) {
			fn, ok := args[0].(*evaluator.UserFunction)
			if !ok {
				return nil, nativeError("First argument to filter must be a function.")
			}
			if fn.Arity() != 1 {
				return nil, nativeError("Filter function must take exactly one argument.")
			}
			arr, ok := args[1].(*value.Array)
			if !ok {
				return nil, nativeError("Second argument to filter must be an array.")
			}
			var out []value.Value
			for _, el := range arr.Elements {
				keep, err := fn.Call([]value.Value{el})
				if err != nil {
					return nil, err
				}
				if value.Truthy(keep) {
					out = append(out, el)
				}
			}
			return value.NewArray(out), nil
		},
	}
}

func reduceNative() *Native {
	return &Native{
		name:  "reduce",
		arity: 2,
		fn: func(args []value.Value) (value.Value, error) {
			fn, ok := args[0].(*evaluator.UserFunction)
			if !ok {
				return nil, nativeError("First argument to reduce must be a function.")
			}
			if fn.Arity() != 2 {
				return nil, nativeError("Reducer function must take exactly two arguments.")
			}
			arr, ok := args[1].(*value.Array)
			if !ok {
				return nil, nativeError("Second argument to reduce must be an array.")
			}
			elems := arr.Elements
			if len(elems) == 0 {
				return value.Nil{}, nil
			}
			acc := elems[0]
			for _, el := range elems[1:] {
				var err error
				if acc, err = fn.Call([]value.Value{acc, el}); err != nil {
					return nil, err
				}
			}
			return acc, nil
		},
	}
}
