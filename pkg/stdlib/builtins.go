package stdlib

import (
	"time"

	"github.com/timfan/golox/pkg/value"
)

func clockNative() *Native {
	return &Native{
		name:  "clock",
		arity: 0,
		fn: func([]value.Value) (value.Value, error) {
			return value.Number(float64(time.Now().UnixMilli()) / 1000.0), nil
		},
	}
}

func strNative() *Native {
	return &Native{
		name:  "str",
		arity: 1,
		fn: func(args []value.Value) (value.Value, error) {
			return value.String(value.Stringify(args[0])), nil
		},
	}
}

func lenNative() *Native {
	return &Native{
		name:  "len",
		arity: 1,
		fn: func(args []value.Value) (value.Value, error) {
			arr, ok := args[0].(*value.Array)
			if !ok {
				return nil, nativeError("First argument to len must be an array.")
			}
			return value.Number(float64(len(arr.Elements))), nil
		},
	}
}
