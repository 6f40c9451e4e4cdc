package cfunc

import (
	"errors"
	"fmt"
	"reflect"
)

// Builtins returns the native function table bundled with this module. It
// covers every name the lowering forms in package ir call by symbol
// (_equal/2 and break/0, used by Foreach's break-swallowing handler) plus a
// handful of other commonly-referenced builtins, enough to compile every
// example program without leaving a CALL_BUILTIN target unresolved.
//
// NArgs counts the implicit input, so _equal/2 (two explicit arguments plus
// input) is NArgs: 3, and a zero-argument builtin like length/0 is NArgs: 1.
func Builtins() Table {
	return Table{
		{Name: "_equal", NArgs: 3, Impl: builtinEqual},
		{Name: "_plus", NArgs: 3, Impl: builtinPlus},
		{Name: "break", NArgs: 1, Impl: builtinBreak},
		{Name: "not", NArgs: 1, Impl: builtinNot},
		{Name: "empty", NArgs: 1, Impl: builtinEmpty},
		{Name: "error", NArgs: 2, Impl: builtinError},
		{Name: "length", NArgs: 1, Impl: builtinLength},
		{Name: "add", NArgs: 1, Impl: builtinAdd},
		{Name: "range", NArgs: 2, Impl: builtinRange},
	}
}

func builtinEqual(_ interface{}, args []interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("_equal: expected 2 arguments, got %d", len(args))
	}
	return reflect.DeepEqual(args[0], args[1]), nil
}

func builtinPlus(_ interface{}, args []interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("_plus: expected 2 arguments, got %d", len(args))
	}
	left, ok1 := args[0].(float64)
	right, ok2 := args[1].(float64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("_plus: expected numeric operands")
	}
	return left + right, nil
}

func builtinBreak(input interface{}, _ []interface{}) (interface{}, error) {
	return nil, errors.New("break")
}

func builtinNot(input interface{}, _ []interface{}) (interface{}, error) {
	truthy, ok := input.(bool)
	return !(ok && truthy), nil
}

func builtinEmpty(_ interface{}, _ []interface{}) (interface{}, error) {
	return nil, nil
}

func builtinError(_ interface{}, args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("error: expected 1 argument, got %d", len(args))
	}
	return nil, fmt.Errorf("%v", args[0])
}

func builtinLength(input interface{}, _ []interface{}) (interface{}, error) {
	switch v := input.(type) {
	case string:
		return len([]rune(v)), nil
	case []interface{}:
		return len(v), nil
	case map[string]interface{}:
		return len(v), nil
	default:
		return 0, nil
	}
}

func builtinAdd(input interface{}, _ []interface{}) (interface{}, error) {
	items, ok := input.([]interface{})
	if !ok {
		return nil, fmt.Errorf("add: expected an array input")
	}
	var sum float64
	for _, item := range items {
		n, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("add: expected numeric array elements")
		}
		sum += n
	}
	return sum, nil
}

func builtinRange(_ interface{}, args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("range: expected 1 argument, got %d", len(args))
	}
	n, ok := args[0].(float64)
	if !ok {
		return nil, fmt.Errorf("range: expected a numeric argument")
	}
	out := make([]interface{}, 0, int(n))
	for i := 0; i < int(n); i++ {
		out = append(out, float64(i))
	}
	return out, nil
}
