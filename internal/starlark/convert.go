package starlark

import (
	"fmt"

	"go.starlark.net/starlark"
)

// GoToStarlark converts a plain Go value (the shapes produced by JSON
// decoding) to a Starlark value.
func GoToStarlark(v any) (starlark.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlark.None, nil
	case bool:
		return starlark.Bool(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int32:
		return starlark.MakeInt64(int64(val)), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case uint64:
		return starlark.MakeUint64(val), nil
	case float32:
		return starlark.Float(float64(val)), nil
	case float64:
		return starlark.Float(val), nil
	case string:
		return starlark.String(val), nil
	case []any:
		elems := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, err
			}
			elems[i] = sv
		}
		return starlark.NewList(elems), nil
	case map[string]any:
		dict := starlark.NewDict(len(val))
		for key, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(starlark.String(key), sv); err != nil {
				return nil, err
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported argument type: %T", v)
	}
}

// StarlarkToGo converts a Starlark value to a plain Go value suitable for
// JSON serialization.
func StarlarkToGo(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		if i, ok := val.Int64(); ok {
			return i, nil
		}
		// Too large for int64, fall back to decimal string
		return val.String(), nil
	case starlark.Float:
		return float64(val), nil
	case starlark.String:
		return string(val), nil
	case starlark.Tuple:
		result := make([]any, len(val))
		for i, item := range val {
			converted, err := StarlarkToGo(item)
			if err != nil {
				return nil, err
			}
			result[i] = converted
		}
		return result, nil
	case *starlark.List:
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			converted, err := StarlarkToGo(val.Index(i))
			if err != nil {
				return nil, err
			}
			result[i] = converted
		}
		return result, nil
	case *starlark.Set:
		result := make([]any, 0, val.Len())
		iter := val.Iterate()
		defer iter.Done()
		var item starlark.Value
		for iter.Next(&item) {
			converted, err := StarlarkToGo(item)
			if err != nil {
				return nil, err
			}
			result = append(result, converted)
		}
		return result, nil
	case *starlark.Dict:
		result := make(map[string]any, val.Len())
		for _, key := range val.Keys() {
			str, ok := key.(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key %s is not a string", key.String())
			}
			item, _, _ := val.Get(key)
			converted, err := StarlarkToGo(item)
			if err != nil {
				return nil, err
			}
			result[string(str)] = converted
		}
		return result, nil
	default:
		// Fall back to the value's string form
		return val.String(), nil
	}
}
