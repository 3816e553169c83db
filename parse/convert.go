package parse

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/conflang/go-conflang/ir"
)

// convert maps a decoded YAML/JSON value onto an ir tree. YAML mappings
// arrive as yaml.MapSlice (ordered), JSON objects as map[string]any; JSON
// field order is non-semantic so map iteration is sorted for determinism.
func convert(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case yaml.MapSlice:
		obj := ir.Object()
		for _, item := range x {
			key, ok := item.Key.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string object key %v", ErrMalformed, item.Key)
			}
			child, err := convert(item.Value)
			if err != nil {
				return nil, err
			}
			obj.SetField(key, child)
		}
		return obj, nil
	case map[string]any:
		obj := ir.Object()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, err := convert(x[k])
			if err != nil {
				return nil, err
			}
			obj.SetField(k, child)
		}
		return obj, nil
	case []any:
		arr := ir.Array()
		for _, e := range x {
			child, err := convert(e)
			if err != nil {
				return nil, err
			}
			arr.Append(child)
		}
		return arr, nil
	case string:
		return ir.FromString(x), nil
	case bool:
		return ir.FromBool(x), nil
	case int:
		return ir.FromInt(int64(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case uint64:
		return ir.FromInt(int64(x)), nil
	case float64:
		return ir.FromFloat(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return ir.FromInt(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrMalformed, x.String())
		}
		return ir.FromFloat(f), nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %T", ErrMalformed, v)
	}
}
