package defaults

import "reflect"

// Naive converts a record into nested map[string]any values in one go,
// descending into nested records, slices, arrays and string-keyed maps.
// Field metadata is looked up on every call. Values nested deeper than
// MaxDepth, such as a record that points at itself, fail with
// ErrDepthExceeded.
func Naive(v any) (any, error) {
	rv, ok, err := recordValue(v)
	if err != nil || !ok {
		return nil, err
	}
	return asMap(rv, 0)
}

func asMap(rv reflect.Value, depth int) (map[string]any, error) {
	if depth > MaxDepth {
		return nil, ErrDepthExceeded
	}
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		key, ok := fieldKey(t.Field(i))
		if !ok {
			continue
		}
		v, err := asValue(rv.Field(i), depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func asValue(rv reflect.Value, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, ErrDepthExceeded
	}
	switch rv.Kind() {
	case reflect.Invalid:
		return nil, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Kind() == reflect.Pointer && marshalsItself(rv.Type().Elem()) {
			return rv.Interface(), nil
		}
		return asValue(rv.Elem(), depth+1)
	case reflect.Struct:
		if marshalsItself(rv.Type()) {
			return rv.Interface(), nil
		}
		return asMap(rv, depth)
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface(), nil
		}
		return asList(rv, depth)
	case reflect.Array:
		return asList(rv, depth)
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return rv.Interface(), nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			v, err := asValue(iter.Value(), depth+1)
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = v
		}
		return out, nil
	default:
		return rv.Interface(), nil
	}
}

func asList(rv reflect.Value, depth int) ([]any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		v, err := asValue(rv.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
