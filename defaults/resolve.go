package defaults

import (
	"reflect"
	"strconv"
)

// MaxDepth bounds how deep Resolve descends before giving up.
const MaxDepth = 1000

// Resolve rewrites v into values encoding/json-style encoders handle without
// help: bools, numbers, strings, []byte, values that marshal themselves,
// []any and map[string]any. Anything else is passed to def and the result is
// resolved again, the way an encoder with a default hook recurses into what
// the hook returns. A nil def rejects every unknown value.
func Resolve(v any, def Func) (any, error) {
	r := resolver{def: def}
	return r.value(reflect.ValueOf(v), 0)
}

type resolver struct {
	def Func
}

func (r resolver) value(rv reflect.Value, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, ErrDepthExceeded
	}
	if !rv.IsValid() {
		return nil, nil
	}
	if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface && marshalsItself(rv.Type()) {
		return rv.Interface(), nil
	}

	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return rv.Interface(), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		if marshalsItself(rv.Type().Elem()) {
			return rv.Interface(), nil
		}
		return r.value(rv.Elem(), depth+1)
	case reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return r.value(rv.Elem(), depth)
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface(), nil
		}
		return r.list(rv, depth)
	case reflect.Array:
		return r.list(rv, depth)
	case reflect.Map:
		return r.mapping(rv, depth)
	default:
		return r.fallback(rv, depth)
	}
}

func (r resolver) list(rv reflect.Value, depth int) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		item, err := r.value(rv.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

func (r resolver) mapping(rv reflect.Value, depth int) (any, error) {
	if rv.IsNil() {
		return nil, nil
	}
	if m, ok := rv.Interface().(map[string]any); ok && depth > 0 {
		// defaults return map[string]any; reuse it when the values need no work
		if r.native(m) {
			return m, nil
		}
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := mapKey(iter.Key())
		if !ok {
			return r.fallback(rv, depth)
		}
		item, err := r.value(iter.Value(), depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = item
	}
	return out, nil
}

// native reports whether every value of m is a scalar that needs no rewrite.
func (r resolver) native(m map[string]any) bool {
	for _, v := range m {
		switch v.(type) {
		case nil, bool, string, int, int64, float64:
		default:
			return false
		}
	}
	return true
}

func mapKey(k reflect.Value) (string, bool) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), true
	default:
		return "", false
	}
}

func (r resolver) fallback(rv reflect.Value, depth int) (any, error) {
	if r.def == nil {
		return nil, &UnsupportedTypeError{Type: rv.Type()}
	}
	out, err := r.def(rv.Interface())
	if err != nil {
		return nil, err
	}
	return r.value(reflect.ValueOf(out), depth+1)
}
