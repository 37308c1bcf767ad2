package defaults

import (
	"reflect"
	"sync"
)

// Simple returns a single-level mapping of the record's fields, enumerated
// on every call. Nested records are left as-is for the encoder to hand back.
func Simple(v any) (any, error) {
	rv, ok, err := recordValue(v)
	if err != nil || !ok {
		return nil, err
	}
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		key, ok := fieldKey(t.Field(i))
		if !ok {
			continue
		}
		out[key] = rv.Field(i).Interface()
	}
	return out, nil
}

type field struct {
	index int
	key   string
}

// FieldCache memoizes the field list of each record type. It produces the
// same mappings as Simple. The zero value is ready to use and safe for
// concurrent use.
type FieldCache struct {
	m sync.Map // map[reflect.Type][]field
}

var shared FieldCache

// Cached is Simple backed by a package-level FieldCache.
func Cached(v any) (any, error) {
	return shared.Default(v)
}

// Default is the cached counterpart of Simple.
func (c *FieldCache) Default(v any) (any, error) {
	rv, ok, err := recordValue(v)
	if err != nil || !ok {
		return nil, err
	}
	fields := c.fields(rv.Type())
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.key] = rv.Field(f.index).Interface()
	}
	return out, nil
}

func (c *FieldCache) fields(t reflect.Type) []field {
	if fs, ok := c.m.Load(t); ok {
		return fs.([]field)
	}
	fs := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if key, ok := fieldKey(t.Field(i)); ok {
			fs = append(fs, field{index: i, key: key})
		}
	}
	// concurrent builders compute the same list; keep whichever landed first
	actual, _ := c.m.LoadOrStore(t, fs)
	return actual.([]field)
}

// Len returns the number of record types cached so far.
func (c *FieldCache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Reset drops every cached field list.
func (c *FieldCache) Reset() {
	c.m.Range(func(k, _ any) bool {
		c.m.Delete(k)
		return true
	})
}
