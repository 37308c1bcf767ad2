// Package defaults holds the fallback ("default") conversion callbacks handed
// to JSON encoders for values they cannot serialize natively, plus Resolve,
// which applies such a callback across a whole value for encoders that have
// no per-type hook of their own.
//
// A record is a struct (or a non-nil pointer to one) that does not marshal
// itself. Field keys follow encoding/json naming: the `json` tag name when
// present, otherwise the Go field name. Unexported fields and fields tagged
// `json:"-"` are skipped; tag options such as omitempty are ignored.
package defaults

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strings"
)

// Func converts v into a value the encoder can serialize.
type Func func(v any) (any, error)

var (
	marshalerType     = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// IsRecord reports whether v is a record.
func IsRecord(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return isRecordType(t)
}

func isRecordType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && !marshalsItself(t)
}

// marshalsItself reports whether encoders treat t as a native value.
func marshalsItself(t reflect.Type) bool {
	if t.Implements(marshalerType) || t.Implements(textMarshalerType) {
		return true
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(marshalerType) || pt.Implements(textMarshalerType)
}

// recordValue unwraps v down to its struct value. ok is false for nil
// pointers, which convert to null.
func recordValue(v any) (rv reflect.Value, ok bool, err error) {
	rv = reflect.ValueOf(v)
	if !rv.IsValid() {
		return rv, false, &UnsupportedTypeError{Type: nil}
	}
	if rv.Kind() == reflect.Pointer {
		if !isRecordType(rv.Type().Elem()) {
			return rv, false, &UnsupportedTypeError{Type: rv.Type()}
		}
		if rv.IsNil() {
			return rv, false, nil
		}
		rv = rv.Elem()
	}
	if !isRecordType(rv.Type()) {
		return rv, false, &UnsupportedTypeError{Type: rv.Type()}
	}
	return rv, true, nil
}

// fieldKey returns the JSON key for sf, or ok=false when the field is not
// part of the record's mapping.
func fieldKey(sf reflect.StructField) (key string, ok bool) {
	if !sf.IsExported() {
		return "", false
	}
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return sf.Name, true
}
