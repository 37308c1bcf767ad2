package defaults

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrDepthExceeded is returned by Resolve and Naive when a value nests deeper
// than MaxDepth, which in practice means a record refers back to itself or a
// default keeps returning records.
var ErrDepthExceeded = errors.New("defaults: maximum nesting depth exceeded")

// UnsupportedTypeError is returned when a value is neither JSON-native nor
// something the default callback knows how to convert.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	if e.Type == nil {
		return "defaults: unsupported value <nil>"
	}
	return fmt.Sprintf("defaults: object of type %s is not JSON serializable", e.Type)
}
