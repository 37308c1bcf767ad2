package codec

import (
	gojson "github.com/goccy/go-json"

	"github.com/unkn0wn-root/jsondefaults/defaults"
)

// GoJSON encodes with goccy/go-json, a drop-in encoding/json replacement.
type GoJSON[V any] struct {
	Default defaults.Func
}

var _ Codec[struct{}] = GoJSON[struct{}]{}

func (c GoJSON[V]) Encode(v V) ([]byte, error) {
	if c.Default == nil {
		return gojson.Marshal(v)
	}
	r, err := defaults.Resolve(v, c.Default)
	if err != nil {
		return nil, err
	}
	return gojson.Marshal(r)
}

func (GoJSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := gojson.Unmarshal(b, &v)
	return v, err
}
