package codec

import (
	"encoding/json"

	"github.com/unkn0wn-root/jsondefaults/defaults"
)

// JSON is the encoding/json codec. encoding/json has no per-type hook, so
// with a Default set the value is first rewritten by defaults.Resolve.
// The zero value encodes in passthrough mode.
type JSON[V any] struct {
	Default defaults.Func
}

var _ Codec[struct{}] = JSON[struct{}]{}

func (c JSON[V]) Encode(v V) ([]byte, error) {
	if c.Default == nil {
		return json.Marshal(v)
	}
	r, err := defaults.Resolve(v, c.Default)
	if err != nil {
		return nil, err
	}
	return json.Marshal(r)
}

func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
