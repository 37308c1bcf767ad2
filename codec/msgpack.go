package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/jsondefaults/defaults"
)

// Msgpack is a binary reference codec built on vmihailenco/msgpack/v5.
// Struct keys come from `json` tags so its maps line up with the JSON codecs.
// The zero value is ready to use.
type Msgpack[V any] struct {
	Default defaults.Func
}

var _ Codec[struct{}] = Msgpack[struct{}]{}

func (c Msgpack[V]) Encode(v V) ([]byte, error) {
	var in any = v
	if c.Default != nil {
		r, err := defaults.Resolve(v, c.Default)
		if err != nil {
			return nil, err
		}
		in = r
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.SetSortMapKeys(true)
	if err := enc.Encode(in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&v)
	return v, err
}
