package codec

import (
	"github.com/bytedance/sonic"

	"github.com/unkn0wn-root/jsondefaults/defaults"
)

// Sonic encodes with bytedance/sonic using its encoding/json compatible
// config. Sonic has no per-type hook; a Default is applied through
// defaults.Resolve before marshaling.
type Sonic[V any] struct {
	Default defaults.Func
}

var _ Codec[struct{}] = Sonic[struct{}]{}

func (c Sonic[V]) Encode(v V) ([]byte, error) {
	if c.Default == nil {
		return sonic.ConfigStd.Marshal(v)
	}
	r, err := defaults.Resolve(v, c.Default)
	if err != nil {
		return nil, err
	}
	return sonic.ConfigStd.Marshal(r)
}

func (Sonic[V]) Decode(b []byte) (V, error) {
	var v V
	err := sonic.ConfigStd.Unmarshal(b, &v)
	return v, err
}
