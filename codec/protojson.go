package codec

import (
	"encoding/json"
	"errors"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/jsondefaults/defaults"
)

// ErrDefaultRequired is returned by codecs that cannot decompose structs on
// their own and were built without a default.
var ErrDefaultRequired = errors.New("codec: a default func is required")

// ProtoJSON routes values through google.protobuf.Value and renders them with
// protojson. structpb only understands JSON-shaped Go values, so a Default
// is mandatory. protojson output whitespace is not stable across builds;
// compare its output semantically.
type ProtoJSON[V any] struct {
	Default defaults.Func
}

var _ Codec[struct{}] = ProtoJSON[struct{}]{}

func (c ProtoJSON[V]) Encode(v V) ([]byte, error) {
	if c.Default == nil {
		return nil, ErrDefaultRequired
	}
	r, err := defaults.Resolve(v, c.Default)
	if err != nil {
		return nil, err
	}
	pv, err := structpb.NewValue(r)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(pv)
}

func (ProtoJSON[V]) Decode(b []byte) (V, error) {
	var v V
	var pv structpb.Value
	if err := protojson.Unmarshal(b, &pv); err != nil {
		return v, err
	}
	if out, ok := pv.AsInterface().(V); ok {
		return out, nil
	}
	// typed targets: hop through encoding/json
	raw, err := json.Marshal(pv.AsInterface())
	if err != nil {
		return v, err
	}
	err = json.Unmarshal(raw, &v)
	return v, err
}
