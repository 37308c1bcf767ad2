package codec

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/jsondefaults/defaults"
)

// CBOR is a binary reference codec built on fxamacker/cbor. Struct keys
// follow `cbor` tags and fall back to `json` tags.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core Deterministic)
// when you need byte-for-byte stable outputs. Otherwise
// PreferredUnsortedEncOptions are used.
// Time values are encoded as RFC3339Nano.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
	def defaults.Func
}

var _ Codec[struct{}] = CBOR[struct{}]{}

// NewCBOR constructs a CBOR codec. def may be nil for passthrough mode.
func NewCBOR[V any](deterministic bool, def defaults.Func) (CBOR[V], error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{enc: em, dec: dm, def: def}, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Handy for package-level variables in tests.
func MustCBOR[V any](deterministic bool, def defaults.Func) CBOR[V] {
	c, err := NewCBOR[V](deterministic, def)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[V]) Encode(v V) ([]byte, error) {
	if c.def == nil {
		return c.enc.Marshal(v)
	}
	r, err := defaults.Resolve(v, c.def)
	if err != nil {
		return nil, err
	}
	return c.enc.Marshal(r)
}

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
