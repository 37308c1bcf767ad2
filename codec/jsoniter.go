package codec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"

	"github.com/unkn0wn-root/jsondefaults/defaults"
)

// Jsoniter is a json-iterator codec configured to match encoding/json
// output byte for byte (sorted map keys, HTML escaping, float formatting).
//
// Unlike the other JSON codecs it does not pre-resolve values: the default
// is installed as a per-config extension, so the encoder calls it whenever it
// meets a record and streams whatever comes back, recursing on its own.
// The zero value is NOT ready to use. Construct with NewJsoniter.
type Jsoniter[V any] struct {
	api jsoniter.API
}

var _ Codec[struct{}] = Jsoniter[struct{}]{}

// NewJsoniter builds a codec with its own frozen config. def may be nil for
// passthrough mode. Each call gets a fresh encoder cache, so codecs built
// with different defaults never share compiled encoders.
func NewJsoniter[V any](def defaults.Func) Jsoniter[V] {
	api := jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&floatExtension{})
	if def != nil {
		api.RegisterExtension(&fallbackExtension{def: def})
	}
	return Jsoniter[V]{api: api}
}

func (c Jsoniter[V]) Encode(v V) ([]byte, error) {
	return c.api.Marshal(v)
}

func (c Jsoniter[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.api.Unmarshal(b, &v)
	return v, err
}

type fallbackExtension struct {
	jsoniter.DummyExtension
	def defaults.Func
}

func (e *fallbackExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if typ.Kind() != reflect.Struct || !defaults.IsRecord(typ.New()) {
		return nil
	}
	return &fallbackEncoder{typ: typ, def: e.def}
}

// fallbackEncoder tracks nesting in stream.Attachment so a default that
// keeps returning records fails instead of overflowing the stack.
type fallbackEncoder struct {
	typ reflect2.Type
	def defaults.Func
}

func (e *fallbackEncoder) IsEmpty(unsafe.Pointer) bool { return false }

func (e *fallbackEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	if stream.Error != nil {
		return
	}
	depth, _ := stream.Attachment.(int)
	if depth >= defaults.MaxDepth {
		stream.Error = defaults.ErrDepthExceeded
		return
	}
	out, err := e.def(e.typ.UnsafeIndirect(ptr))
	if err != nil {
		stream.Error = err
		return
	}
	stream.Attachment = depth + 1
	stream.WriteVal(out)
	stream.Attachment = depth
}

// floatExtension formats floats the way encoding/json does. json-iterator
// keeps strconv's two-digit exponent ("1e-07") where encoding/json writes
// "1e-7".
type floatExtension struct {
	jsoniter.DummyExtension
}

func (floatExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	switch typ.Kind() {
	case reflect.Float32:
		return floatEncoder{bits: 32}
	case reflect.Float64:
		return floatEncoder{bits: 64}
	}
	return nil
}

type floatEncoder struct {
	bits int
}

func (e floatEncoder) value(ptr unsafe.Pointer) float64 {
	if e.bits == 32 {
		return float64(*(*float32)(ptr))
	}
	return *(*float64)(ptr)
}

func (e floatEncoder) IsEmpty(ptr unsafe.Pointer) bool { return e.value(ptr) == 0 }

func (e floatEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	f := e.value(ptr)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		stream.Error = fmt.Errorf("json: unsupported value: %s", strconv.FormatFloat(f, 'g', -1, e.bits))
		return
	}
	stream.SetBuffer(appendFloat(stream.Buffer(), f, e.bits))
}

// appendFloat mirrors encoding/json: ES6 number formatting with exponents
// below 1e-6 and from 1e21, and the exponent's leading zero dropped.
func appendFloat(b []byte, f float64, bits int) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	b = strconv.AppendFloat(b, f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return b
}
