package jsondefaults

import (
	"github.com/unkn0wn-root/jsondefaults/codec"
	"github.com/unkn0wn-root/jsondefaults/defaults"
)

// Check selects how Verify compares a method's output.
type Check int

const (
	// CheckExact methods must all produce the same bytes.
	CheckExact Check = iota
	// CheckSemantic methods must decode to the same JSON value as the
	// reference output.
	CheckSemantic
	// CheckNone methods are timed only (binary encoders).
	CheckNone
)

func (c Check) String() string {
	switch c {
	case CheckExact:
		return "exact"
	case CheckSemantic:
		return "semantic"
	case CheckNone:
		return "none"
	default:
		return "unknown"
	}
}

// Method is one row of the comparison.
type Method struct {
	Name    string
	Encoder codec.Encoder[any]
	Check   Check
}

// DefaultBaseline is the method every ratio is relative to.
const DefaultBaseline = "JSON Cached"

// StandardMethods returns the core comparison: encoding/json under each
// default, json-iterator calling each default through its extension hook,
// and json-iterator decomposing records natively.
func StandardMethods() []Method {
	return []Method{
		{Name: "JSON asdict", Encoder: codec.JSON[any]{Default: defaults.Naive}, Check: CheckExact},
		{Name: "JSON Simple", Encoder: codec.JSON[any]{Default: defaults.Simple}, Check: CheckExact},
		{Name: "JSON Cached", Encoder: codec.JSON[any]{Default: defaults.Cached}, Check: CheckExact},
		{Name: "JSONITER asdict", Encoder: codec.NewJsoniter[any](defaults.Naive), Check: CheckSemantic},
		{Name: "JSONITER Simple", Encoder: codec.NewJsoniter[any](defaults.Simple), Check: CheckSemantic},
		{Name: "JSONITER Cached", Encoder: codec.NewJsoniter[any](defaults.Cached), Check: CheckSemantic},
		{Name: "JSONITER Native", Encoder: codec.NewJsoniter[any](nil), Check: CheckSemantic},
	}
}

// ExtendedMethods returns extra JSON rows for sonic, go-json and protojson.
func ExtendedMethods() []Method {
	return []Method{
		{Name: "SONIC Cached", Encoder: codec.Sonic[any]{Default: defaults.Cached}, Check: CheckSemantic},
		{Name: "SONIC Native", Encoder: codec.Sonic[any]{}, Check: CheckSemantic},
		{Name: "GOJSON Cached", Encoder: codec.GoJSON[any]{Default: defaults.Cached}, Check: CheckSemantic},
		{Name: "GOJSON Native", Encoder: codec.GoJSON[any]{}, Check: CheckSemantic},
		{Name: "PROTOJSON Cached", Encoder: codec.ProtoJSON[any]{Default: defaults.Cached}, Check: CheckSemantic},
	}
}

// BinaryMethods returns msgpack and CBOR reference rows. Their output is not
// JSON and is never compared.
func BinaryMethods() []Method {
	return []Method{
		{Name: "MSGPACK Cached", Encoder: codec.Msgpack[any]{Default: defaults.Cached}, Check: CheckNone},
		{Name: "MSGPACK Native", Encoder: codec.Msgpack[any]{}, Check: CheckNone},
		{Name: "CBOR Cached", Encoder: codec.MustCBOR[any](false, defaults.Cached), Check: CheckNone},
		{Name: "CBOR Native", Encoder: codec.MustCBOR[any](false, nil), Check: CheckNone},
	}
}
