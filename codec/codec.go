// Package codec turns values into bytes with a range of JSON and binary
// libraries. Most codecs take an optional defaults.Func: when it is nil the
// library decomposes structs natively (passthrough), otherwise every record
// is routed through the default callback first.
package codec

// Encoder serializes values of type V.
type Encoder[V any] interface {
	Encode(V) ([]byte, error)
}

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encoder[V]
	Decode([]byte) (V, error)
}
