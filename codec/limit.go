package codec

import "fmt"

// LimitCodec wraps another codec to enforce a maximum payload size at Decode
// time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
type LimitCodec[V any] struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec[V]
	// MaxDecode is the largest payload, in bytes, handed to Inner.Decode.
	MaxDecode int
}

var _ Codec[struct{}] = LimitCodec[struct{}]{}

func (c LimitCodec[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }
func (c LimitCodec[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, &PayloadTooLargeError{Size: len(b), Limit: c.MaxDecode}
	}
	return c.Inner.Decode(b)
}

// PayloadTooLargeError is returned by LimitCodec.Decode.
type PayloadTooLargeError struct {
	Size  int
	Limit int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large: %d > %d", e.Size, e.Limit)
}
