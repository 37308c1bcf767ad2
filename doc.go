// Package jsondefaults compares ways of turning records (Go structs) into JSON
// when the encoder hands each record to a default callback, against encoders
// that decompose records natively.
//
// Components:
//   - defaults: the Naive, Simple and Cached default callbacks and Resolve.
//   - codec: encoders built on encoding/json, json-iterator, sonic, go-json,
//     protojson, msgpack and CBOR, each in passthrough or fallback mode.
//   - Bench: verifies that methods agree, times them and reports ratios
//     against a baseline method.
//   - store: keeps reports between rounds or runs (Ristretto, BigCache, Redis).
//
// Usage:
//
//	b, _ := jsondefaults.New(jsondefaults.Options{})
//	rep, err := b.Run(ctx, jsondefaults.Fixture(jsondefaults.DefaultObjects, jsondefaults.DefaultMembers))
//	_ = jsondefaults.WriteTable(os.Stdout, rep)
package jsondefaults
