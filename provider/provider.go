// Package provider defines the byte store that keeps run history.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation).
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL; ttl <= 0 means no expiry where the
	// store supports it. A Get for the same key that follows a successful Set
	// must observe the value unless it was evicted.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
