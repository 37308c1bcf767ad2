package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/jsondefaults/internal/util"
)

// Sequence hands out run IDs. IDs from one Sequence are strictly increasing.
type Sequence interface {
	// Next atomically increments and returns the new run ID. The first ID is 1.
	Next(ctx context.Context) (uint64, error)
}

// LocalSequence numbers runs within one process (default).
type LocalSequence struct {
	n atomic.Uint64
}

var _ Sequence = (*LocalSequence)(nil)

func (s *LocalSequence) Next(context.Context) (uint64, error) {
	return s.n.Add(1), nil
}

// RedisSequence shares run IDs across processes and survives restarts.
// If the counter key expires, numbering restarts at 1 and older runs are
// overwritten as new ones are saved.
type RedisSequence struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration // optional TTL refreshed on every Next; 0 disables expiry
}

var _ Sequence = (*RedisSequence)(nil)

// NewRedisSequence creates a counter under namespace. The namespace should
// match Options.Namespace of the history using it.
func NewRedisSequence(client redis.UniversalClient, namespace string, ttl time.Duration) *RedisSequence {
	return &RedisSequence{rdb: client, key: util.SeqKey(namespace), ttl: ttl}
}

// Next INCRs the counter. When ttl > 0, INCR + EXPIRE are pipelined in a
// single round-trip.
func (s *RedisSequence) Next(ctx context.Context) (uint64, error) {
	if s.ttl <= 0 {
		return s.rdb.Incr(ctx, s.key).Uint64()
	}

	var incr *redis.IntCmd
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, s.key)
		p.Expire(ctx, s.key, s.ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}
