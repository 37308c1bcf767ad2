package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/jsondefaults/provider"
)

var _ pr.Provider = (*Provider)(nil)

// Provider keeps entries in an in-process Ristretto cache. Entry cost is the
// payload length, so MaxCost is a byte budget.
type Provider struct {
	c *rc.Cache
}

type Config struct {
	NumCounters int64 // 0 => 10x the expected entry count of 1000
	MaxCost     int64 // bytes; 0 => 64 MiB
	BufferItems int64 // 0 => 64
	Metrics     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters < 0 || cfg.MaxCost < 0 || cfg.BufferItems < 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	if cfg.NumCounters == 0 {
		cfg.NumCounters = 10_000
	}
	if cfg.MaxCost == 0 {
		cfg.MaxCost = 64 << 20
	}
	if cfg.BufferItems == 0 {
		cfg.BufferItems = 64
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set waits for Ristretto's write buffer to drain so the entry is visible to
// the next Get.
func (p *Provider) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	ok := p.c.SetWithTTL(key, value, int64(len(value)), ttl)
	p.c.Wait()
	return ok, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes Ristretto's counters when Config.Metrics is set.
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
