// Package store keeps benchmark reports between rounds and processes.
//
// Each saved value is framed with its run ID (internal/wire) and written under
// a per-run key; a small pointer record names the newest run. Entries that no
// longer decode are deleted on read and reported as misses.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	jd "github.com/unkn0wn-root/jsondefaults"
	"github.com/unkn0wn-root/jsondefaults/codec"
	"github.com/unkn0wn-root/jsondefaults/internal/util"
	"github.com/unkn0wn-root/jsondefaults/internal/wire"
	pr "github.com/unkn0wn-root/jsondefaults/provider"
)

const defaultTTL = 30 * 24 * time.Hour

// History saves values of type V under increasing run IDs.
type History[V any] interface {
	// Save stores v as a new run and makes it the latest.
	Save(ctx context.Context, v V) (runID uint64, err error)

	// Latest returns the newest saved run. ok=false when nothing is stored
	// or the newest entry was unreadable.
	Latest(ctx context.Context) (v V, runID uint64, ok bool, err error)

	// Get returns the run with the given ID; ok=false on miss.
	Get(ctx context.Context, runID uint64) (v V, ok bool, err error)

	// Close releases the provider.
	Close(ctx context.Context) error
}

type Options[V any] struct {
	Namespace string         // required; isolates histories sharing a provider
	Provider  pr.Provider    // required
	Codec     codec.Codec[V] // required

	Sequence  Sequence      // if nil, a LocalSequence is used
	TTL       time.Duration // lifetime of stored runs; 0 => 30 days
	MaxDecode int           // largest payload handed to Codec.Decode; 0 => unlimited

	Logger jd.Logger // if nil, NopLogger is used
	Hooks  jd.Hooks  // if nil, NopHooks is used
}

type history[V any] struct {
	ns       string
	provider pr.Provider
	codec    codec.Codec[V]
	seq      Sequence
	ttl      time.Duration
	log      jd.Logger
	hooks    jd.Hooks
}

var _ History[struct{}] = (*history[struct{}])(nil)

func New[V any](opts Options[V]) (History[V], error) {
	if opts.Provider == nil {
		return nil, errors.New("store: provider is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("store: codec is required")
	}
	if opts.Namespace == "" {
		return nil, errors.New("store: namespace is required")
	}
	if opts.TTL < 0 {
		return nil, fmt.Errorf("store: ttl must be >= 0, got %s", opts.TTL)
	}

	h := &history[V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		ttl:      opts.TTL,
		seq:      opts.Sequence,
		log:      opts.Logger,
		hooks:    opts.Hooks,
	}
	if h.ttl == 0 {
		h.ttl = defaultTTL
	}
	if h.seq == nil {
		h.seq = &LocalSequence{}
	}
	if h.log == nil {
		h.log = jd.NopLogger{}
	}
	if h.hooks == nil {
		h.hooks = jd.NopHooks{}
	}
	if opts.MaxDecode > 0 {
		h.codec = codec.LimitCodec[V]{Inner: opts.Codec, MaxDecode: opts.MaxDecode}
	}
	return h, nil
}

func (h *history[V]) Save(ctx context.Context, v V) (uint64, error) {
	payload, err := h.codec.Encode(v)
	if err != nil {
		return 0, err
	}
	runID, err := h.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("store: next run id: %w", err)
	}

	k := util.RunKey(h.ns, runID)
	ok, err := h.provider.Set(ctx, k, wire.EncodeRecord(runID, payload), h.ttl)
	if err != nil {
		return 0, err
	}
	if !ok {
		// leave the pointer on the previous run rather than on a missing one
		h.log.Warn("run rejected by provider (pressure)", jd.Fields{"run": runID, "bytes": len(payload)})
		return runID, nil
	}
	if _, err := h.provider.Set(ctx, util.LatestKey(h.ns), wire.EncodePointer(runID), h.ttl); err != nil {
		return 0, err
	}
	h.log.Debug("run saved", jd.Fields{"run": runID, "bytes": len(payload)})
	return runID, nil
}

func (h *history[V]) Latest(ctx context.Context) (V, uint64, bool, error) {
	var zero V
	lk := util.LatestKey(h.ns)
	raw, ok, err := h.provider.Get(ctx, lk)
	if err != nil || !ok {
		return zero, 0, false, err
	}
	runID, err := wire.DecodePointer(raw)
	if err != nil {
		h.heal(ctx, lk, err)
		return zero, 0, false, nil
	}
	v, ok, err := h.Get(ctx, runID)
	if err != nil || !ok {
		return zero, 0, false, err
	}
	return v, runID, true, nil
}

func (h *history[V]) Get(ctx context.Context, runID uint64) (V, bool, error) {
	var zero V
	k := util.RunKey(h.ns, runID)
	raw, ok, err := h.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	id, payload, err := wire.DecodeRecord(raw)
	if err != nil {
		h.heal(ctx, k, err)
		return zero, false, nil
	}
	if id != runID {
		h.heal(ctx, k, fmt.Errorf("%w: run %d stored under %d", wire.ErrCorrupt, id, runID))
		return zero, false, nil
	}
	v, err := h.codec.Decode(payload)
	if err != nil {
		h.heal(ctx, k, err)
		return zero, false, nil
	}
	return v, true, nil
}

func (h *history[V]) Close(ctx context.Context) error {
	return h.provider.Close(ctx)
}

// heal drops an unreadable entry so the next reader sees a clean miss.
func (h *history[V]) heal(ctx context.Context, key string, cause error) {
	_ = h.provider.Del(ctx, key)
	h.hooks.HistoryError("load", cause)
	h.log.Warn("dropped unreadable history entry", jd.Fields{"key": key, "err": cause})
}
