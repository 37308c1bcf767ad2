package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jd "github.com/unkn0wn-root/jsondefaults"
	"github.com/unkn0wn-root/jsondefaults/codec"
	"github.com/unkn0wn-root/jsondefaults/internal/util"
	"github.com/unkn0wn-root/jsondefaults/internal/wire"
	pr "github.com/unkn0wn-root/jsondefaults/provider"
	"github.com/unkn0wn-root/jsondefaults/provider/bigcache"
	"github.com/unkn0wn-root/jsondefaults/provider/ristretto"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type memProvider struct {
	mu     sync.Mutex
	m      map[string]memEntry
	reject bool
	ttls   map[string]time.Duration
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider {
	return &memProvider{m: make(map[string]memEntry), ttls: make(map[string]time.Duration)}
}

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(p.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reject {
		return false, nil
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	p.m[key] = memEntry{v: value, exp: exp}
	p.ttls[key] = ttl
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.m, key)
	p.mu.Unlock()
	return nil
}

func (p *memProvider) Close(_ context.Context) error { return nil }

func (p *memProvider) has(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.m[key]
	return ok
}

func (p *memProvider) put(key string, v []byte) {
	p.mu.Lock()
	p.m[key] = memEntry{v: v}
	p.mu.Unlock()
}

type errSequence struct{ err error }

func (s errSequence) Next(context.Context) (uint64, error) { return 0, s.err }

type historyHooks struct {
	jd.NopHooks
	mu  sync.Mutex
	ops []string
}

func (h *historyHooks) HistoryError(op string, _ error) {
	h.mu.Lock()
	h.ops = append(h.ops, op)
	h.mu.Unlock()
}

func report(name string, elapsed time.Duration) jd.Report {
	return jd.Report{
		Baseline:   name,
		Iterations: 100,
		StartedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Results:    []jd.Result{{Name: name, Elapsed: elapsed, Ratio: 1, Bytes: 42}},
	}
}

func newTestHistory(t *testing.T, p pr.Provider, optsOpt func(*Options[jd.Report])) History[jd.Report] {
	t.Helper()
	opts := Options[jd.Report]{
		Namespace: "bench",
		Provider:  p,
		Codec:     codec.Msgpack[jd.Report]{},
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	h, err := New(opts)
	require.NoError(t, err)
	return h
}

func TestNewValidation(t *testing.T) {
	mp := newMemProvider()
	cases := map[string]Options[jd.Report]{
		"no provider":  {Namespace: "n", Codec: codec.Msgpack[jd.Report]{}},
		"no codec":     {Namespace: "n", Provider: mp},
		"no namespace": {Provider: mp, Codec: codec.Msgpack[jd.Report]{}},
		"negative ttl": {Namespace: "n", Provider: mp, Codec: codec.Msgpack[jd.Report]{}, TTL: -time.Second},
	}
	for name, opts := range cases {
		_, err := New(opts)
		assert.Error(t, err, name)
	}
}

func TestEmptyHistory(t *testing.T) {
	h := newTestHistory(t, newMemProvider(), nil)
	_, id, ok, err := h.Latest(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, id)

	_, ok, err = h.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLatestGet(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	h := newTestHistory(t, mp, nil)

	first, err := h.Save(ctx, report("JSON Cached", time.Second))
	require.NoError(t, err)
	second, err := h.Save(ctx, report("JSON Cached", 2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)

	got, id, ok, err := h.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, id)
	assert.Equal(t, 2*time.Second, got.Results[0].Elapsed)
	assert.True(t, got.StartedAt.Equal(report("", 0).StartedAt))

	old, ok, err := h.Get(ctx, first)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Second, old.Results[0].Elapsed)

	assert.Equal(t, defaultTTL, mp.ttls[util.RunKey("bench", first)])
	assert.Equal(t, defaultTTL, mp.ttls[util.LatestKey("bench")])
}

func TestNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	a := newTestHistory(t, mp, func(o *Options[jd.Report]) { o.Namespace = "a" })
	b := newTestHistory(t, mp, func(o *Options[jd.Report]) { o.Namespace = "b" })

	_, err := a.Save(ctx, report("a", time.Second))
	require.NoError(t, err)

	_, _, ok, err := b.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptRecordSelfHeals(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	hooks := &historyHooks{}
	h := newTestHistory(t, mp, func(o *Options[jd.Report]) { o.Hooks = hooks })

	id, err := h.Save(ctx, report("x", time.Second))
	require.NoError(t, err)
	k := util.RunKey("bench", id)
	mp.put(k, []byte("garbage"))

	_, _, ok, err := h.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mp.has(k), "corrupt record should be deleted")
	assert.Equal(t, []string{"load"}, hooks.ops)
}

func TestCorruptPointerSelfHeals(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	h := newTestHistory(t, mp, nil)
	_, err := h.Save(ctx, report("x", time.Second))
	require.NoError(t, err)

	lk := util.LatestKey("bench")
	mp.put(lk, wire.EncodeRecord(1, nil))
	_, _, ok, err := h.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mp.has(lk))
}

func TestMisfiledRecordSelfHeals(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	h := newTestHistory(t, mp, nil)
	_, err := h.Save(ctx, report("x", time.Second))
	require.NoError(t, err)

	raw, ok, err := mp.Get(ctx, util.RunKey("bench", 1))
	require.NoError(t, err)
	require.True(t, ok)
	mp.put(util.RunKey("bench", 9), raw)

	_, ok, err = h.Get(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mp.has(util.RunKey("bench", 9)))
}

func TestUndecodablePayloadSelfHeals(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	h := newTestHistory(t, mp, nil)

	k := util.RunKey("bench", 3)
	mp.put(k, wire.EncodeRecord(3, []byte{0xc1})) // 0xc1 is never used by msgpack
	_, ok, err := h.Get(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mp.has(k))
}

func TestMaxDecodeTreatsLargeEntriesAsMisses(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	h := newTestHistory(t, mp, func(o *Options[jd.Report]) { o.MaxDecode = 8 })

	id, err := h.Save(ctx, report("JSON Cached", time.Second))
	require.NoError(t, err)
	_, ok, err := h.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRejectedSaveKeepsPreviousLatest(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	h := newTestHistory(t, mp, nil)

	first, err := h.Save(ctx, report("a", time.Second))
	require.NoError(t, err)

	mp.reject = true
	second, err := h.Save(ctx, report("b", time.Second))
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	_, id, ok, err := h.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, id)
}

func TestSequenceErrorFailsSave(t *testing.T) {
	boom := errors.New("boom")
	h := newTestHistory(t, newMemProvider(), func(o *Options[jd.Report]) { o.Sequence = errSequence{boom} })
	_, err := h.Save(context.Background(), report("a", time.Second))
	assert.ErrorIs(t, err, boom)
}

func TestEncodeErrorFailsSave(t *testing.T) {
	h, err := New(Options[any]{
		Namespace: "bench",
		Provider:  newMemProvider(),
		Codec:     codec.ProtoJSON[any]{}, // refuses to run without a default
	})
	require.NoError(t, err)
	_, err = h.Save(context.Background(), map[string]any{"a": 1})
	assert.ErrorIs(t, err, codec.ErrDefaultRequired)
}

func TestHistoryOverRealProviders(t *testing.T) {
	ctx := context.Background()
	rp, err := ristretto.New(ristretto.Config{})
	require.NoError(t, err)
	bp, err := bigcache.New(ctx, bigcache.Config{LifeWindow: time.Hour, Shards: 16, MaxEntriesInWindow: 1024})
	require.NoError(t, err)

	codecs := map[string]codec.Codec[jd.Report]{
		"msgpack": codec.Msgpack[jd.Report]{},
		"cbor":    codec.MustCBOR[jd.Report](true, nil),
	}
	for pname, p := range map[string]pr.Provider{"ristretto": rp, "bigcache": bp} {
		for cname, c := range codecs {
			h := newTestHistory(t, p, func(o *Options[jd.Report]) {
				o.Namespace = pname + "/" + cname
				o.Codec = c
			})
			want := report("JSON Cached", 1500*time.Millisecond)
			id, err := h.Save(ctx, want)
			require.NoError(t, err)

			got, gotID, ok, err := h.Latest(ctx)
			require.NoError(t, err, pname+"/"+cname)
			require.True(t, ok, pname+"/"+cname)
			assert.Equal(t, id, gotID)
			assert.Equal(t, want.Results, got.Results, pname+"/"+cname)
			assert.True(t, want.StartedAt.Equal(got.StartedAt), pname+"/"+cname)
		}
	}
	require.NoError(t, rp.Close(ctx))
	require.NoError(t, bp.Close(ctx))
}

func TestLocalSequenceIsMonotonicUnderConcurrency(t *testing.T) {
	var s LocalSequence
	const workers, per = 8, 100

	var wg sync.WaitGroup
	ids := make(chan uint64, workers*per)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				id, _ := s.Next(context.Background())
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool, workers*per)
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*per)
	assert.True(t, seen[1])
	assert.True(t, seen[workers*per])
}
