package defaults

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestResolveKeepsNativeValues(t *testing.T) {
	when := time.Date(2020, 5, 6, 7, 8, 9, 0, time.UTC)
	raw := json.RawMessage(`{"k":1}`)
	in := map[string]any{
		"b":    true,
		"n":    3.5,
		"s":    "x",
		"when": when,
		"raw":  raw,
		"blob": []byte("hi"),
		"nil":  nil,
	}
	got, err := Resolve(in, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("natives changed (-in +got):\n%s", diff)
	}
}

func TestResolveCallsDefaultForEveryRecord(t *testing.T) {
	calls := 0
	def := func(v any) (any, error) {
		calls++
		return Simple(v)
	}
	in := []object{
		{ID: 1, Name: "a", Members: []member{{ID: 0, Active: true}, {ID: 1, Active: true}}},
		{ID: 2, Name: "b", Members: []member{{ID: 0, Active: false}}},
	}
	if _, err := Resolve(in, def); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// two objects and three members
	if calls != 5 {
		t.Fatalf("expected 5 default calls, got %d", calls)
	}
}

func TestResolveIntegerKeys(t *testing.T) {
	got, err := Resolve(map[int]member{2: {ID: 2}}, Cached)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := map[string]any{"2": map[string]any{"id": 2, "active": false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestResolveWithoutDefault(t *testing.T) {
	_, err := Resolve([]member{{ID: 1}}, nil)
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if ute.Type.Name() != "member" {
		t.Fatalf("unexpected type in error: %v", ute.Type)
	}
}

func TestResolveStopsRunawayDefaults(t *testing.T) {
	identity := func(v any) (any, error) { return v, nil }
	_, err := Resolve(member{ID: 1}, identity)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestResolvePropagatesDefaultErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Resolve([]any{1, member{}}, func(any) (any, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected default error, got %v", err)
	}
}

func TestResolveUnsupportedKinds(t *testing.T) {
	_, err := Resolve(make(chan int), Cached)
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("expected UnsupportedTypeError for chan, got %v", err)
	}
}
