package guestcart

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type stubKV struct {
	values map[string]string
	getErr error
}

func newStubKV() *stubKV {
	return &stubKV{values: map[string]string{}}
}

func (s *stubKV) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	val, ok := s.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return val, nil
}

func (s *stubKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *stubKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubKV) GuestCartKey(token string) string { return "sbe:guestcart:" + token }

func TestCountSumsQuantities(t *testing.T) {
	t.Parallel()

	kv := newStubKV()
	store := newStoreWithKV(kv, time.Hour, nil)

	payload := Payload{Items: []Item{
		{ID: "1", ProductID: "p1", Quantity: 2},
		{ID: "2", ProductID: "p2", Quantity: 3},
	}}
	if err := store.Save(context.Background(), "tok", payload); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := store.Count(context.Background(), "tok"); got != 5 {
		t.Fatalf("expected count 5, got %d", got)
	}
}

func TestCountMissingTokenIsZero(t *testing.T) {
	t.Parallel()

	store := newStoreWithKV(newStubKV(), time.Hour, nil)
	if got := store.Count(context.Background(), "absent"); got != 0 {
		t.Fatalf("expected 0 for missing cart, got %d", got)
	}
}

func TestCountMalformedPayloadIsZero(t *testing.T) {
	t.Parallel()

	kv := newStubKV()
	kv.values[kv.GuestCartKey("tok")] = "{not json"
	store := newStoreWithKV(kv, time.Hour, nil)

	if got := store.Count(context.Background(), "tok"); got != 0 {
		t.Fatalf("expected 0 for malformed cart, got %d", got)
	}
}

func TestCountReadErrorIsZero(t *testing.T) {
	t.Parallel()

	kv := newStubKV()
	kv.getErr = errors.New("connection refused")
	store := newStoreWithKV(kv, time.Hour, nil)

	if got := store.Count(context.Background(), "tok"); got != 0 {
		t.Fatalf("expected 0 when the store is unreachable, got %d", got)
	}
}

func TestDeleteRemovesPayload(t *testing.T) {
	t.Parallel()

	kv := newStubKV()
	store := newStoreWithKV(kv, time.Hour, nil)
	if err := store.Save(context.Background(), "tok", Payload{Items: []Item{{ID: "1", ProductID: "p", Quantity: 1}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(context.Background(), "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := store.Count(context.Background(), "tok"); got != 0 {
		t.Fatalf("expected empty cart after delete, got %d", got)
	}
}
