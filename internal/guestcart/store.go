package guestcart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/redis"
)

// Item mirrors the browser-session cart line shape for anonymous shoppers.
type Item struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	PackSize  *string `json:"pack_size,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Payload is the single structure stored per guest token.
type Payload struct {
	Items []Item `json:"items"`
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	GuestCartKey(token string) string
}

// Store keeps anonymous carts in Redis, keyed by guest token and TTL-bounded.
type Store struct {
	kv   kvStore
	ttl  time.Duration
	logg *logger.Logger
}

// NewStore builds the ephemeral guest cart store.
func NewStore(kv *redis.Client, ttl time.Duration, logg *logger.Logger) *Store {
	return &Store{kv: kv, ttl: ttl, logg: logg}
}

func newStoreWithKV(kv kvStore, ttl time.Duration, logg *logger.Logger) *Store {
	return &Store{kv: kv, ttl: ttl, logg: logg}
}

// Load returns the guest cart for the token. A missing key or a payload that
// does not parse yields an empty cart, never an error.
func (s *Store) Load(ctx context.Context, token string) Payload {
	if s == nil || s.kv == nil || token == "" {
		return Payload{}
	}
	raw, err := s.kv.Get(ctx, s.kv.GuestCartKey(token))
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "guest cart read failed, treating as empty")
		}
		return Payload{}
	}
	var payload Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "guest cart payload malformed, treating as empty")
		}
		return Payload{}
	}
	return payload
}

// Save persists the guest cart under the token with the configured TTL.
func (s *Store) Save(ctx context.Context, token string, payload Payload) error {
	if token == "" {
		return errors.New("guest token is required")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.GuestCartKey(token), string(raw), s.ttl)
}

// Delete drops the guest cart; deleting an absent token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.kv.Del(ctx, s.kv.GuestCartKey(token))
}

// Count sums line quantities for the badge. It never fails: anything
// unreadable counts as zero.
func (s *Store) Count(ctx context.Context, token string) int {
	payload := s.Load(ctx, token)
	total := 0
	for _, item := range payload.Items {
		if item.Quantity > 0 {
			total += item.Quantity
		}
	}
	return total
}
