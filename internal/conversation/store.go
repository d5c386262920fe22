package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/ports"
)

const contextKey = "conversation:context"

// Store persists the single live conversation context. Expiry is lazy: a
// stale record simply reads as absent, the same way cache entries age out
// on read.
type Store struct {
	Storage ports.Storage
	TTL     time.Duration
	Logger  ports.Logger

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// NewStore builds a Store with the given TTL (DefaultContextTTL when <= 0).
func NewStore(storage ports.Storage, ttl time.Duration, log ports.Logger) *Store {
	if ttl <= 0 {
		ttl = domain.DefaultContextTTL
	}
	return &Store{Storage: storage, TTL: ttl, Logger: log}
}

// Load returns the live context, or nil when none exists or the TTL has
// elapsed.
func (s *Store) Load(ctx context.Context) (*domain.ConversationContext, error) {
	data, ok, err := s.Storage.Get(ctx, contextKey)
	if err != nil {
		return nil, fmt.Errorf("load conversation context: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var c domain.ConversationContext
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode conversation context: %w", err)
	}
	if c.Expired(s.now(), s.TTL) {
		return nil, nil
	}
	return &c, nil
}

// Save overwrites the live context (last-write-wins) and stamps it.
func (s *Store) Save(ctx context.Context, c domain.ConversationContext) error {
	if c.Timestamp.IsZero() {
		c.Timestamp = s.now()
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode conversation context: %w", err)
	}
	return s.Storage.Set(ctx, contextKey, data)
}

// Clear drops the live context.
func (s *Store) Clear(ctx context.Context) error {
	return s.Storage.Delete(ctx, contextKey)
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
