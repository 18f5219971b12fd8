package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/jithuth/roneywo/pkg/redis"
)

type draftStorage interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DraftKey(userID string) string
}

// Store persists wizard drafts in Redis with a sliding TTL; every save
// restarts the clock, so only abandoned drafts expire.
type Store struct {
	redis draftStorage
	ttl   time.Duration
}

// NewStore builds a draft store.
func NewStore(client *redisclient.Client, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("draft ttl must be positive")
	}
	return &Store{redis: client, ttl: ttl}, nil
}

// Save writes the draft and refreshes its TTL.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, draft *Draft) error {
	draft.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	return s.redis.Set(ctx, s.redis.DraftKey(userID.String()), payload, s.ttl)
}

// Load returns the draft or nil when none exists.
func (s *Store) Load(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	payload, err := s.redis.Get(ctx, s.redis.DraftKey(userID.String()))
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var draft Draft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return &draft, nil
}

// Delete removes the draft.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.redis.Del(ctx, s.redis.DraftKey(userID.String()))
}
