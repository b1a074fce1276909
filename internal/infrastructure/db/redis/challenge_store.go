package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const challengeKeyPrefix = "pin_challenge:"

// PINChallengeStore keeps the one-shot markers issued by a successful
// PIN verification. Redis TTLs expire abandoned attempts on their own.
type PINChallengeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPINChallengeStore(client *redis.Client, ttl time.Duration) *PINChallengeStore {
	return &PINChallengeStore{client: client, ttl: ttl}
}

func (s *PINChallengeStore) Put(ctx context.Context, email string) error {
	if err := s.client.Set(ctx, s.key(email), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("store pin challenge: %w", err)
	}
	return nil
}

// Consume atomically removes the marker so a single PIN verification
// cannot authorize two identity exchanges.
func (s *PINChallengeStore) Consume(ctx context.Context, email string) (bool, error) {
	err := s.client.GetDel(ctx, s.key(email)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consume pin challenge: %w", err)
	}
	return true, nil
}

func (s *PINChallengeStore) key(email string) string {
	return challengeKeyPrefix + strings.ToLower(email)
}
