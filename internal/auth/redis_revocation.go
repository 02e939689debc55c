package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevocationStore keeps a per-subject "valid since" unix millisecond timestamp in Redis
type RedisRevocationStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRevocationStore(client redis.UniversalClient, prefix string) *RedisRevocationStore {
	trimmedPrefix := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if trimmedPrefix == "" {
		trimmedPrefix = "debtwatch:revoked_since"
	}
	return &RedisRevocationStore{
		client: client,
		prefix: trimmedPrefix,
		now:    time.Now,
	}
}

func (s *RedisRevocationStore) key(subject string) string {
	return fmt.Sprintf("%s:%s", s.prefix, subject)
}

// ValidSince returns the zero time when the subject was never revoked
func (s *RedisRevocationStore) ValidSince(ctx context.Context, subject string) (time.Time, error) {
	raw, err := s.client.Get(ctx, s.key(subject)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read revocation mark: %w", err)
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid revocation mark %q: %w", raw, err)
	}
	return time.UnixMilli(millis), nil
}

// Revoke marks every token issued before now as revoked. Token iat claims only carry
// whole seconds, so tokens issued earlier within the same second are revoked too.
func (s *RedisRevocationStore) Revoke(ctx context.Context, subject string) error {
	mark := s.now().UnixMilli()
	if err := s.client.Set(ctx, s.key(subject), mark, 0).Err(); err != nil {
		return fmt.Errorf("failed to write revocation mark: %w", err)
	}
	return nil
}
