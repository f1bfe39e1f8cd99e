package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edugamify/classroom-api/internal/domain"
)

const keyPrefix = "session:"

// RedisStore keeps each session under session:<hash> with a native TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttlOrDefault(ttl),
		now:    time.Now,
	}
}

func (s *RedisStore) Create(ctx context.Context, personID uint, role domain.Role) (string, Session, error) {
	token, err := NewToken()
	if err != nil {
		return "", Session{}, err
	}

	sess := Session{
		PersonID:  personID,
		Role:      role,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", Session{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+HashToken(token), payload, s.ttl).Err(); err != nil {
		return "", Session{}, fmt.Errorf("s.client.Set -> %w", err)
	}

	return token, sess, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, ErrNotFound
	}
	key := keyPrefix + HashToken(token)

	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}

		return Session{}, fmt.Errorf("s.client.Get -> %w", err)
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	ok, err := s.client.Expire(ctx, key, s.ttl).Result()
	if err != nil {
		return Session{}, fmt.Errorf("s.client.Expire -> %w", err)
	}
	if !ok {
		return Session{}, ErrNotFound
	}
	sess.ExpiresAt = s.now().UTC().Add(s.ttl)

	return sess, nil
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+HashToken(token)).Err(); err != nil {
		return fmt.Errorf("s.client.Del -> %w", err)
	}

	return nil
}
