// Package tokenstore holds the console's session token, the one piece of state a
// console keeps beyond its in-memory query cache.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store is read on every outgoing request, so a login that happens after the
// gateway was built is picked up immediately.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type memoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Get(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *memoryStore) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	return s.Set(ctx, "")
}

type redisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore keeps the token under "console:<app>:token".
func NewRedisStore(client *redis.Client, app string) Store {
	return &redisStore{
		client: client,
		key:    fmt.Sprintf("console:%s:token", app),
	}
}

func (s *redisStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

func (s *redisStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}
