package redisstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

const scanPageSize = 200

// Store implements kv.Store on top of a Redis client. An optional
// namespace prefix is prepended to every key on the wire and stripped
// again on the way out, which is how per-user scoping works.
type Store struct {
	client    *redis.Client
	namespace string
}

// New creates a deployment-wide store (no namespace).
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// ForUser returns a view of the store whose keys live under a per-user
// namespace. Implements kv.Scoper.
func (s *Store) ForUser(uid string) kv.Store {
	return &Store{client: s.client, namespace: fmt.Sprintf("user:%s:", uid)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.namespace+key).Bytes()
	if err == redis.Nil {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return data, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.namespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.namespace+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// ListByPrefix walks SCAN cursors until exhaustion and fetches the
// matching values in a single pipeline. Keys are re-checked client-side
// so a backend with looser pattern matching still yields a correct
// result.
func (s *Store) ListByPrefix(ctx context.Context, prefix string) ([]kv.Entry, error) {
	pattern := s.namespace + prefix + "*"

	var keys []string
	var cursor uint64
	for {
		page, next, err := s.client.Scan(ctx, cursor, pattern, scanPageSize).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys for %q: %w", prefix, err)
		}
		for _, k := range page {
			if strings.HasPrefix(k, s.namespace+prefix) {
				keys = append(keys, k)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, k := range keys {
		cmds[i] = pipe.Get(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to fetch values for %q: %w", prefix, err)
	}

	entries := make([]kv.Entry, 0, len(keys))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err == redis.Nil {
			// Key expired between scan and fetch.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch value for %q: %w", keys[i], err)
		}
		entries = append(entries, kv.Entry{
			Key:   strings.TrimPrefix(keys[i], s.namespace),
			Value: data,
		})
	}
	return entries, nil
}
