// Package redis stores each blob as a single Redis string.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"turnero/internal/blobstore/core"
)

const keyPrefix = "turnero:blob:"

// Store implements core.Store on Redis. Values never expire.
type Store struct {
	client redis.UniversalClient
}

// New wraps an existing client; the client lifecycle stays with the caller
// unless Close is called.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func (s *Store) Driver() core.Driver { return core.DriverRedis }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }
