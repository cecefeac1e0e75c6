package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyStore is an explicit keyed store with TTL support. Collaborators that
// need transient state (session hints, cached responses) receive this
// interface; core domain logic never touches it.
type KeyStore struct {
	client *redis.Client
}

// NewKeyStore creates a new KeyStore.
func NewKeyStore(client *redis.Client) *KeyStore {
	return &KeyStore{client: client}
}

// Get retrieves the value stored under key. Returns nil on a miss.
func (s *KeyStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Set stores value under key with the given TTL. A zero TTL means no expiry.
func (s *KeyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key from the store.
func (s *KeyStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
