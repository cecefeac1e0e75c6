package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. Locks are advisory and
// short-lived; the database row lock remains the source of truth for
// correctness.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireRiderLock attempts to acquire a lock for the given rider.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireRiderLock(ctx context.Context, riderID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:rider:%s", riderID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseRiderLock releases the lock for the given rider.
func (s *LockStore) ReleaseRiderLock(ctx context.Context, riderID string) error {
	key := fmt.Sprintf("lock:rider:%s", riderID)

	return s.client.Del(ctx, key).Err()
}

// AcquireOrderLock attempts to acquire a lock for dispatching an order.
// Returns true if the lock was acquired, false if another dispatch holds it.
func (s *LockStore) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:order:%s", orderID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseOrderLock releases the dispatch lock for an order.
func (s *LockStore) ReleaseOrderLock(ctx context.Context, orderID string) error {
	key := fmt.Sprintf("lock:order:%s", orderID)

	return s.client.Del(ctx, key).Err()
}
