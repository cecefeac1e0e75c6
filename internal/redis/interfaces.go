package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for rider location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, riderID string, lat, lng float64) error
	FindNearbyRiders(ctx context.Context, lat, lng, radiusKm float64) ([]RiderLocation, error)
	RemoveLocation(ctx context.Context, riderID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireRiderLock(ctx context.Context, riderID string, ttl time.Duration) (bool, error)
	ReleaseRiderLock(ctx context.Context, riderID string) error
	AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (bool, error)
	ReleaseOrderLock(ctx context.Context, orderID string) error
}

// KeyStoreInterface defines the interface for the keyed TTL store.
type KeyStoreInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ KeyStoreInterface      = (*KeyStore)(nil)
)
