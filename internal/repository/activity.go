package repository

import (
	"context"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

// ActivityRepository defines the append-only store of domain events.
type ActivityRepository interface {
	// Append persists one activity entry.
	Append(ctx context.Context, entry *domain.ActivityEntry) error

	// ListByTarget retrieves activity entries about an entity, newest first.
	ListByTarget(ctx context.Context, targetID string) ([]*domain.ActivityEntry, error)
}
