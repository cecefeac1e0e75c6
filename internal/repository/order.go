package repository

import (
	"context"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by internal ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetByCode retrieves an order by its external short code.
	GetByCode(ctx context.Context, code string) (*domain.Order, error)

	// GetForUpdate retrieves an order and holds a row-level exclusive lock on
	// it. Only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, id string) (*domain.Order, error)

	// Update updates an existing order.
	Update(ctx context.Context, order *domain.Order) error

	// CountActiveByRider counts the rider's orders in a non-terminal state.
	CountActiveByRider(ctx context.Context, riderID string) (int, error)

	// ListByCustomer retrieves a customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
}

// TimelineRepository defines the append-only store of order status history.
type TimelineRepository interface {
	// Append persists one timeline entry. Entries are never updated or
	// deleted.
	Append(ctx context.Context, entry *domain.TimelineEntry) error

	// ListByOrder retrieves an order's timeline ordered by creation time.
	ListByOrder(ctx context.Context, orderID string) ([]*domain.TimelineEntry, error)
}
