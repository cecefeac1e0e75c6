package repository

import (
	"context"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

// RiderRepository defines the persistence operations for riders.
type RiderRepository interface {
	// Create persists a new rider.
	Create(ctx context.Context, rider *domain.Rider) error

	// GetByID retrieves a rider by ID.
	GetByID(ctx context.Context, id string) (*domain.Rider, error)

	// GetAll retrieves all riders.
	GetAll(ctx context.Context) ([]*domain.Rider, error)

	// UpdateAvailability updates a rider's availability.
	UpdateAvailability(ctx context.Context, id string, availability domain.RiderAvailability) error
}

// CustomerRepository defines the persistence operations for customers.
type CustomerRepository interface {
	// Create persists a new customer.
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByID retrieves a customer by ID.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}
