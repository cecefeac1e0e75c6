package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// RiderRepository is a PostgreSQL implementation of repository.RiderRepository.
type RiderRepository struct {
	q Querier
}

// NewRiderRepository creates a new PostgreSQL rider repository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{q: db}
}

// NewRiderRepositoryWithTx creates a rider repository using a transaction.
func NewRiderRepositoryWithTx(tx *sql.Tx) *RiderRepository {
	return &RiderRepository{q: tx}
}

// Create persists a new rider.
func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	query := `
		INSERT INTO riders (id, name, phone, status, availability, vehicle_class, approved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		rider.ID,
		rider.Name,
		rider.Phone,
		rider.Status,
		rider.Availability,
		rider.VehicleClass,
		nullTime(rider.ApprovedAt),
		rider.CreatedAt,
	)
	return err
}

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	query := `
		SELECT id, name, phone, status, availability, vehicle_class, approved_at, created_at
		FROM riders WHERE id = $1
	`

	var rider domain.Rider
	var approvedAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&rider.ID,
		&rider.Name,
		&rider.Phone,
		&rider.Status,
		&rider.Availability,
		&rider.VehicleClass,
		&approvedAt,
		&rider.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if approvedAt.Valid {
		rider.ApprovedAt = approvedAt.Time
	}
	return &rider, nil
}

// GetAll retrieves all riders.
func (r *RiderRepository) GetAll(ctx context.Context) ([]*domain.Rider, error) {
	query := `
		SELECT id, name, phone, status, availability, vehicle_class, approved_at, created_at
		FROM riders ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var riders []*domain.Rider
	for rows.Next() {
		var rider domain.Rider
		var approvedAt sql.NullTime
		if err := rows.Scan(
			&rider.ID,
			&rider.Name,
			&rider.Phone,
			&rider.Status,
			&rider.Availability,
			&rider.VehicleClass,
			&approvedAt,
			&rider.CreatedAt,
		); err != nil {
			return nil, err
		}
		if approvedAt.Valid {
			rider.ApprovedAt = approvedAt.Time
		}
		riders = append(riders, &rider)
	}
	return riders, rows.Err()
}

// UpdateAvailability updates a rider's availability.
func (r *RiderRepository) UpdateAvailability(ctx context.Context, id string, availability domain.RiderAvailability) error {
	query := `UPDATE riders SET availability = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, availability, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CustomerRepository is a PostgreSQL implementation of repository.CustomerRepository.
type CustomerRepository struct {
	q Querier
}

// NewCustomerRepository creates a new PostgreSQL customer repository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{q: db}
}

// Create persists a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.CreatedAt,
	)
	return err
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT id, name, phone, email, created_at FROM customers WHERE id = $1`

	var customer domain.Customer
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Phone,
		&customer.Email,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}
