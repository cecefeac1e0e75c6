package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

const orderColumns = `
	id, code, customer_id, rider_id, candidate_rider_id, vehicle_class,
	status, payment_method, payment_by, paid,
	amount, platform_fee, tip, currency,
	distance_km, duration_seconds,
	pickup_address, pickup_lat, pickup_lng,
	delivery_address, delivery_lat, delivery_lng,
	stopovers, cancel_reason, cancelled_at, created_at, updated_at`

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	`

	stopovers, err := json.Marshal(order.Stopovers)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		order.ID,
		order.Code,
		order.CustomerID,
		nullString(order.RiderID),
		nullString(order.CandidateRiderID),
		order.VehicleClass,
		order.Status,
		order.PaymentMethod,
		order.PaymentBy,
		order.Paid,
		order.Amount,
		order.PlatformFee,
		order.Tip,
		order.Currency,
		order.DistanceKm,
		int64(order.Duration/time.Second),
		order.Pickup.Address,
		order.Pickup.Lat,
		order.Pickup.Lng,
		order.Delivery.Address,
		order.Delivery.Lat,
		order.Delivery.Lng,
		stopovers,
		nullString(order.CancelReason),
		nullTime(order.CancelledAt),
		order.CreatedAt,
		order.UpdatedAt,
	)

	return err
}

// GetByID retrieves an order by internal ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByCode retrieves an order by its external short code.
func (r *OrderRepository) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE code = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, code))
}

// GetForUpdate retrieves an order holding a row-level exclusive lock.
func (r *OrderRepository) GetForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// Update updates an existing order.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET rider_id = $1, candidate_rider_id = $2, status = $3, paid = $4,
		    tip = $5, cancel_reason = $6, cancelled_at = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(order.RiderID),
		nullString(order.CandidateRiderID),
		order.Status,
		order.Paid,
		order.Tip,
		nullString(order.CancelReason),
		nullTime(order.CancelledAt),
		order.UpdatedAt,
		order.ID,
	)
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

// CountActiveByRider counts the rider's orders in a non-terminal state.
func (r *OrderRepository) CountActiveByRider(ctx context.Context, riderID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM orders
		WHERE (rider_id = $1 OR candidate_rider_id = $1)
		  AND status NOT IN ($2, $3)
	`

	var count int
	err := r.q.QueryRowContext(ctx, query, riderID,
		domain.OrderStatusCompleted, domain.OrderStatusCancelled).Scan(&count)
	return count, err
}

// ListByCustomer retrieves a customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *OrderRepository) scanOne(row *sql.Row) (*domain.Order, error) {
	order, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) scanRow(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var riderID, candidateRiderID, cancelReason sql.NullString
	var cancelledAt sql.NullTime
	var stopovers []byte
	var durationSeconds int64

	err := row.Scan(
		&order.ID,
		&order.Code,
		&order.CustomerID,
		&riderID,
		&candidateRiderID,
		&order.VehicleClass,
		&order.Status,
		&order.PaymentMethod,
		&order.PaymentBy,
		&order.Paid,
		&order.Amount,
		&order.PlatformFee,
		&order.Tip,
		&order.Currency,
		&order.DistanceKm,
		&durationSeconds,
		&order.Pickup.Address,
		&order.Pickup.Lat,
		&order.Pickup.Lng,
		&order.Delivery.Address,
		&order.Delivery.Lat,
		&order.Delivery.Lng,
		&stopovers,
		&cancelReason,
		&cancelledAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Duration = time.Duration(durationSeconds) * time.Second
	if riderID.Valid {
		order.RiderID = riderID.String
	}
	if candidateRiderID.Valid {
		order.CandidateRiderID = candidateRiderID.String
	}
	if cancelReason.Valid {
		order.CancelReason = cancelReason.String
	}
	if cancelledAt.Valid {
		order.CancelledAt = cancelledAt.Time
	}
	if len(stopovers) > 0 {
		if err := json.Unmarshal(stopovers, &order.Stopovers); err != nil {
			return nil, err
		}
	}

	return &order, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
