package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

// TimelineRepository is a PostgreSQL implementation of repository.TimelineRepository.
type TimelineRepository struct {
	q Querier
}

// NewTimelineRepository creates a new PostgreSQL timeline repository.
func NewTimelineRepository(db *sql.DB) *TimelineRepository {
	return &TimelineRepository{q: db}
}

// NewTimelineRepositoryWithTx creates a timeline repository using a transaction.
func NewTimelineRepositoryWithTx(tx *sql.Tx) *TimelineRepository {
	return &TimelineRepository{q: tx}
}

// Append persists one timeline entry. There is no update or delete path.
func (r *TimelineRepository) Append(ctx context.Context, entry *domain.TimelineEntry) error {
	query := `
		INSERT INTO order_timeline (id, order_id, status, proof_url, reason, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	meta, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		entry.ID,
		entry.OrderID,
		entry.Status,
		nullString(entry.ProofURL),
		nullString(entry.Reason),
		meta,
		entry.CreatedAt,
	)

	return err
}

// ListByOrder retrieves an order's timeline ordered by creation time.
func (r *TimelineRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.TimelineEntry, error) {
	query := `
		SELECT id, order_id, status, proof_url, reason, meta, created_at
		FROM order_timeline WHERE order_id = $1 ORDER BY created_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TimelineEntry
	for rows.Next() {
		var entry domain.TimelineEntry
		var proofURL, reason sql.NullString
		var meta []byte

		if err := rows.Scan(
			&entry.ID,
			&entry.OrderID,
			&entry.Status,
			&proofURL,
			&reason,
			&meta,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}

		if proofURL.Valid {
			entry.ProofURL = proofURL.String
		}
		if reason.Valid {
			entry.Reason = reason.String
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &entry.Meta); err != nil {
				return nil, err
			}
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
