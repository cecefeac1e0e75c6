package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

// ActivityRepository is a PostgreSQL implementation of repository.ActivityRepository.
type ActivityRepository struct {
	q Querier
}

// NewActivityRepository creates a new PostgreSQL activity repository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{q: db}
}

// NewActivityRepositoryWithTx creates an activity repository using a transaction.
func NewActivityRepositoryWithTx(tx *sql.Tx) *ActivityRepository {
	return &ActivityRepository{q: tx}
}

// Append persists one activity entry.
func (r *ActivityRepository) Append(ctx context.Context, entry *domain.ActivityEntry) error {
	query := `
		INSERT INTO activity_log (id, category, action, level, actor_id, actor_role, target_id, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	contextJSON, err := json.Marshal(entry.Context)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		entry.ID,
		entry.Category,
		entry.Action,
		entry.Level,
		nullString(entry.ActorID),
		entry.ActorRole,
		entry.TargetID,
		contextJSON,
		entry.CreatedAt,
	)
	return err
}

// ListByTarget retrieves activity entries about an entity, newest first.
func (r *ActivityRepository) ListByTarget(ctx context.Context, targetID string) ([]*domain.ActivityEntry, error) {
	query := `
		SELECT id, category, action, level, actor_id, actor_role, target_id, context, created_at
		FROM activity_log WHERE target_id = $1 ORDER BY created_at DESC LIMIT 200
	`

	rows, err := r.q.QueryContext(ctx, query, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ActivityEntry
	for rows.Next() {
		var entry domain.ActivityEntry
		var actorID sql.NullString
		var contextJSON []byte

		if err := rows.Scan(
			&entry.ID,
			&entry.Category,
			&entry.Action,
			&entry.Level,
			&actorID,
			&entry.ActorRole,
			&entry.TargetID,
			&contextJSON,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}

		if actorID.Valid {
			entry.ActorID = actorID.String
		}
		if len(contextJSON) > 0 {
			if err := json.Unmarshal(contextJSON, &entry.Context); err != nil {
				return nil, err
			}
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
