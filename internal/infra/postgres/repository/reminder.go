package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres"
)

// ReminderRepository finds memory sets that are due for a study reminder.
type ReminderRepository struct {
	db postgres.DBTX
}

// NewReminderRepository creates a new ReminderRepository.
func NewReminderRepository(db postgres.DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// ListStale returns non-empty, non-archived sets whose last activity is
// older than before and that were not reminded about since. Owners must be
// active and have reminders enabled. Results are ordered by set ID and start
// after afterID.
func (r *ReminderRepository) ListStale(ctx context.Context, before time.Time, afterID int64, limit int) ([]entities.StaleMemorySet, error) {
	query := `
		SELECT s.id, s.user_id, u.chat_id, s.name, s.created_at, t.last_used,
		       (SELECT COUNT(*) FROM memory_set_rows r WHERE r.set_id = s.id) AS row_count
		FROM memory_sets s
		JOIN users u ON u.id = s.user_id AND u.is_active
		JOIN user_settings us ON us.user_id = s.user_id AND us.reminders_enabled
		LEFT JOIN (
			SELECT set_id, MAX(taken_at) AS last_used
			FROM tests
			GROUP BY set_id
		) t ON t.set_id = s.id
		WHERE s.archived_at IS NULL
		  AND s.id > $2
		  AND COALESCE(t.last_used, s.created_at) < $1
		  AND (s.last_reminded_at IS NULL OR s.last_reminded_at < COALESCE(t.last_used, s.created_at))
		  AND EXISTS (SELECT 1 FROM memory_set_rows r WHERE r.set_id = s.id)
		ORDER BY s.id
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, before, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale memory sets: %w", err)
	}
	defer rows.Close()

	var res []entities.StaleMemorySet
	for rows.Next() {
		var s entities.StaleMemorySet
		var lastUsed pgtype.Timestamptz
		if err := rows.Scan(
			&s.SetID,
			&s.UserID,
			&s.ChatID,
			&s.Name,
			&s.CreatedAt,
			&lastUsed,
			&s.RowCount,
		); err != nil {
			return nil, fmt.Errorf("scan stale memory set: %w", err)
		}
		if lastUsed.Valid {
			t := lastUsed.Time
			s.LastUsed = &t
		}
		res = append(res, s)
	}

	return res, rows.Err()
}

// MarkReminded records that a reminder for the set was sent at at.
func (r *ReminderRepository) MarkReminded(ctx context.Context, setID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE memory_sets SET last_reminded_at = $1 WHERE id = $2`, at, setID)
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}
