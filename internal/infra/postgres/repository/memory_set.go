package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres"
)

var (
	ErrMemorySetNotFound = errors.New("memory set not found")
	ErrMemorySetExists   = errors.New("memory set already exists")
	ErrDuplicateRow      = errors.New("identical row already exists")
	ErrRowNotFound       = errors.New("row not found")
)

// MemorySetRepository provides access to memory set definitions and rows.
type MemorySetRepository struct {
	db postgres.DBTX
}

// NewMemorySetRepository creates a new MemorySetRepository.
func NewMemorySetRepository(db postgres.DBTX) *MemorySetRepository {
	return &MemorySetRepository{db: db}
}

// conn joins the transaction of ctx started by postgres.Transactor.InTx.
func (r *MemorySetRepository) conn(ctx context.Context) postgres.DBTX {
	return postgres.Conn(ctx, r.db)
}

// Create inserts the set together with its columns and returns the set ID.
func (r *MemorySetRepository) Create(ctx context.Context, set *entities.MemorySet) (int64, error) {
	var id int64
	err := postgres.NewTransactor(r.conn(ctx)).WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO memory_sets (user_id, name, created_at)
			VALUES ($1, $2, $3)
			RETURNING id
		`, set.UserID, set.Name, set.CreatedAt).Scan(&id)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return ErrMemorySetExists
			}
			return fmt.Errorf("insert memory set: %w", err)
		}

		for i, col := range set.Columns {
			_, err := tx.Exec(ctx, `
				INSERT INTO memory_set_columns (set_id, position, name, answer_only)
				VALUES ($1, $2, $3, $4)
			`, id, i, col.Name, col.AnswerOnly)
			if err != nil {
				return fmt.Errorf("insert column %q: %w", col.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	set.ID = id
	return id, nil
}

// GetByName retrieves the set named name owned by userID, with its columns.
func (r *MemorySetRepository) GetByName(ctx context.Context, userID int64, name string) (*entities.MemorySet, error) {
	query := `
		SELECT id, user_id, name, created_at, archived_at, last_reminded_at
		FROM memory_sets
		WHERE user_id = $1 AND name = $2
	`

	var set entities.MemorySet
	err := r.conn(ctx).QueryRow(ctx, query, userID, name).Scan(
		&set.ID,
		&set.UserID,
		&set.Name,
		&set.CreatedAt,
		&set.ArchivedAt,
		&set.LastRemindedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemorySetNotFound
		}
		return nil, fmt.Errorf("get memory set: %w", err)
	}

	cols, err := r.columns(ctx, set.ID)
	if err != nil {
		return nil, err
	}
	set.Columns = cols

	return &set, nil
}

func (r *MemorySetRepository) columns(ctx context.Context, setID int64) ([]entities.Column, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT name, answer_only
		FROM memory_set_columns
		WHERE set_id = $1
		ORDER BY position
	`, setID)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var cols []entities.Column
	for rows.Next() {
		var c entities.Column
		if err := rows.Scan(&c.Name, &c.AnswerOnly); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}

	return cols, rows.Err()
}

// Delete removes the set with its rows and recorded tests.
func (r *MemorySetRepository) Delete(ctx context.Context, userID int64, name string) error {
	result, err := r.conn(ctx).Exec(ctx, `DELETE FROM memory_sets WHERE user_id = $1 AND name = $2`, userID, name)
	if err != nil {
		return fmt.Errorf("delete memory set: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMemorySetNotFound
	}
	return nil
}

// SetArchived archives or restores a set.
func (r *MemorySetRepository) SetArchived(ctx context.Context, userID int64, name string, archived bool) error {
	query := `
		UPDATE memory_sets
		SET archived_at = CASE WHEN $3 THEN NOW() ELSE NULL END
		WHERE user_id = $1 AND name = $2
	`

	result, err := r.conn(ctx).Exec(ctx, query, userID, name, archived)
	if err != nil {
		return fmt.Errorf("set archived: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMemorySetNotFound
	}
	return nil
}

// ListSummaries returns the listing of all sets owned by userID,
// active sets first.
func (r *MemorySetRepository) ListSummaries(ctx context.Context, userID int64) ([]entities.MemorySetSummary, error) {
	query := `
		SELECT s.name,
		       s.created_at,
		       t.last_used,
		       COALESCE(t.times_used, 0),
		       s.archived_at IS NOT NULL,
		       (SELECT COUNT(*) FROM memory_set_rows r WHERE r.set_id = s.id)
		FROM memory_sets s
		LEFT JOIN (
			SELECT set_id, MAX(taken_at) AS last_used, COUNT(*) AS times_used
			FROM tests
			GROUP BY set_id
		) t ON t.set_id = s.id
		WHERE s.user_id = $1
		ORDER BY s.archived_at IS NOT NULL, s.name
	`

	rows, err := r.conn(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list memory sets: %w", err)
	}
	defer rows.Close()

	var res []entities.MemorySetSummary
	for rows.Next() {
		var s entities.MemorySetSummary
		if err := rows.Scan(
			&s.Name,
			&s.CreatedAt,
			&s.LastUsed,
			&s.TimesUsed,
			&s.Archived,
			&s.RowCount,
		); err != nil {
			return nil, fmt.Errorf("scan memory set summary: %w", err)
		}
		res = append(res, s)
	}

	return res, rows.Err()
}

// InsertRow appends a row keyed by key to the set.
func (r *MemorySetRepository) InsertRow(ctx context.Context, setID int64, key string, row entities.Row) error {
	query := `
		INSERT INTO memory_set_rows (set_id, row_key, cells, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn(ctx).Exec(ctx, query, setID, key, row, time.Now())
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrDuplicateRow
		}
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

// DeleteRow removes every row keyed by key.
func (r *MemorySetRepository) DeleteRow(ctx context.Context, setID int64, key string) error {
	result, err := r.conn(ctx).Exec(ctx, `DELETE FROM memory_set_rows WHERE set_id = $1 AND row_key = $2`, setID, key)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrRowNotFound
	}
	return nil
}

// Rows returns the rows of the set in insertion order.
func (r *MemorySetRepository) Rows(ctx context.Context, setID int64) ([]entities.Row, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT cells
		FROM memory_set_rows
		WHERE set_id = $1
		ORDER BY id
	`, setID)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var res []entities.Row
	for rows.Next() {
		var row entities.Row
		if err := rows.Scan(&row); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		res = append(res, row)
	}

	return res, rows.Err()
}
