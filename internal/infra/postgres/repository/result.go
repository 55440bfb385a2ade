package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres"
)

var ErrTestNotFound = errors.New("test not found")

// ResultRepository stores finished quiz sessions as tests with their answers.
type ResultRepository struct {
	db postgres.DBTX
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(db postgres.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save records the test and all of its answers in one transaction. Every
// answer shares the test ID and timestamp.
func (r *ResultRepository) Save(ctx context.Context, setID int64, result *entities.TestResult) error {
	return postgres.NewTransactor(r.db).WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO tests (id, set_id, user_id, mode, taken_at, answered, incorrect)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			result.ID,
			setID,
			result.UserID,
			string(result.Mode),
			result.TakenAt,
			len(result.Answers),
			result.Incorrect,
		)
		if err != nil {
			return fmt.Errorf("insert test: %w", err)
		}

		batch := &pgx.Batch{}
		for i, a := range result.Answers {
			batch.Queue(`
				INSERT INTO test_answers (
					test_id, question_id, source_column, source_value,
					target_column, user_answer, correct_answer, is_correct
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`,
				result.ID,
				i,
				a.Question.SourceColumn,
				a.Question.SourceValue,
				a.Question.TargetColumn,
				a.SubmittedText(),
				a.AcceptedText(),
				a.Correct,
			)
		}
		if batch.Len() == 0 {
			return nil
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert answers: %w", err)
		}
		return nil
	})
}

// ListBySet returns the tests of a set, newest first.
func (r *ResultRepository) ListBySet(ctx context.Context, setID int64) ([]entities.TestSummary, error) {
	query := `
		SELECT t.id, s.name, t.mode, t.taken_at, t.answered, t.incorrect
		FROM tests t
		JOIN memory_sets s ON s.id = t.set_id
		WHERE t.set_id = $1
		ORDER BY t.taken_at DESC
	`

	rows, err := r.db.Query(ctx, query, setID)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	defer rows.Close()

	var res []entities.TestSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *s)
	}

	return res, rows.Err()
}

// GetSummary returns the test with id owned by userID.
func (r *ResultRepository) GetSummary(ctx context.Context, userID int64, id uuid.UUID) (*entities.TestSummary, error) {
	query := `
		SELECT t.id, s.name, t.mode, t.taken_at, t.answered, t.incorrect
		FROM tests t
		JOIN memory_sets s ON s.id = t.set_id
		WHERE t.id = $1 AND t.user_id = $2
	`

	s, err := scanSummary(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	return s, nil
}

// Answers returns the stored answers of a test in question order.
func (r *ResultRepository) Answers(ctx context.Context, testID uuid.UUID) ([]entities.StoredAnswer, error) {
	query := `
		SELECT test_id, question_id, source_column, source_value,
		       target_column, user_answer, correct_answer, is_correct
		FROM test_answers
		WHERE test_id = $1
		ORDER BY question_id
	`

	rows, err := r.db.Query(ctx, query, testID)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var res []entities.StoredAnswer
	for rows.Next() {
		var a entities.StoredAnswer
		if err := rows.Scan(
			&a.TestID,
			&a.QuestionID,
			&a.SourceColumn,
			&a.SourceValue,
			&a.TargetColumn,
			&a.UserAnswer,
			&a.CorrectAnswer,
			&a.IsCorrect,
		); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		res = append(res, a)
	}

	return res, rows.Err()
}

func scanSummary(row pgx.Row) (*entities.TestSummary, error) {
	var (
		s    entities.TestSummary
		mode string
	)
	if err := row.Scan(&s.ID, &s.SetName, &mode, &s.TakenAt, &s.Answered, &s.Incorrect); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan test: %w", err)
	}
	s.Mode = entities.AnswerMode(mode)
	return &s, nil
}
