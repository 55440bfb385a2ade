package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/quiz"
)

var (
	ErrInvalidMemorySet = errors.New("invalid memory set")
	ErrAllAnswerOnly    = errors.New("at least one column must be usable as a question")
	ErrEmptyKey         = errors.New("the first column must not be empty")
	ErrRowWidth         = errors.New("wrong number of values")
)

// memorySetForm is the validated shape of a new memory set definition.
type memorySetForm struct {
	Name    string            `label:"name" validate:"required,max=64,setname"`
	Columns []entities.Column `label:"columns" validate:"min=2,max=16,unique=Name,dive"`
}

// MemorySetService manages memory set definitions and their rows.
type MemorySetService struct {
	repo      MemorySetRepository
	tx        Transactor
	validator StructValidator
	logger    *zap.Logger
}

func NewMemorySetService(repo MemorySetRepository, tx Transactor, validator StructValidator, logger *zap.Logger) *MemorySetService {
	return &MemorySetService{repo: repo, tx: tx, validator: validator, logger: logger}
}

// NormalizeSetName trims name and replaces spaces with underscores.
func NormalizeSetName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// Create validates and registers a new memory set for userID.
func (s *MemorySetService) Create(ctx context.Context, userID int64, name string, columns []entities.Column) (*entities.MemorySet, error) {
	form := memorySetForm{Name: NormalizeSetName(name)}
	for _, c := range columns {
		form.Columns = append(form.Columns, entities.Column{
			Name:       strings.TrimSpace(c.Name),
			AnswerOnly: c.AnswerOnly,
		})
	}

	if err := s.validator.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMemorySet, err)
	}

	allAnswerOnly := true
	for _, c := range form.Columns {
		if !c.AnswerOnly {
			allAnswerOnly = false
			break
		}
	}
	if allAnswerOnly {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMemorySet, ErrAllAnswerOnly)
	}

	set := entities.NewMemorySet(userID, form.Name, form.Columns)
	if _, err := s.repo.Create(ctx, set); err != nil {
		return nil, fmt.Errorf("create memory set: %w", err)
	}

	s.logger.Info("memory set created",
		zap.Int64("user_id", userID),
		zap.String("set", set.Name),
		zap.Int("columns", len(set.Columns)),
	)

	return set, nil
}

// Get returns the set named name.
func (s *MemorySetService) Get(ctx context.Context, userID int64, name string) (*entities.MemorySet, error) {
	return s.repo.GetByName(ctx, userID, NormalizeSetName(name))
}

// List returns the set listing, active sets first and each group in natural order.
func (s *MemorySetService) List(ctx context.Context, userID int64) ([]entities.MemorySetSummary, error) {
	list, err := s.repo.ListSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Archived != list[j].Archived {
			return !list[i].Archived
		}
		return quiz.NaturalLess(list[i].Name, list[j].Name)
	})

	return list, nil
}

// Drop deletes the set together with its rows and history.
func (s *MemorySetService) Drop(ctx context.Context, userID int64, name string) error {
	name = NormalizeSetName(name)
	if err := s.repo.Delete(ctx, userID, name); err != nil {
		return err
	}
	s.logger.Info("memory set dropped", zap.Int64("user_id", userID), zap.String("set", name))
	return nil
}

// Archive archives or restores a set.
func (s *MemorySetService) Archive(ctx context.Context, userID int64, name string, archived bool) error {
	return s.repo.SetArchived(ctx, userID, NormalizeSetName(name), archived)
}

// AddRow appends a row given as one value per column in declared order.
func (s *MemorySetService) AddRow(ctx context.Context, userID int64, name string, values []string) error {
	set, err := s.Get(ctx, userID, name)
	if err != nil {
		return err
	}

	row, key, err := buildRow(set, values)
	if err != nil {
		return err
	}

	if err := s.repo.InsertRow(ctx, set.ID, key, row); err != nil {
		return fmt.Errorf("add row %q: %w", key, err)
	}
	return nil
}

func buildRow(set *entities.MemorySet, values []string) (entities.Row, string, error) {
	if len(values) != len(set.Columns) {
		return nil, "", fmt.Errorf("%w: got %d, expected %d", ErrRowWidth, len(values), len(set.Columns))
	}

	row := make(entities.Row, len(values))
	for i, col := range set.Columns {
		v := strings.TrimSpace(values[i])
		if v != "" {
			row[col.Name] = v
		}
	}

	key := row[set.KeyColumn()]
	if key == "" {
		return nil, "", ErrEmptyKey
	}
	return row, key, nil
}

// DeleteRow removes the row whose key column equals key.
func (s *MemorySetService) DeleteRow(ctx context.Context, userID int64, name, key string) error {
	set, err := s.Get(ctx, userID, name)
	if err != nil {
		return err
	}
	return s.repo.DeleteRow(ctx, set.ID, strings.TrimSpace(key))
}

// Snapshot loads the set and a read-only view of its rows.
func (s *MemorySetService) Snapshot(ctx context.Context, userID int64, name string) (*entities.MemorySet, *entities.TableSnapshot, error) {
	set, err := s.Get(ctx, userID, name)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.repo.Rows(ctx, set.ID)
	if err != nil {
		return nil, nil, err
	}

	return set, entities.NewTableSnapshot(set, rows), nil
}

// Import creates a set from a definition and its rows in one transaction, so
// a failing row leaves nothing behind.
func (s *MemorySetService) Import(ctx context.Context, userID int64, name string, columns []entities.Column, rows [][]string) (*entities.MemorySet, error) {
	var set *entities.MemorySet
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		set, err = s.Create(ctx, userID, name, columns)
		if err != nil {
			return err
		}

		for i, values := range rows {
			row, key, err := buildRow(set, values)
			if err == nil {
				err = s.repo.InsertRow(ctx, set.ID, key, row)
			}
			if err != nil {
				return fmt.Errorf("import row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("memory set imported",
		zap.Int64("user_id", userID),
		zap.String("set", set.Name),
		zap.Int("rows", len(rows)),
	)

	return set, nil
}
