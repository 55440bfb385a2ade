// Package quiz turns memory set snapshots into question queues and grades
// answers against them.
package quiz

import (
	"errors"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

// ErrEmptyQuiz is returned when a snapshot yields no questions.
var ErrEmptyQuiz = errors.New("nothing to quiz")

// questionKey identifies a question by its source cell and target column.
type questionKey struct {
	sourceColumn string
	sourceValue  string
	targetColumn string
}

// valueSet is an insertion-ordered set of strings.
type valueSet struct {
	seen   map[string]struct{}
	values []string
}

func newValueSet() *valueSet {
	return &valueSet{seen: make(map[string]struct{})}
}

func (s *valueSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

func (s *valueSet) list() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Generate derives every question of the snapshot: for each ordered pair of
// distinct columns (A, B) and each row with both cells set, the question
// (A, row[A], B) accepts row[B]. Answer-only columns are never used as A.
// Questions come back in first-seen order; ErrEmptyQuiz is returned when
// there is nothing to ask.
func Generate(snapshot *entities.TableSnapshot) ([]entities.Question, error) {
	if snapshot == nil || len(snapshot.Columns) < 2 || len(snapshot.Rows) == 0 {
		return nil, ErrEmptyQuiz
	}

	pools := choicePools(snapshot)
	accepted := make(map[questionKey]*valueSet)
	order := make([]questionKey, 0)

	for _, source := range snapshot.Columns {
		if source.AnswerOnly {
			continue
		}
		for _, row := range snapshot.Rows {
			a := row[source.Name]
			if a == "" {
				continue
			}
			for _, target := range snapshot.Columns {
				if target.Name == source.Name {
					continue
				}
				b := row[target.Name]
				if b == "" {
					continue
				}

				key := questionKey{sourceColumn: source.Name, sourceValue: a, targetColumn: target.Name}
				set, ok := accepted[key]
				if !ok {
					set = newValueSet()
					accepted[key] = set
					order = append(order, key)
				}
				set.add(b)
			}
		}
	}

	if len(order) == 0 {
		return nil, ErrEmptyQuiz
	}

	questions := make([]entities.Question, 0, len(order))
	for _, key := range order {
		questions = append(questions, entities.Question{
			SourceColumn: key.sourceColumn,
			SourceValue:  key.sourceValue,
			TargetColumn: key.targetColumn,
			Accepted:     accepted[key].list(),
			Choices:      pools[key.targetColumn].list(),
		})
	}

	return questions, nil
}

// choicePools collects every distinct non-empty value of each column across
// the whole snapshot.
func choicePools(snapshot *entities.TableSnapshot) map[string]*valueSet {
	pools := make(map[string]*valueSet, len(snapshot.Columns))
	for _, col := range snapshot.Columns {
		pool := newValueSet()
		for _, row := range snapshot.Rows {
			if v := row[col.Name]; v != "" {
				pool.add(v)
			}
		}
		pools[col.Name] = pool
	}
	return pools
}
