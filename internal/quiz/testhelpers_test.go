package quiz

import (
	"slices"
	"strings"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

func columns(names ...string) []entities.Column {
	cols := make([]entities.Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, entities.Column{Name: n})
	}
	return cols
}

func routerSnapshot() *entities.TableSnapshot {
	return &entities.TableSnapshot{
		Columns: columns("Device", "Port"),
		Rows: []entities.Row{
			{"Device": "Router", "Port": "80"},
			{"Device": "Router", "Port": "443"},
		},
	}
}

func keyOf(q entities.Question) string {
	return q.SourceColumn + "\x00" + q.SourceValue + "\x00" + q.TargetColumn
}

// questionIndex maps question keys to their sorted accepted answers.
func questionIndex(questions []entities.Question) map[string]string {
	out := make(map[string]string, len(questions))
	for _, q := range questions {
		accepted := slices.Clone(q.Accepted)
		slices.Sort(accepted)
		out[keyOf(q)] = strings.Join(accepted, "|")
	}
	return out
}

func findQuestion(questions []entities.Question, source, value, target string) (entities.Question, bool) {
	for _, q := range questions {
		if q.SourceColumn == source && q.SourceValue == value && q.TargetColumn == target {
			return q, true
		}
	}
	return entities.Question{}, false
}
