package quiz

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

// TestGenerateRouterPorts verifies the questions derived from a two-column table.
func TestGenerateRouterPorts(t *testing.T) {
	questions, err := Generate(routerSnapshot())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}

	q, ok := findQuestion(questions, "Device", "Router", "Port")
	if !ok {
		t.Fatalf("missing question Device=Router -> Port")
	}
	accepted := slices.Clone(q.Accepted)
	slices.Sort(accepted)
	if !slices.Equal(accepted, []string{"443", "80"}) {
		t.Fatalf("unexpected accepted answers %q", q.Accepted)
	}

	for _, port := range []string{"80", "443"} {
		q, ok := findQuestion(questions, "Port", port, "Device")
		if !ok {
			t.Fatalf("missing question Port=%s -> Device", port)
		}
		if !slices.Equal(q.Accepted, []string{"Router"}) {
			t.Fatalf("Port=%s: accepted = %q", port, q.Accepted)
		}
		if !slices.Equal(q.Choices, []string{"Router"}) {
			t.Fatalf("Port=%s: choices = %q", port, q.Choices)
		}
	}
}

// TestGenerateEmptyInputs verifies degenerate tables yield ErrEmptyQuiz.
func TestGenerateEmptyInputs(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *entities.TableSnapshot
	}{
		{name: "nil", snapshot: nil},
		{name: "single column", snapshot: &entities.TableSnapshot{
			Columns: columns("Device"),
			Rows:    []entities.Row{{"Device": "Router"}},
		}},
		{name: "no rows", snapshot: &entities.TableSnapshot{Columns: columns("A", "B")}},
		{name: "no pairs", snapshot: &entities.TableSnapshot{
			Columns: columns("A", "B"),
			Rows:    []entities.Row{{"A": "x"}, {"B": "y"}, {"A": "", "B": ""}},
		}},
		{name: "all answer only", snapshot: &entities.TableSnapshot{
			Columns: []entities.Column{{Name: "A", AnswerOnly: true}, {Name: "B", AnswerOnly: true}},
			Rows:    []entities.Row{{"A": "x", "B": "y"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.snapshot)
			if !errors.Is(err, ErrEmptyQuiz) {
				t.Fatalf("expected ErrEmptyQuiz, got %v", err)
			}
		})
	}
}

func capitalsSnapshot() *entities.TableSnapshot {
	return &entities.TableSnapshot{
		Columns: columns("Country", "Capital", "Continent"),
		Rows: []entities.Row{
			{"Country": "France", "Capital": "Paris", "Continent": "Europe"},
			{"Country": "Spain", "Capital": "Madrid", "Continent": "Europe"},
			{"Country": "Japan", "Capital": "Tokyo", "Continent": "Asia"},
			{"Country": "Atlantis", "Capital": "", "Continent": ""},
			{"Country": "Chile", "Capital": "Santiago"},
		},
	}
}

// TestGenerateCoverage verifies every non-empty cell pair is accepted by its question.
func TestGenerateCoverage(t *testing.T) {
	snapshot := capitalsSnapshot()
	questions, err := Generate(snapshot)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, a := range snapshot.Columns {
		for _, b := range snapshot.Columns {
			if a.Name == b.Name {
				continue
			}
			for _, row := range snapshot.Rows {
				if row[a.Name] == "" || row[b.Name] == "" {
					continue
				}
				q, ok := findQuestion(questions, a.Name, row[a.Name], b.Name)
				if !ok {
					t.Fatalf("missing question %s=%s -> %s", a.Name, row[a.Name], b.Name)
				}
				if !slices.Contains(q.Accepted, row[b.Name]) {
					t.Fatalf("question %s=%s -> %s does not accept %q", a.Name, row[a.Name], b.Name, row[b.Name])
				}
			}
		}
	}

	for _, q := range questions {
		if q.SourceColumn == q.TargetColumn {
			t.Fatalf("self-paired question %+v", q)
		}
		if q.SourceValue == "" || len(q.Accepted) == 0 || slices.Contains(q.Accepted, "") {
			t.Fatalf("empty cell contributed to %+v", q)
		}
		for _, a := range q.Accepted {
			if !slices.Contains(q.Choices, a) {
				t.Fatalf("accepted %q missing from choices %q", a, q.Choices)
			}
		}
		if q.SourceValue == "Atlantis" {
			t.Fatalf("row without pairs produced %+v", q)
		}
	}

	europe, ok := findQuestion(questions, "Continent", "Europe", "Country")
	if !ok {
		t.Fatalf("missing Continent=Europe -> Country")
	}
	if !slices.Equal(europe.Accepted, []string{"France", "Spain"}) {
		t.Fatalf("Europe accepted = %q", europe.Accepted)
	}
	if len(europe.Choices) != 5 {
		t.Fatalf("expected every country as a choice, got %q", europe.Choices)
	}
}

// TestGenerateIndependentOfRowOrder verifies the question set ignores row order.
func TestGenerateIndependentOfRowOrder(t *testing.T) {
	forward := capitalsSnapshot()
	reversed := capitalsSnapshot()
	slices.Reverse(reversed.Rows)

	a, err := Generate(forward)
	if err != nil {
		t.Fatalf("generate forward: %v", err)
	}
	b, err := Generate(reversed)
	if err != nil {
		t.Fatalf("generate reversed: %v", err)
	}

	if !maps.Equal(questionIndex(a), questionIndex(b)) {
		t.Fatalf("question sets differ:\n%v\n%v", questionIndex(a), questionIndex(b))
	}
}

// TestGenerateSkipsAnswerOnlySources verifies answer-only columns are only asked about.
func TestGenerateSkipsAnswerOnlySources(t *testing.T) {
	snapshot := &entities.TableSnapshot{
		Columns: []entities.Column{{Name: "Device"}, {Name: "Port"}, {Name: "Notes", AnswerOnly: true}},
		Rows: []entities.Row{
			{"Device": "Router", "Port": "80", "Notes": "plain http"},
		},
	}

	questions, err := Generate(snapshot)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q.SourceColumn == "Notes" {
			t.Fatalf("answer-only column used as source: %+v", q)
		}
	}
	if _, ok := findQuestion(questions, "Device", "Router", "Notes"); !ok {
		t.Fatalf("expected Notes to be asked about")
	}
}
