package quiz

import (
	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

// Grade normalizes the submission and compares it with the accepted answers.
//
// In free-text mode every raw entry may hold several lines and each line is
// one answer. In multiple-choice mode every entry is one selected label.
// Both sides are sorted in natural order and compared entry by entry on their
// space-joined tokens. That join is lenient: two different tokenizations
// that join to the same string compare equal. A line whose tokens are all
// numbers counts as a numeric list, so "10-2" and "2-10" also compare equal.
func Grade(q entities.Question, submitted []string, mode entities.AnswerMode) entities.GradedAnswer {
	accepted := normalizeAccepted(q.Accepted)

	var lines []string
	if mode == entities.ModeFreeText {
		for _, raw := range submitted {
			lines = append(lines, SplitLines(raw)...)
		}
	} else {
		lines = submitted
	}

	given := NormalizeLines(lines)
	SortNatural(given)

	return entities.GradedAnswer{
		Question:            q,
		NormalizedAccepted:  accepted,
		NormalizedSubmitted: given,
		Correct:             equalEntries(accepted, given),
	}
}

// Override marks a graded answer as correct, replacing the submission with
// the accepted answers. It reports whether the verdict changed.
func Override(a *entities.GradedAnswer) bool {
	if a.Correct {
		return false
	}
	a.Correct = true
	a.Overridden = true
	a.NormalizedSubmitted = append([]string(nil), a.NormalizedAccepted...)
	return true
}

// normalizeAccepted normalizes every accepted answer, drops duplicates and
// blanks, and sorts the result in natural order.
func normalizeAccepted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, entry := range NormalizeLines(values) {
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	SortNatural(out)
	return out
}

func equalEntries(accepted, submitted []string) bool {
	if len(accepted) != len(submitted) {
		return false
	}
	for i := range accepted {
		if accepted[i] != submitted[i] {
			return false
		}
	}
	return true
}
