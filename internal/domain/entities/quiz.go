package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnswerMode determines where a submission comes from.
type AnswerMode string

const (
	ModeFreeText       AnswerMode = "text"   // typed lines
	ModeMultipleChoice AnswerMode = "choice" // selected choice labels
)

// ParseAnswerMode parses a mode name, reporting false for unknown names.
func ParseAnswerMode(s string) (AnswerMode, bool) {
	switch AnswerMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFreeText, "free", "freetext":
		return ModeFreeText, true
	case ModeMultipleChoice, "mc", "multiple":
		return ModeMultipleChoice, true
	default:
		return "", false
	}
}

// GradedAnswer is a finalized question together with its outcome.
type GradedAnswer struct {
	Question            Question
	NormalizedAccepted  []string // display form, one entry per accepted answer
	NormalizedSubmitted []string // display form, one entry per submitted line
	Correct             bool
	Overridden          bool // the user accepted a mismatch as correct
}

// AcceptedText joins the normalized accepted answers for storage.
func (a GradedAnswer) AcceptedText() string {
	return strings.Join(a.NormalizedAccepted, "\n")
}

// SubmittedText joins the normalized submitted answers for storage.
func (a GradedAnswer) SubmittedText() string {
	return strings.Join(a.NormalizedSubmitted, "\n")
}

// TestResult is one completed quiz session ready for persistence.
type TestResult struct {
	ID        uuid.UUID
	UserID    int64
	SetName   string
	Mode      AnswerMode
	TakenAt   time.Time
	Answers   []GradedAnswer
	Incorrect int
}

// NewTestResult creates a result with a fresh identifier and timestamp.
func NewTestResult(userID int64, setName string, mode AnswerMode, answers []GradedAnswer, incorrect int) *TestResult {
	return &TestResult{
		ID:        uuid.New(),
		UserID:    userID,
		SetName:   setName,
		Mode:      mode,
		TakenAt:   time.Now().UTC(),
		Answers:   answers,
		Incorrect: incorrect,
	}
}

// TestSummary describes a recorded test.
type TestSummary struct {
	ID        uuid.UUID
	SetName   string
	Mode      AnswerMode
	TakenAt   time.Time
	Answered  int
	Incorrect int
}

// Score returns the share of correct answers in percent.
func (t TestSummary) Score() float64 {
	if t.Answered == 0 {
		return 0
	}
	return float64(t.Answered-t.Incorrect) / float64(t.Answered) * 100
}

// StoredAnswer is one recorded answer of a test.
type StoredAnswer struct {
	TestID        uuid.UUID
	QuestionID    int // position within the session
	SourceColumn  string
	SourceValue   string
	TargetColumn  string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
}

// Prompt renders the question the answer belongs to.
func (a StoredAnswer) Prompt() string {
	return FormatPrompt(a.SourceColumn, a.SourceValue, a.TargetColumn)
}
