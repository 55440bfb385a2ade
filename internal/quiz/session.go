package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

var (
	ErrSessionFinished  = errors.New("quiz session is finished")
	ErrResultOutOfRange = errors.New("graded answer index out of range")
)

// Session is one pass through a shuffled question queue.
type Session struct {
	setName   string
	mode      entities.AnswerMode
	queue     *Queue
	current   *entities.Question
	results   []entities.GradedAnswer
	incorrect int
	startedAt time.Time
}

// NewSession shuffles questions into a new session for the named set.
func NewSession(setName string, questions []entities.Question, mode entities.AnswerMode, rng *rand.Rand) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}

	s := &Session{
		setName:   setName,
		mode:      mode,
		queue:     NewQueue(questions, rng),
		results:   make([]entities.GradedAnswer, 0, len(questions)),
		startedAt: time.Now(),
	}
	s.advance()

	return s, nil
}

func (s *Session) advance() {
	q, ok := s.queue.Next()
	if !ok {
		s.current = nil
		return
	}
	s.current = &q
}

// Current returns the outstanding question, reporting false once finished.
func (s *Session) Current() (entities.Question, bool) {
	if s.current == nil {
		return entities.Question{}, false
	}
	return *s.current, true
}

// Choices returns the choice labels of the outstanding question in natural order.
func (s *Session) Choices() []string {
	if s.current == nil {
		return nil
	}
	choices := append([]string(nil), s.current.Choices...)
	SortNatural(choices)
	return choices
}

// Submit grades the outstanding question, records the result and moves on.
// It returns the graded answer and its index in the results.
func (s *Session) Submit(submitted []string) (entities.GradedAnswer, int, error) {
	if s.current == nil {
		return entities.GradedAnswer{}, -1, ErrSessionFinished
	}

	graded := Grade(*s.current, submitted, s.mode)
	s.results = append(s.results, graded)
	if !graded.Correct {
		s.incorrect++
	}
	s.advance()

	return graded, len(s.results) - 1, nil
}

// Override accepts the result at index as correct. Overriding an answer that
// is already correct changes nothing, so the counter moves at most once per
// question.
func (s *Session) Override(index int) (entities.GradedAnswer, error) {
	if index < 0 || index >= len(s.results) {
		return entities.GradedAnswer{}, fmt.Errorf("%w: %d", ErrResultOutOfRange, index)
	}

	if Override(&s.results[index]) && s.incorrect > 0 {
		s.incorrect--
	}

	return s.results[index], nil
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool {
	return s.current == nil
}

// SetName returns the name of the memory set under study.
func (s *Session) SetName() string { return s.setName }

// Mode returns the answer mode of the session.
func (s *Session) Mode() entities.AnswerMode { return s.mode }

// StartedAt returns the session creation time.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Total returns the number of questions in the session.
func (s *Session) Total() int { return s.queue.Total() }

// Answered returns the number of graded answers.
func (s *Session) Answered() int { return len(s.results) }

// Incorrect returns the number of answers currently graded incorrect.
func (s *Session) Incorrect() int { return s.incorrect }

// Remaining returns the number of questions not yet answered, including the
// outstanding one.
func (s *Session) Remaining() int {
	n := s.queue.Len()
	if s.current != nil {
		n++
	}
	return n
}

// Results returns a copy of the graded answers in answer order.
func (s *Session) Results() []entities.GradedAnswer {
	out := make([]entities.GradedAnswer, len(s.results))
	copy(out, s.results)
	return out
}

// Result returns the graded answer at index.
func (s *Session) Result(index int) (entities.GradedAnswer, error) {
	if index < 0 || index >= len(s.results) {
		return entities.GradedAnswer{}, fmt.Errorf("%w: %d", ErrResultOutOfRange, index)
	}
	return s.results[index], nil
}
