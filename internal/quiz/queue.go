package quiz

import (
	"math/rand"
	"time"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

// Queue hands out a fixed random permutation of questions, each exactly once.
type Queue struct {
	questions []entities.Question
	next      int
}

// NewQueue shuffles a copy of questions into the draw order. A nil rng is
// replaced by a time-seeded source.
func NewQueue(questions []entities.Question, rng *rand.Rand) *Queue {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shuffled := make([]entities.Question, len(questions))
	copy(shuffled, questions)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return &Queue{questions: shuffled}
}

// Next dequeues the next question, reporting false once the queue is empty.
func (q *Queue) Next() (entities.Question, bool) {
	if q.next >= len(q.questions) {
		return entities.Question{}, false
	}
	question := q.questions[q.next]
	q.next++
	return question, true
}

// Len returns the number of questions not yet drawn.
func (q *Queue) Len() int {
	return len(q.questions) - q.next
}

// Total returns the number of questions in the permutation.
func (q *Queue) Total() int {
	return len(q.questions)
}
