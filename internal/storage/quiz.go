// Package storage keeps in-memory state of chats with an active quiz.
package storage

import (
	"sync"

	"github.com/aliskhannn/memorise-bot/internal/quiz"
)

// NoPending marks that no incorrect answer is waiting for a decision.
const NoPending = -1

// ActiveQuiz is the state of one chat's running quiz session.
type ActiveQuiz struct {
	UserID    int64
	SetID     int64
	Session   *quiz.Session
	Selection *quiz.Selection // multiple choice toggles for the current question
	Page      int             // shown page of the choice keyboard
	Pending   int             // result index awaiting override or continue, or NoPending
	MessageID int             // message holding the current choice keyboard
}

// NewActiveQuiz wraps a freshly started session.
func NewActiveQuiz(userID, setID int64, session *quiz.Session) *ActiveQuiz {
	return &ActiveQuiz{
		UserID:    userID,
		SetID:     setID,
		Session:   session,
		Selection: quiz.NewSelection(),
		Pending:   NoPending,
	}
}

// QuizStorage provides in-memory storage for active quizzes by chat ID.
type QuizStorage struct {
	mu      sync.RWMutex
	quizzes map[int64]*ActiveQuiz
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		quizzes: make(map[int64]*ActiveQuiz),
	}
}

// Store saves the active quiz of a chat, replacing any previous one.
func (s *QuizStorage) Store(chatID int64, q *ActiveQuiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[chatID] = q
}

// Get retrieves the active quiz of a chat.
func (s *QuizStorage) Get(chatID int64) (*ActiveQuiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[chatID]
	return q, ok
}

// Delete removes the active quiz of a chat.
func (s *QuizStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quizzes, chatID)
}

// Len returns the number of chats with an active quiz.
func (s *QuizStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quizzes)
}
