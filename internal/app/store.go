package app

import (
	"math/rand"
	"sync"
	"time"

	"sprint-quiz-service/internal/domain"
)

// QuestionStore holds the parsed question bank, immutable after construction.
// Picks are uniform with replacement.
type QuestionStore struct {
	questions []domain.Question

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewQuestionStore(questions []domain.Question) *QuestionStore {
	return &QuestionStore{
		questions: questions,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *QuestionStore) Count() int {
	return len(s.questions)
}

// PickRandom returns a uniformly random question, or ErrNoQuestions when the
// bank is empty.
func (s *QuestionStore) PickRandom() (domain.Question, error) {
	if len(s.questions) == 0 {
		return domain.Question{}, domain.ErrNoQuestions
	}
	s.mu.Lock()
	i := s.rnd.Intn(len(s.questions))
	s.mu.Unlock()
	return s.questions[i], nil
}
