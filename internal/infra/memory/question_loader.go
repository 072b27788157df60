package memory

import (
	"context"

	"sprint-quiz-service/internal/domain"
)

// StaticLoader serves question banks from an in-memory map (useful for tests
// and the zero-config demo path).
type StaticLoader struct {
	banks map[string][]domain.Question
}

func NewStaticLoader(banks map[string][]domain.Question) *StaticLoader {
	return &StaticLoader{banks: banks}
}

func (l *StaticLoader) LoadBank(_ context.Context, bankID string) ([]domain.Question, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return nil, domain.ErrBankNotFound
}
