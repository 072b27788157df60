// Package file loads the question bank from a raw text file on disk.
package file

import (
	"context"
	"os"

	"sprint-quiz-service/internal/domain"
	"sprint-quiz-service/internal/questionbank"
)

// Loader parses a raw questions text file. A file bank is a single bank, so
// the bank ID is ignored. A missing file yields an empty bank rather than an
// error; the service then surfaces "no questions available" per request.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) LoadBank(_ context.Context, _ string) ([]domain.Question, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Question{}, nil
		}
		return nil, err
	}
	return questionbank.Parse(string(raw)), nil
}
