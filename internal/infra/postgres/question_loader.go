package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"sprint-quiz-service/internal/domain"
	"sprint-quiz-service/internal/questionbank"
)

// Loader fetches raw question-bank text from Postgres and parses it.
type Loader struct {
	pool *pgxpool.Pool
}

func NewLoader(pool *pgxpool.Pool) *Loader {
	return &Loader{pool: pool}
}

func (l *Loader) LoadBank(ctx context.Context, bankID string) ([]domain.Question, error) {
	var raw string
	err := l.pool.QueryRow(ctx, `SELECT raw_text FROM question_banks WHERE id=$1`, bankID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("bank %q: %w", bankID, domain.ErrBankNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	return questionbank.Parse(raw), nil
}
