package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"nanonerds-quiz-service/internal/domain"
)

// QuizLoader loads quiz JSONB from Postgres. The active column overrides the flag stored in data.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.QuizDefinition, error) {
	var (
		raw    []byte
		active bool
	)
	err := l.pool.QueryRow(ctx, `SELECT data, active FROM quizzes WHERE id=$1`, quizID).Scan(&raw, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizDefinition{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
	}
	if err != nil {
		return domain.QuizDefinition{}, fmt.Errorf("load quiz: %w", err)
	}
	return decodeQuiz(raw, active)
}

func (l *QuizLoader) LoadAll(ctx context.Context) ([]domain.QuizDefinition, error) {
	rows, err := l.pool.Query(ctx, `SELECT data, active FROM quizzes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.QuizDefinition
	for rows.Next() {
		var (
			raw    []byte
			active bool
		)
		if err := rows.Scan(&raw, &active); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quiz, err := decodeQuiz(raw, active)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func decodeQuiz(raw []byte, active bool) (domain.QuizDefinition, error) {
	var quiz domain.QuizDefinition
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.QuizDefinition{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	quiz.Active = active
	return quiz, nil
}
