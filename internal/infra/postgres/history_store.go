package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"nanonerds-quiz-service/internal/domain"
)

type resultRow struct {
	bun.BaseModel `bun:"table:quiz_results,alias:qr"`

	ID             string                   `bun:"id,pk"`
	QuizID         string                   `bun:"quiz_id"`
	QuizTitle      string                   `bun:"quiz_title"`
	Score          int                      `bun:"score"`
	TotalQuestions int                      `bun:"total_questions"`
	CorrectAnswers int                      `bun:"correct_answers"`
	PassingScore   int                      `bun:"passing_score"`
	PerQuestion    []domain.QuestionOutcome `bun:"per_question,type:jsonb"`
	CompletedAt    time.Time                `bun:"completed_at"`
}

// HistoryStore is the durable history log. Rows are only ever inserted; seq keeps append order.
type HistoryStore struct {
	db bun.IDB
}

func NewHistoryStore(db bun.IDB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) Append(ctx context.Context, result domain.Result) error {
	row := resultRow{
		ID:             result.ID,
		QuizID:         result.QuizID,
		QuizTitle:      result.QuizTitle,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		PassingScore:   result.PassingScore,
		PerQuestion:    result.PerQuestion,
		CompletedAt:    result.CompletedAt,
	}
	if row.PerQuestion == nil {
		row.PerQuestion = []domain.QuestionOutcome{}
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (s *HistoryStore) List(ctx context.Context) ([]domain.Result, error) {
	var rows []resultRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("seq ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	results := make([]domain.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, domain.Result{
			ID:             row.ID,
			QuizID:         row.QuizID,
			QuizTitle:      row.QuizTitle,
			Score:          row.Score,
			TotalQuestions: row.TotalQuestions,
			CorrectAnswers: row.CorrectAnswers,
			PassingScore:   row.PassingScore,
			PerQuestion:    row.PerQuestion,
			CompletedAt:    row.CompletedAt.UTC(),
		})
	}
	return results, nil
}
