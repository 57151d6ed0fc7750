package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"nanonerds-quiz-service/internal/domain"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID     string                `bun:"id,pk"`
	Data   domain.QuizDefinition `bun:"data,type:jsonb"`
	Active bool                  `bun:"active"`
}

// SeedCatalog upserts quizzes by id. Existing rows get the new definition and active flag.
func SeedCatalog(ctx context.Context, db bun.IDB, quizzes []domain.QuizDefinition) error {
	if len(quizzes) == 0 {
		return nil
	}
	rows := make([]quizRow, 0, len(quizzes))
	for _, quiz := range quizzes {
		rows = append(rows, quizRow{ID: quiz.ID, Data: quiz, Active: quiz.Active})
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("active = EXCLUDED.active").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}
