package app

import (
	"fmt"
	"time"

	"nanonerds-quiz-service/internal/domain"
)

// Score grades answers against the quiz in catalog order.
// Unanswered questions count as incorrect. The returned result has no ID; the engine assigns one.
func Score(quiz domain.QuizDefinition, answers map[string]int, completedAt time.Time) (domain.Result, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return domain.Result{}, fmt.Errorf("%w: quiz %q has no questions", domain.ErrInvalidQuiz, quiz.ID)
	}

	outcomes := make([]domain.QuestionOutcome, 0, total)
	correct := 0
	for _, question := range quiz.Questions {
		outcome := domain.QuestionOutcome{
			QuestionID:   question.ID,
			CorrectIndex: question.CorrectOptionIndex,
			Explanation:  question.Explanation,
		}
		if selected, ok := answers[question.ID]; ok {
			selected := selected
			outcome.SelectedIndex = &selected
			outcome.IsCorrect = selected == question.CorrectOptionIndex
		}
		if outcome.IsCorrect {
			correct++
		}
		outcomes = append(outcomes, outcome)
	}

	return domain.Result{
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		Score:          roundedPercent(correct, total),
		TotalQuestions: total,
		CorrectAnswers: correct,
		PassingScore:   quiz.PassingScore,
		PerQuestion:    outcomes,
		CompletedAt:    completedAt,
	}, nil
}

// roundedPercent returns round-half-up(100*part/whole) in integer arithmetic.
func roundedPercent(part, whole int) int {
	return roundedDiv(100*part, whole)
}

// roundedDiv returns round-half-up(num/den) for non-negative operands.
func roundedDiv(num, den int) int {
	return (2*num + den) / (2 * den)
}
