package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"nanonerds-quiz-service/internal/domain"
)

type file struct {
	Quizzes []yaml.Node `yaml:"quizzes"`
}

// LoadFile reads and validates a YAML catalog.
func LoadFile(path string) ([]domain.QuizDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	quizzes := make([]domain.QuizDefinition, 0, len(f.Quizzes))
	for i := range f.Quizzes {
		// Entries without an active key are open for attempts.
		quiz := domain.QuizDefinition{Active: true}
		if err := f.Quizzes[i].Decode(&quiz); err != nil {
			return nil, fmt.Errorf("parse catalog entry %d: %w", i, err)
		}
		quizzes = append(quizzes, quiz)
	}
	if err := ValidateAll(quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// ValidateAll checks each definition and rejects duplicate quiz ids.
func ValidateAll(quizzes []domain.QuizDefinition) error {
	seen := make(map[string]struct{}, len(quizzes))
	for _, quiz := range quizzes {
		if _, dup := seen[quiz.ID]; dup {
			return fmt.Errorf("%w: duplicate quiz id %q", domain.ErrInvalidQuiz, quiz.ID)
		}
		seen[quiz.ID] = struct{}{}
		if err := Validate(quiz); err != nil {
			return err
		}
	}
	return nil
}

// Validate enforces the catalog invariants on a single definition.
func Validate(quiz domain.QuizDefinition) error {
	if quiz.ID == "" {
		return fmt.Errorf("%w: missing id", domain.ErrInvalidQuiz)
	}
	if quiz.DurationSeconds <= 0 {
		return fmt.Errorf("%w: quiz %q duration must be positive", domain.ErrInvalidQuiz, quiz.ID)
	}
	if quiz.PassingScore < 0 || quiz.PassingScore > 100 {
		return fmt.Errorf("%w: quiz %q passing score %d outside 0..100", domain.ErrInvalidQuiz, quiz.ID, quiz.PassingScore)
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("%w: quiz %q has no questions", domain.ErrInvalidQuiz, quiz.ID)
	}
	ids := make(map[string]struct{}, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if _, dup := ids[q.ID]; dup || q.ID == "" {
			return fmt.Errorf("%w: quiz %q has missing or duplicate question id %q", domain.ErrInvalidQuiz, quiz.ID, q.ID)
		}
		ids[q.ID] = struct{}{}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %q needs at least two options", domain.ErrInvalidQuiz, q.ID)
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %q correct option %d out of range", domain.ErrInvalidQuiz, q.ID, q.CorrectOptionIndex)
		}
	}
	return nil
}
