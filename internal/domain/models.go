package domain

import (
	"encoding/json"
	"time"
)

// Question is a multiple-choice question with exactly one correct option.
type Question struct {
	ID                 string   `json:"id" yaml:"id"`
	Prompt             string   `json:"prompt" yaml:"prompt"`
	Options            []string `json:"options" yaml:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex" yaml:"correctOptionIndex"`
	Explanation        string   `json:"explanation" yaml:"explanation"`
}

// QuizDefinition is a catalog entry. Definitions are never mutated once loaded.
type QuizDefinition struct {
	ID              string     `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	Description     string     `json:"description" yaml:"description"`
	Category        string     `json:"category" yaml:"category"`
	Difficulty      string     `json:"difficulty" yaml:"difficulty"`
	DurationSeconds int        `json:"durationSeconds" yaml:"durationSeconds"`
	PassingScore    int        `json:"passingScore" yaml:"passingScore"`
	Active          bool       `json:"active" yaml:"active"`
	CreatedDate     string     `json:"createdDate,omitempty" yaml:"createdDate"`
	Questions       []Question `json:"questions" yaml:"questions"`
}

// Question returns the question with the given id.
func (q QuizDefinition) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Session is the in-progress state of one quiz attempt.
// Answers maps question id to the selected option index; a missing key means unanswered.
type Session struct {
	QuizID           string         `json:"quizId"`
	QuizTitle        string         `json:"quizTitle"`
	Answers          map[string]int `json:"answers"`
	RemainingSeconds int            `json:"remainingSeconds"`
	DurationSeconds  int            `json:"durationSeconds"`
	TotalQuestions   int            `json:"totalQuestions"`
	Active           bool           `json:"active"`
	StartedAt        time.Time      `json:"startedAt"`
}

// AnsweredCount reports how many questions have a recorded answer.
func (s Session) AnsweredCount() int {
	return len(s.Answers)
}

// MarshalJSON adds the derived answeredCount so clients can render progress.
func (s Session) MarshalJSON() ([]byte, error) {
	type plain Session
	return json.Marshal(struct {
		plain
		AnsweredCount int `json:"answeredCount"`
	}{plain(s), s.AnsweredCount()})
}

// Clone returns a copy that does not share the answers map.
func (s Session) Clone() Session {
	out := s
	out.Answers = make(map[string]int, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	return out
}

// QuestionOutcome is the per-question breakdown of a scored attempt.
type QuestionOutcome struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex *int   `json:"selectedIndex,omitempty"`
	CorrectIndex  int    `json:"correctIndex"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
}

// Result is the immutable outcome of a completed or expired attempt.
type Result struct {
	ID             string            `json:"id"`
	QuizID         string            `json:"quizId"`
	QuizTitle      string            `json:"quizTitle"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"totalQuestions"`
	CorrectAnswers int               `json:"correctAnswers"`
	PassingScore   int               `json:"passingScore"` // threshold in effect when scored
	PerQuestion    []QuestionOutcome `json:"perQuestion"`
	CompletedAt    time.Time         `json:"completedAt"`
}

// Passed reports whether the score met the threshold recorded with the result.
func (r Result) Passed() bool {
	return r.Score >= r.PassingScore
}

// Stats aggregates the history log. Average and Best are nil when Count is zero.
type Stats struct {
	Count       int  `json:"count"`
	Average     *int `json:"average"`
	Best        *int `json:"best"`
	PassedCount int  `json:"passedCount"`
}
