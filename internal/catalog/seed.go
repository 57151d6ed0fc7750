package catalog

import "nanonerds-quiz-service/internal/domain"

// Seed returns the built-in catalog served when no catalog file is configured.
func Seed() []domain.QuizDefinition {
	return []domain.QuizDefinition{
		{
			ID:              "basic-electronics",
			Title:           "Basic Electronics Quiz",
			Description:     "Test your knowledge of fundamental electronic concepts",
			Category:        "Electronics",
			Difficulty:      "Beginner",
			DurationSeconds: 30 * 60,
			PassingScore:    60,
			Active:          true,
			CreatedDate:     "2024-09-01",
			Questions: []domain.Question{
				{
					ID:                 "q1",
					Prompt:             "What is Ohm's Law?",
					Options:            []string{"V = I × R", "P = V × I", "Q = C × V", "f = 1/T"},
					CorrectOptionIndex: 0,
					Explanation:        "Ohm's Law states that voltage equals current times resistance.",
				},
				{
					ID:                 "q2",
					Prompt:             "Which component stores electrical energy?",
					Options:            []string{"Resistor", "Capacitor", "Inductor", "Diode"},
					CorrectOptionIndex: 1,
					Explanation:        "A capacitor stores electrical energy in an electric field.",
				},
			},
		},
		{
			ID:              "gate-ece-mock",
			Title:           "GATE ECE Mock Test",
			Description:     "Practice test for GATE Electronics and Communication Engineering",
			Category:        "GATE",
			Difficulty:      "Advanced",
			DurationSeconds: 60 * 60,
			PassingScore:    70,
			Active:          true,
			CreatedDate:     "2024-09-15",
			Questions: []domain.Question{
				{
					ID:     "q1",
					Prompt: "The Nyquist sampling theorem states that:",
					Options: []string{
						"Sampling frequency should be at least twice the highest frequency",
						"Sampling frequency should be equal to the highest frequency",
						"Sampling frequency should be less than the highest frequency",
						"Sampling frequency is independent of signal frequency",
					},
					CorrectOptionIndex: 0,
					Explanation:        "Nyquist theorem requires sampling frequency ≥ 2 × highest frequency component.",
				},
			},
		},
	}
}
