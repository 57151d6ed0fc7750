package app

import "nanonerds-quiz-service/internal/domain"

// Aggregate computes history statistics from the full log.
// An entry counts as passed against the threshold recorded with it, the same rule Result.Passed uses.
func Aggregate(results []domain.Result) domain.Stats {
	stats := domain.Stats{Count: len(results)}
	if len(results) == 0 {
		return stats
	}

	sum, best := 0, results[0].Score
	for _, r := range results {
		sum += r.Score
		if r.Score > best {
			best = r.Score
		}
		if r.Passed() {
			stats.PassedCount++
		}
	}
	average := roundedDiv(sum, len(results))
	stats.Average = &average
	stats.Best = &best
	return stats
}
