package memory

import (
	"context"
	"sync"

	"nanonerds-quiz-service/internal/domain"
)

// HistoryLog is an append-only in-process result log.
type HistoryLog struct {
	mu      sync.RWMutex
	results []domain.Result
}

func NewHistoryLog() *HistoryLog {
	return &HistoryLog{}
}

func (h *HistoryLog) Append(_ context.Context, result domain.Result) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, result)
	return nil
}

func (h *HistoryLog) List(_ context.Context) ([]domain.Result, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.Result, len(h.results))
	copy(out, h.results)
	return out, nil
}
