package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"nanonerds-quiz-service/internal/domain"
)

// HistoryLog keeps results in a Redis list: RPUSH on append, LRANGE 0 -1 on read.
// Entries never expire and are never trimmed.
type HistoryLog struct {
	client *redis.Client
	key    string
}

func NewHistoryLog(client *redis.Client) *HistoryLog {
	return &HistoryLog{client: client, key: "quiz:history"}
}

func (h *HistoryLog) Append(ctx context.Context, result domain.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := h.client.RPush(ctx, h.key, raw).Err(); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (h *HistoryLog) List(ctx context.Context) ([]domain.Result, error) {
	entries, err := h.client.LRange(ctx, h.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	results := make([]domain.Result, 0, len(entries))
	for _, entry := range entries {
		var result domain.Result
		if err := json.Unmarshal([]byte(entry), &result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}
