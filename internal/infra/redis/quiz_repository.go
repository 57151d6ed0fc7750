package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"nanonerds-quiz-service/internal/domain"
)

// QuizLoader fetches quiz definitions from a backing store (static seed, YAML file, Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.QuizDefinition, error)
	LoadAll(ctx context.Context) ([]domain.QuizDefinition, error)
}

// QuizRepository caches catalog entries in Redis and falls back to a loader on cache miss.
// Definitions are stored whole as JSON:
//
//	SET quiz:{quizID}  {definition}
//	SET catalog:quizzes[{definition}, ...]
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.QuizDefinition, error) {
	key := r.quizKey(quizID)
	var quiz domain.QuizDefinition
	if r.readCache(ctx, key, &quiz) {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		var cached domain.QuizDefinition
		if r.readCache(ctx, key, &cached) {
			return cached, nil
		}
		loaded, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.QuizDefinition{}, err
		}
		r.writeCache(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return domain.QuizDefinition{}, err
	}
	return result.(domain.QuizDefinition), nil
}

func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]domain.QuizDefinition, error) {
	key := r.catalogKey()
	var quizzes []domain.QuizDefinition
	if r.readCache(ctx, key, &quizzes) {
		return quizzes, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		loaded, err := r.loader.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		r.writeCache(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizDefinition), nil
}

// readCache reports a hit only when the key exists and decodes cleanly.
func (r *QuizRepository) readCache(ctx context.Context, key string, dst interface{}) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// writeCache is best effort; a failed write only costs a reload.
func (r *QuizRepository) writeCache(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
}

func (r *QuizRepository) quizKey(quizID string) string {
	return "quiz:" + quizID
}

func (r *QuizRepository) catalogKey() string {
	return "catalog:quizzes"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// isMiss reports whether err is a plain cache miss.
func isMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
