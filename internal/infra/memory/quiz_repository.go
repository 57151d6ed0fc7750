package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"nanonerds-quiz-service/internal/domain"
)

// QuizLoader fetches quiz definitions from a backing store (static seed, YAML file, Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.QuizDefinition, error)
	LoadAll(ctx context.Context) ([]domain.QuizDefinition, error)
}

// listKey is the singleflight key for loading the whole catalog.
const listKey = "\x00catalog"

// QuizRepository caches catalog entries with TTL to avoid repeated loader hits.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuiz
	list  *cachedList
}

type cachedQuiz struct {
	quiz      domain.QuizDefinition
	expiresAt time.Time
}

type cachedList struct {
	quizzes   []domain.QuizDefinition
	expiresAt time.Time
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.QuizDefinition, error) {
	if quiz, ok := r.cached(quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		if quiz, ok := r.cached(quizID); ok {
			return quiz, nil
		}
		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.QuizDefinition{}, err
		}
		r.mu.Lock()
		r.cache[quizID] = cachedQuiz{quiz: quiz, expiresAt: r.clock().Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.QuizDefinition{}, err
	}
	return result.(domain.QuizDefinition), nil
}

func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]domain.QuizDefinition, error) {
	r.mu.RLock()
	if r.list != nil && r.list.expiresAt.After(r.clock()) {
		quizzes := r.list.quizzes
		r.mu.RUnlock()
		return quizzes, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(listKey, func() (interface{}, error) {
		quizzes, err := r.loader.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.list = &cachedList{quizzes: quizzes, expiresAt: r.clock().Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return quizzes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizDefinition), nil
}

func (r *QuizRepository) cached(quizID string) (domain.QuizDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[quizID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.QuizDefinition{}, false
	}
	return entry.quiz, true
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuizLoader serves a fixed catalog (the built-in seed or a YAML file).
type StaticQuizLoader struct {
	order   []string
	quizzes map[string]domain.QuizDefinition
}

func NewStaticQuizLoader(quizzes []domain.QuizDefinition) *StaticQuizLoader {
	l := &StaticQuizLoader{quizzes: make(map[string]domain.QuizDefinition, len(quizzes))}
	for _, quiz := range quizzes {
		if _, dup := l.quizzes[quiz.ID]; !dup {
			l.order = append(l.order, quiz.ID)
		}
		l.quizzes[quiz.ID] = quiz
	}
	return l
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.QuizDefinition, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.QuizDefinition{}, domain.ErrQuizNotFound
}

func (l *StaticQuizLoader) LoadAll(_ context.Context) ([]domain.QuizDefinition, error) {
	out := make([]domain.QuizDefinition, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.quizzes[id])
	}
	return out, nil
}
