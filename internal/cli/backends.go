package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"nanonerds-quiz-service/internal/app"
	"nanonerds-quiz-service/internal/config"
	"nanonerds-quiz-service/internal/infra/memory"
	"nanonerds-quiz-service/internal/infra/postgres"
	redisinfra "nanonerds-quiz-service/internal/infra/redis"
	"nanonerds-quiz-service/internal/logger"
)

// backends is the set of repositories chosen from config.
type backends struct {
	catalog       app.CatalogRepository
	sessions      app.SessionRepository
	history       app.HistoryRepository
	registrations app.RegistrationRepository
	closers       []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackends picks Postgres for durable data, Redis for the catalog cache and session,
// and process memory for whatever is not configured.
func openBackends(ctx context.Context, cfg config.Config, log *logger.Logger) (*backends, error) {
	b := &backends{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = redisClient.Close() })
	}

	var loader memory.QuizLoader
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		loader = postgres.NewQuizLoader(pool)

		db := postgres.OpenDB(cfg.Postgres.URL)
		b.closers = append(b.closers, func() { _ = db.Close() })
		b.history = postgres.NewHistoryStore(db)
		b.registrations = postgres.NewRegistrationStore(db)
		log.Info("using postgres for catalog, history and registrations")
	} else {
		quizzes, err := loadCatalog(cfg)
		if err != nil {
			b.Close()
			return nil, err
		}
		loader = memory.NewStaticQuizLoader(quizzes)
		b.registrations = memory.NewRegistrationStore()
	}

	quizTTL := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	if redisClient != nil {
		b.catalog = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
		b.sessions = redisinfra.NewSessionStore(redisClient, config.Duration(cfg.Redis.TTL, 24*time.Hour))
		if b.history == nil {
			b.history = redisinfra.NewHistoryLog(redisClient)
		}
		log.Info("using redis for catalog cache and session", "addr", cfg.Redis.Addr)
	} else {
		b.catalog = memory.NewQuizRepository(loader, quizTTL)
		b.sessions = memory.NewSessionStore()
	}
	if b.history == nil {
		b.history = memory.NewHistoryLog()
	}
	return b, nil
}
