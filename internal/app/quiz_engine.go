package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nanonerds-quiz-service/internal/domain"
	"nanonerds-quiz-service/internal/logger"
)

// CatalogRepository loads quiz definitions (from cache/backing store).
type CatalogRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.QuizDefinition, error)
	ListQuizzes(ctx context.Context) ([]domain.QuizDefinition, error)
}

// SessionRepository holds the state of the single in-progress attempt (in-memory, Redis, etc).
type SessionRepository interface {
	Get(ctx context.Context) (domain.Session, bool, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}

// HistoryRepository is the append-only log of scored attempts.
type HistoryRepository interface {
	Append(ctx context.Context, result domain.Result) error
	List(ctx context.Context) ([]domain.Result, error)
}

// tickTimeout bounds storage calls made from timer callbacks, which have no caller context.
const tickTimeout = 5 * time.Second

// QuizEngine owns the quiz-taking state machine: Idle -> Active -> Idle.
// All transitions run under mu, so they are applied strictly one at a time.
type QuizEngine struct {
	catalog  CatalogRepository
	sessions SessionRepository
	history  HistoryRepository
	ticker   Ticker
	log      *logger.Logger
	now      func() time.Time
	newID    func() string

	mu          sync.Mutex
	active      *activeSession
	epoch       uint64
	subscribers map[chan domain.Event]struct{}
}

// activeSession is the runtime handle for the running attempt.
// epoch identifies the attempt so ticks addressed to an earlier attempt are dropped.
type activeSession struct {
	quiz  domain.QuizDefinition
	epoch uint64
	stop  func()
}

func NewQuizEngine(catalog CatalogRepository, sessions SessionRepository, history HistoryRepository, ticker Ticker, opts ...Option) *QuizEngine {
	o := applyOptions(opts)
	return &QuizEngine{
		catalog:     catalog,
		sessions:    sessions,
		history:     history,
		ticker:      ticker,
		log:         o.log.With("component", "quiz_engine"),
		now:         o.now,
		newID:       o.newID,
		subscribers: make(map[chan domain.Event]struct{}),
	}
}

// Catalog lists the quizzes open for attempts.
func (e *QuizEngine) Catalog(ctx context.Context) ([]domain.QuizDefinition, error) {
	quizzes, err := e.catalog.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.QuizDefinition, 0, len(quizzes))
	for _, quiz := range quizzes {
		if quiz.Active {
			active = append(active, quiz)
		}
	}
	return active, nil
}

// Quiz fetches one catalog entry by id.
func (e *QuizEngine) Quiz(ctx context.Context, quizID string) (domain.QuizDefinition, error) {
	return e.catalog.GetQuiz(ctx, quizID)
}

// Current returns the running session, or false when the engine is idle.
func (e *QuizEngine) Current(ctx context.Context) (domain.Session, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return domain.Session{}, false, nil
	}
	session, err := e.loadLocked(ctx)
	if err != nil {
		if e.active == nil {
			return domain.Session{}, false, nil
		}
		return domain.Session{}, false, err
	}
	return session, true, nil
}

// StartQuiz begins an attempt. Only one attempt may run at a time, and only on a quiz
// that the catalog listing shows.
func (e *QuizEngine) StartQuiz(ctx context.Context, quizID string) (domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return domain.Session{}, fmt.Errorf("%w: quiz %q already in progress", domain.ErrInvalidState, e.active.quiz.ID)
	}
	quiz, err := e.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Session{}, err
	}
	if len(quiz.Questions) == 0 {
		return domain.Session{}, fmt.Errorf("%w: quiz %q has no questions", domain.ErrInvalidQuiz, quiz.ID)
	}
	if !quiz.Active {
		return domain.Session{}, fmt.Errorf("%w: quiz %q is not open for attempts", domain.ErrInvalidQuiz, quiz.ID)
	}

	session := domain.Session{
		QuizID:           quiz.ID,
		QuizTitle:        quiz.Title,
		Answers:          map[string]int{},
		RemainingSeconds: quiz.DurationSeconds,
		DurationSeconds:  quiz.DurationSeconds,
		TotalQuestions:   len(quiz.Questions),
		Active:           true,
		StartedAt:        e.now(),
	}
	if err := e.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	e.epoch++
	epoch := e.epoch
	e.active = &activeSession{quiz: quiz, epoch: epoch}
	e.active.stop = e.ticker.Start(func() { e.onTick(epoch) })

	e.log.Info("quiz started", "quiz_id", quiz.ID, "duration_seconds", quiz.DurationSeconds)
	e.broadcastSessionLocked(session)
	return session.Clone(), nil
}

// RecordAnswer stores the selected option for a question; the last answer wins.
func (e *QuizEngine) RecordAnswer(ctx context.Context, questionID string, optionIndex int) (domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return domain.Session{}, fmt.Errorf("%w: no quiz in progress", domain.ErrInvalidState)
	}
	question, ok := e.active.quiz.Question(questionID)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: question %q is not part of quiz %q", domain.ErrInvalidState, questionID, e.active.quiz.ID)
	}
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return domain.Session{}, fmt.Errorf("%w: option %d out of range for question %q", domain.ErrInvalidState, optionIndex, questionID)
	}

	session, err := e.loadLocked(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	session.Answers[questionID] = optionIndex
	if err := e.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	e.broadcastSessionLocked(session)
	return session.Clone(), nil
}

// Tick removes one second from the countdown. When it reaches zero the attempt is submitted
// and the returned result is non-nil.
func (e *QuizEngine) Tick(ctx context.Context) (domain.Session, *domain.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickLocked(ctx)
}

// Submit scores the running attempt, appends it to the history and returns to idle.
// If the history append fails the attempt stays active and unchanged.
func (e *QuizEngine) Submit(ctx context.Context) (domain.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return domain.Result{}, fmt.Errorf("%w: no quiz in progress", domain.ErrInvalidState)
	}
	session, err := e.loadLocked(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	return e.submitLocked(ctx, session)
}

// Reset abandons the running attempt without scoring it.
func (e *QuizEngine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return fmt.Errorf("%w: no quiz in progress", domain.ErrInvalidState)
	}
	quizID := e.active.quiz.ID
	e.endLocked(ctx)
	e.log.Info("quiz reset", "quiz_id", quizID)
	e.broadcastLocked(domain.Event{Type: domain.EventSession})
	return nil
}

// History returns every scored attempt in completion order.
func (e *QuizEngine) History(ctx context.Context) ([]domain.Result, error) {
	return e.history.List(ctx)
}

// Stats recomputes the aggregate statistics from the full history.
func (e *QuizEngine) Stats(ctx context.Context) (domain.Stats, error) {
	results, err := e.history.List(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return Aggregate(results), nil
}

// Subscribe returns a channel that receives an event after every transition.
// The caller must invoke the returned cancel function to avoid leaks.
func (e *QuizEngine) Subscribe(ctx context.Context) (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 8)

	e.mu.Lock()
	initial := domain.Event{Type: domain.EventSession}
	if e.active != nil {
		if session, err := e.loadLocked(ctx); err == nil {
			initial.Session = &session
		} else {
			e.log.Warn("load session for subscriber", "error", err)
		}
	}
	ch <- initial
	e.subscribers[ch] = struct{}{}
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

func (e *QuizEngine) onTick(epoch uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil || e.active.epoch != epoch {
		return
	}
	quizID := e.active.quiz.ID

	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()
	_, result, err := e.tickLocked(ctx)
	if err != nil {
		e.log.Warn("timer tick failed", "quiz_id", quizID, "error", err)
		return
	}
	if result != nil {
		e.log.Info("quiz time expired", "quiz_id", quizID, "score", result.Score)
	}
}

func (e *QuizEngine) tickLocked(ctx context.Context) (domain.Session, *domain.Result, error) {
	if e.active == nil {
		return domain.Session{}, nil, fmt.Errorf("%w: no quiz in progress", domain.ErrInvalidState)
	}
	session, err := e.loadLocked(ctx)
	if err != nil {
		return domain.Session{}, nil, err
	}

	if session.RemainingSeconds > 0 {
		session.RemainingSeconds--
		if err := e.sessions.Save(ctx, session); err != nil {
			return domain.Session{}, nil, fmt.Errorf("save session: %w", err)
		}
	}
	if session.RemainingSeconds > 0 {
		e.broadcastSessionLocked(session)
		return session.Clone(), nil, nil
	}

	result, err := e.submitLocked(ctx, session)
	if err != nil {
		return session.Clone(), nil, err
	}
	return domain.Session{}, &result, nil
}

func (e *QuizEngine) submitLocked(ctx context.Context, session domain.Session) (domain.Result, error) {
	result, err := Score(e.active.quiz, session.Answers, e.now())
	if err != nil {
		return domain.Result{}, err
	}
	result.ID = e.newID()
	if err := e.history.Append(ctx, result); err != nil {
		return domain.Result{}, fmt.Errorf("append history: %w", err)
	}

	e.endLocked(ctx)
	e.log.Info("quiz submitted",
		"quiz_id", result.QuizID,
		"score", result.Score,
		"correct", result.CorrectAnswers,
		"total", result.TotalQuestions,
		"passed", result.Passed(),
	)
	e.broadcastLocked(domain.Event{Type: domain.EventResult, Result: &result})
	return result, nil
}

// endLocked tears down the timer and discards the session.
func (e *QuizEngine) endLocked(ctx context.Context) {
	if e.active.stop != nil {
		e.active.stop()
	}
	e.active = nil
	if err := e.sessions.Clear(ctx); err != nil {
		e.log.Warn("clear session", "error", err)
	}
}

// loadLocked reads the running session. A missing session ends the attempt without scoring.
func (e *QuizEngine) loadLocked(ctx context.Context) (domain.Session, error) {
	session, ok, err := e.sessions.Get(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		// The store lost the attempt (expired or deleted key); nothing is left to resume.
		e.log.Warn("session state missing, ending attempt", "quiz_id", e.active.quiz.ID)
		e.endLocked(ctx)
		e.broadcastLocked(domain.Event{Type: domain.EventSession})
		return domain.Session{}, fmt.Errorf("%w: session state missing", domain.ErrInvalidState)
	}
	if session.Answers == nil {
		session.Answers = map[string]int{}
	}
	return session, nil
}

func (e *QuizEngine) broadcastSessionLocked(session domain.Session) {
	snapshot := session.Clone()
	e.broadcastLocked(domain.Event{Type: domain.EventSession, Session: &snapshot})
}

func (e *QuizEngine) broadcastLocked(ev domain.Event) {
	for ch := range e.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest pending event so a slow subscriber never blocks a transition.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
