package app

import (
	"time"

	"github.com/google/uuid"

	"nanonerds-quiz-service/internal/logger"
)

// Option customises services built in this package.
type Option func(*options)

type options struct {
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

func defaultOptions() options {
	return options{
		log:   logger.Nop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the structured logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClock allows deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides uuid generation for results, registrations and members.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}
