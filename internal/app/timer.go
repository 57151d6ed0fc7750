package app

import (
	"sync"
	"time"
)

// Ticker drives the session countdown. Start begins calling onTick periodically and
// returns a stop function. Stop must be idempotent and must not wait for an in-flight onTick,
// because the engine calls it while holding its own lock.
type Ticker interface {
	Start(onTick func()) (stop func())
}

// IntervalTicker fires onTick every Interval on its own goroutine.
type IntervalTicker struct {
	Interval time.Duration
}

func NewIntervalTicker(interval time.Duration) IntervalTicker {
	if interval <= 0 {
		interval = time.Second
	}
	return IntervalTicker{Interval: interval}
}

func (t IntervalTicker) Start(onTick func()) func() {
	ticker := time.NewTicker(t.Interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// A tick and a stop can be ready together; stop wins.
				select {
				case <-done:
					return
				default:
				}
				onTick()
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}
