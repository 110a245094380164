package sched

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/grid-engine/errors"
)

// defaultQueueSize is the task buffer of a Serial loop. Posting blocks once
// the buffer is full, applying backpressure to producers.
const defaultQueueSize = 64

// Serial is a single-goroutine task loop: the logical render thread. Tasks
// posted from any goroutine run one at a time on the goroutine that called
// Run, in post order, which sequences them with render cycles.
type Serial struct {
	tasks    chan func()
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSerial creates a serial loop. It accepts tasks immediately; they run
// once Run is called.
func NewSerial() *Serial {
	return &Serial{
		tasks: make(chan func(), defaultQueueSize),
		stop:  make(chan struct{}),
	}
}

// Run executes posted tasks on the calling goroutine until ctx is done or
// Stop is called. It returns ctx.Err() when the context ended the loop, nil
// on Stop.
func (s *Serial) Run(ctx context.Context) error {
	for {
		select {
		case task := <-s.tasks:
			task()
		case <-s.stop:
			return nil
		case <-ctx.Done():
			return errors.Wrap(errors.PhaseSchedule, errors.KindStopped, ctx.Err(), "context ended serial loop")
		}
	}
}

// Post enqueues a task for the loop goroutine. Tasks posted after Stop are
// dropped with a warning; the loop is deliberately fail-soft at teardown.
func (s *Serial) Post(task func()) {
	select {
	case <-s.stop:
		s.dropTask()
		return
	default:
	}
	select {
	case s.tasks <- task:
	case <-s.stop:
		s.dropTask()
	}
}

func (s *Serial) dropTask() {
	Logger().Warn("dropping posted task",
		zap.Error(errors.Stopped(errors.PhaseSchedule, "serial loop")))
}

// Stop ends the loop. Queued tasks that have not run yet are discarded.
// Stop is idempotent and safe to call from any goroutine, including from a
// task running on the loop.
func (s *Serial) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// After runs task on the loop once d has elapsed. The returned cancel
// prevents the task from being posted if it has not fired yet.
func (s *Serial) After(d time.Duration, task func()) (cancel func()) {
	t := time.AfterFunc(d, func() {
		s.Post(task)
	})
	return func() {
		t.Stop()
	}
}

// Every runs task on the loop once per interval until canceled or the loop
// stops. Firings that cannot be delivered in time are dropped by the
// underlying ticker, not queued up.
func (s *Serial) Every(d time.Duration, task func()) (cancel func()) {
	if d <= 0 {
		Logger().Warn("refusing non-positive interval", zap.Duration("interval", d))
		return func() {}
	}
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				s.Post(task)
			case <-done:
				return
			case <-s.stop:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}
