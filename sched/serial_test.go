package sched

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/grid-engine/errors"
)

func TestSerial_RunsTasksInPostOrder(t *testing.T) {
	s := NewSerial()

	var got []int
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 1; i <= 3; i++ {
		i := i
		s.Post(func() {
			got = append(got, i)
			wg.Done()
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background())
	}()

	wg.Wait()
	s.Stop()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v after Stop, want nil", err)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("tasks ran as %v, want [1 2 3]", got)
	}
}

func TestSerial_TasksRunOnTheLoopGoroutine(t *testing.T) {
	s := NewSerial()

	ran := make(chan struct{})
	var onLoop bool
	s.Post(func() {
		onLoop = true
		close(ran)
	})

	go func() {
		_ = s.Run(context.Background())
	}()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
	if !onLoop {
		t.Error("task did not run")
	}
}

func TestSerial_RunReturnsOnContextEnd(t *testing.T) {
	s := NewSerial()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Run returned nil on context cancel")
		}
		var e *errors.Error
		if !stderrors.As(err, &e) {
			t.Fatalf("Run returned %T, want *errors.Error", err)
		}
		if e.Kind != errors.KindStopped || e.Phase != errors.PhaseSchedule {
			t.Errorf("error classified as %s/%s, want %s/%s",
				e.Phase, e.Kind, errors.PhaseSchedule, errors.KindStopped)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancel")
	}
}

func TestSerial_PostAfterStopIsDropped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	s := NewSerial()
	s.Stop()
	s.Stop() // idempotent

	s.Post(func() {
		t.Error("task posted after stop ran")
	})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run on a stopped loop returned %v, want nil", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("drop logged %d warnings, want 1", len(entries))
	}
	var dropped *errors.Error
	for _, f := range entries[0].Context {
		if err, ok := f.Interface.(error); ok {
			stderrors.As(err, &dropped)
		}
	}
	if dropped == nil || dropped.Kind != errors.KindStopped {
		t.Errorf("drop diagnostic = %+v, want a %s error", dropped, errors.KindStopped)
	}
}

func TestSerial_StopFromTask(t *testing.T) {
	s := NewSerial()
	s.Post(s.Stop)

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v after in-task Stop, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop from its own task")
	}
}

func TestSerial_AfterFiresOnce(t *testing.T) {
	s := NewSerial()
	go func() {
		_ = s.Run(context.Background())
	}()
	defer s.Stop()

	fired := make(chan struct{}, 2)
	s.After(10*time.Millisecond, func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("deferred task never fired")
	}
	select {
	case <-fired:
		t.Error("deferred task fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSerial_AfterCancelPreventsFiring(t *testing.T) {
	s := NewSerial()
	go func() {
		_ = s.Run(context.Background())
	}()
	defer s.Stop()

	cancel := s.After(50*time.Millisecond, func() {
		t.Error("canceled deferred task fired")
	})
	cancel()
	time.Sleep(100 * time.Millisecond)
}

func TestSerial_EveryRepeatsUntilCanceled(t *testing.T) {
	s := NewSerial()
	go func() {
		_ = s.Run(context.Background())
	}()
	defer s.Stop()

	ticks := make(chan struct{}, 16)
	cancel := s.Every(5*time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never arrived", i)
		}
	}
	cancel()
	cancel() // idempotent

	// Drain anything already queued, then expect silence.
	time.Sleep(20 * time.Millisecond)
	for {
		select {
		case <-ticks:
		default:
			goto drained
		}
	}
drained:
	select {
	case <-ticks:
		t.Error("ticker fired after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSerial_EveryRejectsNonPositiveInterval(t *testing.T) {
	s := NewSerial()
	cancel := s.Every(0, func() {
		t.Error("task scheduled with zero interval ran")
	})
	cancel()
}
