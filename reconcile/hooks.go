package reconcile

import (
	"context"
	"reflect"
	"time"
)

// Hook call order is load-bearing: a cell's identity is its path plus a
// per-kind sequential cursor, so every render of a given path must invoke
// its hooks in the same order and count. Conditional or early-exit hook
// calls are unsupported; the mismatch is not detected, the wrong cells are
// simply returned. This is a documented precondition, not an enforced one.

// UseState returns the State cell at the current path and state cursor,
// allocating it via init on first use. init runs at most once per
// path+cursor for the path's lifetime.
func UseState[T any](ctx *Context, init func() T) State[T] {
	st := ctx.rec.storeFor(ctx.frame.path)
	i := ctx.frame.stateCur
	ctx.frame.stateCur++
	if i < len(st.states) {
		return State[T]{cell: st.states[i]}
	}
	cell := &stateCell{rec: ctx.rec, value: init()}
	st.states = append(st.states, cell)
	return State[T]{cell: cell}
}

// UseRef returns the Ref cell at the current path and ref cursor, allocating
// it via init on first use. Unlike State, mutating a Ref never schedules a
// render.
func UseRef[T any](ctx *Context, init func() T) Ref[T] {
	st := ctx.rec.storeFor(ctx.frame.path)
	i := ctx.frame.refCur
	ctx.frame.refCur++
	if i < len(st.refs) {
		return Ref[T]{cell: st.refs[i]}
	}
	cell := &refCell{value: init()}
	st.refs = append(st.refs, cell)
	return Ref[T]{cell: cell}
}

// Effect registers a side effect at the current path and effect cursor.
//
// body runs synchronously, within the render call, whenever deps differs
// from the previous render's list (always on first render; nil deps means
// every render). The previous cleanup, if any, runs first. The returned
// cleanup also runs when the path unmounts.
//
// deps elements are compared by value with reflect.DeepEqual. Pass an empty
// non-nil slice to run the effect exactly once for the path's lifetime.
func (ctx *Context) Effect(deps []any, body func() Cleanup) {
	st := ctx.rec.storeFor(ctx.frame.path)
	i := ctx.frame.effectCur
	ctx.frame.effectCur++
	var rec *effectRecord
	if i < len(st.effects) {
		rec = st.effects[i]
	} else {
		rec = &effectRecord{}
		st.effects = append(st.effects, rec)
	}

	if rec.ran && depsEqual(rec.deps, deps) {
		return
	}
	if rec.cleanup != nil {
		c := rec.cleanup
		rec.cleanup = nil
		c()
	}
	rec.cleanup = body()
	rec.deps = deps
	rec.ran = true
}

func depsEqual(a, b []any) bool {
	if a == nil || b == nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// TaskResult holds the progress of one asynchronous unit of work. Done is
// false until the work completes; Err carries its failure, if any.
type TaskResult[T any] struct {
	Value T
	Err   error
	Done  bool
}

// UseTask runs work on its own goroutine whenever deps changes and stores
// the outcome in a state cell once it completes. The completion is marshaled
// through the reconciler's Scheduler before mutating the cell, so it is
// always sequenced with render cycles. Unmounting (or a deps change) cancels
// the work's context; a canceled task never writes its result.
func UseTask[T any](ctx *Context, deps []any, work func(context.Context) (T, error)) State[TaskResult[T]] {
	result := UseState(ctx, func() TaskResult[T] {
		return TaskResult[T]{}
	})
	rec := ctx.rec
	ctx.Effect(deps, func() Cleanup {
		if result.Get().Done {
			result.Set(TaskResult[T]{})
		}
		tctx, cancel := context.WithCancel(context.Background())
		go func() {
			v, err := work(tctx)
			if tctx.Err() != nil {
				return
			}
			rec.post(func() {
				result.Set(TaskResult[T]{Value: v, Err: err, Done: true})
			})
		}()
		return Cleanup(cancel)
	})
	return result
}

// UseTicker returns a state cell updated with the current time every
// interval, re-rendering on each update. The underlying ticker stops when
// the path unmounts or the interval changes.
func UseTicker(ctx *Context, every time.Duration) State[time.Time] {
	now := UseState(ctx, time.Now)
	rec := ctx.rec
	ctx.Effect([]any{every}, func() Cleanup {
		t := time.NewTicker(every)
		done := make(chan struct{})
		go func() {
			for {
				select {
				case tm := <-t.C:
					rec.post(func() {
						now.Set(tm)
					})
				case <-done:
					return
				}
			}
		}()
		return func() {
			t.Stop()
			close(done)
		}
	})
	return now
}
