package reconcile

// stateCell is the untyped persistent storage behind a State handle. The cell
// pointer is stable for as long as its path stays mounted.
type stateCell struct {
	rec   *Reconciler
	value any
}

// refCell is the untyped persistent storage behind a Ref handle.
type refCell struct {
	value any
}

// Cleanup undoes an effect. It runs before the effect re-fires and at
// unmount.
type Cleanup func()

// effectRecord holds one effect's last dependency list and pending cleanup.
type effectRecord struct {
	cleanup Cleanup
	deps    []any
	ran     bool
}

// pathStore is the hook storage of a single path. Each hook kind occupies
// its own slice, indexed by that kind's cursor; entries are appended on
// first use and recovered by position on later renders. The whole store is
// dropped when its path is no longer visited.
type pathStore struct {
	states  []*stateCell
	refs    []*refCell
	effects []*effectRecord
}

// runCleanups fires every pending effect cleanup of the path in hook
// declaration order, at most once each.
func (st *pathStore) runCleanups() {
	for _, e := range st.effects {
		if e.cleanup != nil {
			c := e.cleanup
			e.cleanup = nil
			c()
		}
	}
}

// State is a typed handle to a value cell. Setting it schedules a re-render
// (or marks a pending batch dirty). Handles are cheap values; two handles to
// the same cell compare equal.
type State[T any] struct {
	cell *stateCell
}

// Get returns the current value.
func (s State[T]) Get() T {
	return s.cell.value.(T)
}

// Set stores a new value and requests a render. Inside a batch the render is
// deferred until the outermost batch closes; during a render it is deferred
// until the current walk finishes.
func (s State[T]) Set(v T) {
	s.cell.value = v
	s.cell.rec.requestRender()
}

// SetAsync computes the new value on its own goroutine and applies it on the
// render thread via the reconciler's scheduler. It is the primitive behind
// the asynchronous hook variants.
func (s State[T]) SetAsync(work func() T) {
	rec := s.cell.rec
	go func() {
		v := work()
		rec.post(func() {
			s.Set(v)
		})
	}()
}

// Ref is a typed handle to a mutable reference cell. It uses the same
// path+cursor storage as State, but mutation never schedules a render. Use
// it for timers, handles and cached non-visual data.
type Ref[T any] struct {
	cell *refCell
}

// Get returns the current value.
func (r Ref[T]) Get() T {
	return r.cell.value.(T)
}

// Set stores a new value without scheduling a render.
func (r Ref[T]) Set(v T) {
	r.cell.value = v
}
