package reconcile

import (
	"sort"
	"time"

	"go.uber.org/zap"

	gridengine "github.com/wippyai/grid-engine"
	"github.com/wippyai/grid-engine/errors"
)

// defaultGuardWindow is the wall-clock guard window used when the caller
// supplies neither a window length nor discrete tick ids.
const defaultGuardWindow = time.Second

// Config holds configuration for reconciler creation
type Config struct {
	// Columns and Rows give the surface dimensions in cells. Slots are
	// addressed row-major: slot = y*Columns + x.
	Columns int
	Rows    int

	// GuardThreshold bounds render cycles per guard window. Attempts beyond
	// the threshold abort, leaving all state untouched, with one diagnostic
	// per window. 0 or negative disables the guard.
	GuardThreshold int

	// GuardWindow is the wall-clock length of one guard window. Ignored once
	// SetTick supplies discrete window identities. 0 means default (1s).
	GuardWindow time.Duration

	// Scheduler marshals asynchronous completions (SetAsync, UseTask,
	// UseTicker) onto the render thread. Only required when those are used;
	// without one, asynchronous completions are dropped with a warning.
	Scheduler gridengine.Scheduler

	// Trace enables per-cycle debug logging of patches and visited paths.
	Trace bool
}

// Reconciler drives render cycles for one surface: it owns the hook storage,
// computes the patch between consecutive outputs, and applies it through the
// injected Applier.
//
// A Reconciler is confined to one logical thread. The re-entrancy guard in
// Render protects only against synchronous recursive calls on that thread,
// not cross-thread races; external events must arrive through a Scheduler.
type Reconciler struct {
	applier gridengine.Applier
	sched   gridengine.Scheduler
	root    func(*Context)

	cols  int
	rows  int
	trace bool

	store       map[string]*pathStore
	prev        *snapshot
	prevVisited map[string]struct{}

	rendering     bool
	renderPending bool
	batchDepth    int
	batchDirty    bool

	guard guard
	clock func() time.Time
}

// New creates a reconciler for the given root component and display applier.
// A nil cfg is invalid: the surface needs explicit dimensions.
func New(root func(*Context), applier gridengine.Applier, cfg *Config) (*Reconciler, error) {
	if root == nil {
		return nil, errors.NotInitialized(errors.PhaseSetup, "root component")
	}
	if applier == nil {
		return nil, errors.NotInitialized(errors.PhaseSetup, "applier")
	}
	if cfg == nil || cfg.Columns <= 0 || cfg.Rows <= 0 {
		return nil, errors.InvalidInput(errors.PhaseSetup, "surface must have positive dimensions")
	}

	window := cfg.GuardWindow
	if window <= 0 {
		window = defaultGuardWindow
	}

	return &Reconciler{
		applier:     applier,
		sched:       cfg.Scheduler,
		root:        root,
		cols:        cfg.Columns,
		rows:        cfg.Rows,
		trace:       cfg.Trace,
		store:       make(map[string]*pathStore),
		prev:        newSnapshot(),
		prevVisited: make(map[string]struct{}),
		guard:       guard{threshold: cfg.GuardThreshold, window: window},
		clock:       time.Now,
	}, nil
}

// Columns returns the surface width in cells.
func (r *Reconciler) Columns() int { return r.cols }

// Rows returns the surface height in cells.
func (r *Reconciler) Rows() int { return r.rows }

// SetTick supplies a discrete window identity to the render-loop guard,
// replacing the wall-clock window. A changed id resets the guard's count.
func (r *Reconciler) SetTick(id uint64) {
	r.guard.setTick(id)
}

// Render runs one render cycle (or, when the walk itself requests further
// updates, a guard-bounded run of cycles).
//
// Calling Render while a render is in progress is a no-op; this blocks
// synchronous recursive self-triggering, such as a click handler firing
// mid-walk. Inside a batch, Render only marks the batch dirty.
func (r *Reconciler) Render() {
	if r.rendering {
		return
	}
	if r.batchDepth > 0 {
		r.batchDirty = true
		return
	}
	r.rendering = true
	defer func() {
		r.rendering = false
	}()

	for {
		r.renderPending = false
		if !r.renderOnce() {
			return
		}
		if !r.renderPending {
			return
		}
	}
}

// renderOnce performs a single cycle: guard check, tree walk, unmount
// cleanup, storage retention, diff, apply, commit. It reports false when the
// guard aborted the attempt, leaving all state untouched.
func (r *Reconciler) renderOnce() bool {
	ok, firstTrip := r.guard.allow(r.clock())
	if !ok {
		if firstTrip {
			Logger().Warn("render loop guard tripped, dropping renders for this window",
				zap.Int("threshold", r.guard.threshold),
				zap.Int("count", r.guard.count))
		}
		return false
	}

	ctx := &Context{
		rec:     r,
		next:    newSnapshot(),
		visited: make(map[string]struct{}),
		seq:     make(map[string]int),
		frame:   frame{path: rootPath, width: r.cols, height: r.rows},
	}
	ctx.visit(rootPath)
	r.root(ctx)

	// Unmount: cleanups run before the pruned storage is discarded, within
	// the same cycle, independent of diffing.
	var unmounted []string
	for path := range r.prevVisited {
		if _, ok := ctx.visited[path]; !ok {
			unmounted = append(unmounted, path)
		}
	}
	sort.Strings(unmounted)
	for _, path := range unmounted {
		if st, ok := r.store[path]; ok {
			st.runCleanups()
		}
	}
	for path := range r.store {
		if _, ok := ctx.visited[path]; !ok {
			delete(r.store, path)
		}
	}

	patch := diff(r.prev, ctx.next)
	if r.trace {
		Logger().Debug("render cycle",
			zap.Int("visited", len(ctx.visited)),
			zap.Int("unmounted", len(unmounted)),
			zap.Stringer("patch", patch))
	}
	if err := r.applier.Apply(patch); err != nil {
		// The core stays fail-soft toward the surface; a rejected patch is
		// the applier's problem to surface to the operator.
		Logger().Warn("applier rejected patch", zap.Error(err))
	}

	// Commit unconditionally, empty patch included.
	r.prev = ctx.next
	r.prevVisited = ctx.visited
	return true
}

// requestRender is the path taken by State.Set and Context.RequestUpdate:
// inside a batch it marks the batch dirty, during a render it marks the
// cycle pending, otherwise it renders now.
func (r *Reconciler) requestRender() {
	switch {
	case r.batchDepth > 0:
		r.batchDirty = true
	case r.rendering:
		r.renderPending = true
	default:
		r.Render()
	}
}

// Batch runs fn with render requests coalesced: however many requests arrive
// inside, exactly one render runs when the outermost batch closes, and only
// if at least one request arrived.
func (r *Reconciler) Batch(fn func()) {
	r.BeginBatch()
	defer r.EndBatch()
	fn()
}

// BeginBatch opens a batch scope. Scopes nest; only the outermost close can
// trigger the coalesced render.
func (r *Reconciler) BeginBatch() {
	r.batchDepth++
}

// EndBatch closes a batch scope. An unbalanced call is ignored.
//
// The coalesced render goes through requestRender: a batch closed during a
// walk marks the cycle pending instead of being swallowed by the
// re-entrancy check, and the bounded loop in Render picks it up.
func (r *Reconciler) EndBatch() {
	if r.batchDepth == 0 {
		return
	}
	r.batchDepth--
	if r.batchDepth == 0 && r.batchDirty {
		r.batchDirty = false
		r.requestRender()
	}
}

// Cleanup force-runs every stored effect cleanup across all paths and drops
// all hook storage and snapshots. Intended for whole-session teardown; the
// reconciler remains usable afterwards, starting from an empty surface.
func (r *Reconciler) Cleanup() {
	paths := make([]string, 0, len(r.store))
	for path := range r.store {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		r.store[path].runCleanups()
	}
	r.store = make(map[string]*pathStore)
	r.prev = newSnapshot()
	r.prevVisited = make(map[string]struct{})
}

func (r *Reconciler) storeFor(path string) *pathStore {
	st, ok := r.store[path]
	if !ok {
		st = &pathStore{}
		r.store[path] = st
	}
	return st
}

// post marshals a task onto the render thread through the configured
// scheduler. Without a scheduler the task is dropped: running it on the
// calling goroutine would race the render loop.
func (r *Reconciler) post(task func()) {
	if r.sched == nil {
		Logger().Warn("dropping asynchronous completion: no scheduler configured")
		return
	}
	r.sched.Post(task)
}
