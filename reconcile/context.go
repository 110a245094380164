package reconcile

import (
	"strconv"

	"go.uber.org/zap"

	gridengine "github.com/wippyai/grid-engine"
)

// rootPath is the path of the root component.
const rootPath = "root"

// frame is the mutable per-component state of a Context: the active path,
// the viewport, and the three hook cursors. Mounting a child swaps in a
// fresh frame and restores the parent's frame afterwards.
type frame struct {
	path      string
	originX   int
	originY   int
	width     int
	height    int
	stateCur  int
	refCur    int
	effectCur int
}

// Context is the per-cycle object components render through. It exposes the
// hook operations, child and leaf rendering, and viewport accessors.
//
// A Context is built fresh for each render cycle and must not outlive the
// render call that received it; retaining one past the component function's
// return is a contract violation with undefined results.
type Context struct {
	rec     *Reconciler
	next    *snapshot
	visited map[string]struct{}
	seq     map[string]int
	frame   frame
}

func (ctx *Context) visit(path string) {
	ctx.visited[path] = struct{}{}
}

// Comp is a component: a function describing one subtree of the UI for a
// single render cycle, given its props.
type Comp[P any] func(ctx *Context, props P)

// MountOption configures a single Mount call.
type MountOption func(*mountOptions)

type mountOptions struct {
	key string
}

// WithKey declares the child's identity explicitly. Children mounted with
// the same key at the same cell keep their hook storage across cycles even
// when sibling count or order changes. Without a key, identity falls back to
// a per-cycle positional counter, which is stable only while the child
// count and order stay stable cycle to cycle.
func WithKey(key string) MountOption {
	return func(o *mountOptions) {
		o.key = key
	}
}

// childPath extends the current path with a cell token and a disambiguator:
// the declared key, or the next value of a per-(path, cell) counter that is
// reset every cycle.
func (ctx *Context) childPath(x, y int, key string) string {
	cell := strconv.Itoa(x) + "," + strconv.Itoa(y)
	if key != "" {
		return ctx.frame.path + "/" + cell + "#" + key
	}
	k := ctx.frame.path + "/" + cell
	n := ctx.seq[k]
	ctx.seq[k] = n + 1
	return k + ":" + strconv.Itoa(n)
}

// Mount renders a child component at cell (x, y) of the current viewport.
//
// The child's path extends the parent's, so its hook storage is keyed by
// where in the tree it renders; see WithKey for identity across reordering.
// The child sees a viewport whose origin is offset by (x, y) and whose
// extent is clamped to the parent's remainder. The parent's path is marked
// visited before descending, so every node on the root-to-leaf chain is
// retained even if it draws nothing itself.
func Mount[P any](ctx *Context, x, y int, comp Comp[P], props P, opts ...MountOption) {
	var mo mountOptions
	for _, o := range opts {
		o(&mo)
	}

	ctx.visit(ctx.frame.path)
	child := ctx.childPath(x, y, mo.key)

	saved := ctx.frame
	// A negative offset shifts the origin off the parent's viewport but must
	// not inflate the child's extent; the part hanging off the surface is
	// dropped at write time.
	ctx.frame = frame{
		path:    child,
		originX: saved.originX + x,
		originY: saved.originY + y,
		width:   max(saved.width-max(x, 0), 0),
		height:  max(saved.height-max(y, 0), 0),
	}
	ctx.visit(child)
	comp(ctx, props)
	ctx.frame = saved
}

// Put writes a leaf value at cell (x, y) of the current viewport. Writes
// outside the viewport or the surface are silently dropped.
func (ctx *Context) Put(x, y int, value any) {
	ctx.put(x, y, value, nil)
}

// PutClickable writes a leaf value with an input handler. Re-writing a slot
// in the same cycle overwrites the value but merges the handlers; all merged
// handlers fire in write order, supporting composition of multiple concerns
// over one visual cell.
func (ctx *Context) PutClickable(x, y int, value any, handler gridengine.ClickHandler) {
	ctx.put(x, y, value, handler)
}

func (ctx *Context) put(x, y int, value any, handler gridengine.ClickHandler) {
	if x < 0 || y < 0 || x >= ctx.frame.width || y >= ctx.frame.height {
		if ctx.rec.trace {
			Logger().Debug("dropping out-of-viewport write",
				zap.String("path", ctx.frame.path),
				zap.Int("x", x), zap.Int("y", y))
		}
		return
	}
	gx := ctx.frame.originX + x
	gy := ctx.frame.originY + y
	if gx < 0 || gy < 0 || gx >= ctx.rec.cols || gy >= ctx.rec.rows {
		return
	}
	ctx.next.write(gy*ctx.rec.cols+gx, value, handler)
}

// Origin returns the viewport's top-left position on the surface.
func (ctx *Context) Origin() (x, y int) {
	return ctx.frame.originX, ctx.frame.originY
}

// Width returns the viewport width in cells.
func (ctx *Context) Width() int {
	return ctx.frame.width
}

// Height returns the viewport height in cells.
func (ctx *Context) Height() int {
	return ctx.frame.height
}

// RequestUpdate schedules a re-render without going through a state cell.
func (ctx *Context) RequestUpdate() {
	ctx.rec.requestRender()
}

// Batch delegates to the reconciler's batch primitive: render requests made
// inside fn coalesce into at most one render when the outermost batch
// closes.
func (ctx *Context) Batch(fn func()) {
	ctx.rec.Batch(fn)
}
