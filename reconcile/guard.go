package reconcile

import "time"

// guard is the render-loop circuit breaker. It bounds the number of render
// cycles per window so that an unbounded synchronous re-render loop (an
// effect unconditionally re-setting state every render, say) becomes a
// diagnosable no-op condition instead of a hang.
//
// A window is identified either by a caller-supplied discrete tick id or, by
// default, by a wall-clock window of fixed length. Entering a new window
// resets the render count and the tripped flag. A non-positive threshold
// disables the guard entirely.
type guard struct {
	windowStart time.Time
	threshold   int
	window      time.Duration
	tick        uint64
	count       int
	useTick     bool
	tripped     bool
}

// allow reports whether a render attempt may proceed, and whether this
// attempt is the first threshold crossing of the current window (the one
// occasion a diagnostic should be emitted).
func (g *guard) allow(now time.Time) (ok, firstTrip bool) {
	if g.threshold <= 0 {
		return true, false
	}
	if !g.useTick {
		if g.windowStart.IsZero() || now.Sub(g.windowStart) >= g.window {
			g.windowStart = now
			g.count = 0
			g.tripped = false
		}
	}
	g.count++
	if g.count <= g.threshold {
		return true, false
	}
	first := !g.tripped
	g.tripped = true
	return false, first
}

// setTick switches the guard to discrete window identities. A changed id
// starts a new window; repeating the current id leaves the window as is.
func (g *guard) setTick(id uint64) {
	if !g.useTick || id != g.tick {
		g.tick = id
		g.count = 0
		g.tripped = false
	}
	g.useTick = true
}
