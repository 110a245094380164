package gridengine

import (
	"fmt"
	"strings"
)

// ClickHandler reacts to input routed to a slot.
type ClickHandler func()

// OpKind discriminates patch operations.
type OpKind uint8

const (
	// OpSet means the slot now shows Value and routes input to Handler.
	OpSet OpKind = iota
	// OpClear means the slot is empty.
	OpClear
)

// Op is one slot-level operation of a Patch.
type Op struct {
	Value   any
	Handler ClickHandler
	Slot    int
	Kind    OpKind
}

// Set builds a replace/add operation for a slot.
func Set(slot int, value any, handler ClickHandler) Op {
	return Op{Kind: OpSet, Slot: slot, Value: value, Handler: handler}
}

// Clear builds a remove operation for a slot.
func Clear(slot int) Op {
	return Op{Kind: OpClear, Slot: slot}
}

// Patch is an ordered list of slot operations derived from two full-surface
// snapshots. It is recomputed every render cycle and never retained.
type Patch []Op

// Empty reports whether the patch contains no operations.
func (p Patch) Empty() bool { return len(p) == 0 }

// String renders a compact human-readable form, for logs and test failures.
func (p Patch) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, op := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch op.Kind {
		case OpSet:
			fmt.Fprintf(&b, "set(%d,%v", op.Slot, op.Value)
			if op.Handler != nil {
				b.WriteString(",fn")
			}
			b.WriteByte(')')
		case OpClear:
			fmt.Fprintf(&b, "clear(%d)", op.Slot)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Applier turns a Patch into visible UI. Implementations must treat a set
// operation as "this slot now shows Value and routes input to Handler" and a
// clear operation as "this slot is empty", applied in the given order.
type Applier interface {
	Apply(p Patch) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(p Patch) error

func (f ApplierFunc) Apply(p Patch) error { return f(p) }

// Scheduler runs tasks on the logical render thread. All state mutation that
// originates off that thread must be marshaled through Post so that it is
// sequenced with render cycles.
type Scheduler interface {
	Post(task func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(task func())

func (f SchedulerFunc) Post(task func()) { f(task) }
