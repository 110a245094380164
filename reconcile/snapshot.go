package reconcile

import (
	"reflect"
	"sort"

	gridengine "github.com/wippyai/grid-engine"
)

// snapshot is one full-surface output: flat slot-indexed value and handler
// maps. Snapshots are the unit of diffing, not the component tree itself.
type snapshot struct {
	values   map[int]any
	handlers map[int]gridengine.ClickHandler
}

func newSnapshot() *snapshot {
	return &snapshot{
		values:   make(map[int]any),
		handlers: make(map[int]gridengine.ClickHandler),
	}
}

// write records a slot value and optional handler. A second write to the same
// slot in one cycle overwrites the value but merges the handlers, so both
// fire in write order.
func (s *snapshot) write(slot int, value any, h gridengine.ClickHandler) {
	s.values[slot] = value
	if h == nil {
		return
	}
	if prev, ok := s.handlers[slot]; ok {
		s.handlers[slot] = func() {
			prev()
			h()
		}
	} else {
		s.handlers[slot] = h
	}
}

// diff computes the minimal patch transforming prev into next.
//
// A slot is re-set when its value differs (reflect.DeepEqual) or when handler
// presence differs. Handler identity beyond presence is not compared: Go
// closures have no stable identity across renders, so handlers must read
// state through hook cells, which are identity-stable. Slots present only in
// prev are cleared. Operations are emitted in ascending slot order, sets
// before clears; the order is stable but not semantically significant.
func diff(prev, next *snapshot) gridengine.Patch {
	var patch gridengine.Patch

	slots := make([]int, 0, len(next.values))
	for slot := range next.values {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	for _, slot := range slots {
		value := next.values[slot]
		handler := next.handlers[slot]
		prevValue, existed := prev.values[slot]
		if existed && reflect.DeepEqual(prevValue, value) {
			_, hadHandler := prev.handlers[slot]
			if hadHandler == (handler != nil) {
				continue
			}
		}
		patch = append(patch, gridengine.Set(slot, value, handler))
	}

	var removed []int
	for slot := range prev.values {
		if _, ok := next.values[slot]; !ok {
			removed = append(removed, slot)
		}
	}
	sort.Ints(removed)
	for _, slot := range removed {
		patch = append(patch, gridengine.Clear(slot))
	}

	return patch
}
