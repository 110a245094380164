package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	gridengine "github.com/wippyai/grid-engine"
)

// snap builds a snapshot from a value map, attaching a handler to the slots
// listed in clickable.
func snap(values map[int]any, clickable ...int) *snapshot {
	s := newSnapshot()
	for slot, v := range values {
		s.values[slot] = v
	}
	for _, slot := range clickable {
		s.handlers[slot] = func() {}
	}
	return s
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		prev *snapshot
		next *snapshot
		want []string
	}{
		{
			name: "first cycle emits everything",
			prev: newSnapshot(),
			next: snap(map[int]any{0: "A", 1: "B"}),
			want: []string{"set(0,A)", "set(1,B)"},
		},
		{
			name: "changed value re-sets only its slot",
			prev: snap(map[int]any{0: "A", 1: "B"}),
			next: snap(map[int]any{0: "A", 1: "C"}),
			want: []string{"set(1,C)"},
		},
		{
			name: "removed slot clears",
			prev: snap(map[int]any{0: "A", 1: "B"}),
			next: snap(map[int]any{0: "A"}),
			want: []string{"clear(1)"},
		},
		{
			name: "identical snapshots diff to nothing",
			prev: snap(map[int]any{0: "A", 3: 7}),
			next: snap(map[int]any{0: "A", 3: 7}),
			want: nil,
		},
		{
			name: "handler appearing re-sets the slot",
			prev: snap(map[int]any{0: "A"}),
			next: snap(map[int]any{0: "A"}, 0),
			want: []string{"set(0,A,fn)"},
		},
		{
			name: "handler disappearing re-sets the slot",
			prev: snap(map[int]any{0: "A"}, 0),
			next: snap(map[int]any{0: "A"}),
			want: []string{"set(0,A)"},
		},
		{
			name: "fresh equal handler does not re-set",
			prev: snap(map[int]any{0: "A"}, 0),
			next: snap(map[int]any{0: "A"}, 0),
			want: nil,
		},
		{
			name: "deep values compare structurally",
			prev: snap(map[int]any{0: []int{1, 2}}),
			next: snap(map[int]any{0: []int{1, 2}, 1: []int{3}}),
			want: []string{"set(1,[3])"},
		},
		{
			name: "sets precede clears, slots ascend",
			prev: snap(map[int]any{0: "A", 2: "C", 5: "F"}),
			next: snap(map[int]any{0: "B", 3: "D"}),
			want: []string{"set(0,B)", "set(3,D)", "clear(2)", "clear(5)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := opStrings(diff(tt.prev, tt.next))
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("diff mismatch (-want +got):\n%s", d)
			}
		})
	}
}

// opStrings renders ops individually so go-cmp can point at the exact
// mismatching operation.
func opStrings(p gridengine.Patch) []string {
	if len(p) == 0 {
		return nil
	}
	out := make([]string, len(p))
	for i, op := range p {
		out[i] = gridengine.Patch{op}.String()
		out[i] = out[i][1 : len(out[i])-1] // strip the brackets
	}
	return out
}

func TestSnapshot_WriteMergesHandlers(t *testing.T) {
	s := newSnapshot()
	var order []int
	s.write(3, "a", func() { order = append(order, 1) })
	s.write(3, "b", func() { order = append(order, 2) })
	s.write(3, "c", nil) // value-only rewrite keeps the merged handler

	if s.values[3] != "c" {
		t.Errorf("value = %v, want last write", s.values[3])
	}
	s.handlers[3]()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("merged handler order = %v, want [1 2]", order)
	}
}
