package termgrid

import (
	stderrors "errors"
	"strings"
	"testing"

	gridengine "github.com/wippyai/grid-engine"
	"github.com/wippyai/grid-engine/errors"
)

func mustNew(t *testing.T, cols, rows int, cfg *Config) *Surface {
	t.Helper()
	s, err := New(cols, rows, cfg)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", cols, rows, err)
	}
	return s
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cols int
		rows int
	}{
		{"zero columns", 0, 2},
		{"zero rows", 2, 0},
		{"negative columns", -1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cols, tt.rows, nil); err == nil {
				t.Errorf("New(%d, %d) accepted invalid dimensions", tt.cols, tt.rows)
			}
		})
	}
}

func TestApply_RetainsCells(t *testing.T) {
	s := mustNew(t, 3, 2, nil)

	err := s.Apply(gridengine.Patch{
		gridengine.Set(0, "alpha", nil),
		gridengine.Set(4, 42, func() {}),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.cells[0].text != "alpha" || s.cells[0].handler != nil {
		t.Errorf("slot 0 = %+v, want text alpha without handler", s.cells[0])
	}
	if s.cells[4].text != "42" || s.cells[4].handler == nil {
		t.Errorf("slot 4 = %+v, want text 42 with handler", s.cells[4])
	}

	if err := s.Apply(gridengine.Patch{gridengine.Clear(0)}); err != nil {
		t.Fatalf("Apply clear: %v", err)
	}
	if s.cells[0].present {
		t.Error("cleared slot still present")
	}
}

func TestApply_RejectsForeignSlot(t *testing.T) {
	s := mustNew(t, 2, 2, nil)

	err := s.Apply(gridengine.Patch{gridengine.Set(4, "x", nil)})
	if err == nil {
		t.Fatal("Apply accepted slot 4 on a 4-slot surface")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("Apply returned %T, want *errors.Error", err)
	}
	if e.Kind != errors.KindOutOfBounds {
		t.Errorf("error kind = %s, want %s", e.Kind, errors.KindOutOfBounds)
	}
}

func TestApply_RejectsUnknownOp(t *testing.T) {
	s := mustNew(t, 1, 1, nil)

	err := s.Apply(gridengine.Patch{{Kind: gridengine.OpKind(99)}})
	if err == nil {
		t.Fatal("Apply accepted an unknown operation kind")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("Apply returned %T, want *errors.Error", err)
	}
	if e.Kind != errors.KindInvalidData {
		t.Errorf("error kind = %s, want %s", e.Kind, errors.KindInvalidData)
	}
}

type stamp struct{ n int }

func (s stamp) String() string { return "tick" }

func TestRenderValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"int", 7, "7"},
		{"stringer", stamp{3}, "tick"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderValue(tt.value); got != tt.want {
				t.Errorf("renderValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestClick_RoutesToHandler(t *testing.T) {
	s := mustNew(t, 2, 1, nil)

	clicks := 0
	if err := s.Apply(gridengine.Patch{
		gridengine.Set(0, "btn", func() { clicks++ }),
		gridengine.Set(1, "label", nil),
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if !s.Click(0) {
		t.Error("Click(0) reported no handler")
	}
	if clicks != 1 {
		t.Errorf("handler ran %d times, want 1", clicks)
	}
	if s.Click(1) {
		t.Error("Click(1) reported a handler on a plain cell")
	}
	if s.Click(-1) || s.Click(2) {
		t.Error("Click accepted an out-of-range slot")
	}
}

func TestCellAt(t *testing.T) {
	s := mustNew(t, 3, 2, nil) // cell footprint 12x3 with default width

	tests := []struct {
		name string
		x, y int
		slot int
		ok   bool
	}{
		{"origin", 0, 0, 0, true},
		{"inside first cell", 5, 1, 0, true},
		{"second column", 12, 0, 1, true},
		{"second row", 0, 3, 3, true},
		{"last cell", 35, 5, 5, true},
		{"right of grid", 36, 0, 0, false},
		{"below grid", 0, 6, 0, false},
		{"negative", -1, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, ok := s.CellAt(tt.x, tt.y)
			if ok != tt.ok || (ok && slot != tt.slot) {
				t.Errorf("CellAt(%d, %d) = (%d, %v), want (%d, %v)",
					tt.x, tt.y, slot, ok, tt.slot, tt.ok)
			}
		})
	}
}

func TestView_DrawsGrid(t *testing.T) {
	s := mustNew(t, 2, 2, &Config{CellWidth: 6})

	if err := s.Apply(gridengine.Patch{
		gridengine.Set(0, "hi", nil),
		gridengine.Set(3, "overlong text", nil),
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	view := s.View()
	if !strings.Contains(view, "hi") {
		t.Error("view missing cell text")
	}
	if strings.Contains(view, "overlong text") {
		t.Error("view did not truncate long cell text")
	}
	if !strings.Contains(view, "overl…") {
		t.Error("view missing truncated cell text")
	}
	if lines := strings.Count(view, "\n") + 1; lines != 2*cellHeight {
		t.Errorf("view has %d lines, want %d", lines, 2*cellHeight)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"overflowing", 6, "overf…"},
		{"héllo wörld", 6, "héllo…"},
		{"ab", 1, "a"},
		{"", 4, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.text, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestScheduler_BuffersWhileDetached(t *testing.T) {
	sched := NewScheduler()

	ran := 0
	sched.Post(func() { ran++ })
	sched.Post(func() { ran++ })

	if ran != 0 {
		t.Fatal("detached scheduler ran tasks immediately")
	}
	if len(sched.pending) != 2 {
		t.Errorf("pending queue holds %d tasks, want 2", len(sched.pending))
	}
}
