package termgrid

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	gridengine "github.com/wippyai/grid-engine"
	"github.com/wippyai/grid-engine/errors"
)

// defaultCellWidth is the inner text width of one rendered cell.
const defaultCellWidth = 10

// cellHeight is the full rendered height of one cell, border included.
const cellHeight = 3

var (
	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#666666"))

	clickableStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Foreground(lipgloss.Color("#FAFAFA"))

	emptyStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#444444"))
)

// Config holds configuration for surface creation
type Config struct {
	// CellWidth is the inner text width of each cell. 0 means default (10).
	CellWidth int
}

// cell is the retained display state of one slot.
type cell struct {
	text    string
	handler gridengine.ClickHandler
	present bool
}

// Surface is a terminal display adapter for a slot-indexed grid. It
// implements gridengine.Applier: Apply retains each slot's rendered text and
// handler, View draws the grid, and Click routes input to a slot's handler.
//
// A Surface is not safe for concurrent use; like the reconciler it belongs
// to the logical render thread.
type Surface struct {
	cells     []cell
	cols      int
	rows      int
	cellWidth int
}

// New creates a surface with the given grid dimensions.
func New(cols, rows int, cfg *Config) (*Surface, error) {
	if cols <= 0 || rows <= 0 {
		return nil, errors.InvalidInput(errors.PhaseSetup, "surface must have positive dimensions")
	}
	width := defaultCellWidth
	if cfg != nil && cfg.CellWidth > 0 {
		width = cfg.CellWidth
	}
	return &Surface{
		cells:     make([]cell, cols*rows),
		cols:      cols,
		rows:      rows,
		cellWidth: width,
	}, nil
}

// Columns returns the surface width in cells.
func (s *Surface) Columns() int { return s.cols }

// Rows returns the surface height in cells.
func (s *Surface) Rows() int { return s.rows }

// Apply updates the retained cells from a patch, in patch order. Slots
// outside the surface and unknown operation kinds are rejected; the engine
// never emits either, so a foreign patch is the only way to get here.
func (s *Surface) Apply(p gridengine.Patch) error {
	for _, op := range p {
		if op.Slot < 0 || op.Slot >= len(s.cells) {
			return errors.OutOfBounds(errors.PhaseApply, op.Slot, len(s.cells))
		}
		switch op.Kind {
		case gridengine.OpSet:
			s.cells[op.Slot] = cell{
				text:    renderValue(op.Value),
				handler: op.Handler,
				present: true,
			}
		case gridengine.OpClear:
			s.cells[op.Slot] = cell{}
		default:
			return errors.New(errors.PhaseApply, errors.KindInvalidData).
				Value(op.Kind).
				Detail("unknown patch operation %d", op.Kind).
				Build()
		}
	}
	if len(p) > 0 {
		Logger().Debug("applied patch", zap.Int("ops", len(p)))
	}
	return nil
}

// renderValue turns a slot value into display text. Stringer-aware, with
// fmt.Sprint as the fallback.
func renderValue(v any) string {
	if v == nil {
		return ""
	}
	if str, ok := v.(fmt.Stringer); ok {
		return str.String()
	}
	return fmt.Sprint(v)
}

// Click runs the handler of a slot, reporting whether one was present.
// Merged handlers fire in write order inside the single stored closure.
func (s *Surface) Click(slot int) bool {
	if slot < 0 || slot >= len(s.cells) {
		return false
	}
	h := s.cells[slot].handler
	if h == nil {
		return false
	}
	h()
	return true
}

// CellAt maps terminal coordinates (column, line) within the rendered view
// to a slot, for mouse routing. ok is false between cells or off the grid.
func (s *Surface) CellAt(x, y int) (slot int, ok bool) {
	cw := s.cellWidth + 2 // border on both sides
	cx := x / cw
	cy := y / cellHeight
	if x < 0 || y < 0 || cx >= s.cols || cy >= s.rows {
		return 0, false
	}
	return cy*s.cols + cx, true
}

// View renders the grid. Cells with handlers get the clickable border, set
// cells without handlers the plain one, and empty slots a dim placeholder.
func (s *Surface) View() string {
	rows := make([]string, 0, s.rows)
	for y := 0; y < s.rows; y++ {
		cols := make([]string, 0, s.cols)
		for x := 0; x < s.cols; x++ {
			c := s.cells[y*s.cols+x]
			style := emptyStyle
			text := ""
			switch {
			case c.present && c.handler != nil:
				style = clickableStyle
				text = c.text
			case c.present:
				style = cellStyle
				text = c.text
			}
			cols = append(cols, style.Width(s.cellWidth).MaxHeight(cellHeight).Render(truncate(text, s.cellWidth)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func truncate(text string, width int) string {
	r := []rune(text)
	if len(r) <= width {
		return text
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
