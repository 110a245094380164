package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/grid-engine/reconcile"
	"github.com/wippyai/grid-engine/termgrid"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// headerLines is the number of view lines above the grid, needed to map
// mouse coordinates onto surface cells.
const headerLines = 2

type modelState int

const (
	stateGrid modelState = iota
	stateEditTitle
)

type demoModel struct {
	surface  *termgrid.Surface
	rec      *reconcile.Reconciler
	handles  *demoHandles
	input    textinput.Model
	state    modelState
	eventSeq uint64
}

func newDemoModel(surface *termgrid.Surface, rec *reconcile.Reconciler, handles *demoHandles) *demoModel {
	return &demoModel{
		surface: surface,
		rec:     rec,
		handles: handles,
		state:   stateGrid,
	}
}

func (m *demoModel) Init() tea.Cmd {
	return func() tea.Msg {
		return termgrid.TaskMsg{Task: m.rec.Render}
	}
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Every external event opens a fresh guard window: a runaway component
	// gets bounded per event, not starved forever.
	m.eventSeq++
	m.rec.SetTick(m.eventSeq)

	switch msg := msg.(type) {
	case termgrid.TaskMsg:
		msg.Task()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateEditTitle {
			return m.updateEdit(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.rec.Cleanup()
			return m, tea.Quit

		case "t":
			ti := textinput.New()
			ti.Placeholder = "new title"
			ti.Prompt = "title: "
			ti.Width = 40
			ti.Focus()
			m.input = ti
			m.state = stateEditTitle

		case "r":
			m.rec.Render()
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if slot, ok := m.surface.CellAt(msg.X, msg.Y-headerLines); ok {
				m.surface.Click(slot)
			}
		}
	}

	return m, nil
}

func (m *demoModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if value := strings.TrimSpace(m.input.Value()); value != "" {
			m.handles.setTitle(value)
		}
		m.state = stateGrid
		return m, nil
	case "esc":
		m.state = stateGrid
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *demoModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Grid Engine"))
	b.WriteString("\n\n")
	b.WriteString(m.surface.View())
	b.WriteString("\n")

	switch m.state {
	case stateEditTitle:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	default:
		b.WriteString(helpStyle.Render("click cells • t retitle • r re-render • q quit"))
	}

	return b.String()
}

func runInteractive(cols, rows, guard int, trace bool) error {
	surface, err := termgrid.New(cols, rows, nil)
	if err != nil {
		return err
	}

	scheduler := termgrid.NewScheduler()
	app, handles := newDemoApp()
	rec, err := reconcile.New(app, surface, &reconcile.Config{
		Columns:        cols,
		Rows:           rows,
		GuardThreshold: guard,
		Scheduler:      scheduler,
		Trace:          trace,
	})
	if err != nil {
		return err
	}
	defer rec.Cleanup()

	p := tea.NewProgram(newDemoModel(surface, rec, handles),
		tea.WithAltScreen(), tea.WithMouseCellMotion())
	scheduler.Attach(p)
	_, err = p.Run()
	return err
}
