package termgrid

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// TaskMsg carries a posted task into the bubbletea update loop. Programs
// hosting a Surface must execute Task when this message arrives.
type TaskMsg struct {
	Task func()
}

// Scheduler implements gridengine.Scheduler on top of a tea.Program: posted
// tasks are delivered as TaskMsg values, so they run on the program's update
// goroutine, the logical render thread of a terminal session.
//
// A Scheduler can be created before the program exists; tasks posted before
// Attach are buffered and flushed on attachment.
type Scheduler struct {
	mu      sync.Mutex
	program *tea.Program
	pending []func()
}

// NewScheduler creates a detached scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Attach binds the scheduler to a running program and flushes any tasks
// posted while detached.
func (s *Scheduler) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, task := range pending {
		p.Send(TaskMsg{Task: task})
	}
}

// Post delivers a task to the program's update loop, buffering it when no
// program is attached yet.
func (s *Scheduler) Post(task func()) {
	s.mu.Lock()
	p := s.program
	if p == nil {
		s.pending = append(s.pending, task)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	p.Send(TaskMsg{Task: task})
}
