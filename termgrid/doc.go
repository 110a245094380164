// Package termgrid renders a slot-indexed surface in the terminal.
//
// Surface is a gridengine.Applier drawing the grid with lipgloss and routing
// clicks to slot handlers; Scheduler bridges gridengine.Scheduler onto a
// bubbletea program's update loop, making that loop the session's logical
// render thread. The hosting program owns the event loop: it forwards mouse
// clicks to Surface.CellAt/Click, executes TaskMsg tasks, and embeds
// Surface.View in its own view.
//
// See cmd/griddemo for a complete hosting program.
package termgrid
