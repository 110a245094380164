// Package reconcile implements the hooks-style reconciler at the heart of
// grid-engine.
//
// A Reconciler drives render cycles: each cycle walks the component tree
// through a fresh Context, collects the full surface output into a
// slot-indexed snapshot, diffs it against the previous cycle's snapshot, and
// hands the resulting patch to the display applier. Between cycles the
// reconciler retains per-component hook storage, keyed by the component's
// path in the tree.
//
// # Render Cycle
//
// An external trigger calls Render. After re-entrancy, batch and guard
// checks, a fresh Context is built over empty next-output maps and a fresh
// visited-path set, and the root component renders recursively. Each Mount
// extends the path and resets the hook cursors; hooks read and write
// persistent storage keyed by path and cursor. After the walk the reconciler
// computes the unmounted paths, runs their effect cleanups, retains only
// visited storage, diffs next output against previous output into a patch,
// applies it, and commits the next output as the new previous snapshot.
//
// # Hooks
//
// UseState, UseRef and Effect are the stateful primitives; UseTask,
// UseTicker and State.SetAsync are thin asynchronous wrappers that marshal
// completions through the configured Scheduler. Hook identity is the active
// path plus a per-kind cursor, which makes hook call order load-bearing:
// call the same hooks in the same order on every render of a path.
//
// # Guard
//
// The render-loop guard bounds cycles per window (wall-clock by default,
// discrete tick ids via SetTick) so a component that unconditionally
// re-renders becomes one warning and a paused surface instead of a hang.
// With the guard disabled, such a component loops forever; the guard exists
// precisely to make that condition diagnosable.
package reconcile
