// Package gridengine provides a stateful, incremental rendering engine for
// grid-addressed UI surfaces.
//
// Given a tree of render calls, the engine produces a minimal set of
// add/replace/remove operations ("patches") against a flat slot-indexed
// surface, while giving each node in the tree identity-stable storage for
// local state, mutable references and side-effect lifecycles across repeated
// render passes: the retained-mode core of a hooks-style reconciler.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	gridengine/          Root package with the Patch, Applier and Scheduler vocabulary
//	├── reconcile/       Reconciler, hook engine, path identity, diffing, render guard
//	├── sched/           Single-goroutine task loop implementing Scheduler, with timers
//	├── termgrid/        Terminal display adapter rendering the slot surface
//	└── errors/          Structured error types for the adapter and scheduler boundaries
//
// # Quick Start
//
// Describe the UI as a component function and let the reconciler drive it:
//
//	app := func(ctx *reconcile.Context) {
//	    count := reconcile.UseState(ctx, func() int { return 0 })
//	    ctx.PutClickable(0, 0, fmt.Sprintf("count: %d", count.Get()), func() {
//	        count.Set(count.Get() + 1)
//	    })
//	}
//
//	rec, err := reconcile.New(app, applier, &reconcile.Config{Columns: 8, Rows: 4})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rec.Render()
//	defer rec.Cleanup()
//
// Each Render walks the component tree, compares the new surface contents
// against the previous cycle and hands the applier only the slots that
// changed.
//
// # Component Identity
//
// A component instance is identified by its path: the chain of (cell, key)
// segments from the root to the instance. Hook storage is keyed by
// path-plus-cursor, so a component keeps its state exactly as long as it is
// rendered at the same path with the same hook call order. Conditional or
// reordered hook calls within one path are unsupported and silently corrupt
// cell identity; keep hook calls unconditional and stable.
//
// # Thread Safety
//
// A Reconciler is NOT safe for concurrent use. It is confined to one logical
// render thread; external events (input callbacks, timer completions, async
// work) must reach it through a Scheduler, which sequences tasks with render
// cycles. The sched package provides a ready-made serial loop; the termgrid
// adapter marshals through the bubbletea update loop instead.
package gridengine
