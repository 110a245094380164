// Package sched provides the serial task loop backing a reconciler's
// logical render thread.
//
// Serial implements gridengine.Scheduler: Post marshals a task from any
// goroutine onto the single goroutine running the loop, where it executes in
// post order, sequenced with render cycles. After and Every add the timer
// conveniences used by host integrations; both deliver their firings through
// Post, never directly.
//
// A typical session runs the loop on its own goroutine and hands the loop to
// the reconciler as its Scheduler:
//
//	loop := sched.NewSerial()
//	rec, err := reconcile.New(app, applier, &reconcile.Config{
//	    Columns: 8, Rows: 4, Scheduler: loop,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	loop.Post(rec.Render)
//	err = loop.Run(ctx)
package sched
