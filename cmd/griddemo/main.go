package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	gridengine "github.com/wippyai/grid-engine"
	"github.com/wippyai/grid-engine/reconcile"
	"github.com/wippyai/grid-engine/sched"
)

func main() {
	var (
		cols     = flag.Int("cols", 6, "Surface width in cells")
		rows     = flag.Int("rows", 4, "Surface height in cells")
		guard    = flag.Int("guard", 60, "Render-loop guard threshold per window (0 disables)")
		trace    = flag.Bool("trace", false, "Log each render cycle's patch")
		headless = flag.Bool("headless", false, "Print patches instead of drawing a TUI")
		duration = flag.Duration("duration", 5*time.Second, "How long to run in headless mode")
	)
	flag.Parse()

	if *cols <= 0 || *rows <= 0 {
		fmt.Fprintln(os.Stderr, "Usage: griddemo [-cols n] [-rows n] [-guard n] [-trace]")
		fmt.Fprintln(os.Stderr, "       griddemo -headless [-duration 5s]")
		os.Exit(1)
	}

	if *headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runHeadless(*cols, *rows, *guard, *trace, *duration); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runInteractive(*cols, *rows, *guard, *trace); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless drives the demo app on a serial loop and prints every patch,
// for terminals without TUI support and for piping.
func runHeadless(cols, rows, guard int, trace bool, duration time.Duration) error {
	loop := sched.NewSerial()

	applier := gridengine.ApplierFunc(func(p gridengine.Patch) error {
		if !p.Empty() {
			fmt.Println(p)
		}
		return nil
	})

	app, _ := newDemoApp()
	rec, err := reconcile.New(app, applier, &reconcile.Config{
		Columns:        cols,
		Rows:           rows,
		GuardThreshold: guard,
		Scheduler:      loop,
		Trace:          trace,
	})
	if err != nil {
		return err
	}
	defer rec.Cleanup()

	loop.Post(rec.Render)
	cancel := loop.After(duration, loop.Stop)
	defer cancel()

	return loop.Run(context.Background())
}
