package main

import (
	"fmt"
	"time"

	"github.com/wippyai/grid-engine/reconcile"
)

// demoHandles exposes stable setters from inside the component tree to the
// hosting program. Hook cells keep their identity across renders, so the
// captured setters stay valid for the session.
type demoHandles struct {
	setTitle func(string)
}

// newDemoApp builds the demo component tree: a title cell, a live clock,
// a row of keyed counter buttons, and a keyed item list with add/remove.
func newDemoApp() (func(*reconcile.Context), *demoHandles) {
	handles := &demoHandles{}

	root := func(ctx *reconcile.Context) {
		title := reconcile.UseState(ctx, func() string { return "grid-engine demo" })
		handles.setTitle = title.Set
		ctx.Put(0, 0, title.Get())

		clock := reconcile.UseTicker(ctx, time.Second)
		if ctx.Width() > 1 {
			ctx.Put(ctx.Width()-1, 0, clock.Get().Format("15:04:05"))
		}

		for i := 0; i < 3 && i < ctx.Width(); i++ {
			reconcile.Mount(ctx, i, 1, counter, i,
				reconcile.WithKey(fmt.Sprintf("counter-%d", i)))
		}

		reconcile.Mount(ctx, 0, 2, itemList, struct{}{})
	}

	return root, handles
}

// counter is a self-contained click-to-increment button.
func counter(ctx *reconcile.Context, seed int) {
	count := reconcile.UseState(ctx, func() int { return seed })
	ctx.PutClickable(0, 0, fmt.Sprintf("count %d", count.Get()), func() {
		count.Set(count.Get() + 1)
	})
}

type itemProps struct {
	name   string
	remove func()
}

// itemList keeps a keyed row of removable items behind an add button. Keys
// make each item's state survive the reordering caused by removals.
func itemList(ctx *reconcile.Context, _ struct{}) {
	items := reconcile.UseState(ctx, func() []string { return []string{"alpha", "beta"} })
	nextID := reconcile.UseRef(ctx, func() int { return 2 })

	ctx.PutClickable(0, 0, "+ add", func() {
		n := nextID.Get()
		nextID.Set(n + 1)
		items.Set(append(items.Get(), fmt.Sprintf("item-%d", n)))
	})

	for i, name := range items.Get() {
		if i+1 >= ctx.Width() {
			break
		}
		reconcile.Mount(ctx, i+1, 0, item, itemProps{
			name:   name,
			remove: removeItem(items, name),
		}, reconcile.WithKey(name))
	}
}

func removeItem(items reconcile.State[[]string], name string) func() {
	return func() {
		current := items.Get()
		kept := make([]string, 0, len(current))
		for _, it := range current {
			if it != name {
				kept = append(kept, it)
			}
		}
		items.Set(kept)
	}
}

// item shows a removable cell plus a click counter of its own, so removal
// visibly resets per-item state only for the removed key.
func item(ctx *reconcile.Context, p itemProps) {
	clicks := reconcile.UseState(ctx, func() int { return 0 })
	ctx.PutClickable(0, 0, fmt.Sprintf("%s ×%d", p.name, clicks.Get()), func() {
		if clicks.Get() >= 2 {
			p.remove()
			return
		}
		clicks.Set(clicks.Get() + 1)
	})
}
