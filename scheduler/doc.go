// Package scheduler provides the current-thread trampoline that stream
// subscriptions run on, and the timer capability time-based operators use.
//
// # Trampoline
//
// The first Schedule on a context runs its action immediately, then drains
// every action scheduled while it ran, in FIFO order, before returning.
// Nested Schedule calls only enqueue, so subscriptions composed inside
// subscriptions never grow the call stack.
//
// Trampoline state travels in the context.Context handed to actions; it is
// the logical thread. Work scheduled with a context derived from an action's
// context joins that drain, even from another goroutine. Work scheduled with
// an unrelated context starts its own.
//
//	scheduler.CurrentThread.Schedule(ctx, func(ctx context.Context) disposable.Disposable {
//	    scheduler.CurrentThread.Schedule(ctx, runLater) // queued, runs after this returns
//	    return disposable.Nop
//	})
//
// # Timers
//
// Timer is the delay capability. AfterFunc is backed by time.AfterFunc;
// VirtualTimer advances only when told to and is meant for tests.
package scheduler
