// Package rx is a push-based reactive stream engine.
//
// An Observable is a lazy producer of Events: nothing happens until
// Subscribe is called, and every Subscribe starts an independent run.
// A stream delivers any number of Next events followed by at most one
// terminal event, Error or Complete. Subscribe returns a Disposable that
// cancels the run; terminal events cancel it too.
//
// # Operators
//
// Operators such as Map and Buffer wrap a source Observable. Each
// subscription builds a chain of sinks, one per operator, and the
// disposal of any link is threaded through to the source by a shared
// Cancelable.
//
//	src := rx.FromSlice([]int{1, 2, 3, 4, 5})
//	doubled := rx.Map(src, func(_ context.Context, v int) (int, error) { return v * 2, nil })
//	windows := rx.Buffer(doubled, time.Second, 2)
//	sub := rx.SubscribeCallbacks(ctx, windows, rx.Callbacks[[]int]{
//	    OnNext: func(w []int) { fmt.Println(w) },
//	})
//	defer sub.Dispose()
//
// # Scheduling
//
// Subscriptions run on scheduler.CurrentThread. The outermost Subscribe
// call runs synchronously; subscriptions made while it runs execute
// without growing the stack. The context passed to Subscribe carries the
// trampoline state and is handed to operator callbacks.
package rx
