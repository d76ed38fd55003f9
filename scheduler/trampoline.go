package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/queue"
)

// DefaultQueueCapacity is the initial trampoline queue capacity.
const DefaultQueueCapacity = 16

// Action is a unit of scheduled work. The returned Disposable cancels
// whatever the action started; nil is treated as nothing to cancel.
type Action func(ctx context.Context) disposable.Disposable

// Scheduler runs actions immediately or defers them.
type Scheduler interface {
	Schedule(ctx context.Context, action Action) disposable.Disposable
}

// Trampoline is an immediate scheduler that flattens recursive scheduling
// into a queue drained by the outermost call.
type Trampoline struct {
	queueCapacity atomic.Int64
}

// CurrentThread is the trampoline used by stream subscriptions.
var CurrentThread = NewTrampoline(DefaultQueueCapacity)

// NewTrampoline creates a trampoline whose queues start at queueCapacity.
func NewTrampoline(queueCapacity int) *Trampoline {
	t := &Trampoline{}
	t.SetQueueCapacity(queueCapacity)
	return t
}

// SetQueueCapacity sets the initial capacity of queues created by later drains.
func (t *Trampoline) SetQueueCapacity(n int) {
	if n < 1 {
		n = 1
	}
	t.queueCapacity.Store(int64(n))
}

// stateKey scopes trampoline state to one Trampoline.
type stateKey struct{ t *Trampoline }

// drainState is the per-logical-thread trampoline state. active and queue
// change together under mu.
type drainState struct {
	mu     sync.Mutex
	active bool
	queue  *queue.Ring[*scheduledItem]
}

func (t *Trampoline) stateFrom(ctx context.Context) (*drainState, bool) {
	st, ok := ctx.Value(stateKey{t}).(*drainState)
	return st, ok
}

// Detach returns a copy of ctx with its own idle trampoline state, so
// work scheduled under it drains on its own instead of queueing behind
// the drain that is running ctx. Blocking callers use it before waiting
// on a subscription.
func (t *Trampoline) Detach(ctx context.Context) context.Context {
	return context.WithValue(ctx, stateKey{t}, &drainState{})
}

// Detach detaches ctx from CurrentThread's active drain.
func Detach(ctx context.Context) context.Context {
	return CurrentThread.Detach(ctx)
}

// IsScheduleRequired reports whether a Schedule call with ctx would start
// a new drain rather than enqueue.
func (t *Trampoline) IsScheduleRequired(ctx context.Context) bool {
	st, ok := t.stateFrom(ctx)
	if !ok {
		return true
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return !st.active
}

// Schedule runs action now when no drain is active for ctx, then drains
// everything it scheduled and returns the action's Disposable. Inside an
// active drain it enqueues action and returns a handle that cancels it
// while it is still pending.
func (t *Trampoline) Schedule(ctx context.Context, action Action) disposable.Disposable {
	st, ok := t.stateFrom(ctx)
	if !ok {
		st = &drainState{}
		ctx = context.WithValue(ctx, stateKey{t}, st)
	}

	st.mu.Lock()
	if st.active {
		if st.queue == nil {
			st.queue = queue.NewRing[*scheduledItem](int(t.queueCapacity.Load()))
		}
		item := newScheduledItem(ctx, action)
		st.queue.Enqueue(item)
		st.mu.Unlock()
		return item
	}
	st.active = true
	st.mu.Unlock()

	return t.run(ctx, st, action)
}

func (t *Trampoline) run(ctx context.Context, st *drainState, action Action) disposable.Disposable {
	drained := false
	defer func() {
		if drained {
			return
		}
		// A panicking action abandons the drain; later work starts fresh.
		st.mu.Lock()
		st.active = false
		st.queue = nil
		st.mu.Unlock()
	}()

	d := action(ctx)
	t.drain(st)
	drained = true

	if d == nil {
		return disposable.Nop
	}
	return d
}

// drain runs queued items until the queue is empty. Seeing the empty queue
// and clearing the active flag happen under one lock, so an item enqueued
// concurrently is either drained here or finds the trampoline idle.
func (t *Trampoline) drain(st *drainState) {
	var invoked, skipped int
	for {
		st.mu.Lock()
		var item *scheduledItem
		ok := false
		if st.queue != nil {
			item, ok = st.queue.Dequeue()
		}
		if !ok {
			st.active = false
			st.queue = nil
			st.mu.Unlock()
			break
		}
		st.mu.Unlock()

		if item.IsDisposed() {
			skipped++
			continue
		}
		item.invoke()
		invoked++
	}

	if invoked+skipped > 0 {
		logger.Get("scheduler").Debug("trampoline drained", logger.Fields(
			"invoked", invoked,
			"skipped", skipped,
		))
	}
}

// ScheduleState schedules action with a state value on s.
func ScheduleState[S any](ctx context.Context, s Scheduler, state S, action func(context.Context, S) disposable.Disposable) disposable.Disposable {
	return s.Schedule(ctx, func(ctx context.Context) disposable.Disposable {
		return action(ctx, state)
	})
}

// scheduledItem is an action waiting in a trampoline queue.
type scheduledItem struct {
	ctx    context.Context
	action Action
	result *disposable.SingleAssignment
}

func newScheduledItem(ctx context.Context, action Action) *scheduledItem {
	return &scheduledItem{
		ctx:    ctx,
		action: action,
		result: disposable.NewSingleAssignment(),
	}
}

func (s *scheduledItem) invoke() {
	s.result.Set(s.action(s.ctx))
}

// Dispose cancels the item if it has not run yet, or disposes what it
// returned if it has.
func (s *scheduledItem) Dispose() { s.result.Dispose() }

// IsDisposed reports whether the item was cancelled.
func (s *scheduledItem) IsDisposed() bool { return s.result.IsDisposed() }
