package rx

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/scheduler"
)

// BufferOption configures Buffer.
type BufferOption func(*bufferOptions)

type bufferOptions struct {
	timer            scheduler.Timer
	flushOnTerminate bool
}

// WithTimer sets the timer that closes time windows. The default is
// scheduler.AfterFunc.
func WithTimer(t scheduler.Timer) BufferOption {
	return func(o *bufferOptions) { o.timer = t }
}

// WithFlushOnTerminate emits the partially filled window before a
// Complete. Without it a pending partial window is dropped.
func WithFlushOnTerminate() BufferOption {
	return func(o *bufferOptions) { o.flushOnTerminate = true }
}

// Buffer groups the values of src into windows. A window closes when it
// holds count values or when timespan has passed since it opened,
// whichever comes first; its contents are emitted in arrival order and
// the next window opens at once. A window closed by time may be empty.
//
// timespan <= 0 disables the time trigger and count <= 0 disables the
// count trigger; with both disabled every value is emitted on its own.
// Error and Complete from src are forwarded and cancel the pending timer.
func Buffer[T any](src Observable[T], timespan time.Duration, count int, opts ...BufferOption) Observable[[]T] {
	options := bufferOptions{timer: scheduler.AfterFunc}
	for _, opt := range opts {
		opt(&options)
	}
	if timespan <= 0 && count <= 0 {
		count = 1
	}

	return NewProducer[[]T](RunnerFunc[[]T](func(ctx context.Context, o Observer[[]T], cancel disposable.Cancelable) (disposable.Disposable, disposable.Disposable) {
		sink := &bufferSink[T]{
			Sink:     NewSink(o, cancel),
			ctx:      ctx,
			timespan: timespan,
			count:    count,
			options:  options,
			window:   disposable.NewSerial(),
		}
		sink.buffer = sink.newBuffer()
		return sink, sink.run(src)
	}))
}

// bufferSink owns one window at a time. The window is identified by
// windowID; its timer token lives in window, and a timer firing for an
// older window is ignored.
//
// emitMu serializes flushes and the timer re-arming that follows them,
// since timer callbacks arrive on other goroutines. mu guards the buffered
// state and is the only lock Dispose takes.
type bufferSink[T any] struct {
	*Sink[[]T]
	ctx      context.Context
	timespan time.Duration
	count    int
	options  bufferOptions
	window   *disposable.Serial

	emitMu sync.Mutex

	mu       sync.Mutex
	buffer   []T
	windowID uint64
	done     bool
}

func (s *bufferSink[T]) run(src Observable[T]) disposable.Disposable {
	s.emitMu.Lock()
	s.arm(0)
	s.emitMu.Unlock()
	return src.Subscribe(s.ctx, s)
}

func (s *bufferSink[T]) On(e Event[T]) {
	switch e.Kind {
	case KindNext:
		s.onNext(e.Value)
	case KindError:
		s.terminate(Error[[]T](e.Err))
	case KindComplete:
		s.terminate(Complete[[]T]())
	}
}

func (s *bufferSink[T]) onNext(v T) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.buffer = append(s.buffer, v)
	if s.count <= 0 || len(s.buffer) < s.count {
		s.mu.Unlock()
		return
	}
	window, id := s.closeWindow()
	s.mu.Unlock()

	s.arm(id)
	s.ForwardOn(Next(window))
}

func (s *bufferSink[T]) onTimer(id uint64) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done || id != s.windowID {
		s.mu.Unlock()
		return
	}
	window, next := s.closeWindow()
	s.mu.Unlock()

	logger.Get("rx").WithContext(s.ctx).Debug("buffer window closed by timer", logger.Fields(
		logger.FieldWindowID, id,
		"size", len(window),
	))
	s.arm(next)
	s.ForwardOn(Next(window))
}

func (s *bufferSink[T]) terminate(e Event[[]T]) {
	s.emitMu.Lock()
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		s.emitMu.Unlock()
		return
	}
	s.done = true
	pending := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	s.window.Dispose()
	if e.Kind == KindComplete && s.options.flushOnTerminate && len(pending) > 0 {
		s.ForwardOn(Next(pending))
	}
	s.ForwardOn(e)
	s.emitMu.Unlock()

	s.Dispose()
}

// closeWindow takes the buffered values and opens the next window.
// Callers hold mu.
func (s *bufferSink[T]) closeWindow() ([]T, uint64) {
	window := s.buffer
	s.buffer = s.newBuffer()
	s.windowID++
	return window, s.windowID
}

// arm starts the timer for window id. Callers hold emitMu.
func (s *bufferSink[T]) arm(id uint64) {
	if s.timespan <= 0 {
		return
	}
	token := s.options.timer.ScheduleAfter(s.timespan, func() { s.onTimer(id) })
	s.window.Replace(token)
}

func (s *bufferSink[T]) newBuffer() []T {
	return make([]T, 0, min(max(s.count, 0), 64))
}

// Dispose cancels the pending timer, drops buffered values and disposes
// the subscription.
func (s *bufferSink[T]) Dispose() {
	s.mu.Lock()
	s.done = true
	s.buffer = nil
	s.mu.Unlock()

	s.window.Dispose()
	s.Sink.Dispose()
}
