package rx

import "fmt"

// EventKind identifies the kind of an Event.
type EventKind int

const (
	// KindNext carries a value.
	KindNext EventKind = iota
	// KindError terminates the stream with an error.
	KindError
	// KindComplete terminates the stream successfully.
	KindComplete
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindError:
		return "error"
	case KindComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Event is a notification delivered to an Observer. Value is set for
// KindNext and Err for KindError.
type Event[T any] struct {
	Kind  EventKind
	Value T
	Err   error
}

// Next returns a KindNext event carrying v.
func Next[T any](v T) Event[T] {
	return Event[T]{Kind: KindNext, Value: v}
}

// Error returns a KindError event carrying err.
func Error[T any](err error) Event[T] {
	return Event[T]{Kind: KindError, Err: err}
}

// Complete returns a KindComplete event.
func Complete[T any]() Event[T] {
	return Event[T]{Kind: KindComplete}
}

// IsTerminal reports whether the event ends the stream.
func (e Event[T]) IsTerminal() bool {
	return e.Kind == KindError || e.Kind == KindComplete
}

// String returns a short description of the event.
func (e Event[T]) String() string {
	switch e.Kind {
	case KindNext:
		return fmt.Sprintf("next(%v)", e.Value)
	case KindError:
		return fmt.Sprintf("error(%v)", e.Err)
	default:
		return e.Kind.String()
	}
}
